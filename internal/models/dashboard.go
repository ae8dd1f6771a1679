package models

import "time"

type DashboardUpdate struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
}

type CrisisZone struct {
	ID       string   `json:"id"`
	Location string   `json:"location"`
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
}

type CrisisMap struct {
	ActiveZones []CrisisZone `json:"activeZones"`
}

type DashboardStats struct {
	ActiveIncidents int               `json:"activeIncidents"`
	PeopleAffected  int               `json:"peopleAffected"`
	ReliefCenters   int               `json:"reliefCenters"`
	ResponseRate    float64           `json:"responseRate"`
	TotalVolunteers int               `json:"totalVolunteers"`
	ActiveReports   int               `json:"activeReports"`
	VerifiedFacts   int               `json:"verifiedFacts"`
	SystemStatus    string            `json:"systemStatus"`
	RecentUpdates   []DashboardUpdate `json:"recentUpdates"`
	CrisisMap       CrisisMap         `json:"crisisMap"`
}
