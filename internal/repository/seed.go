package repository

import (
	"time"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedReports is the demo data the memory store starts with. The seed
// migration inserts the same rows.
func SeedReports() []models.CrisisReport {
	return []models.CrisisReport{
		{
			ID:          "1",
			Type:        models.ReportCrisis,
			Title:       "Flooding in Coastal Areas",
			Description: "Heavy rainfall causing severe flooding in multiple coastal districts. Roads blocked, power outages reported.",
			Location:    "Chennai, Tamil Nadu",
			ReportedBy:  "Local Resident",
			ReportedAt:  mustTime("2024-03-15T10:30:00Z"),
			Status:      models.ReportStatusPending,
			Severity:    models.SeverityHigh,
			Category:    "Natural Disaster",
		},
		{
			ID:          "2",
			Type:        models.ReportDisinformation,
			Title:       "False Vaccine Information",
			Description: "Viral social media post spreading false information about vaccine side effects.",
			Location:    "Mumbai, Maharashtra",
			ReportedBy:  "Health Worker",
			ReportedAt:  mustTime("2024-03-14T15:45:00Z"),
			Status:      models.ReportStatusVerified,
			Severity:    models.SeverityMedium,
			Category:    "Health Misinformation",
		},
		{
			ID:          "3",
			Type:        models.ReportCrisis,
			Title:       "Building Collapse",
			Description: "Old residential building collapsed due to structural failure. Rescue operations ongoing.",
			Location:    "Delhi, NCR",
			ReportedBy:  "Emergency Services",
			ReportedAt:  mustTime("2024-03-13T08:20:00Z"),
			Status:      models.ReportStatusVerified,
			Severity:    models.SeverityCritical,
			Category:    "Infrastructure",
		},
	}
}

func SeedVolunteers() []models.Volunteer {
	return []models.Volunteer{
		{
			ID:           "1",
			Name:         "Dr. Sarah Kumar",
			Email:        "sarah.kumar@email.com",
			Phone:        "+91 98765 43210",
			Skills:       []string{"Medical Aid", "Emergency Response"},
			Location:     "Mumbai, Maharashtra",
			Availability: "Weekends",
			Status:       models.VolunteerStatusActive,
			JoinDate:     "2024-01-15",
		},
		{
			ID:           "2",
			Name:         "Rajesh Patel",
			Email:        "rajesh.patel@email.com",
			Phone:        "+91 87654 32109",
			Skills:       []string{"Search & Rescue", "First Aid"},
			Location:     "Ahmedabad, Gujarat",
			Availability: "Full-time",
			Status:       models.VolunteerStatusActive,
			JoinDate:     "2024-02-20",
		},
		{
			ID:           "3",
			Name:         "Priya Sharma",
			Email:        "priya.sharma@email.com",
			Phone:        "+91 76543 21098",
			Skills:       []string{"Communication", "Coordination"},
			Location:     "Delhi, NCR",
			Availability: "Evenings",
			Status:       models.VolunteerStatusPending,
			JoinDate:     "2024-03-10",
		},
	}
}

func SeedSettings() models.SiteSettings {
	return models.SiteSettings{
		BannerText: "🚨 Emergency Alert: Stay informed with verified updates",
		QuickLinks: []models.QuickLink{
			{ID: "1", Title: "Emergency Contacts", URL: "/emergency-contacts"},
			{ID: "2", Title: "Evacuation Routes", URL: "/evacuation-routes"},
			{ID: "3", Title: "Safety Guidelines", URL: "/safety-guidelines"},
		},
	}
}

// DashboardBaseline holds the headline figures the dashboard varies
// around. Report and volunteer counts are replaced with live values.
func DashboardBaseline() models.DashboardStats {
	return models.DashboardStats{
		ActiveIncidents: 23,
		PeopleAffected:  15420,
		ReliefCenters:   45,
		ResponseRate:    94.2,
		TotalVolunteers: 247,
		ActiveReports:   23,
		VerifiedFacts:   1429,
		SystemStatus:    "online",
		RecentUpdates: []models.DashboardUpdate{
			{ID: "1", Type: "crisis", Title: "Flooding in Chennai - Relief Operations Ongoing", Timestamp: mustTime("2024-03-15T14:30:00Z"), Severity: models.SeverityHigh},
			{ID: "2", Type: "verification", Title: "False Information About Vaccine Side Effects - Debunked", Timestamp: mustTime("2024-03-15T13:45:00Z"), Severity: models.SeverityMedium},
			{ID: "3", Type: "resource", Title: "New Relief Center Established in Delhi", Timestamp: mustTime("2024-03-15T12:20:00Z"), Severity: models.SeverityLow},
		},
		CrisisMap: models.CrisisMap{
			ActiveZones: []models.CrisisZone{
				{ID: "1", Location: "Chennai, Tamil Nadu", Type: "flood", Severity: models.SeverityHigh},
				{ID: "2", Location: "Mumbai, Maharashtra", Type: "misinformation", Severity: models.SeverityMedium},
				{ID: "3", Location: "Delhi, NCR", Type: "infrastructure", Severity: models.SeverityCritical},
			},
		},
	}
}
