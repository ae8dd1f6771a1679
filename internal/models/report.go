package models

import "time"

type ReportType string

const (
	ReportCrisis         ReportType = "crisis"
	ReportDisinformation ReportType = "disinformation"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusVerified  = "verified"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type CrisisReport struct {
	ID          string           `json:"id"`
	Type        ReportType       `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	ReportedBy  string           `json:"reportedBy"`
	Category    string           `json:"category"`
	Severity    Severity         `json:"severity"`
	Status      string           `json:"status"`
	ReportedAt  time.Time        `json:"reportedAt"`
	FactCheck   *FactCheckResult `json:"factCheck,omitempty"`
}

type CreateReportRequest struct {
	Type        ReportType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	ReportedBy  string     `json:"reportedBy"`
	Category    string     `json:"category"`
	Severity    Severity   `json:"severity"`
}

// ReportFilter values are exact matches; "" and "all" disable a filter.
type ReportFilter struct {
	Type     string
	Status   string
	Severity string
}

type UpdateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
