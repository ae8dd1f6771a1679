package models

import (
	"time"
)

const JobReportFactCheck = "report-factcheck"

type Job struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // "report-factcheck"
	ReferenceID string    `json:"reference_id"`
	Attempt     int       `json:"attempt"`
	CreatedAt   time.Time `json:"created_at"`
}

// WebSocket message types
const (
	EventReportCreated     = "report_created"
	EventReportUpdated     = "report_updated"
	EventReportFactChecked = "report_fact_checked"
	EventVolunteerJoined   = "volunteer_registered"
	EventVolunteerUpdated  = "volunteer_updated"
	EventSettingsUpdated   = "settings_updated"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ListResponse and DataResponse are the success envelopes used by the
// dashboard and admin console endpoints.
type ListResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
}

type DataResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data"`
	LastUpdated *time.Time  `json:"lastUpdated,omitempty"`
}
