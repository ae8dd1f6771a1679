package models

import (
	"slices"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind selects which assistant a chat session talks to.
type Kind string

const (
	KindCrisisGuide Kind = "crisis_guide"
	KindFactCheck   Kind = "fact_check"
)

func (k Kind) Valid() bool {
	return k == KindCrisisGuide || k == KindFactCheck
}

// Quick action identifiers rendered as buttons under assistant messages.
const (
	ActionEmergency  = "emergency"
	ActionFire       = "fire"
	ActionMedical    = "medical"
	ActionPolice     = "police"
	ActionShelter    = "shelter"
	ActionEvacuation = "evacuation"
	ActionLocation   = "location"
	ActionWeather    = "weather"
	ActionHospital   = "hospital"
	ActionFirstAid   = "firstaid"
)

type QuickAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Urgent bool   `json:"urgent,omitempty"`
}

// Dial returns the national number an action should call, or "" when the
// action is not a phone call.
func (a QuickAction) Dial() string {
	switch a.Action {
	case ActionEmergency:
		return "112"
	case ActionPolice:
		return "100"
	case ActionFire:
		return "101"
	case ActionMedical:
		return "108"
	}
	return ""
}

type Verdict string

const (
	VerdictTrue       Verdict = "true"
	VerdictFalse      Verdict = "false"
	VerdictMisleading Verdict = "misleading"
	VerdictUnverified Verdict = "unverified"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictMisleading, VerdictUnverified:
		return true
	}
	return false
}

// ContentType is the fact-check input kind. Images arrive as text
// descriptions; uploads are handled by the client.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

type FactCheckResult struct {
	Verdict     Verdict  `json:"verdict"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
	KeyPoints   []string `json:"keyPoints"`
}

// AssistantReply is the structured outcome of one pipeline call.
type AssistantReply struct {
	Text         string
	QuickActions []QuickAction
	FactCheck    *FactCheckResult
}

// Message is a single chat turn. Messages are never mutated after being
// appended to a session.
type Message struct {
	ID           string           `json:"id"`
	Role         Role             `json:"role"`
	Text         string           `json:"text"`
	CreatedAt    time.Time        `json:"createdAt"`
	QuickActions []QuickAction    `json:"quickActions,omitempty"`
	FactCheck    *FactCheckResult `json:"factCheck,omitempty"`
}

type CrisisGuideRequest struct {
	Message string `json:"message"`
}

type CrisisGuideResponse struct {
	Response     string        `json:"response"`
	QuickActions []QuickAction `json:"quickActions"`
}

type FactCheckRequest struct {
	Message string      `json:"message"`
	Type    ContentType `json:"type"`
}

type CreateSessionRequest struct {
	Kind Kind `json:"kind"`
}

type SessionMessageRequest struct {
	Text string `json:"text"`
}

type SessionSnapshot struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Pending  bool      `json:"pending"`
	Messages []Message `json:"messages"`
}

// Clone returns a copy sharing no slices or pointers with r.
func (r FactCheckResult) Clone() FactCheckResult {
	r.Sources = slices.Clone(r.Sources)
	r.KeyPoints = slices.Clone(r.KeyPoints)
	return r
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	m.QuickActions = slices.Clone(m.QuickActions)
	if m.FactCheck != nil {
		fc := m.FactCheck.Clone()
		m.FactCheck = &fc
	}
	return m
}
