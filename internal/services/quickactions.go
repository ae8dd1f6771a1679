package services

import (
	"strings"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

type keywordRule struct {
	keywords []string
	action   models.QuickAction
}

// quickActionRules are evaluated in order and every matching rule
// contributes its action, so overlapping texts produce several buttons.
var quickActionRules = []keywordRule{
	{
		keywords: []string{"call", "emergency", "112"},
		action:   models.QuickAction{Label: "Call Emergency: 112", Action: models.ActionEmergency, Urgent: true},
	},
	{
		keywords: []string{"fire", "101"},
		action:   models.QuickAction{Label: "Fire Emergency: 101", Action: models.ActionFire, Urgent: true},
	},
	{
		keywords: []string{"medical", "ambulance", "108"},
		action:   models.QuickAction{Label: "Ambulance: 108", Action: models.ActionMedical, Urgent: true},
	},
	{
		keywords: []string{"police", "100"},
		action:   models.QuickAction{Label: "Police: 100", Action: models.ActionPolice, Urgent: true},
	},
	{
		keywords: []string{"shelter", "evacuation"},
		action:   models.QuickAction{Label: "Find Shelter", Action: models.ActionShelter},
	},
}

// ClassifyQuickActions derives the action buttons for a generated crisis
// guidance text. It never returns an empty slice.
func ClassifyQuickActions(text string) []models.QuickAction {
	lower := strings.ToLower(text)

	var actions []models.QuickAction
	for _, rule := range quickActionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				actions = append(actions, rule.action)
				break
			}
		}
	}

	if len(actions) == 0 {
		return DefaultQuickActions()
	}
	return actions
}

// DefaultQuickActions is used when nothing in a reply matched and by the
// crisis guide fallback.
func DefaultQuickActions() []models.QuickAction {
	return []models.QuickAction{
		{Label: "Emergency: 112", Action: models.ActionEmergency, Urgent: true},
		{Label: "Medical: 108", Action: models.ActionMedical, Urgent: true},
	}
}

// QuickStart is a canned opening question for the crisis guide.
type QuickStart struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

func QuickStarts() []QuickStart {
	return []QuickStart{
		{Label: "Earthquake Safety", Query: "What to do during earthquake?"},
		{Label: "Flood Emergency", Query: "Help with flooding situation"},
		{Label: "Cyclone Preparation", Query: "Cyclone safety measures"},
		{Label: "Fire Emergency", Query: "Fire safety and evacuation"},
		{Label: "Medical Emergency", Query: "Medical emergency help"},
		{Label: "General Safety", Query: "General emergency safety tips"},
	}
}
