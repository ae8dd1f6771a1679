package services

import "github.com/becomingxdev/CrisisCheckTest1/internal/models"

const (
	crisisGuideFallbackText = "I'm experiencing technical difficulties. For immediate life-threatening emergencies, please call 112 right away. I'll try to assist you again shortly."
	factCheckFallbackText   = "I encountered a technical error while analyzing this information. Please verify with official sources and try again."
)

// Fallback returns the fixed reply used whenever the pipeline fails.
func Fallback(kind models.Kind) models.AssistantReply {
	if kind == models.KindFactCheck {
		result := FactCheckFallback()
		return models.AssistantReply{
			Text:      result.Explanation,
			FactCheck: &result,
		}
	}

	return models.AssistantReply{
		Text:         crisisGuideFallbackText,
		QuickActions: DefaultQuickActions(),
	}
}

// FactCheckFallback is also the 500 body of the fact-check endpoint.
func FactCheckFallback() models.FactCheckResult {
	return models.FactCheckResult{
		Verdict:     models.VerdictUnverified,
		Confidence:  0,
		Explanation: factCheckFallbackText,
		Sources:     []string{"Official Government Sources", "Verified News Outlets", "Academic Institutions"},
		KeyPoints:   []string{"Technical analysis unavailable", "Recommend manual verification"},
	}
}
