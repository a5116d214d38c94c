package services

import (
	"playgate/internal/core/domain"
)

// EffectiveTier returns the tier that governs entitlement for a playback
// target. An episode that declares its own tier overrides the parent
// content's tier; episode-level monetization takes precedence over
// series-level. Total function, no side effects.
func EffectiveTier(content *domain.Content, episode *domain.Episode) domain.Tier {
	if episode != nil && episode.Access != "" {
		return episode.Access
	}
	if content != nil && content.Access != "" {
		return content.Access
	}
	return domain.TierFree
}
