package services

import (
	"testing"

	"playgate/internal/core/domain"
)

func TestEffectiveTier(t *testing.T) {
	tests := []struct {
		name    string
		content *domain.Content
		episode *domain.Episode
		want    domain.Tier
	}{
		{
			name:    "movie uses content tier",
			content: &domain.Content{Access: domain.TierRent},
			want:    domain.TierRent,
		},
		{
			name:    "episode override wins over content tier",
			content: &domain.Content{Access: domain.TierFree},
			episode: &domain.Episode{Access: domain.TierVIP},
			want:    domain.TierVIP,
		},
		{
			name:    "episode without override falls back to content",
			content: &domain.Content{Access: domain.TierVIP},
			episode: &domain.Episode{},
			want:    domain.TierVIP,
		},
		{
			name:    "free episode override on paid series",
			content: &domain.Content{Access: domain.TierVIP},
			episode: &domain.Episode{Access: domain.TierFree},
			want:    domain.TierFree,
		},
		{
			name: "missing tiers default to free",
			want: domain.TierFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveTier(tt.content, tt.episode)
			if got != tt.want {
				t.Errorf("EffectiveTier() = %v, want %v", got, tt.want)
			}
		})
	}
}
