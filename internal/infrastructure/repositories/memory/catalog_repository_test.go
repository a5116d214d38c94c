package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playgate/internal/core/domain"
)

func TestCatalogGetContentNotFound(t *testing.T) {
	repo := NewMemoryCatalogRepository()

	_, err := repo.GetContent(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestCatalogListSourcesDefaultFirst(t *testing.T) {
	repo := NewMemoryCatalogRepository()
	repo.AddSource(&domain.Source{ID: "src-a", ContentID: "movie-1", Kind: domain.SourceHLS})
	repo.AddSource(&domain.Source{ID: "src-b", ContentID: "movie-1", Kind: domain.SourceMP4, IsDefault: true})
	repo.AddSource(&domain.Source{ID: "src-c", ContentID: "movie-1", Kind: domain.SourceMP4})

	rows, err := repo.ListSourcesForContent(context.Background(), "movie-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.SourceID("src-b"), rows[0].ID)
	assert.Equal(t, domain.SourceID("src-a"), rows[1].ID)
	assert.Equal(t, domain.SourceID("src-c"), rows[2].ID)
}

func TestCatalogEpisodeSourcesAreScoped(t *testing.T) {
	repo := NewMemoryCatalogRepository()
	repo.AddSource(&domain.Source{ID: "src-content", ContentID: "series-1"})
	repo.AddSource(&domain.Source{ID: "src-episode", ContentID: "series-1", EpisodeID: "ep-1"})

	rows, err := repo.ListSourcesForEpisode(context.Background(), "ep-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.SourceID("src-episode"), rows[0].ID)

	rows, err = repo.ListSourcesForContent(context.Background(), "series-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.SourceID("src-content"), rows[0].ID)
}

func TestEntitlementRentalExpiry(t *testing.T) {
	repo := NewMemoryEntitlementRepository()
	ctx := context.Background()
	target := domain.PlaybackTarget{ContentID: "movie-1"}

	ok, err := repo.HasActiveRental(ctx, "acc-1", target)
	require.NoError(t, err)
	assert.False(t, ok)

	repo.GrantRental("acc-1", target, repo.now().Add(time.Hour))
	ok, err = repo.HasActiveRental(ctx, "acc-1", target)
	require.NoError(t, err)
	assert.True(t, ok)

	repo.GrantRental("acc-1", target, repo.now().Add(-time.Minute))
	ok, err = repo.HasActiveRental(ctx, "acc-1", target)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPlanProviderUsesPlanTable(t *testing.T) {
	entitlements := NewMemoryEntitlementRepository()
	entitlements.PutSubscription("acc-vip", domain.SubscriptionStatus{Active: true, Plan: domain.PlanVIP})

	provider := NewConfigPlanProvider(entitlements, map[string]int{"vip": 4, "free": 1}, 2)
	ctx := context.Background()

	plan, cap, err := provider.DeviceCap(ctx, "acc-vip")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanVIP, plan)
	assert.Equal(t, 4, cap)

	// Unknown account falls back to the free plan entry.
	plan, cap, err = provider.DeviceCap(ctx, "acc-unknown")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, plan)
	assert.Equal(t, 1, cap)
}

func TestPlanProviderDefaultCap(t *testing.T) {
	entitlements := NewMemoryEntitlementRepository()
	entitlements.PutSubscription("acc-1", domain.SubscriptionStatus{Active: true, Plan: "legacy"})

	provider := NewConfigPlanProvider(entitlements, map[string]int{"vip": 4}, 2)

	plan, cap, err := provider.DeviceCap(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanName("legacy"), plan)
	assert.Equal(t, 2, cap)
}
