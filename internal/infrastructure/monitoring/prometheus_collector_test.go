package monitoring

import (
	"context"
	"testing"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/infrastructure/repositories/memory"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The collector registers on the default registry, so the whole package
// shares one instance.
var collector = NewPrometheusCollector()

func TestCollector_AdmissionAndLiveSessions(t *testing.T) {
	collector.RecordAdmission(true)
	collector.RecordAdmission(true)
	collector.RecordAdmission(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(collector.admissionsTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.admissionsTotal.WithLabelValues("blocked")))

	collector.SetLiveSessions(domain.PlanVIP, 4)
	assert.Equal(t, float64(4), testutil.ToFloat64(collector.liveSessions.WithLabelValues(string(domain.PlanVIP))))

	collector.SetLiveSessions(domain.PlanVIP, 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(collector.liveSessions.WithLabelValues(string(domain.PlanVIP))))
}

func TestCollector_DecisionAndViolationCounters(t *testing.T) {
	collector.RecordDecision(domain.PlaybackPlayable, 10*time.Millisecond)
	collector.RecordDecision(domain.PlaybackNoSource, 5*time.Millisecond)
	collector.RecordEviction()
	collector.RecordInvariantViolation()

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.playbackDecisionsTotal.WithLabelValues(string(domain.PlaybackPlayable))))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.playbackDecisionsTotal.WithLabelValues(string(domain.PlaybackNoSource))))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.evictionsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.invariantViolations))
}

func TestInstrumentedSessionRepository_TimesEveryOperation(t *testing.T) {
	ctx := context.Background()
	repo := InstrumentSessionRepository(memory.NewMemorySessionRepository(), collector, "memory")

	session := &domain.DeviceSession{
		AccountID:   "acc-metrics",
		DeviceID:    "dev-1",
		DeviceLabel: "Living Room TV",
		CreatedAt:   time.Now().UTC(),
		LastSeenAt:  time.Now().UTC(),
	}

	status, err := repo.AdmitOrRefresh(ctx, session, 2)
	require.NoError(t, err)
	require.Equal(t, domain.AdmitAccepted, status)

	_, err = repo.Get(ctx, "acc-metrics", "dev-1")
	require.NoError(t, err)

	sessions, err := repo.ListByAccount(ctx, "acc-metrics")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	count, err := repo.CountByAccount(ctx, "acc-metrics")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, "acc-metrics", "dev-1"))
	require.NoError(t, repo.DeleteAllExcept(ctx, "acc-metrics", ""))

	// One histogram series per operation label.
	assert.Equal(t, 6, testutil.CollectAndCount(collector.storeOperationDuration))
}
