package monitoring

import (
	"context"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
)

// InstrumentedSessionRepository decorates a SessionRepository with
// per-operation latency recording. The store label names the backing
// store so memory and Redis series stay separable.
type InstrumentedSessionRepository struct {
	next      ports.SessionRepository
	collector *PrometheusCollector
	store     string
}

// InstrumentSessionRepository wraps repo so every call is timed into
// the collector's store-operation histogram.
func InstrumentSessionRepository(repo ports.SessionRepository, collector *PrometheusCollector, store string) *InstrumentedSessionRepository {
	return &InstrumentedSessionRepository{
		next:      repo,
		collector: collector,
		store:     store,
	}
}

func (r *InstrumentedSessionRepository) observe(operation string, start time.Time) {
	r.collector.RecordStoreOperation(r.store, operation, time.Since(start))
}

func (r *InstrumentedSessionRepository) AdmitOrRefresh(ctx context.Context, session *domain.DeviceSession, cap int) (domain.AdmitStatus, error) {
	defer r.observe("admit_or_refresh", time.Now())
	return r.next.AdmitOrRefresh(ctx, session, cap)
}

func (r *InstrumentedSessionRepository) Get(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) (*domain.DeviceSession, error) {
	defer r.observe("get", time.Now())
	return r.next.Get(ctx, accountID, deviceID)
}

func (r *InstrumentedSessionRepository) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.DeviceSession, error) {
	defer r.observe("list_by_account", time.Now())
	return r.next.ListByAccount(ctx, accountID)
}

func (r *InstrumentedSessionRepository) CountByAccount(ctx context.Context, accountID domain.AccountID) (int, error) {
	defer r.observe("count_by_account", time.Now())
	return r.next.CountByAccount(ctx, accountID)
}

func (r *InstrumentedSessionRepository) Delete(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error {
	defer r.observe("delete", time.Now())
	return r.next.Delete(ctx, accountID, deviceID)
}

func (r *InstrumentedSessionRepository) DeleteAllExcept(ctx context.Context, accountID domain.AccountID, keep domain.DeviceID) error {
	defer r.observe("delete_all_except", time.Now())
	return r.next.DeleteAllExcept(ctx, accountID, keep)
}
