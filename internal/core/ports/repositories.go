package ports

import (
	"context"

	"playgate/internal/core/domain"
)

// CatalogRepository is the read side of the external content catalog.
type CatalogRepository interface {
	GetContent(ctx context.Context, id domain.ContentID) (*domain.Content, error)
	GetEpisode(ctx context.Context, id domain.EpisodeID) (*domain.Episode, error)
	// ListSourcesForContent returns explicit source rows keyed to the
	// content, default-flagged rows first, then insertion order.
	ListSourcesForContent(ctx context.Context, id domain.ContentID) ([]*domain.Source, error)
	ListSourcesForEpisode(ctx context.Context, id domain.EpisodeID) ([]*domain.Source, error)
}

// EntitlementProvider exposes the wallet/subscription facts consumed by
// the evaluator. Values are time-sensitive and fetched per request.
type EntitlementProvider interface {
	SubscriptionStatus(ctx context.Context, accountID domain.AccountID) (domain.SubscriptionStatus, error)
	HasActiveRental(ctx context.Context, accountID domain.AccountID, target domain.PlaybackTarget) (bool, error)
}

// SessionRepository is a durable (accountID, deviceID) -> session mapping
// supporting an atomic conditional insert and count-by-account.
type SessionRepository interface {
	// AdmitOrRefresh is the single atomic unit behind admission: if a
	// session for the device exists it is refreshed and admitted; else it
	// is created only when the live count is below cap. The count check
	// and the insert must not be separable by a concurrent caller.
	AdmitOrRefresh(ctx context.Context, session *domain.DeviceSession, cap int) (domain.AdmitStatus, error)
	Get(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) (*domain.DeviceSession, error)
	ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.DeviceSession, error)
	CountByAccount(ctx context.Context, accountID domain.AccountID) (int, error)
	// Delete is idempotent; deleting an absent session is not an error.
	Delete(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error
	// DeleteAllExcept removes every session for the account, preserving
	// keep when non-empty.
	DeleteAllExcept(ctx context.Context, accountID domain.AccountID, keep domain.DeviceID) error
}

// PlanProvider supplies the per-account device cap. The cap is plan
// dependent and configured externally; the coordinator never hard-codes it.
// The resolved plan name comes back with the cap so admission metrics can
// be labeled without a second facts lookup.
type PlanProvider interface {
	DeviceCap(ctx context.Context, accountID domain.AccountID) (domain.PlanName, int, error)
}
