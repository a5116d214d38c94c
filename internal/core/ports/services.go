package ports

import (
	"context"

	"playgate/internal/core/domain"
)

// SourceResolver produces the ordered candidate source list for a target.
type SourceResolver interface {
	ResolveSources(ctx context.Context, target domain.PlaybackTarget) ([]*domain.Source, error)
}

// SessionCoordinator owns the admission algorithm for device sessions.
type SessionCoordinator interface {
	Admit(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID, deviceLabel string) (domain.AdmitResult, error)
	ListSessions(ctx context.Context, accountID domain.AccountID) ([]*domain.DeviceSession, error)
	SignOutDevice(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error
	SignOutAllDevices(ctx context.Context, accountID domain.AccountID, keep domain.DeviceID) error
}

// PlaybackService is the single entry point exposed to the presentation
// layer.
type PlaybackService interface {
	RequestPlayback(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID, deviceLabel string, target domain.PlaybackTarget) (*domain.PlaybackDecision, error)
}

// AdmissionMetrics receives admission outcomes for export. Implementations
// must be safe for concurrent use.
type AdmissionMetrics interface {
	RecordAdmission(admitted bool)
	SetLiveSessions(plan domain.PlanName, count int)
}
