package services

import (
	"context"
	"fmt"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"

	"go.uber.org/zap"
)

type sessionCoordinator struct {
	sessions       ports.SessionRepository
	plans          ports.PlanProvider
	metricsService *MetricsService
	collector      ports.AdmissionMetrics
	logger         *zap.SugaredLogger
}

// NewSessionCoordinator builds the coordinator. collector may be nil when
// no exporter is mounted.
func NewSessionCoordinator(
	sessions ports.SessionRepository,
	plans ports.PlanProvider,
	metricsService *MetricsService,
	collector ports.AdmissionMetrics,
	logger *zap.SugaredLogger,
) ports.SessionCoordinator {
	return &sessionCoordinator{
		sessions:       sessions,
		plans:          plans,
		metricsService: metricsService,
		collector:      collector,
		logger:         logger,
	}
}

// Admit accepts or rejects a playback attempt from a device against the
// account's cap. A device re-requesting playback never counts twice: the
// existing session is refreshed in place. At cap, the result is BLOCKED
// with the current session list; eviction stays an explicit, separate
// operation so an actively watching device is never kicked silently.
func (c *sessionCoordinator) Admit(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID, deviceLabel string) (domain.AdmitResult, error) {
	// The cap comes from the entitlement facts, so its failure is an
	// entitlement outage, not a session-store one.
	plan, cap, err := c.plans.DeviceCap(ctx, accountID)
	if err != nil {
		return domain.AdmitResult{}, fmt.Errorf("%w: resolve device cap: %v", domain.ErrEntitlementUnavailable, err)
	}

	now := time.Now().UTC()
	session := &domain.DeviceSession{
		AccountID:   accountID,
		DeviceID:    deviceID,
		DeviceLabel: deviceLabel,
		CreatedAt:   now,
		LastSeenAt:  now,
	}

	// The repository performs refresh-or-guarded-insert as one atomic
	// unit; two concurrent admits cannot both pass the count check.
	status, err := c.sessions.AdmitOrRefresh(ctx, session, cap)
	if err != nil {
		return domain.AdmitResult{}, fmt.Errorf("%w: admit: %v", domain.ErrSessionStoreUnavailable, err)
	}

	if status == domain.AdmitBlocked {
		list, err := c.sessions.ListByAccount(ctx, accountID)
		if err != nil {
			return domain.AdmitResult{}, fmt.Errorf("%w: list sessions: %v", domain.ErrSessionStoreUnavailable, err)
		}
		c.metricsService.RecordAdmission(accountID, false)
		if c.collector != nil {
			c.collector.RecordAdmission(false)
		}
		c.logger.Infow("device admission blocked",
			"account_id", accountID,
			"device_id", deviceID,
			"cap", cap,
		)
		return domain.AdmitResult{Status: domain.AdmitBlocked, Sessions: list}, nil
	}

	count, err := c.sessions.CountByAccount(ctx, accountID)
	if err != nil {
		return domain.AdmitResult{}, fmt.Errorf("%w: count sessions: %v", domain.ErrSessionStoreUnavailable, err)
	}
	if count > cap {
		// Store-consistency bug, not a policy outcome.
		c.logger.Errorw("session count exceeds device cap after admit",
			"account_id", accountID,
			"count", count,
			"cap", cap,
		)
		return domain.AdmitResult{}, fmt.Errorf("%w: %d sessions for cap %d", domain.ErrInvariantViolation, count, cap)
	}

	c.metricsService.RecordAdmission(accountID, true)
	c.metricsService.SetSessionCount(accountID, count)
	if c.collector != nil {
		c.collector.RecordAdmission(true)
		c.collector.SetLiveSessions(plan, count)
	}
	return domain.AdmitResult{Status: domain.AdmitAccepted}, nil
}

func (c *sessionCoordinator) ListSessions(ctx context.Context, accountID domain.AccountID) ([]*domain.DeviceSession, error) {
	list, err := c.sessions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrSessionStoreUnavailable, err)
	}
	return list, nil
}

// SignOutDevice deletes the device's session if present. Idempotent.
func (c *sessionCoordinator) SignOutDevice(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error {
	if err := c.sessions.Delete(ctx, accountID, deviceID); err != nil {
		return fmt.Errorf("%w: delete session: %v", domain.ErrSessionStoreUnavailable, err)
	}
	c.logger.Infow("device signed out",
		"account_id", accountID,
		"device_id", deviceID,
	)
	return nil
}

// SignOutAllDevices deletes every session for the account. A non-empty
// keep preserves the caller's own device so capacity can be reclaimed
// without dropping the caller's stream; the exclusion is always explicit.
func (c *sessionCoordinator) SignOutAllDevices(ctx context.Context, accountID domain.AccountID, keep domain.DeviceID) error {
	if err := c.sessions.DeleteAllExcept(ctx, accountID, keep); err != nil {
		return fmt.Errorf("%w: delete sessions: %v", domain.ErrSessionStoreUnavailable, err)
	}
	c.logger.Infow("all devices signed out",
		"account_id", accountID,
		"kept_device", keep,
	)
	return nil
}
