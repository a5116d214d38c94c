package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
	"playgate/pkg/retry"
	"playgate/pkg/tracing"

	"go.uber.org/zap"
)

type playbackService struct {
	catalog        ports.CatalogRepository
	resolver       ports.SourceResolver
	entitlements   ports.EntitlementProvider
	coordinator    ports.SessionCoordinator
	metricsService *MetricsService
	logger         *zap.SugaredLogger

	storeTimeout time.Duration
	retryCfg     retry.Config
}

func NewPlaybackService(
	catalog ports.CatalogRepository,
	resolver ports.SourceResolver,
	entitlements ports.EntitlementProvider,
	coordinator ports.SessionCoordinator,
	metricsService *MetricsService,
	storeTimeout time.Duration,
	logger *zap.SugaredLogger,
) ports.PlaybackService {
	if storeTimeout <= 0 {
		storeTimeout = 3 * time.Second
	}
	return &playbackService{
		catalog:        catalog,
		resolver:       resolver,
		entitlements:   entitlements,
		coordinator:    coordinator,
		metricsService: metricsService,
		logger:         logger,
		storeTimeout:   storeTimeout,
		// One local retry with a short backoff for transient store
		// failures; policy outcomes are values, never retried.
		retryCfg: retry.Config{
			Enabled:      true,
			MaxAttempts:  1,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     200 * time.Millisecond,
			Multiplier:   2.0,
			NonRetryableErrors: []error{
				domain.ErrContentNotFound,
				domain.ErrEpisodeNotFound,
				domain.ErrInvariantViolation,
			},
		},
	}
}

// RequestPlayback composes source resolution, entitlement evaluation and
// device admission into a single decision. Entitlement is checked before
// admission so a denied attempt never occupies a session slot; sources
// come first because an empty catalog makes the rest moot.
func (s *playbackService) RequestPlayback(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID, deviceLabel string, target domain.PlaybackTarget) (*domain.PlaybackDecision, error) {
	ctx, span := tracing.StartPlaybackSpan(ctx, string(accountID), string(deviceID), string(target.ContentID), string(target.EpisodeID))
	defer span.End()

	content, episode, err := s.fetchTarget(ctx, target)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	tier := EffectiveTier(content, episode)

	sources, err := retry.RetryWithResult(ctx, s.retryCfg, func() ([]*domain.Source, error) {
		rctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
		sctx, span := tracing.TraceStoreOperation(rctx, "catalog", "resolve_sources")
		defer span.End()
		return s.resolver.ResolveSources(sctx, target)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			tracing.RecordError(ctx, err)
			return nil, err
		}
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if len(sources) == 0 {
		// Valid terminal outcome: the content exists but has nothing
		// viewable yet.
		return s.decide(&domain.PlaybackDecision{Outcome: domain.PlaybackNoSource}), nil
	}

	decision, err := s.evaluate(ctx, accountID, content, tier, target)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	if !decision.Allowed() {
		// A device slot is never consumed for content the account
		// cannot watch.
		switch decision.Outcome {
		case domain.EntitlementRequireRental:
			return s.decide(&domain.PlaybackDecision{
				Outcome:          domain.PlaybackRequireRental,
				RentalPrice:      decision.RentalPrice,
				RentalPeriodDays: decision.RentalPeriodDays,
			}), nil
		default:
			return s.decide(&domain.PlaybackDecision{Outcome: domain.PlaybackRequireSubscription}), nil
		}
	}

	admit, err := retry.RetryWithResult(ctx, s.retryCfg, func() (domain.AdmitResult, error) {
		actx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
		sctx, span := tracing.TraceStoreOperation(actx, "sessions", "admit")
		defer span.End()
		return s.coordinator.Admit(sctx, accountID, deviceID, deviceLabel)
	})
	if err != nil {
		tracing.RecordError(ctx, err)
		if errors.Is(err, domain.ErrInvariantViolation) || errors.Is(err, domain.ErrEntitlementUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionStoreUnavailable, err)
	}
	if !admit.Admitted() {
		return s.decide(&domain.PlaybackDecision{
			Outcome:  domain.PlaybackDeviceLimit,
			Sessions: admit.Sessions,
		}), nil
	}

	s.logger.Debugw("playback granted",
		"account_id", accountID,
		"device_id", deviceID,
		"content_id", target.ContentID,
		"episode_id", target.EpisodeID,
		"tier", tier,
		"sources", len(sources),
	)
	return s.decide(&domain.PlaybackDecision{
		Outcome: domain.PlaybackPlayable,
		Sources: sources,
		Tier:    tier,
	}), nil
}

func (s *playbackService) fetchTarget(ctx context.Context, target domain.PlaybackTarget) (*domain.Content, *domain.Episode, error) {
	content, err := retry.RetryWithResult(ctx, s.retryCfg, func() (*domain.Content, error) {
		cctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
		sctx, span := tracing.TraceStoreOperation(cctx, "catalog", "get_content")
		defer span.End()
		return s.catalog.GetContent(sctx, target.ContentID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: get content: %v", domain.ErrCatalogUnavailable, err)
	}

	if !target.IsEpisode() {
		return content, nil, nil
	}
	episode, err := retry.RetryWithResult(ctx, s.retryCfg, func() (*domain.Episode, error) {
		ectx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
		sctx, span := tracing.TraceStoreOperation(ectx, "catalog", "get_episode")
		defer span.End()
		return s.catalog.GetEpisode(sctx, target.EpisodeID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEpisodeNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: get episode: %v", domain.ErrCatalogUnavailable, err)
	}
	return content, episode, nil
}

// evaluate fetches the wallet facts immediately before the pure evaluation
// to minimize staleness.
func (s *playbackService) evaluate(ctx context.Context, accountID domain.AccountID, content *domain.Content, tier domain.Tier, target domain.PlaybackTarget) (domain.EntitlementDecision, error) {
	fctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	sub, err := s.entitlements.SubscriptionStatus(fctx, accountID)
	if err != nil {
		return domain.EntitlementDecision{}, fmt.Errorf("%w: subscription status: %v", domain.ErrEntitlementUnavailable, err)
	}
	rental, err := s.entitlements.HasActiveRental(fctx, accountID, target)
	if err != nil {
		return domain.EntitlementDecision{}, fmt.Errorf("%w: rental status: %v", domain.ErrEntitlementUnavailable, err)
	}
	return EvaluateEntitlement(content, tier, sub.Active, rental), nil
}

func (s *playbackService) decide(d *domain.PlaybackDecision) *domain.PlaybackDecision {
	s.metricsService.RecordDecision(d.Outcome)
	return d
}
