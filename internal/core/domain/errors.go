package domain

import "errors"

var (
	ErrContentNotFound = errors.New("content not found")
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrSessionNotFound = errors.New("device session not found")
	ErrAccountNotFound = errors.New("account not found")

	// ErrCatalogUnavailable and ErrSessionStoreUnavailable mark transient
	// store failures; the orchestrator retries them once before surfacing.
	ErrCatalogUnavailable      = errors.New("catalog store unavailable")
	ErrSessionStoreUnavailable = errors.New("session store unavailable")
	ErrEntitlementUnavailable  = errors.New("entitlement facts unavailable")

	// ErrInvariantViolation marks a store-consistency bug (e.g. session
	// count above cap after a completed admit). Logged, never corrected.
	ErrInvariantViolation = errors.New("invariant violation")
)
