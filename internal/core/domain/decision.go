package domain

// EntitlementOutcome classifies what an account may do with a target.
type EntitlementOutcome string

const (
	EntitlementAllow               EntitlementOutcome = "allow"
	EntitlementRequireRental       EntitlementOutcome = "require_rental"
	EntitlementRequireSubscription EntitlementOutcome = "require_subscription"
	EntitlementDeny                EntitlementOutcome = "deny"
)

// EntitlementDecision is derived per request, never stored.
type EntitlementDecision struct {
	Outcome          EntitlementOutcome `json:"outcome"`
	RentalPrice      float64            `json:"rental_price,omitempty"`
	RentalPeriodDays int                `json:"rental_period_days,omitempty"`
}

func (d EntitlementDecision) Allowed() bool {
	return d.Outcome == EntitlementAllow
}

// AdmitStatus is the result of a device-session admission attempt.
type AdmitStatus string

const (
	AdmitAccepted AdmitStatus = "admitted"
	AdmitBlocked  AdmitStatus = "blocked"
)

// AdmitResult carries the full session list on BLOCKED so the caller can
// offer eviction choices. Eviction is never implicit.
type AdmitResult struct {
	Status   AdmitStatus      `json:"status"`
	Sessions []*DeviceSession `json:"sessions,omitempty"`
}

func (r AdmitResult) Admitted() bool {
	return r.Status == AdmitAccepted
}

// PlaybackOutcome tags the single decision returned to the presentation
// layer for a playback request.
type PlaybackOutcome string

const (
	PlaybackPlayable            PlaybackOutcome = "playable"
	PlaybackRequireRental       PlaybackOutcome = "require_rental"
	PlaybackRequireSubscription PlaybackOutcome = "require_subscription"
	PlaybackNoSource            PlaybackOutcome = "no_source_available"
	PlaybackDeviceLimit         PlaybackOutcome = "device_limit_reached"
)

type PlaybackDecision struct {
	Outcome PlaybackOutcome `json:"outcome"`

	// Playable only.
	Sources []*Source `json:"sources,omitempty"`
	Tier    Tier      `json:"tier,omitempty"`

	// RequireRental only.
	RentalPrice      float64 `json:"rental_price,omitempty"`
	RentalPeriodDays int     `json:"rental_period_days,omitempty"`

	// DeviceLimitReached only.
	Sessions []*DeviceSession `json:"sessions,omitempty"`
}
