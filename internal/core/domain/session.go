package domain

import "time"

type AccountID string
type DeviceID string

// DeviceSession is one device currently counted against an account's
// concurrent-stream cap. The account owns the set of its sessions; no
// session outlives the account.
type DeviceSession struct {
	AccountID   AccountID `json:"account_id"`
	DeviceID    DeviceID  `json:"device_id"`
	DeviceLabel string    `json:"device_label"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

type PlanName string

const (
	PlanFree  PlanName = "free"
	PlanBasic PlanName = "basic"
	PlanVIP   PlanName = "vip"
)

// SubscriptionStatus is the entitlement-facts snapshot for an account,
// fetched immediately before evaluation since it is time-sensitive.
type SubscriptionStatus struct {
	Active        bool
	Plan          PlanName
	RemainingDays int
}
