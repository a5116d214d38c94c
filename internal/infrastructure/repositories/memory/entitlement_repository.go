package memory

import (
	"context"
	"sync"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
)

// MemoryEntitlementRepository stands in for the billing collaborator:
// subscription snapshots keyed by account plus rental grants with an
// expiry. Rentals are keyed by the exact playback target, so renting a
// series episode does not grant the sibling episodes.
type MemoryEntitlementRepository struct {
	mu            sync.RWMutex
	subscriptions map[domain.AccountID]domain.SubscriptionStatus
	rentals       map[rentalKey]time.Time
	now           func() time.Time
}

type rentalKey struct {
	account domain.AccountID
	target  domain.PlaybackTarget
}

func NewMemoryEntitlementRepository() *MemoryEntitlementRepository {
	return &MemoryEntitlementRepository{
		subscriptions: make(map[domain.AccountID]domain.SubscriptionStatus),
		rentals:       make(map[rentalKey]time.Time),
		now:           time.Now,
	}
}

var _ ports.EntitlementProvider = (*MemoryEntitlementRepository)(nil)

// PutSubscription seeds or replaces the subscription snapshot for an account.
func (r *MemoryEntitlementRepository) PutSubscription(accountID domain.AccountID, status domain.SubscriptionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions[accountID] = status
}

// GrantRental records a rental for the target valid until expiresAt.
func (r *MemoryEntitlementRepository) GrantRental(accountID domain.AccountID, target domain.PlaybackTarget, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rentals[rentalKey{account: accountID, target: target}] = expiresAt
}

func (r *MemoryEntitlementRepository) SubscriptionStatus(ctx context.Context, accountID domain.AccountID) (domain.SubscriptionStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.subscriptions[accountID]
	if !ok {
		return domain.SubscriptionStatus{Active: false, Plan: domain.PlanFree}, nil
	}
	return status, nil
}

func (r *MemoryEntitlementRepository) HasActiveRental(ctx context.Context, accountID domain.AccountID, target domain.PlaybackTarget) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expiresAt, ok := r.rentals[rentalKey{account: accountID, target: target}]
	if !ok {
		return false, nil
	}
	return r.now().Before(expiresAt), nil
}
