package memory

import (
	"context"
	"sync"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
)

// MemorySessionRepository keeps device sessions in process memory. Each
// account's session set is guarded by its own lock so admission serializes
// per account without a global bottleneck.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	accounts map[domain.AccountID]*accountSessions
}

type accountSessions struct {
	mu       sync.Mutex
	sessions map[domain.DeviceID]*domain.DeviceSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		accounts: make(map[domain.AccountID]*accountSessions),
	}
}

var _ ports.SessionRepository = (*MemorySessionRepository)(nil)

func (r *MemorySessionRepository) account(id domain.AccountID) *accountSessions {
	r.mu.RLock()
	acc, ok := r.accounts[id]
	r.mu.RUnlock()
	if ok {
		return acc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if acc, ok = r.accounts[id]; ok {
		return acc
	}
	acc = &accountSessions{sessions: make(map[domain.DeviceID]*domain.DeviceSession)}
	r.accounts[id] = acc
	return acc
}

// AdmitOrRefresh performs refresh-or-guarded-insert under the account's
// lock: the count check and the insert are one atomic unit.
func (r *MemorySessionRepository) AdmitOrRefresh(ctx context.Context, session *domain.DeviceSession, cap int) (domain.AdmitStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	acc := r.account(session.AccountID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	if existing, ok := acc.sessions[session.DeviceID]; ok {
		existing.LastSeenAt = session.LastSeenAt
		if session.DeviceLabel != "" {
			existing.DeviceLabel = session.DeviceLabel
		}
		return domain.AdmitAccepted, nil
	}
	if len(acc.sessions) >= cap {
		return domain.AdmitBlocked, nil
	}

	copied := *session
	acc.sessions[session.DeviceID] = &copied
	return domain.AdmitAccepted, nil
}

func (r *MemorySessionRepository) Get(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) (*domain.DeviceSession, error) {
	acc := r.account(accountID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	session, ok := acc.sessions[deviceID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *MemorySessionRepository) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.DeviceSession, error) {
	acc := r.account(accountID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	out := make([]*domain.DeviceSession, 0, len(acc.sessions))
	for _, session := range acc.sessions {
		copied := *session
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemorySessionRepository) CountByAccount(ctx context.Context, accountID domain.AccountID) (int, error) {
	acc := r.account(accountID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return len(acc.sessions), nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error {
	acc := r.account(accountID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	delete(acc.sessions, deviceID)
	return nil
}

func (r *MemorySessionRepository) DeleteAllExcept(ctx context.Context, accountID domain.AccountID, keep domain.DeviceID) error {
	acc := r.account(accountID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	for deviceID := range acc.sessions {
		if keep != "" && deviceID == keep {
			continue
		}
		delete(acc.sessions, deviceID)
	}
	return nil
}
