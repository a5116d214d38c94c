package services

import (
	"sync"

	"playgate/internal/core/domain"
)

// MetricsService keeps in-process counters for playback decisions and
// device admissions. The prometheus collector in infrastructure exports
// the same signals; this service backs the /ready snapshot and tests.
type MetricsService struct {
	mu sync.RWMutex

	decisionCounts map[domain.PlaybackOutcome]int64
	admittedCount  int64
	blockedCount   int64
	sessionCounts  map[domain.AccountID]int
}

func NewMetricsService() *MetricsService {
	return &MetricsService{
		decisionCounts: make(map[domain.PlaybackOutcome]int64),
		sessionCounts:  make(map[domain.AccountID]int),
	}
}

func (m *MetricsService) RecordDecision(outcome domain.PlaybackOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisionCounts[outcome]++
}

func (m *MetricsService) RecordAdmission(accountID domain.AccountID, admitted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if admitted {
		m.admittedCount++
	} else {
		m.blockedCount++
	}
}

func (m *MetricsService) SetSessionCount(accountID domain.AccountID, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if count <= 0 {
		delete(m.sessionCounts, accountID)
		return
	}
	m.sessionCounts[accountID] = count
}

func (m *MetricsService) DecisionCount(outcome domain.PlaybackOutcome) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.decisionCounts[outcome]
}

func (m *MetricsService) AdmissionCounts() (admitted, blocked int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admittedCount, m.blockedCount
}

func (m *MetricsService) SessionCount(accountID domain.AccountID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionCounts[accountID]
}
