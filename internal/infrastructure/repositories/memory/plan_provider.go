package memory

import (
	"context"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
)

// ConfigPlanProvider maps an account's plan to its device cap using the
// configured plan table. The plan itself comes from the entitlement
// facts, so cap changes follow plan changes without restarts.
type ConfigPlanProvider struct {
	entitlements ports.EntitlementProvider
	planCaps     map[string]int
	defaultCap   int
}

func NewConfigPlanProvider(entitlements ports.EntitlementProvider, planCaps map[string]int, defaultCap int) *ConfigPlanProvider {
	caps := make(map[string]int, len(planCaps))
	for plan, cap := range planCaps {
		caps[plan] = cap
	}
	return &ConfigPlanProvider{
		entitlements: entitlements,
		planCaps:     caps,
		defaultCap:   defaultCap,
	}
}

var _ ports.PlanProvider = (*ConfigPlanProvider)(nil)

func (p *ConfigPlanProvider) DeviceCap(ctx context.Context, accountID domain.AccountID) (domain.PlanName, int, error) {
	status, err := p.entitlements.SubscriptionStatus(ctx, accountID)
	if err != nil {
		return "", 0, err
	}
	if cap, ok := p.planCaps[string(status.Plan)]; ok {
		return status.Plan, cap, nil
	}
	return status.Plan, p.defaultCap, nil
}
