package services

import (
	"playgate/internal/core/domain"
)

// rentalPeriodFallback applies when a catalog row carries no rental period.
const rentalPeriodFallback = 7

// EvaluateEntitlement decides what an account may do with a target given
// its effective tier and the account's current wallet facts. Pure in its
// inputs; the caller fetches subscription/rental state immediately before
// calling since both are time-sensitive.
//
// Rules:
//   - free: allow unconditionally.
//   - rent: allow only with an unexpired rental for this exact target.
//   - vip with ExcludeFromPlan: subscription alone never grants access;
//     rental still required.
//   - vip otherwise: subscription or rental allows.
func EvaluateEntitlement(content *domain.Content, tier domain.Tier, hasActiveSubscription, hasActiveRental bool) domain.EntitlementDecision {
	switch tier {
	case domain.TierFree:
		return domain.EntitlementDecision{Outcome: domain.EntitlementAllow}

	case domain.TierRent:
		if hasActiveRental {
			return domain.EntitlementDecision{Outcome: domain.EntitlementAllow}
		}
		return requireRental(content)

	case domain.TierVIP:
		if hasActiveRental {
			return domain.EntitlementDecision{Outcome: domain.EntitlementAllow}
		}
		if content != nil && content.ExcludeFromPlan {
			return requireRental(content)
		}
		if hasActiveSubscription {
			return domain.EntitlementDecision{Outcome: domain.EntitlementAllow}
		}
		return domain.EntitlementDecision{Outcome: domain.EntitlementRequireSubscription}

	default:
		return domain.EntitlementDecision{Outcome: domain.EntitlementDeny}
	}
}

func requireRental(content *domain.Content) domain.EntitlementDecision {
	decision := domain.EntitlementDecision{
		Outcome:          domain.EntitlementRequireRental,
		RentalPeriodDays: rentalPeriodFallback,
	}
	if content != nil {
		decision.RentalPrice = content.RentalPrice
		if content.RentalPeriod > 0 {
			decision.RentalPeriodDays = content.RentalPeriod
		}
	}
	return decision
}
