package services

import (
	"context"
	"testing"
	"time"

	"playgate/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour)

	token, err := svc.GenerateToken("acc-1", domain.PlanVIP)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, domain.AccountID("acc-1"), claims.AccountID)
	assert.Equal(t, domain.PlanVIP, claims.Plan)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute, 24*time.Hour)

	token, err := svc.GenerateToken("acc-1", domain.PlanFree)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthService_WrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", 15*time.Minute, 24*time.Hour)
	verifier := NewAuthService("secret-b", 15*time.Minute, 24*time.Hour)

	token, err := issuer.GenerateToken("acc-1", domain.PlanFree)
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_AccountFromContext(t *testing.T) {
	svc := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour)

	_, err := svc.AccountFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	ctx := context.WithValue(context.Background(), "account_id", domain.AccountID("acc-1"))
	accountID, err := svc.AccountFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, domain.AccountID("acc-1"), accountID)
}
