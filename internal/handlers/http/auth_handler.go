package http

import (
	"net/http"
	"strings"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/core/services"
	"playgate/pkg/errors"
	"playgate/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	accessTTL   time.Duration
}

// NewAuthHandler wires the token endpoints. accessTTL must match the TTL
// the auth service signs into access tokens so expires_in stays truthful.
func NewAuthHandler(authService services.AuthService, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accessTTL:   accessTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/auth")
	{
		api.POST("/token", h.IssueToken)
		api.POST("/refresh", h.RefreshToken)
	}
}

type TokenRequest struct {
	AccountID string `json:"account_id" binding:"required,max=128"`
	Plan      string `json:"plan" binding:"max=32"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,max=2048"`
}

// IssueToken mints tokens for a known account. Credential verification
// lives in the identity service upstream; this endpoint trusts the
// gateway that forwards the account id.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInput("invalid request format"))
		return
	}

	req.AccountID = strings.TrimSpace(req.AccountID)
	if err := validation.ValidateID("account_id", req.AccountID); err != nil {
		c.Error(errors.NewInvalidInput(err.Error()))
		return
	}

	accountID := domain.AccountID(req.AccountID)
	plan := domain.PlanName(req.Plan)
	if plan == "" {
		plan = domain.PlanFree
	}

	accessToken, err := h.authService.GenerateToken(accountID, plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken(accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id":    accountID,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(h.accessTTL / time.Second),
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.authService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	accessToken, err := h.authService.GenerateToken(claims.AccountID, claims.Plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"expires_in":   int(h.accessTTL / time.Second),
	})
}
