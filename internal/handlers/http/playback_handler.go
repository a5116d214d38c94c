package http

import (
	stderrors "errors"
	"net/http"
	"time"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
	"playgate/internal/infrastructure/monitoring"
	"playgate/pkg/errors"
	"playgate/pkg/utils"
	"playgate/pkg/validation"

	"github.com/gin-gonic/gin"
)

type PlaybackHandler struct {
	playbackService ports.PlaybackService
	coordinator     ports.SessionCoordinator
	collector       *monitoring.PrometheusCollector
}

func NewPlaybackHandler(
	playbackService ports.PlaybackService,
	coordinator ports.SessionCoordinator,
	collector *monitoring.PrometheusCollector,
) *PlaybackHandler {
	return &PlaybackHandler{
		playbackService: playbackService,
		coordinator:     coordinator,
		collector:       collector,
	}
}

func (h *PlaybackHandler) SetupRoutes(api *gin.RouterGroup) {
	api.POST("/playback", h.RequestPlayback)
	api.GET("/devices", h.ListDevices)
	api.DELETE("/devices/:device_id", h.SignOutDevice)
	api.DELETE("/devices", h.SignOutAllDevices)
}

type PlaybackRequest struct {
	ContentID   string `json:"content_id" binding:"required,max=128"`
	EpisodeID   string `json:"episode_id" binding:"max=128"`
	// DeviceID is minted server-side when the client has none yet; the
	// response echoes it so the client can persist it.
	DeviceID    string `json:"device_id" binding:"max=128"`
	DeviceLabel string `json:"device_label" binding:"max=100"`
}

func (h *PlaybackHandler) RequestPlayback(c *gin.Context) {
	var req PlaybackRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validation.ValidateID("content_id", req.ContentID); err != nil {
		c.Error(errors.NewInvalidInput(err.Error()))
		return
	}
	if req.EpisodeID != "" {
		if err := validation.ValidateID("episode_id", req.EpisodeID); err != nil {
			c.Error(errors.NewInvalidInput(err.Error()))
			return
		}
	}
	if req.DeviceID == "" {
		req.DeviceID = utils.GenerateDeviceID()
	}
	if err := validation.ValidateID("device_id", req.DeviceID); err != nil {
		c.Error(errors.NewInvalidInput(err.Error()))
		return
	}
	if err := validation.ValidateDeviceLabel(req.DeviceLabel); err != nil {
		c.Error(errors.NewInvalidInput(err.Error()))
		return
	}

	accountID, ok := accountFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	target := domain.PlaybackTarget{
		ContentID: domain.ContentID(req.ContentID),
		EpisodeID: domain.EpisodeID(req.EpisodeID),
	}

	start := time.Now()
	decision, err := h.playbackService.RequestPlayback(
		c.Request.Context(),
		accountID,
		domain.DeviceID(req.DeviceID),
		req.DeviceLabel,
		target,
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordDecision(decision.Outcome, time.Since(start))
	}

	c.JSON(http.StatusOK, gin.H{
		"device_id": req.DeviceID,
		"decision":  decision,
	})
}

func (h *PlaybackHandler) ListDevices(c *gin.Context) {
	accountID, ok := accountFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	sessions, err := h.coordinator.ListSessions(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"devices": sessions,
	})
}

func (h *PlaybackHandler) SignOutDevice(c *gin.Context) {
	deviceID := c.Param("device_id")
	if err := validation.ValidateID("device_id", deviceID); err != nil {
		c.Error(errors.NewInvalidInput(err.Error()))
		return
	}

	accountID, ok := accountFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.coordinator.SignOutDevice(c.Request.Context(), accountID, domain.DeviceID(deviceID)); err != nil {
		h.handleError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordEviction()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "signed_out",
	})
}

func (h *PlaybackHandler) SignOutAllDevices(c *gin.Context) {
	keep := c.Query("keep")
	if keep != "" {
		if err := validation.ValidateID("keep", keep); err != nil {
			c.Error(errors.NewInvalidInput(err.Error()))
			return
		}
	}

	accountID, ok := accountFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.coordinator.SignOutAllDevices(c.Request.Context(), accountID, domain.DeviceID(keep)); err != nil {
		h.handleError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordEviction()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "signed_out",
	})
}

// handleError maps domain sentinels to HTTP statuses. Transient store
// failures surface as 503 so clients retry against another replica.
// handleError defers the sentinel-to-HTTP translation to the error
// handler middleware; only the violation counter is recorded here.
func (h *PlaybackHandler) handleError(c *gin.Context, err error) {
	if stderrors.Is(err, domain.ErrInvariantViolation) && h.collector != nil {
		h.collector.RecordInvariantViolation()
	}
	c.Error(err)
}

func accountFromGin(c *gin.Context) (domain.AccountID, bool) {
	val, exists := c.Get("account_id")
	if !exists {
		return "", false
	}
	accountID, ok := val.(domain.AccountID)
	if !ok || accountID == "" {
		return "", false
	}
	return accountID, true
}
