package middleware

import (
	stderrors "errors"
	"net/http"

	"playgate/internal/core/domain"
	"playgate/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sentinelToAppError maps the domain error taxonomy onto wire responses.
// Handlers may push raw domain sentinels into the gin error list; the
// translation to HTTP status and error code happens here, in one place.
func sentinelToAppError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, domain.ErrContentNotFound):
		return errors.NewNotFound("content")
	case stderrors.Is(err, domain.ErrEpisodeNotFound):
		return errors.NewNotFound("episode")
	case stderrors.Is(err, domain.ErrSessionNotFound):
		return errors.NewNotFound("device session")
	case stderrors.Is(err, domain.ErrAccountNotFound):
		return errors.NewNotFound("account")
	case stderrors.Is(err, domain.ErrCatalogUnavailable):
		return errors.NewCatalogUnavailable(err)
	case stderrors.Is(err, domain.ErrSessionStoreUnavailable):
		return errors.NewSessionStoreUnavailable(err)
	case stderrors.Is(err, domain.ErrEntitlementUnavailable):
		return errors.NewEntitlementUnavailable(err)
	case stderrors.Is(err, domain.ErrInvariantViolation):
		return errors.NewStoreInconsistency(err)
	}
	return errors.GetAppError(err)
}

// ErrorHandlerMiddleware renders the last recorded error as a JSON body
// carrying the error code, message and request id. Domain sentinels are
// translated through the taxonomy; anything unrecognized becomes a 500.
func ErrorHandlerMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		requestID, _ := c.Request.Context().Value("request_id").(string)

		appErr := sentinelToAppError(err)
		if appErr == nil {
			logger.Errorw("unhandled error",
				"error", err.Error(),
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      string(errors.ErrCodeInternal),
				"message":    "Internal server error",
				"request_id": requestID,
			})
			return
		}

		logger.Errorw("request failed",
			"code", appErr.Code,
			"message", appErr.Message,
			"status", appErr.HTTPStatus,
			"request_id", requestID,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(appErr.HTTPStatus, gin.H{
			"error":      string(appErr.Code),
			"message":    appErr.Message,
			"request_id": requestID,
		})
	}
}

// RecoveryMiddleware recovers from panics and returns proper error responses
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorw("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   string(errors.ErrCodeInternal),
					"message": "Internal server error",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
