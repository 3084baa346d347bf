package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

// DefaultCronHeader carries the scheduler's shared secret.
const DefaultCronHeader = "X-Cron-Secret"

// CronSecret admits requests presenting the configured shared secret. An
// empty secret rejects every call as a server misconfiguration.
func CronSecret(secret, header string, logger *zap.Logger) gin.HandlerFunc {
	if header == "" {
		header = DefaultCronHeader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	expected := []byte(secret)

	return func(c *gin.Context) {
		if len(expected) == 0 {
			logger.Error("cron secret is not configured", zap.String("path", c.FullPath()))
			response.Error(c, appErrors.Clone(appErrors.ErrMisconfigured, "cron secret is not configured"))
			c.Abort()
			return
		}

		presented := []byte(c.GetHeader(header))
		if subtle.ConstantTimeCompare(presented, expected) != 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid cron secret"))
			c.Abort()
			return
		}
		c.Next()
	}
}
