package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/httputil"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
)

func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
