// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// RespondError writes the standard JSON error body and aborts the request.
// "error" repeats the message for clients that read that field.
func RespondError(c *gin.Context, status int, code, message string) {
	RespondErrorWith(c, status, code, message, nil)
}

// RespondErrorWith is RespondError with extra top-level fields, such as the
// measured distance on a geofence rejection.
func RespondErrorWith(c *gin.Context, status int, code, message string, extra map[string]any) {
	resp := gin.H{
		"code":    code,
		"message": message,
		"error":   message,
	}

	if rid := c.GetString("request_id"); rid != "" {
		resp["request_id"] = rid
	}

	for k, v := range extra {
		if _, reserved := resp[k]; !reserved {
			resp[k] = v
		}
	}

	c.AbortWithStatusJSON(status, resp)
}
