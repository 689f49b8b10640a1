package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// LogApi writes one access-log line per request. Backend callers are
// identified by the caller claim the auth middleware sets; anonymous
// requests (the upgrade, healthz) log as "-".
func LogApi() gin.HandlerFunc {
	return gin.LoggerWithFormatter(formatLogLine)
}

func formatLogLine(param gin.LogFormatterParams) string {
	caller := "-"
	if v, ok := param.Keys["caller"]; ok {
		if s, ok := v.(string); ok && s != "" {
			caller = s
		}
	}
	return fmt.Sprintf("[%s] | %s | %d | %s | %s | caller=%s | %s | %s\n",
		param.TimeStamp.Format("2006-01-02 15:04:05"),
		param.ClientIP,
		param.StatusCode,
		param.Method,
		param.Path,
		caller,
		param.ErrorMessage,
		param.Latency,
	)
}
