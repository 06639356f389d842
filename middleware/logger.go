package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access line per request, tagged with the caller's user ID
// when the request was authenticated.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		user := "-"
		if id, ok := param.Keys[UserIDKey]; ok {
			user = fmt.Sprintf("%v", id)
		}

		logFormat := fmt.Sprintf("[%s] %s %s %d %s %s user=%s",
			param.TimeStamp.Format(time.RFC3339),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			user,
		)
		if param.ErrorMessage != "" {
			logFormat += " err=" + param.ErrorMessage
		}
		logFormat += "\n"
		log.Print(logFormat)

		return logFormat
	})
}
