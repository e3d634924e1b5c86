package middleware

import (
	"github.com/gin-gonic/gin"

	"securelead/utils"
)

// ErrorHandler отправляет в Sentry ошибки, накопленные обработчиками через c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Сначала выполняем все обработчики

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors {
				utils.CaptureError(ginErr.Err, map[string]interface{}{
					"endpoint": c.Request.URL.Path,
					"method":   c.Request.Method,
					"status":   c.Writer.Status(),
				})
			}
		}
	}
}
