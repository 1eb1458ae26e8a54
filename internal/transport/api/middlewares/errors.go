package middlewares

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/efeltrin/cash-machine/internal/domain"
)

// Errors renders aborted requests in the response envelope. Ledger failures
// expose their public message; anything else gets a generic text while the
// cause stays in c.Errors for the logger.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// only the first error is rendered
		firstErr := c.Errors[0]
		status := c.Writer.Status()

		msg := "unexpected error"
		var ledgerErr *domain.LedgerError
		if errors.As(firstErr.Err, &ledgerErr) {
			msg = ledgerErr.Public()
		}

		c.JSON(status, gin.H{
			"data":       gin.H{"error": msg},
			"statusCode": status,
		})
		c.Abort()
	}
}
