package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requesterHeader carries the authenticated caller's user id. Identity
// verification happens upstream; this layer only requires the header to
// be present.
const requesterHeader = "X-Requester-ID"

const requesterKey = "requesterID"

// requesterMiddleware rejects requests that carry no requester identity
func requesterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := c.GetHeader(requesterHeader)
		if requesterID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "auth/requester-required",
			})
			return
		}
		c.Set(requesterKey, requesterID)
		c.Next()
	}
}

// requesterID returns the caller identity set by requesterMiddleware
func requesterID(c *gin.Context) string {
	return c.GetString(requesterKey)
}
