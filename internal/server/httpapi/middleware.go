package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/dmitrijs2005/memberportal/internal/server/users"
)

const (
	userIDKey  = "userID"
	tokenIDKey = "tokenID"
)

// accessTokenMiddleware rejects requests without a live bearer token with
// 401 and stores the caller's ids in the gin context.
func accessTokenMiddleware(us *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
			return
		}

		claims, err := us.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "session expired"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(tokenIDKey, claims.ID)
		c.Next()
	}
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
