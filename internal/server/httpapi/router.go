package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/dmitrijs2005/memberportal/internal/server/users"
)

// NewRouter mounts the auth API under /<routePrefix>/auth.
func NewRouter(routePrefix string, us *users.Service, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	base := "/" + strings.Trim(routePrefix, "/")
	if base == "/" {
		base = ""
	}

	h := NewHandler(us, logger)

	authGroup := r.Group(base + "/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/verify-mobile", h.VerifyMobile)
	authGroup.POST("/resend-mobile-otp", h.ResendOTP)

	protected := authGroup.Group("")
	protected.Use(accessTokenMiddleware(us))
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)

	return r
}
