package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-connect/internal/interface/http"
	"github.com/oksasatya/campus-connect/internal/interface/middleware"
	"github.com/oksasatya/campus-connect/pkg/helpers"
)

// AuthModule wires account provisioning routes.
// Public: POST /auth/signup, POST /auth/login
// Protected: GET /auth/me, PATCH /auth/profile-setup, PATCH /auth/preferences
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	RDB     redis.Cmdable
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb redis.Cmdable) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP per route

	rg.POST("/auth/signup", limiter, m.Handler.Signup)
	rg.POST("/auth/login", limiter, m.Handler.Login)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/me", m.Handler.Me)
		auth.PATCH("/profile-setup", m.Handler.ProfileSetup)
		auth.PATCH("/preferences", m.Handler.Preferences)
	}
}
