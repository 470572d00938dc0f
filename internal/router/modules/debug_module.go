package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/campus-connect/internal/interface/middleware"
)

type DebugModule struct {
	RDB redis.Cmdable
}

func NewDebugModule(rdb redis.Cmdable) *DebugModule { return &DebugModule{RDB: rdb} }

func (m *DebugModule) Name() string { return "debug" }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar, rate-limited per IP; private networks bypass the limit
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
