package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-connect/internal/interface/http"
	"github.com/oksasatya/campus-connect/internal/interface/middleware"
	"github.com/oksasatya/campus-connect/pkg/helpers"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
	JWT     *helpers.JWTManager
	RDB     redis.Cmdable
}

func NewUploadModule(h *handlers.UploadHandler, jwt *helpers.JWTManager, rdb redis.Cmdable) *UploadModule {
	return &UploadModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *UploadModule) Name() string { return "upload" }

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	up := rg.Group("/upload")
	up.Use(
		middleware.Auth(m.JWT),
		middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		up.POST("/photos", m.Handler.Photos)
	}
}
