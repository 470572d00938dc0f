package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/campus-connect/internal/interface/http"
)

type CollegeModule struct {
	Handler *handlers.CollegeHandler
}

func NewCollegeModule(h *handlers.CollegeHandler) *CollegeModule {
	return &CollegeModule{Handler: h}
}

func (m *CollegeModule) Name() string { return "colleges" }

func (m *CollegeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/colleges", m.Handler.List)
}
