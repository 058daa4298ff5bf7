package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes expvar counters for ad-hoc inspection.
// Wire it only when debug metrics are enabled in config.
type DebugModule struct{}

func NewDebugModule() *DebugModule {
	return &DebugModule{}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
