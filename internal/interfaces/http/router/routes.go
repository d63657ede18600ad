// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers) {
	// 生成工作流
	generations := v1.Group("/generations")
	{
		generations.POST("", h.Generation.Generate)
		generations.GET("/:wid/progress", h.Generation.GetProgress)
		generations.GET("/:wid/stream", h.Stream.StreamProgress) // SSE
		generations.DELETE("/:wid", h.Generation.Cancel)
	}

	// Logo 画廊
	logos := v1.Group("/logos")
	{
		logos.GET("", h.Logo.List)
		logos.GET("/:lid", h.Logo.Get)
		logos.DELETE("/:lid", h.Logo.Delete)
		logos.POST("/:lid/edits", h.Logo.Edit)
		logos.POST("/:lid/variations", h.Generation.Variations)
	}

	// 编辑指令
	commands := v1.Group("/commands")
	{
		commands.POST("/parse", h.Command.Parse)
		commands.GET("/suggestions", h.Command.Suggestions)
	}

	// 编辑会话
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", h.Session.Create)
		sessions.GET("/:sid", h.Session.Get)
		sessions.POST("/:sid/edits", h.Session.ExecuteCommand)
		sessions.POST("/:sid/variations", h.Session.Variations)
		sessions.POST("/:sid/select", h.Session.Select)
	}

	// 灵感检索（可选功能）
	if h.Inspiration != nil {
		inspirations := v1.Group("/inspirations")
		{
			inspirations.POST("", h.Inspiration.Index)
			inspirations.POST("/search", h.Inspiration.Search)
		}
	}
}
