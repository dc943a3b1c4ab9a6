// Package router 提供 HTTP 路由注册
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
// 业务消息全部走长连接协议，HTTP 只承载 WebSocket 入口和健康检查
func RegisterRoutes(r *gin.Engine, wsHandler gin.HandlerFunc) {
	// WebSocket 连接入口
	// 请求示例: ws://host:port/ws
	r.GET("/ws", wsHandler)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
