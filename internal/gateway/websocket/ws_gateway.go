// Package websocket 实现 WebSocket 传输网关
// 通过 gin 路由完成握手升级，每个文本帧视作一帧完整文档，
// 入站帧和断连事件走与 TCP 相同的回调，核心不感知传输差异
package websocket

import (
	"net/http"
	"sync"

	"cluster_chat_server/internal/transport"
	"cluster_chat_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  constants.WS_BUFFER_SIZE,
	WriteBufferSize: constants.WS_BUFFER_SIZE,
	// 检查连接的Origin头
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway WebSocket 网关
type Gateway struct {
	handler      transport.Handler
	closeHandler transport.CloseHandler
}

// NewGateway 创建 WebSocket 网关
func NewGateway(handler transport.Handler, closeHandler transport.CloseHandler) *Gateway {
	return &Gateway{handler: handler, closeHandler: closeHandler}
}

// UpgradeHandler 返回处理 /ws 路由的 gin handler
func (g *Gateway) UpgradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		wc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			zap.L().Error("websocket 升级失败", zap.Error(err))
			return
		}
		conn := &wsConn{id: uuid.NewString(), c: wc}
		zap.L().Info("ws连接成功", zap.String("conn", conn.ID()))
		go g.readLoop(conn)
	}
}

// readLoop 连接读循环，每个文本帧上交一次
func (g *Gateway) readLoop(conn *wsConn) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("ws read loop panic", zap.Any("recover", r))
		}
		conn.Close()
		g.closeHandler(conn)
	}()

	for {
		_, frame, err := conn.c.ReadMessage()
		if err != nil {
			zap.L().Info("ws connection closed", zap.String("conn", conn.ID()), zap.Error(err))
			return
		}
		g.handler(conn, frame)
	}
}

// wsConn WebSocket 连接句柄
type wsConn struct {
	id string
	c  *websocket.Conn

	writeMu sync.Mutex
}

func (c *wsConn) ID() string {
	return c.id
}

// Send 写一个文本帧
// gorilla/websocket 不允许并发写，用互斥锁串行化
func (c *wsConn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.c.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsConn) Close() error {
	return c.c.Close()
}
