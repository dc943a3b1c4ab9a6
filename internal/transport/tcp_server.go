// tcp_server.go
// TCP 长连接服务器：换行分隔的 JSON 文档帧
// 每个连接一个读协程，读到的帧和断连事件通过回调上交
package transport

import (
	"bufio"
	"net"
	"sync"

	"cluster_chat_server/pkg/constants"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TCPServer TCP 长连接服务器
type TCPServer struct {
	addr         string
	handler      Handler
	closeHandler CloseHandler

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewTCPServer 创建 TCP 服务器
// handler 处理入站帧，closeHandler 处理断连通知
func NewTCPServer(addr string, handler Handler, closeHandler CloseHandler) *TCPServer {
	return &TCPServer{
		addr:         addr,
		handler:      handler,
		closeHandler: closeHandler,
	}
}

// Start 开始监听并接受连接，监听建立后立即返回
func (s *TCPServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go s.acceptLoop(ln)
	zap.L().Info("tcp server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr 实际监听地址，测试用 ":0" 时从这里取端口
func (s *TCPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *TCPServer) acceptLoop(ln net.Listener) {
	for {
		c, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			zap.L().Error("tcp accept failed", zap.Error(err))
			continue
		}
		conn := &tcpConn{id: uuid.NewString(), c: c}
		go s.readLoop(conn)
	}
}

// readLoop 连接读循环
// 每行一帧；读出错或对端关闭时发出断连通知
func (s *TCPServer) readLoop(conn *tcpConn) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("tcp read loop panic", zap.Any("recover", r))
		}
		conn.Close()
		s.closeHandler(conn)
	}()

	scanner := bufio.NewScanner(conn.c)
	scanner.Buffer(make([]byte, 4096), constants.FRAME_MAX_SIZE)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		// Scanner 复用底层缓冲，上交前必须拷贝
		frame := make([]byte, len(line))
		copy(frame, line)
		s.handler(conn, frame)
	}
	if err := scanner.Err(); err != nil {
		zap.L().Info("tcp connection closed", zap.String("conn", conn.ID()), zap.Error(err))
	}
}

// Close 停止监听
// 已建立的连接由各自的读循环在对端关闭时清理
func (s *TCPServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// tcpConn TCP 连接句柄
type tcpConn struct {
	id string
	c  net.Conn

	writeMu sync.Mutex
}

func (c *tcpConn) ID() string {
	return c.id
}

// Send 写一帧，自动补换行分隔符
func (c *tcpConn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.c.Write(payload); err != nil {
		return err
	}
	_, err := c.c.Write([]byte{'\n'})
	return err
}

func (c *tcpConn) Close() error {
	return c.c.Close()
}
