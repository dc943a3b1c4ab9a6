package transport

import (
	"bufio"
	"net"
	"sync"
	"testing"
	"time"
)

// frameCollector 收集入站帧和断连通知
type frameCollector struct {
	mu       sync.Mutex
	frames   []string
	closed   []string
	frameCh  chan struct{}
	closedCh chan struct{}
}

func newFrameCollector() *frameCollector {
	return &frameCollector{
		frameCh:  make(chan struct{}, 16),
		closedCh: make(chan struct{}, 16),
	}
}

func (fc *frameCollector) onFrame(conn Conn, frame []byte) {
	fc.mu.Lock()
	fc.frames = append(fc.frames, string(frame))
	fc.mu.Unlock()
	fc.frameCh <- struct{}{}
}

func (fc *frameCollector) onClose(conn Conn) {
	fc.mu.Lock()
	fc.closed = append(fc.closed, conn.ID())
	fc.mu.Unlock()
	fc.closedCh <- struct{}{}
}

func (fc *frameCollector) waitFrames(t *testing.T, n int) []string {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-fc.frameCh:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d of %d", i+1, n)
		}
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]string(nil), fc.frames...)
}

func startTestServer(t *testing.T, fc *frameCollector) *TCPServer {
	t.Helper()
	srv := NewTCPServer("127.0.0.1:0", fc.onFrame, fc.onClose)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestTCPServerFraming(t *testing.T) {
	fc := newFrameCollector()
	srv := startTestServer(t, fc)

	c, err := net.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	// 两帧合并写入，服务器必须按换行符拆开
	if _, err := c.Write([]byte("{\"msgid\":1}\n{\"msgid\":4}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	frames := fc.waitFrames(t, 2)
	if frames[0] != `{"msgid":1}` || frames[1] != `{"msgid":4}` {
		t.Fatalf("unexpected frames: %v", frames)
	}
}

func TestTCPServerSendAppendsNewline(t *testing.T) {
	connCh := make(chan Conn, 1)
	srv := NewTCPServer("127.0.0.1:0",
		func(conn Conn, frame []byte) {
			select {
			case connCh <- conn:
			default:
			}
		},
		func(conn Conn) {})
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	c, err := net.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if _, err := c.Write([]byte("{\"msgid\":1}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var serverConn Conn
	select {
	case serverConn = <-connCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the connection")
	}

	if err := serverConn.Send([]byte(`{"msgid":2,"errno":0}`)); err != nil {
		t.Fatalf("send: %v", err)
	}

	reader := bufio.NewReader(c)
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if line != "{\"msgid\":2,\"errno\":0}\n" {
		t.Fatalf("unexpected reply frame: %q", line)
	}
}

func TestTCPServerDisconnectNotification(t *testing.T) {
	fc := newFrameCollector()
	srv := startTestServer(t, fc)

	c, err := net.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if _, err := c.Write([]byte("{\"msgid\":1}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc.waitFrames(t, 1)

	c.Close()
	select {
	case <-fc.closedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("close handler never fired")
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.closed) != 1 || fc.closed[0] == "" {
		t.Fatalf("expected one disconnect notification with a conn id, got %v", fc.closed)
	}
}

func TestTCPServerEmptyLinesIgnored(t *testing.T) {
	fc := newFrameCollector()
	srv := startTestServer(t, fc)

	c, err := net.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if _, err := c.Write([]byte("\n\n{\"msgid\":1}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	frames := fc.waitFrames(t, 1)
	if len(frames) != 1 || frames[0] != `{"msgid":1}` {
		t.Fatalf("blank lines must not reach the handler, got %v", frames)
	}
}
