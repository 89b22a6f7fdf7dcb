package relay

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// wsTransport adapts one gorilla connection to the Transport contract.
// Writes are serialized with a mutex; gorilla permits one concurrent writer.
type wsTransport struct {
	conn *websocket.Conn

	mu sync.Mutex
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	// Input events are small and latency-sensitive, so flush immediately.
	if tcp, ok := conn.UnderlyingConn().(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	return &wsTransport{conn: conn}
}

func (t *wsTransport) WriteMessage(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) Ping() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteMessage(websocket.PingMessage, nil)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
