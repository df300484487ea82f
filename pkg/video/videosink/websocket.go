package videosink

import (
	"bytes"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tauraamui/cinefilter/pkg/log"
	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket broadcasts every presented frame to its connected clients as a
// binary PNG message. It is an http.Handler, so it can be mounted wherever
// the caller serves HTTP. Clients which fail a write are dropped.
type WebSocket struct {
	dimensions videoframe.Dimensions

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
	sent    int
}

func NewWebSocket(d videoframe.Dimensions) *WebSocket {
	return &WebSocket{dimensions: d, clients: map[*websocket.Conn]struct{}{}}
}

func (w *WebSocket) Dimensions() videoframe.Dimensions {
	return w.dimensions
}

func (w *WebSocket) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		http.Error(rw, "stream closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		log.Error("Unable to upgrade stream viewer connection: %v", err)
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		conn.Close()
		return
	}
	w.clients[conn] = struct{}{}
	w.mu.Unlock()

	log.Info("Stream viewer connected: [%s]", conn.RemoteAddr())
	go w.drain(conn)
}

// drain discards anything a viewer sends, noticing when it hangs up.
func (w *WebSocket) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			w.drop(conn)
			log.Info("Stream viewer disconnected: [%s]", conn.RemoteAddr())
			return
		}
	}
}

func (w *WebSocket) drop(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.clients[conn]; ok {
		delete(w.clients, conn)
		conn.Close()
	}
}

func (w *WebSocket) Clients() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// Sent is the number of frames broadcast while viewers were connected.
func (w *WebSocket) Sent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent
}

func (w *WebSocket) Present(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return xerror.New("websocket sink is closed")
	}
	if len(w.clients) == 0 {
		return nil
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, buf.RGBA()); err != nil {
		return xerror.Errorf("unable to encode frame for viewers: %w", err)
	}

	for conn := range w.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint
		if err := conn.WriteMessage(websocket.BinaryMessage, encoded.Bytes()); err != nil {
			log.Warn("Dropping stream viewer [%s]: %v", conn.RemoteAddr(), err)
			delete(w.clients, conn)
			conn.Close()
		}
	}
	w.sent++
	return nil
}

func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	for conn := range w.clients {
		conn.WriteControl( //nolint
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream ended"),
			time.Now().Add(writeWait),
		)
		conn.Close()
		delete(w.clients, conn)
	}
	return nil
}
