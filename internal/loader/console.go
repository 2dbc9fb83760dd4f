// Package loader is a tiny over-the-air console: it serves a websocket
// endpoint (no HTML page of its own) that streams encode progress and the final WAV
// bytes to any browser tab that connects, so a classroom phone can play the
// audio out its speaker next to the robot's microphone. It lives outside
// the compile pipeline and never affects compiler determinism.
//
// Grounded on sentra's internal/network/websocket_server.go client registry
// (mutex-guarded map of connections, broadcast-to-all), simplified from a
// general-purpose scripting primitive down to a single-purpose
// progress/payload fan-out, with concurrent per-client writes managed by
// errgroup instead of a hand-rolled WaitGroup.
package loader

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Console accepts websocket connections and broadcasts progress messages
// and a final binary payload to all of them.
type Console struct {
	mu      sync.RWMutex
	clients map[string]*websocket.Conn
	nextID  int
}

// NewConsole constructs an empty Console.
func NewConsole() *Console {
	return &Console{clients: make(map[string]*websocket.Conn)}
}

// Handler returns the http.Handler that upgrades incoming requests to
// websocket connections and registers them for broadcast.
func (c *Console) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c.register(conn)
	})
}

func (c *Console) register(conn *websocket.Conn) {
	c.mu.Lock()
	c.nextID++
	id := fmt.Sprintf("client-%d", c.nextID)
	c.clients[id] = conn
	c.mu.Unlock()

	go func() {
		defer c.unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (c *Console) unregister(id string) {
	c.mu.Lock()
	if conn, ok := c.clients[id]; ok {
		conn.Close()
		delete(c.clients, id)
	}
	c.mu.Unlock()
}

func (c *Console) snapshot() map[string]*websocket.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*websocket.Conn, len(c.clients))
	for id, conn := range c.clients {
		out[id] = conn
	}
	return out
}

// BroadcastProgress sends a one-line text status ("encoding byte 412/900")
// to every connected client concurrently.
func (c *Console) BroadcastProgress(ctx context.Context, message string) error {
	return c.broadcast(ctx, websocket.TextMessage, []byte(message))
}

// BroadcastPayload sends the final WAV bytes to every connected client
// concurrently, so playback can start the moment encoding finishes.
func (c *Console) BroadcastPayload(ctx context.Context, wav []byte) error {
	return c.broadcast(ctx, websocket.BinaryMessage, wav)
}

func (c *Console) broadcast(ctx context.Context, kind int, payload []byte) error {
	clients := c.snapshot()
	g, _ := errgroup.WithContext(ctx)
	for id, conn := range clients {
		id, conn := id, conn
		g.Go(func() error {
			if err := conn.WriteMessage(kind, payload); err != nil {
				c.unregister(id)
				return fmt.Errorf("loader: client %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close disconnects every client.
func (c *Console) Close() {
	for id := range c.snapshot() {
		c.unregister(id)
	}
}
