// Package stream broadcasts readings to websocket clients.
package stream

import (
  "context"
  "encoding/json"
  "fmt"
  "net/http"
  "sync"
  "time"

  "github.com/gorilla/websocket"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/rs/zerolog/log"
)

const (
  clientBuffer = 16
  writeTimeout = 5 * time.Second
  pingInterval = 30 * time.Second
)

// Event is sent to clients for every reading.
type Event struct {
  Name string `json:"name"`
  device.Reading
}

type client struct {
  conn *websocket.Conn
  send chan []byte
}

// Hub fans readings out to every connected client. Clients which can't keep up
// are disconnected.
type Hub struct {
  upgrader websocket.Upgrader

  mu sync.Mutex
  clients map[*client]struct{}
}

func NewHub() *Hub {
  return &Hub{
    upgrader: websocket.Upgrader{
      ReadBufferSize: 1024,
      WriteBufferSize: 4096,
    },
    clients: make(map[*client]struct{}),
  }
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
  h.mu.Lock()
  defer h.mu.Unlock()

  return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
  conn, err := h.upgrader.Upgrade(w, r, nil)

  if err != nil {
    log.Debug().Err(err).Str("Remote", r.RemoteAddr).Msg("stream: upgrade failed")
    return
  }

  c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

  h.mu.Lock()
  h.clients[c] = struct{}{}
  h.mu.Unlock()

  log.Debug().Str("Remote", r.RemoteAddr).Msg("stream: client connected")

  go h.writeLoop(c)
  h.readLoop(c)
}

// readLoop discards client messages and unregisters the client once the
// connection goes away.
func (h *Hub) readLoop(c *client) {
  defer h.drop(c)

  for {
    if _, _, err := c.conn.ReadMessage(); err != nil {
      return
    }
  }
}

func (h *Hub) writeLoop(c *client) {
  ticker := time.NewTicker(pingInterval)
  defer ticker.Stop()
  defer c.conn.Close()

  for {
    select {
    case msg, ok := <-c.send:
      c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

      if !ok {
        c.conn.WriteMessage(websocket.CloseMessage, []byte{})
        return
      }

      if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
        return
      }
    case <-ticker.C:
      c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

      if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
        return
      }
    }
  }
}

func (h *Hub) drop(c *client) {
  h.mu.Lock()
  defer h.mu.Unlock()

  if _, ok := h.clients[c]; ok {
    delete(h.clients, c)
    close(c.send)
  }
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg []byte) {
  h.mu.Lock()
  defer h.mu.Unlock()

  for c := range h.clients {
    select {
    case c.send <- msg:
    default:
      log.Debug().Str("Remote", c.conn.RemoteAddr().String()).Msg("stream: dropping slow client")
      delete(h.clients, c)
      close(c.send)
    }
  }
}

// Publish implements collector.Outlet.
func (h *Hub) Publish(_ context.Context, dev device.Device, r device.Reading) error {
  msg, err := json.Marshal(Event{Name: dev.Name(), Reading: r})

  if err != nil {
    return fmt.Errorf("failed to encode event: %w", err)
  }

  h.Broadcast(msg)

  return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
  h.mu.Lock()
  defer h.mu.Unlock()

  for c := range h.clients {
    delete(h.clients, c)
    close(c.send)
  }
}
