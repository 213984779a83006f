// Package stream broadcasts a running simulation to websocket subscribers
//
// Each subscriber first receives a "layout" message, then the latest "frame"
// if one exists, then every frame broadcast after it
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
	"github.com/lixenwraith/orbit-nav/sim"
)

// Message types
const (
	TypeLayout = "layout"
	TypeFrame  = "frame"
)

// Message is the envelope of every websocket payload
type Message struct {
	Type   string      `json:"type"`
	Layout *sim.Layout `json:"layout,omitempty"`
	Frame  *sim.Frame  `json:"frame,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans frames out to every connected subscriber
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	layout      []byte
	lastFrame   []byte

	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewHub creates a hub serving the given layout
func NewHub(layout sim.Layout, log *slog.Logger) (*Hub, error) {
	if log == nil {
		log = logging.New("stream")
	}
	data, err := json.Marshal(Message{Type: TypeLayout, Layout: &layout})
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		layout:      data,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}, nil
}

// Subscribers returns the number of connected subscribers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// subscribe registers conn and sends the layout and latest frame before any
// broadcast can reach it
func (h *Hub) subscribe(conn *websocket.Conn) (uint64, error) {
	sub := &subscriber{conn: conn}
	sub.mu.Lock()
	defer sub.mu.Unlock()

	id := h.nextID.Add(1)
	h.mu.Lock()
	h.subscribers[id] = sub
	last := h.lastFrame
	h.mu.Unlock()

	if err := sub.write(h.layout); err != nil {
		h.unsubscribe(id)
		return 0, err
	}
	if last != nil {
		if err := sub.write(last); err != nil {
			h.unsubscribe(id)
			return 0, err
		}
	}
	return id, nil
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

// Broadcast sends a frame to every subscriber, dropping those whose write fails
func (h *Hub) Broadcast(f sim.Frame) {
	data, err := json.Marshal(Message{Type: TypeFrame, Frame: &f})
	if err != nil {
		h.log.Error("failed to marshal frame", "tick", f.Tick, "error", err)
		return
	}

	h.mu.Lock()
	h.lastFrame = data
	subs := make(map[uint64]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		err := sub.write(data)
		sub.mu.Unlock()
		if err != nil {
			h.log.Warn("failed to send frame", "subscriber", id, "error", err)
			h.unsubscribe(id)
		}
	}
}

// ServeHTTP upgrades the request and keeps the subscription until the client goes away
// Client messages are read and discarded
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id, err := h.subscribe(conn)
	if err != nil {
		h.log.Warn("failed to send initial state", "remote", r.RemoteAddr, "error", err)
		return
	}
	h.log.Info("subscriber connected", "subscriber", id, "remote", r.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unsubscribe(id)
	h.log.Info("subscriber disconnected", "subscriber", id)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[uint64]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation finished"),
			time.Now().Add(time.Second))
		sub.mu.Unlock()
		sub.conn.Close()
	}
}
