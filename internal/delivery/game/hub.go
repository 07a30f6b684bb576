package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Watcher is one websocket subscribed to a game. gorilla connections allow a
// single concurrent writer, so every write goes through Send.
type Watcher struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *Watcher) Send(msg any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(msg)
}

type Hub struct {
	log      *zap.SugaredLogger
	mu       sync.RWMutex
	watchers map[string]map[*Watcher]struct{}
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		log:      log,
		watchers: make(map[string]map[*Watcher]struct{}),
	}
}

func (h *Hub) Join(gameID string, conn *websocket.Conn) *Watcher {
	w := &Watcher{conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers[gameID] == nil {
		h.watchers[gameID] = make(map[*Watcher]struct{})
	}
	h.watchers[gameID][w] = struct{}{}
	return w
}

func (h *Hub) Leave(gameID string, w *Watcher) {
	h.mu.Lock()
	if set, ok := h.watchers[gameID]; ok {
		delete(set, w)
		if len(set) == 0 {
			delete(h.watchers, gameID)
		}
	}
	h.mu.Unlock()
	_ = w.conn.Close()
}

// Watching returns the number of sockets subscribed to gameID.
func (h *Hub) Watching(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[gameID])
}

func (h *Hub) Broadcast(gameID string, msg any) {
	h.mu.RLock()
	targets := make([]*Watcher, 0, len(h.watchers[gameID]))
	for w := range h.watchers[gameID] {
		targets = append(targets, w)
	}
	h.mu.RUnlock()

	for _, w := range targets {
		if err := w.Send(msg); err != nil {
			h.log.Error("write to watcher error:", err)
			h.Leave(gameID, w)
		}
	}
}
