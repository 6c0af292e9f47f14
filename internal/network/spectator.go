package network

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/amalg/go-bomberquest/internal/game"
)

const (
	writeWait       = 5 * time.Second
	spectatorBuffer = 16
)

// SpectatorHub streams snapshots to read-only websocket viewers. Each frame is
// a text message holding a MsgState envelope.
type SpectatorHub struct {
	upgrader websocket.Upgrader

	mu         sync.Mutex
	spectators map[uuid.UUID]*spectator
	closed     bool
}

type spectator struct {
	id   uuid.UUID
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewSpectatorHub returns an empty hub. It accepts connections from any origin.
func NewSpectatorHub() *SpectatorHub {
	return &SpectatorHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		spectators: make(map[uuid.UUID]*spectator),
	}
}

// ServeHTTP upgrades the request and registers the connection as a spectator.
func (h *SpectatorHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SPECTATE] Upgrade failed: %v", err)
		return
	}

	sp := &spectator{
		id:   uuid.New(),
		ws:   ws,
		send: make(chan []byte, spectatorBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ws.Close()
		return
	}
	h.spectators[sp.id] = sp
	h.mu.Unlock()

	log.Printf("[SPECTATE] Spectator %s connected from %s", sp.id, r.RemoteAddr)

	go sp.writePump()
	go h.readPump(sp)
}

// Count returns the number of connected spectators.
func (h *SpectatorHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.spectators)
}

// Broadcast queues the snapshot for every spectator. A spectator whose queue
// is full is disconnected.
func (h *SpectatorHub) Broadcast(snap game.Snapshot) {
	msg, err := marshalEnvelope(MsgState, StateMsg{State: snap})
	if err != nil {
		log.Printf("[SPECTATE] Failed to encode snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sp := range h.spectators {
		select {
		case sp.send <- msg:
		default:
			log.Printf("[SPECTATE] Spectator %s too slow, dropping", id)
			delete(h.spectators, id)
			sp.close()
		}
	}
}

// Close disconnects every spectator and refuses new ones.
func (h *SpectatorHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sp := range h.spectators {
		delete(h.spectators, id)
		sp.close()
	}
}

func (h *SpectatorHub) remove(sp *spectator) {
	h.mu.Lock()
	if h.spectators[sp.id] == sp {
		delete(h.spectators, sp.id)
		sp.close()
	}
	h.mu.Unlock()
}

// readPump discards incoming frames and unregisters the spectator when the
// connection closes.
func (h *SpectatorHub) readPump(sp *spectator) {
	defer func() {
		h.remove(sp)
		sp.ws.Close()
		log.Printf("[SPECTATE] Spectator %s disconnected", sp.id)
	}()

	for {
		if _, _, err := sp.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[SPECTATE] Read error: %v", err)
			}
			return
		}
	}
}

func (sp *spectator) writePump() {
	defer sp.ws.Close()

	for message := range sp.send {
		sp.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sp.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	sp.ws.SetWriteDeadline(time.Now().Add(writeWait))
	sp.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (sp *spectator) close() {
	sp.once.Do(func() { close(sp.send) })
}
