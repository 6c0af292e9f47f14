package network

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/amalg/go-bomberquest/internal/game"
)

// ErrControllerTaken is reported to a client joining a session that already
// has a controller.
var ErrControllerTaken = errors.New("session already has a controller")

// Server hosts one game session. The first client to join controls the
// player; spectators watch through an optional SpectatorHub.
type Server struct {
	engine     *game.Engine
	addr       string
	sessionID  uuid.UUID
	listener   net.Listener
	spectators *SpectatorHub

	mu         sync.RWMutex
	controller *clientConn
	done       chan struct{}
	stopOnce   sync.Once
}

// clientConn represents a connected client.
type clientConn struct {
	conn net.Conn
	id   uuid.UUID
	name string
	mu   sync.Mutex
}

// NewServer creates a game server around an engine. The server starts the
// engine loop in Start.
func NewServer(addr string, engine *game.Engine) *Server {
	s := &Server{
		engine:    engine,
		addr:      addr,
		sessionID: uuid.New(),
		done:      make(chan struct{}),
	}

	// Receives a copied snapshot from the engine after every tick
	engine.OnTick(s.broadcastState)

	return s
}

// WithSpectators publishes every snapshot to hub as well.
func (s *Server) WithSpectators(hub *SpectatorHub) *Server {
	s.spectators = hub
	return s
}

// SessionID identifies this session to clients and spectators.
func (s *Server) SessionID() uuid.UUID {
	return s.sessionID
}

// Engine returns the underlying game engine.
func (s *Server) Engine() *game.Engine {
	return s.engine
}

// Addr returns the listening address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// HasController reports whether a client currently controls the player.
func (s *Server) HasController() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controller != nil
}

// Start begins accepting connections and running the game loop.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Printf("[SERVER] Session %s listening on %s", s.sessionID, s.Addr())
	printLocalIPs(s.Addr())

	go s.engine.Run()
	go s.acceptLoop()

	return nil
}

// Stop shuts down the server. It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.engine.Stop()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.RLock()
		if s.controller != nil {
			s.controller.conn.Close()
		}
		s.mu.RUnlock()
		if s.spectators != nil {
			s.spectators.Close()
		}
	})
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("[SERVER] Accept error: %v", err)
				continue
			}
		}
		go s.handleClient(conn)
	}
}

func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()

	env, err := Decode(conn)
	if err != nil {
		log.Printf("[SERVER] Failed to read join message: %v", err)
		return
	}

	if env.Type != MsgJoin {
		log.Printf("[SERVER] Expected join message, got %s", env.Type)
		Encode(conn, MsgError, ErrorMsg{Message: "expected join message"})
		return
	}

	var joinMsg JoinMsg
	if err := DecodePayload(env, &joinMsg); err != nil {
		log.Printf("[SERVER] Failed to decode join message: %v", err)
		return
	}

	cc := &clientConn{conn: conn, id: uuid.New(), name: joinMsg.Name}
	if err := s.claimController(cc); err != nil {
		log.Printf("[SERVER] Rejected %s: %v", joinMsg.Name, err)
		Encode(conn, MsgError, ErrorMsg{Message: err.Error()})
		return
	}
	defer s.releaseController(cc)

	log.Printf("[SERVER] Controller joined: %s (%s)", cc.name, cc.id)

	welcome := WelcomeMsg{
		ClientID:  cc.id,
		SessionID: s.sessionID,
		Config:    s.engine.Config(),
	}
	if err := cc.send(MsgWelcome, welcome); err != nil {
		log.Printf("[SERVER] Failed to send welcome: %v", err)
		return
	}

	// Send initial state
	if err := cc.send(MsgState, StateMsg{State: s.engine.Snapshot()}); err != nil {
		log.Printf("[SERVER] Failed to send state to %s: %v", cc.id, err)
		return
	}

	for {
		select {
		case <-s.done:
			return
		default:
		}

		env, err := Decode(conn)
		if err != nil {
			log.Printf("[SERVER] Controller %s disconnected: %v", cc.id, err)
			return
		}

		switch env.Type {
		case MsgInput:
			var inputMsg InputMsg
			if err := DecodePayload(env, &inputMsg); err != nil {
				log.Printf("[SERVER] Invalid input from %s: %v", cc.id, err)
				continue
			}
			s.engine.SetInput(inputMsg.Input)
		default:
			log.Printf("[SERVER] Unknown message type from %s: %s", cc.id, env.Type)
		}
	}
}

func (s *Server) claimController(cc *clientConn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller != nil {
		return ErrControllerTaken
	}
	s.controller = cc
	return nil
}

// releaseController frees the seat and stops the player so a dropped
// connection does not leave a key held down.
func (s *Server) releaseController(cc *clientConn) {
	s.mu.Lock()
	if s.controller == cc {
		s.controller = nil
	}
	s.mu.Unlock()
	s.engine.SetInput(game.Input{})
	log.Printf("[SERVER] Controller removed: %s", cc.id)
}

func (s *Server) broadcastState(snap game.Snapshot) {
	s.mu.RLock()
	cc := s.controller
	s.mu.RUnlock()

	if cc != nil {
		if err := cc.send(MsgState, StateMsg{State: snap}); err != nil {
			log.Printf("[SERVER] Failed to send state to %s: %v", cc.id, err)
		}
	}
	if s.spectators != nil {
		s.spectators.Broadcast(snap)
	}
}

func (cc *clientConn) send(msgType MsgType, payload any) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return Encode(cc.conn, msgType, payload)
}

// printLocalIPs prints all local network interfaces for players to connect to.
func printLocalIPs(addr string) {
	_, port, _ := net.SplitHostPort(addr)

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}

	log.Println("[SERVER] Clients can connect using:")
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				log.Printf("[SERVER]   %s:%s", ipnet.IP.String(), port)
			}
		}
	}
}
