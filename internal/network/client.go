package network

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amalg/go-bomberquest/internal/game"
)

// Client connects to a game server, sends intents and receives snapshots.
type Client struct {
	conn      net.Conn
	clientID  uuid.UUID
	sessionID uuid.UUID
	config    game.Config
	stateCh   chan game.Snapshot
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// NewClient connects to addr and joins the session as its controller.
func NewClient(addr, name string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	c, err := newClient(conn, name)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func newClient(conn net.Conn, name string) (*Client, error) {
	if err := Encode(conn, MsgJoin, JoinMsg{Name: name}); err != nil {
		return nil, fmt.Errorf("send join: %w", err)
	}

	env, err := Decode(conn)
	if err != nil {
		return nil, fmt.Errorf("read welcome: %w", err)
	}

	if env.Type == MsgError {
		var errMsg ErrorMsg
		DecodePayload(env, &errMsg)
		return nil, fmt.Errorf("server error: %s", errMsg.Message)
	}

	if env.Type != MsgWelcome {
		return nil, fmt.Errorf("expected welcome, got %s", env.Type)
	}

	var welcome WelcomeMsg
	if err := DecodePayload(env, &welcome); err != nil {
		return nil, err
	}

	c := &Client{
		conn:      conn,
		clientID:  welcome.ClientID,
		sessionID: welcome.SessionID,
		config:    welcome.Config,
		stateCh:   make(chan game.Snapshot, 10),
		done:      make(chan struct{}),
	}

	go c.receiveLoop()

	return c, nil
}

// ClientID returns the identifier the server assigned to this client.
func (c *Client) ClientID() uuid.UUID {
	return c.clientID
}

// SessionID returns the session the client joined.
func (c *Client) SessionID() uuid.UUID {
	return c.sessionID
}

// Config returns the game rules received from the server.
func (c *Client) Config() game.Config {
	return c.config
}

// Snapshots returns a channel that yields state updates. It is closed when
// the connection ends.
func (c *Client) Snapshots() <-chan game.Snapshot {
	return c.stateCh
}

// SendInput sends the current intent to the server.
func (c *Client) SendInput(in game.Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Encode(c.conn, MsgInput, InputMsg{Input: in})
}

// Input sends the intent and logs failures. The receive loop reports a
// dead connection by closing the snapshot channel.
func (c *Client) Input(in game.Input) {
	if err := c.SendInput(in); err != nil {
		log.Printf("[CLIENT] Failed to send input: %v", err)
	}
}

// Close disconnects from the server.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
	c.conn.Close()
}

func (c *Client) receiveLoop() {
	defer close(c.stateCh)

	for {
		select {
		case <-c.done:
			return
		default:
		}

		env, err := Decode(c.conn)
		if err != nil {
			return
		}

		switch env.Type {
		case MsgState:
			var stateMsg StateMsg
			if err := DecodePayload(env, &stateMsg); err != nil {
				continue
			}
			// Latest state matters most: drop the oldest if the consumer is slow
			select {
			case c.stateCh <- stateMsg.State:
			default:
				select {
				case <-c.stateCh:
				default:
				}
				c.stateCh <- stateMsg.State
			}
		case MsgError:
			var errMsg ErrorMsg
			if err := DecodePayload(env, &errMsg); err == nil {
				log.Printf("[CLIENT] Server error: %s", errMsg.Message)
			}
		}
	}
}
