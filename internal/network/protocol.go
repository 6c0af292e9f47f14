package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/amalg/go-bomberquest/internal/game"
)

// MsgType identifies the type of network message.
type MsgType string

const (
	MsgJoin    MsgType = "join"
	MsgWelcome MsgType = "welcome"
	MsgInput   MsgType = "input"
	MsgState   MsgType = "state"
	MsgError   MsgType = "error"
)

// maxMessageSize bounds a single decoded message.
const maxMessageSize = 1 << 20

// Envelope wraps all messages with a type discriminator for deserialization.
// Websocket spectators receive the same envelope as a text frame.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// --- Client → Server Messages ---

// JoinMsg is sent by a client to take control of the session.
type JoinMsg struct {
	Name string `json:"name"`
}

// InputMsg carries the client's current intent. PlaceBomb is latched by the
// engine until the next tick.
type InputMsg struct {
	Input game.Input `json:"input"`
}

// --- Server → Client Messages ---

// WelcomeMsg is sent to a client after joining.
type WelcomeMsg struct {
	ClientID  uuid.UUID   `json:"client_id"`
	SessionID uuid.UUID   `json:"session_id"`
	Config    game.Config `json:"config"`
}

// StateMsg is the snapshot published after every tick.
type StateMsg struct {
	State game.Snapshot `json:"state"`
}

// ErrorMsg notifies a client of an error.
type ErrorMsg struct {
	Message string `json:"message"`
}

// marshalEnvelope serializes a payload inside its typed envelope.
func marshalEnvelope(msgType MsgType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	body, err := json.Marshal(Envelope{Type: msgType, Payload: payloadBytes})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return body, nil
}

// Encode serializes a message and writes it to the writer.
// Format: [4-byte big-endian length][JSON body]
func Encode(w io.Writer, msgType MsgType, payload any) error {
	body, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return writeFrame(w, body)
}

func writeFrame(w io.Writer, body []byte) error {
	// Header and body go out in a single Write.
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Decode reads a length-prefixed JSON message from the reader.
func Decode(r io.Reader) (*Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}

	if length > maxMessageSize {
		return nil, fmt.Errorf("message too large: %d bytes", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	return &env, nil
}

// DecodePayload unmarshals the payload from an envelope into the target struct.
func DecodePayload(env *Envelope, target any) error {
	if err := json.Unmarshal(env.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return nil
}
