// Package client is the Go-side signaling socket: it dials the relay,
// dispatches inbound events to a Handler and serializes outbound sends.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Handler receives the events a connected client can observe. Offer, answer
// and candidate payloads are passed through opaque.
type Handler interface {
	OnConnected(clientID string)
	OnRoomParticipants(participants []string)
	OnUserJoined(userID string, participants []string)
	OnUserLeft(userID, newHost string, participants []string)
	OnOffer(fromID string, offer json.RawMessage)
	OnAnswer(fromID string, answer json.RawMessage)
	OnCandidate(fromID string, candidate json.RawMessage)
}

type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu sync.RWMutex
	id string
}

// Dial connects to the signaling relay, e.g. ws://host:8080/api/ws/signal.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to signaling server: %w", err)
	}
	return &Client{conn: conn}, nil
}

// ID returns the server-assigned client id; empty until the connected
// event arrives.
func (c *Client) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *Client) Close() {
	_ = c.conn.Close()
}

// Run reads events until the connection closes or ctx is cancelled.
func (c *Client) Run(ctx context.Context, h Handler) error {
	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("signaling read: %w", err)
		}
		c.dispatch(h, data)
	}
}

func (c *Client) dispatch(h Handler, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad signaling json")
		return
	}

	switch env.Type {
	case "connected":
		c.mu.Lock()
		c.id = env.ClientID
		c.mu.Unlock()
		h.OnConnected(env.ClientID)
	case "room-participants":
		h.OnRoomParticipants(env.Participants)
	case "user-joined":
		h.OnUserJoined(env.UserID, env.Participants)
	case "user-left":
		h.OnUserLeft(env.UserID, env.NewHost, env.Participants)
	case "offer":
		h.OnOffer(env.FromID, env.Offer)
	case "answer":
		h.OnAnswer(env.FromID, env.Answer)
	case "ice-candidate":
		h.OnCandidate(env.FromID, env.Candidate)
	default:
		log.Warn().Str("module", "client").Str("type", env.Type).Msg("unknown signaling event")
	}
}

func (c *Client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) JoinRoom(roomID string, isHost bool) error {
	return c.send(joinRoomMsg{Type: "join-room", RoomID: roomID, IsHost: isHost})
}

func (c *Client) SendOffer(targetID, roomID string, offer json.RawMessage) error {
	return c.send(offerMsg{Type: "offer", Offer: offer, TargetID: targetID, RoomID: roomID})
}

func (c *Client) SendAnswer(targetID, roomID string, answer json.RawMessage) error {
	return c.send(answerMsg{Type: "answer", Answer: answer, TargetID: targetID, RoomID: roomID})
}

func (c *Client) SendCandidate(targetID, roomID string, candidate json.RawMessage) error {
	return c.send(candidateMsg{Type: "ice-candidate", Candidate: candidate, TargetID: targetID, RoomID: roomID})
}
