// Command caller is a headless call participant: it joins a room over the
// signaling relay and negotiates a media connection with every peer,
// logging the streams it receives. Useful for exercising rooms without a
// browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/client"
	"github.com/screenerhq/screener/internal/peer"
)

type sigAdapter struct {
	c      *client.Client
	roomID string
}

func (s sigAdapter) SendOffer(target string, offer json.RawMessage) error {
	return s.c.SendOffer(target, s.roomID, offer)
}

func (s sigAdapter) SendAnswer(target string, answer json.RawMessage) error {
	return s.c.SendAnswer(target, s.roomID, answer)
}

func (s sigAdapter) SendCandidate(target string, candidate json.RawMessage) error {
	return s.c.SendCandidate(target, s.roomID, candidate)
}

type handler struct {
	c      *client.Client
	d      *peer.Driver
	roomID string
	isHost bool
}

func (h *handler) OnConnected(clientID string) {
	log.Info().Str("client", clientID).Str("room", h.roomID).Bool("is_host", h.isHost).Msg("connected, joining room")
	if err := h.c.JoinRoom(h.roomID, h.isHost); err != nil {
		log.Error().Err(err).Msg("join-room send failed")
	}
}

func (h *handler) OnRoomParticipants(participants []string) {
	log.Info().Strs("participants", participants).Msg("room roster")
	h.d.HandleParticipants(participants)
}

func (h *handler) OnUserJoined(userID string, participants []string) {
	log.Info().Str("user", userID).Int("count", len(participants)).Msg("user joined")
	h.d.HandleUserJoined(userID)
}

func (h *handler) OnUserLeft(userID, newHost string, participants []string) {
	log.Info().Str("user", userID).Str("new_host", newHost).Msg("user left")
	h.d.HandlePeerLeft(userID)
}

func (h *handler) OnOffer(fromID string, offer json.RawMessage) {
	h.d.HandleOffer(fromID, offer)
}

func (h *handler) OnAnswer(fromID string, answer json.RawMessage) {
	h.d.HandleAnswer(fromID, answer)
}

func (h *handler) OnCandidate(fromID string, candidate json.RawMessage) {
	h.d.HandleCandidate(fromID, candidate)
}

func main() {
	server := flag.String("server", "ws://localhost:8080/api/ws/signal", "signaling relay URL")
	roomID := flag.String("room", "", "room id to join")
	isHost := flag.Bool("host", false, "join as host")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *roomID == "" {
		log.Fatal().Msg("-room is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cl, err := client.Dial(ctx, *server)
	if err != nil {
		log.Fatal().Err(err).Msg("dial signaling server")
	}
	defer cl.Close()

	d := peer.NewDriver(sigAdapter{c: cl, roomID: *roomID}, peer.Config{
		OnStream: func(s *peer.RemoteStream) {
			log.Info().Str("peer", s.PeerID).Str("stream", s.ID).Msg("remote stream")
		},
	})
	defer d.Close()

	h := &handler{c: cl, d: d, roomID: *roomID, isHost: *isHost}
	if err := cl.Run(ctx, h); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("signaling loop ended")
	}
}
