package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/app"
	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
)

// Orchestrator coordinates the connection registry and the room registry on
// behalf of the signaling adapter.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.Rooms
}

func (o *Orchestrator) Join(cid domain.ClientID, roomID domain.RoomID, isHost bool) core.JoinResult {
	return o.Rooms.Join(roomID, cid, isHost)
}

// Disconnect unbinds the connection and removes the client from every room
// it belonged to, reporting each departure for fan-out.
func (o *Orchestrator) Disconnect(cid domain.ClientID) []core.Departure {
	o.Registry.Unbind(cid)
	return o.Rooms.Leave(cid)
}

// Relay delivers a frame to a single target. A missing target or a full send
// buffer drops the frame.
func (o *Orchestrator) Relay(target domain.ClientID, f core.Frame) bool {
	conn, ok := o.Registry.Get(target)
	if !ok {
		log.Debug().Str("module", "orch").Str("target", string(target)).Msg("relay target not connected")
		return false
	}
	if err := conn.TrySend(f); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("target", string(target)).Msg("relay dropped")
		return false
	}
	return true
}

// Fanout relays a frame to each listed client.
func (o *Orchestrator) Fanout(targets []domain.ClientID, f core.Frame) {
	for _, t := range targets {
		o.Relay(t, f)
	}
}
