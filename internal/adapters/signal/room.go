package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/domain"
)

func (ctl *SignalWSController) handleJoinRoom(
	cid domain.ClientID,
	conn *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		IsHost bool   `json:"isHost"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		return
	}
	if p.RoomID == "" {
		log.Warn().Str("module", "signal").Str("client", string(cid)).Msg("join-room without room id")
		return
	}

	res := ctl.Orch.Join(cid, domain.RoomID(p.RoomID), p.IsHost)
	log.Info().Str("module", "signal").Str("client", string(cid)).Str("room", p.RoomID).Bool("is_host", p.IsHost).Msg("join-room")

	// The joiner learns who is already here; everyone else learns who arrived.
	ctl.sendJSON(conn, struct {
		Type         string            `json:"type"`
		Participants []domain.ClientID `json:"participants"`
	}{"room-participants", res.Others})

	joined, err := json.Marshal(struct {
		Type         string            `json:"type"`
		UserID       domain.ClientID   `json:"userId"`
		Participants []domain.ClientID `json:"participants"`
	}{"user-joined", cid, res.Participants})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("user-joined marshal")
		return
	}
	ctl.Orch.Fanout(res.Others, joined)
}

// disconnect applies the implicit leave and tells every affected room who
// departed and who holds the host seat now.
func (ctl *SignalWSController) disconnect(cid domain.ClientID) {
	for _, dep := range ctl.Orch.Disconnect(cid) {
		if len(dep.Remaining) == 0 {
			continue
		}
		left, err := json.Marshal(struct {
			Type         string            `json:"type"`
			UserID       domain.ClientID   `json:"userId"`
			NewHost      domain.ClientID   `json:"newHost"`
			Participants []domain.ClientID `json:"participants"`
		}{"user-left", cid, dep.NewHost, dep.Remaining})
		if err != nil {
			log.Error().Err(err).Str("module", "signal").Msg("user-left marshal")
			continue
		}
		ctl.Orch.Fanout(dep.Remaining, left)
	}
}
