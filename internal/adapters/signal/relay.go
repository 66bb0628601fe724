package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/domain"
)

// The three negotiation messages are relayed verbatim to their target,
// re-tagged with the sender's id. Payloads stay opaque json.RawMessage.

func (ctl *SignalWSController) handleOffer(cid domain.ClientID, data []byte) {
	type offerPayload struct {
		Type     string          `json:"type"`
		Offer    json.RawMessage `json:"offer"`
		TargetID string          `json:"targetId"`
		RoomID   string          `json:"roomId"`
	}
	var p offerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad offer payload")
		return
	}

	out, err := json.Marshal(struct {
		Type   string          `json:"type"`
		Offer  json.RawMessage `json:"offer"`
		FromID domain.ClientID `json:"fromId"`
	}{"offer", p.Offer, cid})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("offer marshal")
		return
	}
	ctl.Orch.Relay(domain.ClientID(p.TargetID), out)
}

func (ctl *SignalWSController) handleAnswer(cid domain.ClientID, data []byte) {
	type answerPayload struct {
		Type     string          `json:"type"`
		Answer   json.RawMessage `json:"answer"`
		TargetID string          `json:"targetId"`
		RoomID   string          `json:"roomId"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer payload")
		return
	}

	out, err := json.Marshal(struct {
		Type   string          `json:"type"`
		Answer json.RawMessage `json:"answer"`
		FromID domain.ClientID `json:"fromId"`
	}{"answer", p.Answer, cid})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("answer marshal")
		return
	}
	ctl.Orch.Relay(domain.ClientID(p.TargetID), out)
}

func (ctl *SignalWSController) handleCandidate(cid domain.ClientID, data []byte) {
	type candidatePayload struct {
		Type      string          `json:"type"`
		Candidate json.RawMessage `json:"candidate"`
		TargetID  string          `json:"targetId"`
		RoomID    string          `json:"roomId"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad ice-candidate payload")
		return
	}

	out, err := json.Marshal(struct {
		Type      string          `json:"type"`
		Candidate json.RawMessage `json:"candidate"`
		FromID    domain.ClientID `json:"fromId"`
	}{"ice-candidate", p.Candidate, cid})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ice-candidate marshal")
		return
	}
	ctl.Orch.Relay(domain.ClientID(p.TargetID), out)
}
