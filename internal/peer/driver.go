// Package peer drives one media connection per remote participant: the
// offer/answer exchange, trickle ICE and remote stream bookkeeping.
package peer

import (
	"encoding/json"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// Signaler sends negotiation messages addressed to a remote participant.
type Signaler interface {
	SendOffer(targetID string, offer json.RawMessage) error
	SendAnswer(targetID string, answer json.RawMessage) error
	SendCandidate(targetID string, candidate json.RawMessage) error
}

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
			{URLs: []string{"stun:stun1.l.google.com:19302"}},
		},
	}
}

// Config carries the optional knobs for a Driver. A zero WebRTC
// configuration falls back to DefaultWebRTCConfig.
type Config struct {
	WebRTC      webrtc.Configuration
	LocalTracks []webrtc.TrackLocal

	// OnStream fires once per remote stream, when its first track arrives.
	OnStream func(*RemoteStream)

	// OnRTP receives every packet read from a remote track.
	OnRTP func(*RemoteStream, *webrtc.TrackRemote, *rtp.Packet)
}

type Driver struct {
	sig Signaler
	cfg Config

	mu    sync.Mutex
	peers map[string]*Peer
}

func NewDriver(sig Signaler, cfg Config) *Driver {
	if len(cfg.WebRTC.ICEServers) == 0 {
		cfg.WebRTC = DefaultWebRTCConfig()
	}
	return &Driver{
		sig:   sig,
		cfg:   cfg,
		peers: make(map[string]*Peer),
	}
}

// HandleParticipants starts negotiation with every participant already in
// the room: this client is the offer initiator towards each of them.
func (d *Driver) HandleParticipants(ids []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		if _, ok := d.peers[id]; ok {
			continue
		}
		d.startOffer(id)
	}
}

// HandleUserJoined pre-creates an idle connection for a newcomer; the
// newcomer initiates, so this side just waits for its offer.
func (d *Driver) HandleUserJoined(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.peers[id]; ok {
		return
	}
	if _, err := d.newPeer(id); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", id).Msg("create connection")
	}
}

// HandleOffer answers an inbound offer, creating the connection if the
// peer is not yet known.
func (d *Driver) HandleOffer(fromID string, offer json.RawMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.peers[fromID]
	if !ok {
		var err error
		if p, err = d.newPeer(fromID); err != nil {
			log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("create connection")
			return
		}
	}
	p.state = StateAnswering

	var desc webrtc.SessionDescription
	if err := json.Unmarshal(offer, &desc); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("bad offer")
		return
	}
	if err := p.pc.SetRemoteDescription(desc); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("set remote offer")
		return
	}
	p.remoteSet = true
	d.flushPending(p)

	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("create answer")
		return
	}
	if err := p.pc.SetLocalDescription(answer); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("set local answer")
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("marshal answer")
		return
	}
	if err := d.sig.SendAnswer(fromID, data); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("send answer")
		return
	}
	p.state = StateConnected
}

// HandleAnswer applies the answer to the matching outstanding connection.
// An answer with no known peer, or for a peer whose remote description is
// already set, is a no-op.
func (d *Driver) HandleAnswer(fromID string, answer json.RawMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.peers[fromID]
	if !ok || p.remoteSet {
		log.Debug().Str("module", "peer").Str("peer", fromID).Msg("answer without outstanding offer")
		return
	}

	var desc webrtc.SessionDescription
	if err := json.Unmarshal(answer, &desc); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("bad answer")
		return
	}
	if err := p.pc.SetRemoteDescription(desc); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("set remote answer")
		return
	}
	p.remoteSet = true
	d.flushPending(p)
	p.state = StateConnected
}

// HandleCandidate adds a remote ICE candidate. Candidates that arrive
// before the remote description are queued and applied after it is set;
// candidates for unknown peers are dropped.
func (d *Driver) HandleCandidate(fromID string, candidate json.RawMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.peers[fromID]
	if !ok {
		log.Debug().Str("module", "peer").Str("peer", fromID).Msg("candidate for unknown peer")
		return
	}

	var init webrtc.ICECandidateInit
	if err := json.Unmarshal(candidate, &init); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("bad candidate")
		return
	}

	if !p.remoteSet {
		p.pending = append(p.pending, init)
		return
	}
	if err := p.pc.AddICECandidate(init); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", fromID).Msg("add candidate")
	}
}

// HandlePeerLeft closes and discards the peer's connection immediately.
func (d *Driver) HandlePeerLeft(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.peers[id]
	if !ok {
		return
	}
	p.close()
	delete(d.peers, id)
	log.Info().Str("module", "peer").Str("peer", id).Msg("peer left, connection closed")
}

// PeerState reports the negotiation state for a remote participant.
func (d *Driver) PeerState(id string) (State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.peers[id]
	if !ok {
		return StateClosed, false
	}
	return p.state, true
}

// Close tears down every peer connection.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.peers {
		p.close()
		delete(d.peers, id)
	}
}

func (d *Driver) startOffer(id string) {
	p, err := d.newPeer(id)
	if err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", id).Msg("create connection")
		return
	}
	p.state = StateOffering

	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", id).Msg("create offer")
		return
	}
	if err := p.pc.SetLocalDescription(offer); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", id).Msg("set local offer")
		return
	}

	data, err := json.Marshal(offer)
	if err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", id).Msg("marshal offer")
		return
	}
	if err := d.sig.SendOffer(id, data); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", id).Msg("send offer")
		return
	}
	p.state = StateAwaitingAnswer
}

func (d *Driver) flushPending(p *Peer) {
	for _, init := range p.pending {
		if err := p.pc.AddICECandidate(init); err != nil {
			log.Error().Err(err).Str("module", "peer").Str("peer", p.id).Msg("add queued candidate")
		}
	}
	p.pending = nil
}
