package peer

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// State tracks where a remote peer's negotiation stands.
type State int

const (
	StateNew State = iota
	StateOffering
	StateAnswering
	StateAwaitingAnswer
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateOffering:
		return "offering"
	case StateAnswering:
		return "answering"
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Peer is one remote participant's connection and its negotiation state.
// Pending candidates wait for the remote description; streams coalesce
// remote tracks by stream id.
type Peer struct {
	id        string
	pc        *webrtc.PeerConnection
	state     State
	remoteSet bool
	pending   []webrtc.ICECandidateInit
	streams   map[string]*RemoteStream
}

// newPeer wires a PeerConnection with local tracks attached and trickle
// ICE forwarding. Caller holds d.mu.
func (d *Driver) newPeer(id string) (*Peer, error) {
	pc, err := webrtc.NewPeerConnection(d.cfg.WebRTC)
	if err != nil {
		return nil, err
	}

	p := &Peer{
		id:      id,
		pc:      pc,
		state:   StateNew,
		streams: make(map[string]*RemoteStream),
	}

	for _, t := range d.cfg.LocalTracks {
		if _, err := pc.AddTrack(t); err != nil {
			_ = pc.Close()
			return nil, err
		}
	}

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		data, err := json.Marshal(c.ToJSON())
		if err != nil {
			return
		}
		if err := d.sig.SendCandidate(id, data); err != nil {
			log.Warn().Err(err).Str("module", "peer").Str("peer", id).Msg("send candidate")
		}
	})

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "peer").Str("peer", id).Str("state", s.String()).Msg("connection state")
	})

	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		d.addRemoteTrack(p, track)
	})

	d.peers[id] = p
	return p, nil
}

func (p *Peer) close() {
	if p.state == StateClosed {
		return
	}
	p.state = StateClosed
	if err := p.pc.Close(); err != nil {
		log.Error().Err(err).Str("module", "peer").Str("peer", p.id).Msg("close error")
	}
}
