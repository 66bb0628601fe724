package peer

import (
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// RemoteStream groups the remote tracks that share one stream id. Repeated
// track events on the same stream append tracks; they never produce a
// second stream.
type RemoteStream struct {
	ID     string
	PeerID string

	mu     sync.RWMutex
	tracks []*webrtc.TrackRemote
}

func (s *RemoteStream) Tracks() []*webrtc.TrackRemote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*webrtc.TrackRemote, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// addTrack reports false for a track id already present.
func (s *RemoteStream) addTrack(t *webrtc.TrackRemote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.tracks {
		if have.ID() == t.ID() {
			return false
		}
	}
	s.tracks = append(s.tracks, t)
	return true
}

// addRemoteTrack coalesces an inbound track into its stream and starts its
// read pump. Runs on a pion callback goroutine.
func (d *Driver) addRemoteTrack(p *Peer, track *webrtc.TrackRemote) {
	d.mu.Lock()
	sid := track.StreamID()
	rs, ok := p.streams[sid]
	var notify func(*RemoteStream)
	if !ok {
		rs = &RemoteStream{ID: sid, PeerID: p.id}
		p.streams[sid] = rs
		notify = d.cfg.OnStream
	}
	added := rs.addTrack(track)
	d.mu.Unlock()

	log.Info().
		Str("module", "peer").
		Str("peer", p.id).
		Str("stream", sid).
		Str("track", track.ID()).
		Str("kind", track.Kind().String()).
		Bool("new_stream", !ok).
		Msg("remote track")

	if notify != nil {
		notify(rs)
	}
	if added {
		go d.pumpRTP(rs, track)
	}
}

// pumpRTP reads packets until the track ends, handing each to the OnRTP
// sink when one is configured.
func (d *Driver) pumpRTP(rs *RemoteStream, track *webrtc.TrackRemote) {
	for {
		pkt, _, err := track.ReadRTP()
		if err != nil {
			log.Debug().Err(err).Str("module", "peer").Str("peer", rs.PeerID).Str("track", track.ID()).Msg("track pump done")
			return
		}
		if d.cfg.OnRTP != nil {
			d.cfg.OnRTP(rs, track, pkt)
		}
	}
}
