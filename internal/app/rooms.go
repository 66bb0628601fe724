package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
)

type roomState struct {
	host         domain.ClientID
	participants []domain.ClientID
}

// Rooms is the authoritative in-memory room registry. Rooms are created
// lazily on first join and deleted when the last participant leaves.
// memberOf is a reverse index so a disconnect does not scan every room.
type Rooms struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*roomState
	memberOf map[domain.ClientID]map[domain.RoomID]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:    make(map[domain.RoomID]*roomState),
		memberOf: make(map[domain.ClientID]map[domain.RoomID]struct{}),
	}
}

// Join adds clientID to roomID, creating the room if needed. A host-flagged
// joiner claims the host seat only while it is vacant; an existing host is
// never demoted. Repeated joins are absorbed without duplicating the entry.
func (r *Rooms) Join(roomID domain.RoomID, clientID domain.ClientID, isHost bool) core.JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = &roomState{}
		if isHost {
			room.host = clientID
		}
		r.rooms[roomID] = room
		log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room created")
	}

	if isHost && room.host == "" {
		room.host = clientID
	}

	if !contains(room.participants, clientID) {
		room.participants = append(room.participants, clientID)
	}

	if r.memberOf[clientID] == nil {
		r.memberOf[clientID] = make(map[domain.RoomID]struct{})
	}
	r.memberOf[clientID][roomID] = struct{}{}

	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("client", string(clientID)).Bool("is_host", isHost).Msg("joined")

	return core.JoinResult{
		Participants: clone(room.participants),
		Others:       without(room.participants, clientID),
		Host:         room.host,
	}
}

// Leave removes clientID from every room it belongs to. The first remaining
// participant inherits a vacated host seat; emptied rooms are deleted.
func (r *Rooms) Leave(clientID domain.ClientID) []core.Departure {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []core.Departure
	for roomID := range r.memberOf[clientID] {
		room, ok := r.rooms[roomID]
		if !ok {
			continue
		}
		room.participants = without(room.participants, clientID)

		if room.host == clientID && len(room.participants) > 0 {
			room.host = room.participants[0]
		}

		if len(room.participants) == 0 {
			delete(r.rooms, roomID)
			log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room deleted")
			out = append(out, core.Departure{RoomID: roomID})
			continue
		}

		out = append(out, core.Departure{
			RoomID:    roomID,
			NewHost:   room.host,
			Remaining: clone(room.participants),
		})
	}
	delete(r.memberOf, clientID)

	if len(out) > 0 {
		log.Info().Str("module", "app.rooms").Str("client", string(clientID)).Int("rooms", len(out)).Msg("left")
	}
	return out
}

// Snapshot returns a copy of the room's current state.
func (r *Rooms) Snapshot(roomID domain.RoomID) (domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return domain.Room{}, false
	}
	return domain.Room{
		ID:           roomID,
		Host:         room.host,
		Participants: clone(room.participants),
	}, true
}

func contains(ids []domain.ClientID, id domain.ClientID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func clone(ids []domain.ClientID) []domain.ClientID {
	out := make([]domain.ClientID, len(ids))
	copy(out, ids)
	return out
}

func without(ids []domain.ClientID, id domain.ClientID) []domain.ClientID {
	out := make([]domain.ClientID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
