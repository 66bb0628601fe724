package core

import (
	"context"
	"errors"
	"io"

	"github.com/screenerhq/screener/internal/domain"
)

// Frame is a raw outbound payload (a JSON-encoded signaling event).
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// JoinResult reports the membership outcome of a join.
// Others is Participants minus the joiner: the roster the joiner must
// initiate negotiation with, and the broadcast set for everyone else.
type JoinResult struct {
	Participants []domain.ClientID
	Others       []domain.ClientID
	Host         domain.ClientID
}

// Departure describes one room a client was removed from.
type Departure struct {
	RoomID    domain.RoomID
	NewHost   domain.ClientID
	Remaining []domain.ClientID
}

var ErrVideoNotFound = errors.New("video not found")

// VideoStore persists stored-recording descriptors.
// List returns newest-first.
type VideoStore interface {
	Put(ctx context.Context, v *domain.Video) error
	Get(ctx context.Context, id domain.VideoID) (*domain.Video, error)
	List(ctx context.Context) ([]*domain.Video, error)
	Delete(ctx context.Context, id domain.VideoID) error
}

// BlobStore persists raw video content under a host-side name and
// returns the public URL it will be served from.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}
