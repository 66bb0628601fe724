package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
)

type connEntry struct {
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// Registry tracks live signaling connections by client id.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ClientID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ClientID]*connEntry)}
}

func (r *Registry) Bind(cid domain.ClientID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("client", string(cid)).Msg("bound connection")
}

func (r *Registry) Get(cid domain.ClientID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Unbind(cid domain.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, cid)
	log.Info().Str("module", "app.registry").Str("client", string(cid)).Msg("unbound connection")
}

// Cancel tears down the connection's context, if any.
func (r *Registry) Cancel(cid domain.ClientID) bool {
	r.mu.RLock()
	e, ok := r.conns[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("client", string(cid)).Msg("canceled connection")
	return true
}
