package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/app/orch"
	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// SignalWSController terminates signaling websockets and routes the four
// message kinds. It never parses SDP or candidate payloads.
type SignalWSController struct {
	Orch       *orch.Orchestrator
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewSignalWSController(o *orch.Orchestrator, readLimit int64, pingPeriod time.Duration) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request, assigns the connection its client id and
// starts the read/write pumps. The id is announced to the client right away
// so it can label outbound negotiation messages.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := domain.ClientID(uuid.NewString())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("client", string(cid)).Msg("new WS connection")

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.Bind(cid, conn, cancel)

	ctl.sendJSON(conn, struct {
		Type     string `json:"type"`
		ClientID string `json:"clientId"`
	}{"connected", string(cid)})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
