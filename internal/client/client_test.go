package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// recordingHandler collects every dispatched event as "type:detail" lines.
type recordingHandler struct {
	mu     sync.Mutex
	events []string
	done   chan struct{}
	want   int
}

func newRecordingHandler(want int) *recordingHandler {
	return &recordingHandler{done: make(chan struct{}), want: want}
}

func (h *recordingHandler) record(ev string) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	if len(h.events) == h.want {
		close(h.done)
	}
	h.mu.Unlock()
}

func (h *recordingHandler) OnConnected(id string) { h.record("connected:" + id) }
func (h *recordingHandler) OnRoomParticipants(ps []string) {
	h.record("room-participants:" + strings.Join(ps, ","))
}
func (h *recordingHandler) OnUserJoined(id string, ps []string) {
	h.record("user-joined:" + id + ":" + strings.Join(ps, ","))
}
func (h *recordingHandler) OnUserLeft(id, newHost string, ps []string) {
	h.record("user-left:" + id + ":" + newHost + ":" + strings.Join(ps, ","))
}
func (h *recordingHandler) OnOffer(from string, _ json.RawMessage) { h.record("offer:" + from) }
func (h *recordingHandler) OnAnswer(from string, _ json.RawMessage) {
	h.record("answer:" + from)
}
func (h *recordingHandler) OnCandidate(from string, _ json.RawMessage) {
	h.record("ice-candidate:" + from)
}

var testUpgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// serveFrames hosts a websocket endpoint that plays the given frames to the
// first client and then records everything the client sends back.
func serveFrames(t *testing.T, frames []string) (url string, sent <-chan []byte) {
	t.Helper()
	out := make(chan []byte, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		for _, f := range frames {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				t.Errorf("serve frame: %v", err)
				return
			}
		}
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				close(out)
				return
			}
			out <- data
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), out
}

func TestDispatchRoutesEvents(t *testing.T) {
	frames := []string{
		`{"type":"connected","clientId":"me"}`,
		`{"type":"room-participants","participants":["h1"]}`,
		`{"type":"user-joined","userId":"p2","participants":["h1","me","p2"]}`,
		`{"type":"offer","offer":{"type":"offer","sdp":"v=0"},"fromId":"h1"}`,
		`{"type":"answer","answer":{"type":"answer","sdp":"v=0"},"fromId":"p2"}`,
		`{"type":"ice-candidate","candidate":{"candidate":"candidate:1"},"fromId":"p2"}`,
		`{"type":"user-left","userId":"h1","newHost":"me","participants":["me","p2"]}`,
		`{"type":"no-such-event"}`,
	}
	url, _ := serveFrames(t, frames)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	h := newRecordingHandler(7)
	go func() { _ = c.Run(ctx, h) }()

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("events not dispatched, got %v", h.events)
	}

	want := []string{
		"connected:me",
		"room-participants:h1",
		"user-joined:p2:h1,me,p2",
		"offer:h1",
		"answer:p2",
		"ice-candidate:p2",
		"user-left:h1:me:me,p2",
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, w := range want {
		if h.events[i] != w {
			t.Errorf("event %d: got %q, want %q", i, h.events[i], w)
		}
	}

	if c.ID() != "me" {
		t.Errorf("ID: got %q, want me", c.ID())
	}
}

func TestOutboundMessageShapes(t *testing.T) {
	url, sent := serveFrames(t, nil)

	c, err := Dial(context.Background(), url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.JoinRoom("ABCDEF", true); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if err := c.SendOffer("p2", "ABCDEF", json.RawMessage(`{"type":"offer","sdp":"v=0"}`)); err != nil {
		t.Fatalf("SendOffer: %v", err)
	}

	read := func() map[string]any {
		select {
		case data := <-sent:
			var m map[string]any
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("decode %q: %v", data, err)
			}
			return m
		case <-time.After(5 * time.Second):
			t.Fatal("message never reached server")
			return nil
		}
	}

	join := read()
	if join["type"] != "join-room" || join["roomId"] != "ABCDEF" || join["isHost"] != true {
		t.Errorf("join-room shape: %v", join)
	}

	offer := read()
	if offer["type"] != "offer" || offer["targetId"] != "p2" || offer["roomId"] != "ABCDEF" {
		t.Errorf("offer shape: %v", offer)
	}
	if _, ok := offer["offer"].(map[string]any); !ok {
		t.Errorf("offer payload missing: %v", offer)
	}
}
