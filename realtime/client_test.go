package realtime

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

	"docsite/types"
)

var upgrader = websocket.Upgrader{}

// wsServer serves /ws/processing/<id> and feeds a scripted sequence of frames
func wsServer(t *testing.T, script func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/ws/processing/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		script(conn)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func frame(t *testing.T, msgType types.WSMessageType, payload interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	env, err := json.Marshal(types.WSEnvelope{Type: msgType, Payload: raw})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return env
}

func TestClientDispatchesFramesInOrder(t *testing.T) {
	done := make(chan struct{})
	srv := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, frame(t, types.WSProgress,
			types.WSProgressPayload{Stage: "process_text", Status: "processing", Progress: 10}))
		conn.WriteMessage(websocket.TextMessage, frame(t, types.WSProgress,
			types.WSProgressPayload{Stage: "generate_content", Status: "processing", Progress: 60}))
		conn.WriteMessage(websocket.TextMessage, frame(t, types.WSComplete,
			types.WSCompletePayload{WebsiteData: &types.WebsiteData{ID: "site-1"}}))
		<-done
	})
	defer srv.Close()
	defer close(done)

	c := NewClient(wsURL(srv))
	defer c.Close()

	var mu sync.Mutex
	var stages []string
	completed := make(chan string, 1)

	c.OnProgress(func(p types.WSProgressPayload) {
		mu.Lock()
		stages = append(stages, p.Stage)
		mu.Unlock()
	})
	c.OnComplete(func(p types.WSCompletePayload) {
		completed <- p.WebsiteData.ID
	})

	if err := c.Connect(context.Background(), "req-1"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	select {
	case id := <-completed:
		if id != "site-1" {
			t.Fatalf("completed site id = %q; want site-1", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("complete frame never arrived")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(stages) != 2 || stages[0] != "process_text" || stages[1] != "generate_content" {
		t.Fatalf("stages = %v; want ordered pair", stages)
	}
}

func TestClientAnswersHeartbeats(t *testing.T) {
	gotReply := make(chan types.WSMessageType, 1)
	srv := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, frame(t, types.WSHeartbeat, struct{}{}))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env types.WSEnvelope
		if json.Unmarshal(data, &env) == nil {
			gotReply <- env.Type
		}
	})
	defer srv.Close()

	c := NewClient(wsURL(srv))
	defer c.Close()
	if err := c.Connect(context.Background(), "req-2"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	select {
	case typ := <-gotReply:
		if typ != types.WSHeartbeat {
			t.Fatalf("reply type = %q; want heartbeat", typ)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("heartbeat was not answered")
	}
}

func TestConcurrentWritesDoNotRace(t *testing.T) {
	stop := make(chan struct{})
	srv := wsServer(t, func(conn *websocket.Conn) {
		// Drain whatever the client sends back
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
		// Flood heartbeats so the reader goroutine writes replies while the
		// caller sends cancel frames from other goroutines
		for {
			select {
			case <-stop:
				return
			default:
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame(t, types.WSHeartbeat, struct{}{})); err != nil {
				return
			}
		}
	})
	defer srv.Close()
	defer close(stop)

	c := NewClient(wsURL(srv))
	defer c.Close()
	if err := c.Connect(context.Background(), "req-race"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.CancelProcessing("req-race")
			}
		}()
	}
	wg.Wait()
	time.Sleep(50 * time.Millisecond)
}

func TestConnectFailureSetsFailedState(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1") // nothing listens here
	defer c.Close()

	var mu sync.Mutex
	var states []types.ConnectionState
	c.OnConnectionStateChange(func(s types.ConnectionState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Connect(ctx, "req-3"); err == nil {
		t.Fatalf("expected dial failure")
	}
	if c.State() != types.ConnFailed {
		t.Fatalf("State = %q; want failed", c.State())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(states) < 2 || states[len(states)-1] != types.ConnFailed {
		t.Fatalf("states = %v; want connecting then failed", states)
	}
}

func TestCancelWhenDisconnectedIsNoOp(t *testing.T) {
	c := NewClient("ws://localhost:9")
	defer c.Close()
	// Must not panic or block
	c.CancelProcessing("req-4")
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		conn.ReadMessage()
	})
	defer srv.Close()

	c := NewClient(wsURL(srv))
	if err := c.Connect(context.Background(), "req-5"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	c.Close()
	c.Close()
	if c.State() != types.ConnDisconnected {
		t.Fatalf("State = %q; want disconnected", c.State())
	}
}
