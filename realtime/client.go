package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"docsite/config"
	"docsite/types"
)

// Client is a reconnecting websocket client scoped to one processing job.
// All inbound frames are dispatched from a single reader goroutine, so
// listeners observe events in exactly the order the server emitted them.
type Client struct {
	baseURL string

	mu        sync.Mutex
	conn      *websocket.Conn
	state     types.ConnectionState
	requestID string
	closed    bool

	// gorilla/websocket allows one concurrent writer per connection;
	// every outbound frame goes through writeFrame
	writeMu sync.Mutex

	onProgress    func(types.WSProgressPayload)
	onStatus      func(types.WSProgressPayload)
	onComplete    func(types.WSCompletePayload)
	onError       func(types.WSErrorPayload)
	onStateChange func(types.ConnectionState)

	done chan struct{}
}

// NewClient creates a realtime client. An empty baseURL falls back to the
// DOCSITE_WS_URL environment variable and then to the development default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = config.WSBaseURL()
	}
	return &Client{
		baseURL: baseURL,
		state:   types.ConnDisconnected,
		done:    make(chan struct{}),
	}
}

// OnProgress registers the listener for progress frames
func (c *Client) OnProgress(fn func(types.WSProgressPayload)) { c.onProgress = fn }

// OnStatus registers the listener for status frames
func (c *Client) OnStatus(fn func(types.WSProgressPayload)) { c.onStatus = fn }

// OnComplete registers the listener for the terminal complete frame
func (c *Client) OnComplete(fn func(types.WSCompletePayload)) { c.onComplete = fn }

// OnError registers the listener for error frames
func (c *Client) OnError(fn func(types.WSErrorPayload)) { c.onError = fn }

// OnConnectionStateChange registers the listener for lifecycle transitions
func (c *Client) OnConnectionStateChange(fn func(types.ConnectionState)) { c.onStateChange = fn }

// Connect dials the processing channel for the given request id and starts
// the reader. It returns once the connection is established or the dial
// fails; reconnection after an established connection drops is automatic.
func (c *Client) Connect(ctx context.Context, requestID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("realtime client is closed")
	}
	c.requestID = requestID
	c.mu.Unlock()

	c.setState(types.ConnConnecting)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(types.ConnFailed)
		return fmt.Errorf("failed to open realtime channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setState(types.ConnConnected)

	go c.readLoop(ctx, conn)
	return nil
}

// dial opens one websocket connection attempt
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	url := fmt.Sprintf("%s/ws/processing/%s", c.baseURL, c.requestID)
	dialer := websocket.Dialer{HandshakeTimeout: config.ConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop pumps frames until the connection drops or the client closes.
// An unclean drop triggers the reconnect loop.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			case <-ctx.Done():
				return
			default:
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("realtime: connection dropped: %v", err)
				c.reconnect(ctx)
				return
			}
			c.setState(types.ConnDisconnected)
			return
		}
		c.dispatch(conn, data)
	}
}

// reconnect retries the dial with exponential backoff. The transition to
// ConnFailed after the final attempt is what lets the orchestrator fall back
// to polling.
func (c *Client) reconnect(ctx context.Context) {
	c.setState(types.ConnReconnecting)

	for attempt := 0; attempt < config.MaxReconnectAttempts; attempt++ {
		delay := config.ReconnectBaseDelay * time.Duration(1<<attempt)
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.setState(types.ConnFailed)
			return
		case <-time.After(delay):
		}

		conn, err := c.dial(ctx)
		if err != nil {
			log.Printf("realtime: reconnect attempt %d failed: %v", attempt+1, err)
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.setState(types.ConnConnected)
		go c.readLoop(ctx, conn)
		return
	}

	c.setState(types.ConnFailed)
}

// dispatch decodes one frame and invokes the matching listener. Heartbeats
// are answered inline and not surfaced.
func (c *Client) dispatch(conn *websocket.Conn, data []byte) {
	var env types.WSEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("realtime: dropping undecodable frame: %v", err)
		return
	}

	switch env.Type {
	case types.WSHeartbeat:
		reply, _ := json.Marshal(types.WSEnvelope{Type: types.WSHeartbeat})
		if err := c.writeFrame(conn, websocket.TextMessage, reply); err != nil {
			log.Printf("realtime: heartbeat reply failed: %v", err)
		}
	case types.WSProgress:
		var p types.WSProgressPayload
		if err := json.Unmarshal(env.Payload, &p); err == nil && c.onProgress != nil {
			c.onProgress(p)
		}
	case types.WSStatus:
		var p types.WSProgressPayload
		if err := json.Unmarshal(env.Payload, &p); err == nil && c.onStatus != nil {
			c.onStatus(p)
		}
	case types.WSComplete:
		var p types.WSCompletePayload
		if err := json.Unmarshal(env.Payload, &p); err == nil && c.onComplete != nil {
			c.onComplete(p)
		}
	case types.WSError:
		var p types.WSErrorPayload
		if err := json.Unmarshal(env.Payload, &p); err == nil && c.onError != nil {
			c.onError(p)
		}
	default:
		log.Printf("realtime: ignoring unknown frame type %q", env.Type)
	}
}

// CancelProcessing sends a best-effort cancel frame. When not connected this
// is a silent no-op; the caller must not treat it as a guarantee that
// server-side work stops.
func (c *Client) CancelProcessing(requestID string) {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()

	if conn == nil || state != types.ConnConnected {
		return
	}

	frame, _ := json.Marshal(types.WSEnvelope{Type: types.WSCancel, RequestID: requestID})
	if err := c.writeFrame(conn, websocket.TextMessage, frame); err != nil {
		log.Printf("realtime: cancel send failed: %v", err)
	}
}

// State returns the current connection state
func (c *Client) State() types.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close tears the client down. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		_ = c.writeFrame(conn, websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client closing"))
		conn.Close()
	}
	c.setState(types.ConnDisconnected)
}

// writeFrame serializes all writes to a connection
func (c *Client) writeFrame(conn *websocket.Conn, messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(messageType, data)
}

// setState records the new state and notifies the listener outside the lock
func (c *Client) setState(s types.ConnectionState) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	fn := c.onStateChange
	c.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}
