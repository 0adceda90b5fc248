package types

import "encoding/json"

// WSMessageType identifies an inbound or outbound realtime frame
type WSMessageType string

const (
	WSProgress  WSMessageType = "progress"
	WSStatus    WSMessageType = "status"
	WSError     WSMessageType = "error"
	WSComplete  WSMessageType = "complete"
	WSHeartbeat WSMessageType = "heartbeat"
	WSCancel    WSMessageType = "cancel"
)

// WSEnvelope is the wire format of every realtime frame. Payload stays raw so
// each message type can decode its own shape.
type WSEnvelope struct {
	Type      WSMessageType   `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// WSProgressPayload is the payload of progress and status frames
type WSProgressPayload struct {
	Stage    string `json:"stage"`
	Status   string `json:"status,omitempty"`
	Progress int    `json:"progress,omitempty"`
	Message  string `json:"message,omitempty"`
}

// WSCompletePayload is the payload of a complete frame
type WSCompletePayload struct {
	WebsiteData *WebsiteData `json:"website_data"`
}

// WSErrorPayload is the payload of an error frame
type WSErrorPayload struct {
	Stage      string `json:"stage,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

// ConnectionState tracks the realtime client's lifecycle for UI display
type ConnectionState string

const (
	ConnDisconnected ConnectionState = "disconnected"
	ConnConnecting   ConnectionState = "connecting"
	ConnConnected    ConnectionState = "connected"
	ConnReconnecting ConnectionState = "reconnecting"
	ConnFailed       ConnectionState = "failed"
)
