package config

import (
	"os"
	"time"
)

// Processing Pipeline Constants
const (
	// PollInterval is the delay between status polls when the realtime
	// channel is unavailable
	PollInterval = 5 * time.Second

	// MaxPollAttempts bounds the polling fallback (60 * 5s = 5 minutes)
	MaxPollAttempts = 60

	// ProcessingTimeout is the overall ceiling for one submission,
	// regardless of tracking channel
	ProcessingTimeout = 5 * time.Minute

	// PollProgressCap caps linearly-estimated progress while polling so the
	// bar never reads complete before a terminal status arrives
	PollProgressCap = 95
)

// HTTP Client Constants
const (
	// MaxServerRetries is the retry budget for 5xx/429 responses
	MaxServerRetries = 3

	// MaxNetworkRetries is the retry budget for transport-level failures
	MaxNetworkRetries = 2

	// RetryBaseDelay seeds the exponential backoff for server retries
	RetryBaseDelay = 1 * time.Second

	// NetworkRetryDelay is the flat delay between network retries
	NetworkRetryDelay = 2 * time.Second

	// RequestTimeout is the per-request HTTP timeout
	RequestTimeout = 30 * time.Second
)

// Realtime Channel Constants
const (
	// MaxReconnectAttempts bounds websocket reconnection after unclean closes
	MaxReconnectAttempts = 5

	// ReconnectBaseDelay seeds the exponential reconnect backoff
	ReconnectBaseDelay = 1 * time.Second

	// ConnectTimeout is how long the orchestrator waits for the realtime
	// channel before switching to polling
	ConnectTimeout = 10 * time.Second
)

// Content Model Constants
const (
	// MaxHistoryEntries bounds the change-history ring buffer
	MaxHistoryEntries = 50

	// ContentCacheTTL is the freshness window for saved content
	ContentCacheTTL = 5 * time.Minute

	// AutoSaveDebounce is the default debounce window for auto-save
	AutoSaveDebounce = 2 * time.Second

	// MaxServices limits the number of service items on a site
	MaxServices = 12
)

// Text Input Constants
const (
	// MinDescriptionLength is the minimum practice description length
	MinDescriptionLength = 50

	// MaxDescriptionLength is the maximum practice description length
	MaxDescriptionLength = 5000
)

// Audio Input Constants
const (
	// MaxAudioBytes is the maximum accepted audio upload size (25MB)
	MaxAudioBytes = 25 << 20

	// MinAudioBytes rejects truncated or empty recordings
	MinAudioBytes = 1024

	// MaxRecordingDuration bounds a single capture session
	MaxRecordingDuration = 5 * time.Minute
)

// AllowedAudioMIMETypes lists the upload formats the backend accepts
var AllowedAudioMIMETypes = []string{
	"audio/webm",
	"audio/ogg",
	"audio/wav",
	"audio/x-wav",
	"audio/mpeg",
	"audio/mp4",
}

// Preview Constants
const (
	// DesktopWidth is the simulated desktop viewport width in pixels
	DesktopWidth = 1280

	// TabletWidth is the simulated tablet viewport width in pixels
	TabletWidth = 768

	// MobileWidth is the simulated mobile viewport width in pixels
	MobileWidth = 375

	// DefaultPreviewPort is where the local preview server listens
	DefaultPreviewPort = "8090"
)

// APIBaseURL returns the backend HTTP base URL
func APIBaseURL() string {
	return getEnvOrDefault("DOCSITE_API_URL", "http://localhost:8000")
}

// WSBaseURL returns the backend websocket base URL
func WSBaseURL() string {
	return getEnvOrDefault("DOCSITE_WS_URL", "ws://localhost:8000")
}

// PublishBucket returns the S3 bucket used for static exports, empty if unset
func PublishBucket() string {
	return os.Getenv("DOCSITE_PUBLISH_BUCKET")
}

// PublishRegion returns the AWS region for static exports
func PublishRegion() string {
	return getEnvOrDefault("DOCSITE_PUBLISH_REGION", "us-east-1")
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
