package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"docsite/audio"
	"docsite/config"
	"docsite/realtime"
	"docsite/types"
)

// Backend is the slice of the API client the orchestrator needs
type Backend interface {
	ProcessAudio(ctx context.Context, fileName, mimeType string, data []byte) (*types.SubmitResponse, error)
	ProcessText(ctx context.Context, text string) (*types.SubmitResponse, error)
	ProcessingStatus(ctx context.Context, requestID string) (*types.JobStatus, error)
	CancelProcessing(ctx context.Context, requestID string) error
}

// Channel is the realtime connection used for streaming progress.
// *realtime.Client satisfies it; tests substitute a fake.
type Channel interface {
	Connect(ctx context.Context, requestID string) error
	OnProgress(fn func(types.WSProgressPayload))
	OnStatus(fn func(types.WSProgressPayload))
	OnComplete(fn func(types.WSCompletePayload))
	OnError(fn func(types.WSErrorPayload))
	OnConnectionStateChange(fn func(types.ConnectionState))
	CancelProcessing(requestID string)
	Close()
}

// Input is a practice description ready for submission
type Input interface {
	inputType() types.InputType
}

// TextInput is a typed practice description
type TextInput struct {
	Text string
}

func (TextInput) inputType() types.InputType { return types.InputText }

// AudioInput is a recorded practice description
type AudioInput struct {
	Name string
	MIME string
	Data []byte
}

func (AudioInput) inputType() types.InputType { return types.InputAudio }

// OnProgress receives step/percentage updates while a job runs. It is invoked
// zero or more times before Submit returns, always from a single goroutine
// and in event order.
type OnProgress func(types.ProgressUpdate)

// Orchestrator submits jobs to the backend pipeline and tracks them through
// the fixed stage sequence, streaming over the realtime channel with a
// one-way polling fallback. One Orchestrator serves one session; concurrent
// submissions are tracked independently by request id.
type Orchestrator struct {
	backend    Backend
	newChannel func() Channel

	mu   sync.Mutex
	jobs map[string]*job
}

// job is one in-flight tracking session
type job struct {
	cancel  context.CancelFunc
	channel Channel
}

// New creates an orchestrator that opens realtime channels against the
// configured websocket base URL
func New(backend Backend) *Orchestrator {
	return &Orchestrator{
		backend:    backend,
		newChannel: func() Channel { return realtime.NewClient("") },
		jobs:       make(map[string]*job),
	}
}

// NewWithChannel creates an orchestrator with a custom channel factory
func NewWithChannel(backend Backend, newChannel func() Channel) *Orchestrator {
	return &Orchestrator{
		backend:    backend,
		newChannel: newChannel,
		jobs:       make(map[string]*job),
	}
}

// trackEvent is the single internal event type every tracking source
// (realtime listener or poller) reduces to. One consumer loop turns these
// into progress callbacks, so update ordering is exactly event order.
type trackEvent struct {
	kind     eventKind
	stage    string
	status   types.StepStatus
	progress int
	message  string
	data     *types.WebsiteData
}

type eventKind int

const (
	evStage eventKind = iota
	evEstimate
	evComplete
	evError
	evChannelLost
)

// Submit validates the input locally, posts the job, then tracks it to a
// terminal state. onProgress may be nil. The returned error, if any, is
// always a *types.ProcessingError.
func (o *Orchestrator) Submit(ctx context.Context, input Input, onProgress OnProgress) (*types.ProcessingResult, error) {
	requestID, err := o.submit(ctx, input)
	if err != nil {
		return nil, err
	}

	trackCtx, cancel := context.WithTimeout(ctx, config.ProcessingTimeout)
	defer cancel()

	ch := o.newChannel()
	o.mu.Lock()
	o.jobs[requestID] = &job{cancel: cancel, channel: ch}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.jobs, requestID)
		o.mu.Unlock()
		ch.Close()
	}()

	return o.track(trackCtx, ch, requestID, input.inputType(), onProgress)
}

// submit validates and posts one job, returning the server-assigned request id
func (o *Orchestrator) submit(ctx context.Context, input Input) (string, error) {
	switch in := input.(type) {
	case TextInput:
		if v := ValidateTextInput(in.Text); !v.IsValid {
			return "", validationError(types.ErrCategoryValidation, strings.Join(v.Errors, "; "))
		}
		resp, err := o.backend.ProcessText(ctx, in.Text)
		if err != nil {
			return "", Categorize(types.StageProcessText, err)
		}
		return resp.RequestID, nil
	case AudioInput:
		if v := audio.ValidateFile(in.Name, int64(len(in.Data)), in.MIME); !v.IsValid {
			category := types.ErrCategoryValidation
			msg := strings.Join(v.Errors, "; ")
			switch {
			case strings.Contains(msg, "empty"), strings.Contains(msg, "limit"):
				category = types.ErrCategoryFileSize
			case strings.Contains(msg, "format"):
				category = types.ErrCategoryFileFormat
			}
			return "", validationError(category, msg)
		}
		resp, err := o.backend.ProcessAudio(ctx, in.Name, in.MIME, in.Data)
		if err != nil {
			return "", Categorize(types.StageUpload, err)
		}
		return resp.RequestID, nil
	default:
		return "", validationError(types.ErrCategoryValidation, fmt.Sprintf("unsupported input type %T", input))
	}
}

// track drives the Connecting -> Streaming -> PollingFallback -> Terminal
// state machine. Every event source pushes into one channel; this loop is the
// only place progress callbacks fire.
func (o *Orchestrator) track(ctx context.Context, ch Channel, requestID string, inputType types.InputType, onProgress OnProgress) (*types.ProcessingResult, error) {
	tr := newTracker(inputType)
	events := make(chan trackEvent, 64)

	push := func(ev trackEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	ch.OnProgress(func(p types.WSProgressPayload) {
		push(trackEvent{kind: evStage, stage: p.Stage, status: stepStatus(p.Status), progress: p.Progress})
	})
	ch.OnStatus(func(p types.WSProgressPayload) {
		push(trackEvent{kind: evStage, stage: p.Stage, status: stepStatus(p.Status), progress: p.Progress})
	})
	ch.OnComplete(func(p types.WSCompletePayload) {
		push(trackEvent{kind: evComplete, data: p.WebsiteData})
	})
	ch.OnError(func(p types.WSErrorPayload) {
		push(trackEvent{kind: evError, stage: p.Stage, message: p.Message})
	})
	ch.OnConnectionStateChange(func(s types.ConnectionState) {
		if s == types.ConnFailed {
			push(trackEvent{kind: evChannelLost})
		}
	})

	polling := false
	if err := ch.Connect(ctx, requestID); err != nil {
		// Streaming never established: abandon it for good and poll instead
		log.Printf("orchestrator: realtime unavailable for %s, using polling: %v", requestID, err)
		polling = true
		go o.poll(ctx, requestID, push)
	}

	emit := func(u types.ProgressUpdate) {
		u.RequestID = requestID
		if onProgress != nil {
			onProgress(u)
		}
	}

	// First update fires before any pipeline event so the caller holds the
	// request id from the moment tracking starts
	emit(tr.Current(types.StatusProcessing, 0))

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, newError(types.ErrCategoryTimeout, "", true,
					fmt.Sprintf("no terminal status for %s within %s", requestID, config.ProcessingTimeout))
			}
			return nil, newError(types.ErrCategoryClient, "", false, "processing was cancelled")

		case ev := <-events:
			switch ev.kind {
			case evStage:
				emit(tr.Resolve(ev.stage, ev.status, ev.progress))

			case evEstimate:
				emit(tr.Current(types.StatusProcessing, ev.progress))

			case evComplete:
				emit(tr.Current(types.StatusCompleted, 100))
				return &types.ProcessingResult{
					RequestID:   requestID,
					WebsiteData: ev.data,
					CompletedAt: time.Now(),
				}, nil

			case evError:
				emit(tr.Current(types.StatusError, 0))
				return nil, categorizeStageError(ev.stage, ev.message)

			case evChannelLost:
				// One-way transition: once polling starts, streaming is
				// never resumed for this job
				if !polling {
					polling = true
					log.Printf("orchestrator: realtime channel lost for %s, falling back to polling", requestID)
					go o.poll(ctx, requestID, push)
				}
			}
		}
	}
}

// poll queries the status endpoint on a fixed interval, reducing responses to
// the same event stream the realtime listeners feed. When the payload carries
// no stage id, progress is estimated linearly from the attempt count, capped
// below completion.
func (o *Orchestrator) poll(ctx context.Context, requestID string, push func(trackEvent)) {
	for attempt := 1; attempt <= config.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(config.PollInterval):
		}

		st, err := o.backend.ProcessingStatus(ctx, requestID)
		if err != nil {
			log.Printf("orchestrator: status poll %d failed for %s: %v", attempt, requestID, err)
			continue
		}

		switch st.Status {
		case "completed":
			push(trackEvent{kind: evComplete, data: st.Result})
			return
		case "error", "failed":
			msg := st.Error
			if msg == "" {
				msg = st.Message
			}
			push(trackEvent{kind: evError, stage: st.Stage, message: msg})
			return
		}

		if st.Stage != "" {
			push(trackEvent{kind: evStage, stage: st.Stage, status: types.StatusProcessing, progress: st.Progress})
			continue
		}

		estimated := attempt * 100 / config.MaxPollAttempts
		if estimated > config.PollProgressCap {
			estimated = config.PollProgressCap
		}
		push(trackEvent{kind: evEstimate, progress: estimated})
	}
	// Attempts exhausted; the overall deadline will surface the timeout
}

// Cancel best-effort-notifies the server and stops local tracking for a job.
// "Cancelled" here only means "no longer observed": server-side work is not
// guaranteed to stop.
func (o *Orchestrator) Cancel(requestID string) {
	o.mu.Lock()
	j := o.jobs[requestID]
	o.mu.Unlock()

	if j != nil && j.channel != nil {
		j.channel.CancelProcessing(requestID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
	defer cancel()
	if err := o.backend.CancelProcessing(ctx, requestID); err != nil {
		log.Printf("orchestrator: cancel notify failed for %s: %v", requestID, err)
	}

	if j != nil {
		j.cancel()
	}
}

// stepStatus normalizes the status string from a realtime payload
func stepStatus(s string) types.StepStatus {
	switch s {
	case string(types.StatusCompleted):
		return types.StatusCompleted
	case string(types.StatusError):
		return types.StatusError
	default:
		return types.StatusProcessing
	}
}
