package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"docsite/config"
)

// Source is a stream of raw audio. Files and capture devices both satisfy
// it; the recorder owns whichever it is given for the duration of a session.
type Source interface {
	io.ReadCloser
}

// State is the capture session lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateStopped   State = "stopped"
	StateErrored   State = "errored"
)

// Capture errors surfaced directly to the user; these never enter the
// backend error taxonomy and are never retried automatically.
var (
	ErrNoSource        = errors.New("no audio source available")
	ErrAlreadyActive   = errors.New("a recording is already in progress")
	ErrNotRecording    = errors.New("no recording in progress")
	ErrRecordingTooBig = errors.New("recording exceeded the maximum size")
)

// Recorder runs one capture session over an exclusively-owned Source. The
// source is released exactly once no matter how the session ends: normal
// stop, read error, duration cap, or Close during capture.
type Recorder struct {
	mu      sync.Mutex
	state   State
	src     Source
	release *sync.Once
	buf     bytes.Buffer
	started time.Time
	elapsed time.Duration
	level   float64
	err     error
	stop    chan struct{}
	done    chan struct{}
}

// NewRecorder creates an idle recorder
func NewRecorder() *Recorder {
	return &Recorder{state: StateIdle}
}

// Start begins capturing from src. Starting while a session is active fails;
// the caller must Stop (or Close) first so the previous source is released.
func (r *Recorder) Start(src Source) error {
	if src == nil {
		return ErrNoSource
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRecording {
		return ErrAlreadyActive
	}

	r.state = StateRecording
	r.src = src
	r.release = &sync.Once{}
	r.buf.Reset()
	r.started = time.Now()
	r.elapsed = 0
	r.level = 0
	r.err = nil
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.capture(src, r.release, r.stop, r.done)
	return nil
}

// capture pumps the source into the buffer until EOF, error, a stop signal,
// or the duration/size cap. It owns releasing the source.
func (r *Recorder) capture(src Source, release *sync.Once, stop, done chan struct{}) {
	defer close(done)
	defer releaseSource(src, release)

	chunk := make([]byte, 4096)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := src.Read(chunk)
		if n > 0 {
			r.mu.Lock()
			r.buf.Write(chunk[:n])
			r.level = pcm16RMS(chunk[:n])
			r.elapsed = time.Since(r.started)
			tooLong := r.elapsed > config.MaxRecordingDuration
			tooBig := r.buf.Len() > config.MaxAudioBytes
			r.mu.Unlock()

			if tooBig {
				r.fail(ErrRecordingTooBig)
				return
			}
			if tooLong {
				// Duration cap is a clean stop, not an error
				return
			}
		}
		if err != nil {
			// Stop and Close release the source to unblock a pending read;
			// the error that read returns is not a capture failure
			select {
			case <-stop:
				return
			default:
			}
			if err != io.EOF {
				r.fail(fmt.Errorf("audio source read failed: %w", err))
			}
			return
		}
	}
}

// Stop ends the session and returns the captured bytes. The source is
// guaranteed released when Stop returns.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	stop, done := r.stop, r.done
	src, release := r.src, r.release
	r.mu.Unlock()

	close(stop)
	// A device source can sit in Read indefinitely waiting for data; closing
	// it is the only way to unblock the capture goroutine
	releaseSource(src, release)
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		r.state = StateErrored
		return nil, r.err
	}
	r.state = StateStopped
	data := make([]byte, r.buf.Len())
	copy(data, r.buf.Bytes())
	return data, nil
}

// Close aborts any active session and releases the source. Safe to call on
// any state and more than once; component teardown always goes through here.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	stop, done := r.stop, r.done
	src, release := r.src, r.release
	r.mu.Unlock()

	close(stop)
	releaseSource(src, release)
	<-done

	r.mu.Lock()
	r.state = StateStopped
	r.mu.Unlock()
}

// State returns the session state
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Level returns the most recent audio level in [0, 1] for visualization
func (r *Recorder) Level() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

// Elapsed returns how long the current or last session ran
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRecording {
		return time.Since(r.started)
	}
	return r.elapsed
}

// fail records a capture error; the session surfaces it from Stop
func (r *Recorder) fail(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// releaseSource closes the source exactly once, logging (not propagating)
// close failures since the captured data is already safe
func releaseSource(src Source, release *sync.Once) {
	release.Do(func() {
		if err := src.Close(); err != nil {
			log.Printf("audio: source close failed: %v", err)
		}
	})
}

// OpenFileSource opens an audio file as a capture source, for environments
// without a microphone
func OpenFileSource(path string) (Source, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	return f, info.Size(), nil
}

// pcm16RMS computes the root-mean-square level of little-endian 16-bit PCM
// samples, normalized to [0, 1]. Non-PCM payloads just produce a meaningless
// but harmless wiggle.
func pcm16RMS(chunk []byte) float64 {
	if len(chunk) < 2 {
		return 0
	}
	var sum float64
	n := len(chunk) / 2
	for i := 0; i < n; i++ {
		sample := int16(uint16(chunk[2*i]) | uint16(chunk[2*i+1])<<8)
		f := float64(sample) / 32768
		sum += f * f
	}
	return math.Sqrt(sum / float64(n))
}
