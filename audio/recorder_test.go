package audio

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// slowSource drips its payload out in small reads so the capture loop spins a
// few times before EOF
type slowSource struct {
	data   *bytes.Reader
	closes int32
	delay  time.Duration
}

func newSlowSource(payload []byte, delay time.Duration) *slowSource {
	return &slowSource{data: bytes.NewReader(payload), delay: delay}
}

func (s *slowSource) Read(p []byte) (int, error) {
	time.Sleep(s.delay)
	if len(p) > 64 {
		p = p[:64]
	}
	return s.data.Read(p)
}

func (s *slowSource) Close() error {
	atomic.AddInt32(&s.closes, 1)
	return nil
}

// blockingSource never returns until closed-driven stop, simulating a live
// microphone
type blockingSource struct {
	closes int32
}

func (s *blockingSource) Read(p []byte) (int, error) {
	time.Sleep(5 * time.Millisecond)
	for i := range p {
		p[i] = 0x10
	}
	return len(p), nil
}

func (s *blockingSource) Close() error {
	atomic.AddInt32(&s.closes, 1)
	return nil
}

func TestRecorderCapturesUntilEOF(t *testing.T) {
	payload := bytes.Repeat([]byte{1, 2, 3, 4}, 100)
	src := newSlowSource(payload, 0)
	r := NewRecorder()

	if err := r.Start(src); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	// Wait for the source to drain
	deadline := time.Now().Add(2 * time.Second)
	for r.State() == StateRecording && atomic.LoadInt32(&src.closes) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	data, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("captured %d bytes; want %d", len(data), len(payload))
	}
	if r.State() != StateStopped {
		t.Fatalf("State = %q; want stopped", r.State())
	}
}

func TestRecorderReleasesSourceExactlyOnce(t *testing.T) {
	src := &blockingSource{}
	r := NewRecorder()

	if err := r.Start(src); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := r.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	// Close after Stop must not release again
	r.Close()
	r.Close()

	if got := atomic.LoadInt32(&src.closes); got != 1 {
		t.Fatalf("source closed %d times; want exactly 1", got)
	}
}

// stalledSource sits in Read until the source itself is closed, like a live
// device waiting for data that never arrives
type stalledSource struct {
	closes  int32
	release chan struct{}
}

func newStalledSource() *stalledSource {
	return &stalledSource{release: make(chan struct{})}
}

func (s *stalledSource) Read(p []byte) (int, error) {
	<-s.release
	return 0, errors.New("read on closed source")
}

func (s *stalledSource) Close() error {
	if atomic.AddInt32(&s.closes, 1) == 1 {
		close(s.release)
	}
	return nil
}

func TestRecorderStopUnblocksStalledRead(t *testing.T) {
	src := newStalledSource()
	r := NewRecorder()

	if err := r.Start(src); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan error, 1)
	go func() {
		_, err := r.Stop()
		stopped <- err
	}()

	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Stop error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return while the source was stalled in Read")
	}

	if got := atomic.LoadInt32(&src.closes); got != 1 {
		t.Fatalf("source closed %d times; want exactly 1", got)
	}
	if r.State() != StateStopped {
		t.Fatalf("State = %q; want stopped", r.State())
	}
}

func TestRecorderCloseUnblocksStalledRead(t *testing.T) {
	src := newStalledSource()
	r := NewRecorder()

	if err := r.Start(src); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		r.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("Close did not return while the source was stalled in Read")
	}
	if got := atomic.LoadInt32(&src.closes); got != 1 {
		t.Fatalf("source closed %d times; want exactly 1", got)
	}
}

func TestRecorderRejectsConcurrentSessions(t *testing.T) {
	r := NewRecorder()
	if err := r.Start(&blockingSource{}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer r.Close()

	if err := r.Start(&blockingSource{}); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second Start error = %v; want ErrAlreadyActive", err)
	}
}

func TestRecorderStopWithoutSession(t *testing.T) {
	r := NewRecorder()
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("Stop error = %v; want ErrNotRecording", err)
	}
}

func TestRecorderSurfacesReadErrors(t *testing.T) {
	r := NewRecorder()
	if err := r.Start(failingSource{}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := r.Stop(); err == nil {
		t.Fatalf("expected read failure to surface from Stop")
	}
	if r.State() != StateErrored {
		t.Fatalf("State = %q; want errored", r.State())
	}
}

type failingSource struct{}

func (failingSource) Read(p []byte) (int, error) { return 0, errors.New("device unplugged") }
func (failingSource) Close() error               { return nil }

func TestLevelMeterTracksPCMAmplitude(t *testing.T) {
	quiet := make([]byte, 512)
	loud := bytes.Repeat([]byte{0xFF, 0x7F}, 256) // max positive 16-bit samples

	if l := pcm16RMS(quiet); l != 0 {
		t.Fatalf("silence level = %f; want 0", l)
	}
	if l := pcm16RMS(loud); l < 0.9 {
		t.Fatalf("full-scale level = %f; want near 1", l)
	}
}
