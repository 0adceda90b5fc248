package audio

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := make([]byte, 320)
	out, err := EncodeWAV(pcm, DefaultSampleRate, DefaultChannels, DefaultBitsPerSample)
	if err != nil {
		t.Fatalf("EncodeWAV error: %v", err)
	}
	if len(out) != 44+len(pcm) {
		t.Fatalf("encoded length = %d; want %d", len(out), 44+len(pcm))
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatalf("bad container magic: %q %q", out[0:4], out[8:12])
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != DefaultSampleRate {
		t.Fatalf("sample rate = %d; want %d", got, DefaultSampleRate)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(len(pcm)) {
		t.Fatalf("data length = %d; want %d", got, len(pcm))
	}
	// byte rate = sampleRate * channels * bits/8
	if got := binary.LittleEndian.Uint32(out[28:32]); got != DefaultSampleRate*2 {
		t.Fatalf("byte rate = %d; want %d", got, DefaultSampleRate*2)
	}
}

func TestEncodeWAVRejectsBadInput(t *testing.T) {
	if _, err := EncodeWAV(nil, DefaultSampleRate, 1, 16); err == nil {
		t.Fatalf("expected error for empty samples")
	}
	if _, err := EncodeWAV([]byte{1, 2}, 0, 1, 16); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestIsRawPCMPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"take1.pcm", true},
		{"TAKE2.RAW", true},
		{"clip.wav", false},
		{"noext", false},
	}
	for _, c := range cases {
		if got := IsRawPCMPath(c.path); got != c.want {
			t.Fatalf("IsRawPCMPath(%q) = %v; want %v", c.path, got, c.want)
		}
	}
}
