package audio

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// Default capture format for raw PCM sources
const (
	DefaultSampleRate    = 16000
	DefaultChannels      = 1
	DefaultBitsPerSample = 16
)

// EncodeWAV wraps raw PCM samples in a RIFF/WAVE container so the backend can
// treat captured audio like any uploaded .wav file
func EncodeWAV(pcm []byte, sampleRate, channels, bitsPerSample int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no samples to encode")
	}
	if sampleRate <= 0 || channels <= 0 || bitsPerSample <= 0 {
		return nil, fmt.Errorf("invalid format %dHz/%dch/%dbit", sampleRate, channels, bitsPerSample)
	}

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bitsPerSample))
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf, nil
}

// IsRawPCMPath reports whether a path looks like headerless PCM that needs a
// WAV container before upload
func IsRawPCMPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcm", ".raw":
		return true
	}
	return false
}
