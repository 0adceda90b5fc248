package audio

import (
	"path/filepath"
	"strings"
)

// extensionMIMETypes maps audio file extensions to their upload MIME type
var extensionMIMETypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
}

// MIMEFromPath guesses the MIME type of an audio file from its extension,
// returning an empty string when the extension is not a supported format
func MIMEFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return extensionMIMETypes[ext]
}
