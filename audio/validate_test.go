package audio

import (
	"strings"
	"testing"

	"docsite/config"
)

func TestValidateFile(t *testing.T) {
	cases := []struct {
		name    string
		size    int64
		mime    string
		valid   bool
		errPart string
	}{
		{"valid wav", 2048, "audio/wav", true, ""},
		{"valid with codec params", 2048, "audio/webm;codecs=opus", true, ""},
		{"case insensitive", 2048, "Audio/MP4", true, ""},
		{"empty file", 0, "audio/wav", false, "empty"},
		{"too short", 100, "audio/wav", false, "too short"},
		{"too large", config.MaxAudioBytes + 1, "audio/wav", false, "25MB limit"},
		{"wrong format", 2048, "application/pdf", false, "Invalid format"},
		{"no mime", 2048, "", false, "Invalid format"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ValidateFile("clip", c.size, c.mime)
			if got.IsValid != c.valid {
				t.Fatalf("IsValid = %v; want %v (errors: %v)", got.IsValid, c.valid, got.Errors)
			}
			if c.errPart != "" {
				found := false
				for _, e := range got.Errors {
					if strings.Contains(e, c.errPart) {
						found = true
					}
				}
				if !found {
					t.Fatalf("errors %v missing %q", got.Errors, c.errPart)
				}
			}
		})
	}
}

func TestValidateFileReportsBothProblems(t *testing.T) {
	got := ValidateFile("clip", 0, "text/plain")
	if len(got.Errors) != 2 {
		t.Fatalf("errors = %v; want both size and format reported", got.Errors)
	}
}

func TestMIMEFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"visit.wav", "audio/wav"},
		{"/tmp/Recording.MP3", "audio/mpeg"},
		{"clip.webm", "audio/webm"},
		{"notes.m4a", "audio/mp4"},
		{"document.pdf", ""},
		{"noextension", ""},
	}

	for _, c := range cases {
		if got := MIMEFromPath(c.path); got != c.want {
			t.Fatalf("MIMEFromPath(%q) = %q; want %q", c.path, got, c.want)
		}
	}
}
