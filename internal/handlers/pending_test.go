package handlers

import (
	"testing"

	"github.com/pagecraft/page-craft-bot/types"
)

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report", "report"},
		{"my document", "my document"},
		{"a!b@c", "abc"},
		{"../../etc", "etc"},
		{"week-3_notes", "week-3_notes"},
		{"name.", "name"},
		{"trailing   ", "trailing"},
		{"!!!", "document"},
		{"", "document"},
		{"///", "document"},
	}
	for _, tt := range tests {
		if got := sanitizeBaseName(tt.in); got != tt.want {
			t.Errorf("sanitizeBaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		kind     types.FileKind
		ok       bool
	}{
		{"report.pdf", "application/pdf", types.KindPDF, true},
		{"REPORT.PDF", "", types.KindPDF, true},
		{"scan", "application/pdf", types.KindPDF, true},
		{"photo.jpg", "image/jpeg", types.KindImage, true},
		{"pic.webp", "", types.KindImage, true},
		{"pic", "image/png", types.KindImage, true},
		{"song.mp3", "audio/mpeg", "", false},
		{"notes.txt", "text/plain", "", false},
	}
	for _, tt := range tests {
		kind, ok := classifyFile(tt.name, tt.mimeType)
		if ok != tt.ok || kind != tt.kind {
			t.Errorf("classifyFile(%q, %q) = (%q, %v), want (%q, %v)", tt.name, tt.mimeType, kind, ok, tt.kind, tt.ok)
		}
	}
}

func TestResultExtensionsFollowKind(t *testing.T) {
	if got := types.ResultPDF.Extension(); got != ".pdf" {
		t.Fatalf("ResultPDF extension = %q, want .pdf", got)
	}
	if got := types.ResultZip.Extension(); got != ".zip" {
		t.Fatalf("ResultZip extension = %q, want .zip", got)
	}
}
