package messages

import (
	"strings"
	"testing"

	"github.com/pagecraft/page-craft-bot/internal/resolver"
	"github.com/pagecraft/page-craft-bot/types"
)

func TestFileListNumbersWithinEachKind(t *testing.T) {
	files := []types.FileEntry{
		{Name: "a.pdf", Kind: types.KindPDF},
		{Name: "b.png", Kind: types.KindImage},
		{Name: "c.pdf", Kind: types.KindPDF},
	}

	out := FileList(files)
	for _, line := range []string{"1. a.pdf", "2. c.pdf", "1. b.png"} {
		if !strings.Contains(out, line) {
			t.Errorf("FileList output missing %q:\n%s", line, out)
		}
	}
	if strings.Contains(out, "3. c.pdf") {
		t.Errorf("FileList numbered c.pdf by registry position, want per-kind index:\n%s", out)
	}
	if strings.Contains(out, "2. b.png") {
		t.Errorf("FileList numbered b.png by registry position, want per-kind index:\n%s", out)
	}
}

// The index a user reads off /list must be the index the commands
// accept: listed "2. c.pdf" under PDFs resolves to c.pdf.
func TestFileListIndicesMatchResolution(t *testing.T) {
	files := []types.FileEntry{
		{Name: "a.pdf", Kind: types.KindPDF},
		{Name: "b.png", Kind: types.KindImage},
		{Name: "c.pdf", Kind: types.KindPDF},
	}

	out := FileList(files)
	if !strings.Contains(out, "2. c.pdf") {
		t.Fatalf("FileList output missing %q:\n%s", "2. c.pdf", out)
	}

	res, err := resolver.ResolveByIndex(resolver.FilterKind(files, types.KindPDF), "2")
	if err != nil {
		t.Fatalf("ResolveByIndex(2): %v", err)
	}
	if res.Entries[0].Name != "c.pdf" {
		t.Fatalf("listed index 2 resolved to %q, want c.pdf", res.Entries[0].Name)
	}

	res, err = resolver.ResolveByIndex(resolver.FilterKind(files, types.KindImage), "1")
	if err != nil {
		t.Fatalf("ResolveByIndex(1): %v", err)
	}
	if res.Entries[0].Name != "b.png" {
		t.Fatalf("listed index 1 resolved to %q, want b.png", res.Entries[0].Name)
	}
}
