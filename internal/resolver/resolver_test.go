package resolver

import (
	"errors"
	"testing"

	"github.com/pagecraft/page-craft-bot/types"
)

func registry(names ...string) []types.FileEntry {
	files := make([]types.FileEntry, 0, len(names))
	for i, name := range names {
		files = append(files, types.FileEntry{
			Name:            name,
			Path:            "/tmp/" + name,
			Kind:            types.KindPDF,
			OriginMessageID: 100 + i,
		})
	}
	return files
}

func names(entries []types.FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func assertNames(t *testing.T, got []types.FileEntry, want ...string) {
	t.Helper()
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("selected %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("selected %v, want %v", gotNames, want)
		}
	}
}

func TestResolveMergeAllFiles(t *testing.T) {
	res, err := ResolveMerge(registry("a.pdf", "b.pdf", "c.pdf"), "")
	if err != nil {
		t.Fatalf("ResolveMerge: %v", err)
	}
	assertNames(t, res.Entries, "a.pdf", "b.pdf", "c.pdf")
}

func TestResolveMergeExplicitOrder(t *testing.T) {
	res, err := ResolveMerge(registry("a.pdf", "b.pdf", "c.pdf"), "3,1")
	if err != nil {
		t.Fatalf("ResolveMerge: %v", err)
	}
	assertNames(t, res.Entries, "c.pdf", "a.pdf")
}

func TestResolveMergeNeedsTwoFiles(t *testing.T) {
	if _, err := ResolveMerge(registry("a.pdf"), ""); !errors.Is(err, ErrNotEnoughFiles) {
		t.Fatalf("single-file merge err = %v, want ErrNotEnoughFiles", err)
	}
	if _, err := ResolveMerge(registry("a.pdf", "b.pdf"), "2"); !errors.Is(err, ErrNotEnoughFiles) {
		t.Fatalf("single-index merge err = %v, want ErrNotEnoughFiles", err)
	}
}

func TestResolveMergeInvalidIndex(t *testing.T) {
	_, err := ResolveMerge(registry("a.pdf", "b.pdf"), "1,5")
	var indexErr *InvalidIndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("err = %v, want *InvalidIndexError", err)
	}
	if indexErr.Index != 5 || indexErr.Count != 2 {
		t.Fatalf("InvalidIndexError = %+v, want Index=5 Count=2", indexErr)
	}
}

func TestResolveMergeNonNumericIndex(t *testing.T) {
	_, err := ResolveMerge(registry("a.pdf", "b.pdf"), "a,b")
	var indexErr *InvalidIndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("err = %v, want *InvalidIndexError", err)
	}
	if indexErr.Token != "a" {
		t.Fatalf("InvalidIndexError.Token = %q, want %q", indexErr.Token, "a")
	}
	if got := indexErr.Error(); got != `"a" is not a file number` {
		t.Fatalf("Error() = %q, want the not-a-number form", got)
	}
}

func TestResolveMergeWithPrimaryLeads(t *testing.T) {
	files := registry("a.pdf", "b.pdf", "c.pdf")
	res, err := ResolveMergeWith(files, files[2], "1,2")
	if err != nil {
		t.Fatalf("ResolveMergeWith: %v", err)
	}
	assertNames(t, res.Entries, "c.pdf", "a.pdf", "b.pdf")
	if res.Primary == nil || res.Primary.Name != "c.pdf" {
		t.Fatalf("Primary = %v, want c.pdf", res.Primary)
	}
}

func TestResolveMergeWithSkipsPrimaryIndex(t *testing.T) {
	files := registry("a.pdf", "b.pdf")
	res, err := ResolveMergeWith(files, files[0], "1,2")
	if err != nil {
		t.Fatalf("ResolveMergeWith: %v", err)
	}
	assertNames(t, res.Entries, "a.pdf", "b.pdf")
}

func TestResolveByIndexDefaultsToLatest(t *testing.T) {
	res, err := ResolveByIndex(registry("a.pdf", "b.pdf"), "")
	if err != nil {
		t.Fatalf("ResolveByIndex: %v", err)
	}
	assertNames(t, res.Entries, "b.pdf")
}

func TestResolveByIndexExplicit(t *testing.T) {
	res, err := ResolveByIndex(registry("a.pdf", "b.pdf"), "1")
	if err != nil {
		t.Fatalf("ResolveByIndex: %v", err)
	}
	assertNames(t, res.Entries, "a.pdf")
}

func TestResolveByIndexOutOfRange(t *testing.T) {
	_, err := ResolveByIndex(registry("a.pdf"), "3")
	var indexErr *InvalidIndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("err = %v, want *InvalidIndexError", err)
	}
	if indexErr.Index != 3 {
		t.Fatalf("InvalidIndexError.Index = %d, want 3", indexErr.Index)
	}
}

func TestResolveByIndexNonNumeric(t *testing.T) {
	_, err := ResolveByIndex(registry("a.pdf"), "first")
	var indexErr *InvalidIndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("err = %v, want *InvalidIndexError", err)
	}
	if indexErr.Token != "first" {
		t.Fatalf("InvalidIndexError.Token = %q, want %q", indexErr.Token, "first")
	}
}

func TestFilterKind(t *testing.T) {
	files := []types.FileEntry{
		{Name: "a.pdf", Kind: types.KindPDF},
		{Name: "b.png", Kind: types.KindImage},
		{Name: "c.pdf", Kind: types.KindPDF},
	}
	assertNames(t, FilterKind(files, types.KindPDF), "a.pdf", "c.pdf")
	assertNames(t, FilterKind(files, types.KindImage), "b.png")
}

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		spec       string
		start, end int
	}{
		{"3", 2, 2},
		{"5-8", 4, 7},
		{"1-1", 0, 0},
		{" 2 - 4 ", 1, 3},
	}
	for _, tt := range tests {
		r, err := ParsePageRange(tt.spec)
		if err != nil {
			t.Fatalf("ParsePageRange(%q): %v", tt.spec, err)
		}
		if r.Start != tt.start || r.End != tt.end {
			t.Errorf("ParsePageRange(%q) = [%d,%d], want [%d,%d]", tt.spec, r.Start, r.End, tt.start, tt.end)
		}
	}
}

func TestParsePageRangeRejectsBadSpecs(t *testing.T) {
	for _, spec := range []string{"", "abc", "0", "8-5", "1-2-3", "-3"} {
		if _, err := ParsePageRange(spec); err == nil {
			t.Errorf("ParsePageRange(%q) succeeded, want error", spec)
		}
		var rangeErr *InvalidRangeError
		if _, err := ParsePageRange(spec); !errors.As(err, &rangeErr) {
			t.Errorf("ParsePageRange(%q) err = %v, want *InvalidRangeError", spec, err)
		}
	}
}

func TestClamp(t *testing.T) {
	r, _ := ParsePageRange("5-8")

	clamped, ok := r.Clamp(6)
	if !ok {
		t.Fatalf("Clamp(6) reported fully out of range")
	}
	if clamped.Start != 4 || clamped.End != 5 {
		t.Fatalf("Clamp(6) = [%d,%d], want [4,5]", clamped.Start, clamped.End)
	}

	if _, ok := r.Clamp(3); ok {
		t.Fatalf("Clamp(3) = in range, want fully out of range")
	}
}

func TestHumanRendersOneBased(t *testing.T) {
	r, _ := ParsePageRange("5-8")
	if got := r.Human(); got != "5-8" {
		t.Fatalf("Human() = %q, want %q", got, "5-8")
	}
	single, _ := ParsePageRange("3")
	if got := single.Human(); got != "3" {
		t.Fatalf("Human() = %q, want %q", got, "3")
	}
}
