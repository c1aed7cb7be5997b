package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pagecraft/page-craft-bot/types"
)

func pdfEntry(name string, messageID int) types.FileEntry {
	return types.FileEntry{
		Name:            name,
		Path:            "/tmp/" + name,
		Kind:            types.KindPDF,
		OriginMessageID: messageID,
		Size:            1024,
		UploadedAt:      time.Now(),
	}
}

func TestAddFilePositionsFollowUploadOrder(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)

	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		pos, err := s.AddFile(1, pdfEntry(name, 100+i))
		if err != nil {
			t.Fatalf("AddFile(%s): %v", name, err)
		}
		if pos != i+1 {
			t.Fatalf("AddFile(%s) position = %d, want %d", name, pos, i+1)
		}
	}

	files, err := s.ListFiles(1)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	if len(files) != len(want) {
		t.Fatalf("ListFiles returned %d files, want %d", len(files), len(want))
	}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("files[%d].Name = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestAddFileRejectsOverCountLimit(t *testing.T) {
	s := NewMemoryStore(2, 10<<20)

	if _, err := s.AddFile(1, pdfEntry("a.pdf", 1)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.AddFile(1, pdfEntry("b.pdf", 2)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	if _, err := s.AddFile(1, pdfEntry("c.pdf", 3)); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("AddFile over limit err = %v, want ErrLimitExceeded", err)
	}

	files, _ := s.ListFiles(1)
	if len(files) != 2 {
		t.Fatalf("registry holds %d files after rejected add, want 2", len(files))
	}
}

func TestAddFileRejectsOversizedFile(t *testing.T) {
	s := NewMemoryStore(5, 1024)

	entry := pdfEntry("big.pdf", 1)
	entry.Size = 2048
	if _, err := s.AddFile(1, entry); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("AddFile oversized err = %v, want ErrLimitExceeded", err)
	}

	files, _ := s.ListFiles(1)
	if len(files) != 0 {
		t.Fatalf("registry holds %d files after rejected add, want 0", len(files))
	}
}

func TestSessionsArePartitionedByUser(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)

	if _, err := s.AddFile(1, pdfEntry("mine.pdf", 1)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.AddFile(2, pdfEntry("theirs.pdf", 2)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	files, _ := s.ListFiles(1)
	if len(files) != 1 || files[0].Name != "mine.pdf" {
		t.Fatalf("user 1 sees %v, want only mine.pdf", files)
	}
}

func TestFindByReply(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)

	if _, err := s.AddFile(1, pdfEntry("a.pdf", 42)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	entry, err := s.FindByReply(1, 42)
	if err != nil {
		t.Fatalf("FindByReply: %v", err)
	}
	if entry == nil || entry.Name != "a.pdf" {
		t.Fatalf("FindByReply(42) = %v, want a.pdf", entry)
	}

	entry, err = s.FindByReply(1, 99)
	if err != nil {
		t.Fatalf("FindByReply: %v", err)
	}
	if entry != nil {
		t.Fatalf("FindByReply(99) = %v, want nil", entry)
	}
}

func TestClearFilesRemovesBackingFiles(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)
	dir := t.TempDir()

	path := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entry := pdfEntry("a.pdf", 1)
	entry.Path = path
	if _, err := s.AddFile(1, entry); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	removed, err := s.ClearFiles(1)
	if err != nil {
		t.Fatalf("ClearFiles: %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("ClearFiles removed %d entries, want 1", len(removed))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("backing file still exists after ClearFiles")
	}

	// Clearing again is a no-op.
	removed, err = s.ClearFiles(1)
	if err != nil {
		t.Fatalf("ClearFiles again: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("second ClearFiles removed %d entries, want 0", len(removed))
	}
}

func TestSetPendingDisplacesPrevious(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)

	first := types.PendingOperation{ResultPath: "/tmp/first.pdf", ResultKind: types.ResultPDF, CreatedAt: time.Now()}
	displaced, err := s.SetPending(1, first)
	if err != nil {
		t.Fatalf("SetPending: %v", err)
	}
	if displaced != nil {
		t.Fatalf("first SetPending displaced %v, want nil", displaced)
	}

	second := types.PendingOperation{ResultPath: "/tmp/second.zip", ResultKind: types.ResultZip, CreatedAt: time.Now()}
	displaced, err = s.SetPending(1, second)
	if err != nil {
		t.Fatalf("SetPending: %v", err)
	}
	if displaced == nil || displaced.ResultPath != "/tmp/first.pdf" {
		t.Fatalf("second SetPending displaced %v, want first.pdf", displaced)
	}

	pending, err := s.TakePending(1)
	if err != nil {
		t.Fatalf("TakePending: %v", err)
	}
	if pending.ResultPath != "/tmp/second.zip" {
		t.Fatalf("TakePending = %q, want second.zip", pending.ResultPath)
	}
}

func TestTakePendingConsumesTheSlot(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)

	if _, err := s.SetPending(1, types.PendingOperation{ResultPath: "/tmp/r.pdf", ResultKind: types.ResultPDF}); err != nil {
		t.Fatalf("SetPending: %v", err)
	}
	if _, err := s.TakePending(1); err != nil {
		t.Fatalf("TakePending: %v", err)
	}
	if _, err := s.TakePending(1); !errors.Is(err, ErrNoPending) {
		t.Fatalf("second TakePending err = %v, want ErrNoPending", err)
	}
}

func TestPeekPendingKeepsTheSlot(t *testing.T) {
	s := NewMemoryStore(5, 10<<20)

	if _, err := s.PeekPending(1); !errors.Is(err, ErrNoPending) {
		t.Fatalf("PeekPending empty err = %v, want ErrNoPending", err)
	}

	if _, err := s.SetPending(1, types.PendingOperation{ResultPath: "/tmp/r.pdf", ResultKind: types.ResultPDF}); err != nil {
		t.Fatalf("SetPending: %v", err)
	}
	if _, err := s.PeekPending(1); err != nil {
		t.Fatalf("PeekPending: %v", err)
	}
	if _, err := s.TakePending(1); err != nil {
		t.Fatalf("TakePending after peek: %v", err)
	}
}
