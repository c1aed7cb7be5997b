package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pagecraft/page-craft-bot/internal/config"
	"github.com/pagecraft/page-craft-bot/store"
	"github.com/pagecraft/page-craft-bot/types"
)

func testHandlers(sessions types.SessionStore) *Handlers {
	return NewHandlers(sessions, nil, nil, config.Limits{
		MaxFilesPerUser: 2,
		MaxFileBytes:    10 << 20,
	})
}

func downloadedFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRegisterUploadKeepsAcceptedFile(t *testing.T) {
	sessions := store.NewMemoryStore(2, 10<<20)
	bh := testHandlers(sessions)
	path := downloadedFile(t, "a.pdf")

	position, err := bh.registerUpload(1, types.FileEntry{
		Name:       "a.pdf",
		Path:       path,
		Kind:       types.KindPDF,
		UploadedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("registerUpload: %v", err)
	}
	if position != 1 {
		t.Fatalf("position = %d, want 1", position)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("accepted upload was removed: %v", err)
	}
}

// A rejected registration must release the file already downloaded to
// disk; the pre-add checks can lose a race against concurrent uploads.
func TestRegisterUploadRemovesRejectedFile(t *testing.T) {
	sessions := store.NewMemoryStore(1, 10<<20)
	bh := testHandlers(sessions)

	first := downloadedFile(t, "a.pdf")
	if _, err := bh.registerUpload(1, types.FileEntry{Name: "a.pdf", Path: first, Kind: types.KindPDF}); err != nil {
		t.Fatalf("registerUpload: %v", err)
	}

	second := downloadedFile(t, "b.pdf")
	_, err := bh.registerUpload(1, types.FileEntry{Name: "b.pdf", Path: second, Kind: types.KindPDF})
	if !errors.Is(err, store.ErrLimitExceeded) {
		t.Fatalf("registerUpload over limit err = %v, want ErrLimitExceeded", err)
	}
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Fatalf("rejected upload still on disk at %s", second)
	}

	files, _ := sessions.ListFiles(1)
	if len(files) != 1 || files[0].Name != "a.pdf" {
		t.Fatalf("registry = %v, want only a.pdf", files)
	}
}
