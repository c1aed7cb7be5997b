package pdf

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateZipFlattensMemberNames(t *testing.T) {
	dir := t.TempDir()

	paths := make([]string, 0, 2)
	for _, name := range []string{"doc_page_001.png", "doc_page_002.png"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("png bytes"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		paths = append(paths, path)
	}

	zipPath := filepath.Join(dir, "pages.zip")
	if err := CreateZip(paths, zipPath); err != nil {
		t.Fatalf("CreateZip: %v", err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	if len(r.File) != 2 {
		t.Fatalf("archive holds %d members, want 2", len(r.File))
	}
	want := map[string]bool{"doc_page_001.png": true, "doc_page_002.png": true}
	for _, f := range r.File {
		if !want[f.Name] {
			t.Errorf("unexpected member name %q", f.Name)
		}
	}
}

func TestCreateZipMissingInput(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "pages.zip")
	if err := CreateZip([]string{filepath.Join(dir, "missing.png")}, zipPath); err == nil {
		t.Fatalf("CreateZip with missing input succeeded, want error")
	}
}
