package pdf

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

// CreateZip writes the named files into a flat archive at zipPath,
// keeping only their base names as member names.
func CreateZip(paths []string, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range paths {
		if err := addZipMember(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addZipMember(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
