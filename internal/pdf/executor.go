package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagecraft/page-craft-bot/internal/resolver"
)

// ErrToolUnavailable means the external binary a feature needs is not
// installed in this deployment.
var ErrToolUnavailable = errors.New("required tool is not installed")

type Executor interface {
	Merge(ctx context.Context, inputs []string) (string, error)
	Split(ctx context.Context, input string, pages resolver.PageRange) (string, error)
	ToImages(ctx context.Context, input, baseName string) (zipPath string, pageCount int, err error)
	ImageToPDF(ctx context.Context, input string) (string, error)
	ImagesToPDF(ctx context.Context, inputs []string) (string, error)
}

// ToolExecutor drives pdftk/qpdf, poppler's pdftoppm and ImageMagick.
// Every method writes its result into the executor's temp directory;
// ownership of the result file passes to the caller.
type ToolExecutor struct {
	tempDir string
}

func NewToolExecutor() *ToolExecutor {
	tempDir := filepath.Join(os.TempDir(), "page_craft")
	_ = os.MkdirAll(tempDir, 0755)
	return &ToolExecutor{
		tempDir: tempDir,
	}
}

func (e *ToolExecutor) hasCommand(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func (e *ToolExecutor) resultPath(prefix, ext string) string {
	return filepath.Join(e.tempDir, fmt.Sprintf("%s_%d%s", prefix, time.Now().UnixNano(), ext))
}

func (e *ToolExecutor) Merge(ctx context.Context, inputs []string) (string, error) {
	if len(inputs) < 2 {
		return "", fmt.Errorf("merge needs at least 2 files, got %d", len(inputs))
	}
	for _, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("input unreadable: %s: %v", filepath.Base(path), err)
		}
	}

	outputPath := e.resultPath("merged", ".pdf")

	var cmd *exec.Cmd
	switch {
	case e.hasCommand("pdftk"):
		args := append(append([]string{}, inputs...), "cat", "output", outputPath)
		cmd = exec.CommandContext(ctx, "pdftk", args...)
	case e.hasCommand("qpdf"):
		args := []string{"--empty", "--pages"}
		for _, path := range inputs {
			args = append(args, path, "1-z")
		}
		args = append(args, "--", outputPath)
		cmd = exec.CommandContext(ctx, "qpdf", args...)
	default:
		return "", fmt.Errorf("merge: %w (need pdftk or qpdf)", ErrToolUnavailable)
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("merge failed: %v, output: %s", err, string(output))
	}
	return e.checkResult(outputPath)
}

func (e *ToolExecutor) Split(ctx context.Context, input string, pages resolver.PageRange) (string, error) {
	count, err := e.pageCount(ctx, input)
	if err != nil {
		return "", err
	}

	outputPath := e.resultPath("split", ".pdf")

	// Pages outside the document are skipped rather than rejected; a
	// fully out-of-range request yields an empty document.
	clamped, ok := pages.Clamp(count)
	if !ok {
		return e.emptyPDF(ctx, outputPath)
	}

	var cmd *exec.Cmd
	switch {
	case e.hasCommand("pdftk"):
		cmd = exec.CommandContext(ctx, "pdftk", input, "cat", clamped.Human(), "output", outputPath)
	case e.hasCommand("qpdf"):
		cmd = exec.CommandContext(ctx, "qpdf", input, "--pages", input, clamped.Human(), "--", outputPath)
	default:
		return "", fmt.Errorf("split: %w (need pdftk or qpdf)", ErrToolUnavailable)
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("split failed: %v, output: %s", err, string(output))
	}
	return e.checkResult(outputPath)
}

func (e *ToolExecutor) emptyPDF(ctx context.Context, outputPath string) (string, error) {
	if !e.hasCommand("qpdf") {
		return "", fmt.Errorf("split: %w (need qpdf)", ErrToolUnavailable)
	}
	cmd := exec.CommandContext(ctx, "qpdf", "--empty", outputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("split failed: %v, output: %s", err, string(output))
	}
	return outputPath, nil
}

func (e *ToolExecutor) pageCount(ctx context.Context, input string) (int, error) {
	if e.hasCommand("qpdf") {
		out, err := exec.CommandContext(ctx, "qpdf", "--show-npages", input).Output()
		if err != nil {
			return 0, fmt.Errorf("failed to read page count: %v", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(out)))
		if err != nil {
			return 0, fmt.Errorf("unexpected qpdf page count output: %q", string(out))
		}
		return n, nil
	}

	if e.hasCommand("pdfinfo") {
		out, err := exec.CommandContext(ctx, "pdfinfo", input).Output()
		if err != nil {
			return 0, fmt.Errorf("failed to read page count: %v", err)
		}
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
				if err == nil {
					return n, nil
				}
			}
		}
		return 0, fmt.Errorf("pdfinfo output had no page count")
	}

	return 0, fmt.Errorf("page count: %w (need qpdf or pdfinfo)", ErrToolUnavailable)
}

func (e *ToolExecutor) ToImages(ctx context.Context, input, baseName string) (string, int, error) {
	if !e.hasCommand("pdftoppm") {
		return "", 0, fmt.Errorf("to_images: %w (need pdftoppm)", ErrToolUnavailable)
	}

	pagesDir, err := os.MkdirTemp(e.tempDir, "pages_")
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = os.RemoveAll(pagesDir) }()

	prefix := filepath.Join(pagesDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", input, prefix)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", 0, fmt.Errorf("to_images failed: %v, output: %s", err, string(output))
	}

	entries, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(entries) == 0 {
		return "", 0, fmt.Errorf("to_images produced no pages for %s", filepath.Base(input))
	}
	sort.Strings(entries)

	// Archive members carry the document's base name so the unzipped
	// pages are recognizable.
	named := make([]string, 0, len(entries))
	for i, page := range entries {
		renamed := filepath.Join(pagesDir, fmt.Sprintf("%s_page_%03d.png", baseName, i+1))
		if err := os.Rename(page, renamed); err != nil {
			return "", 0, err
		}
		named = append(named, renamed)
	}

	zipPath := e.resultPath("images", ".zip")
	if err := CreateZip(named, zipPath); err != nil {
		_ = os.Remove(zipPath)
		return "", 0, fmt.Errorf("to_images failed to package pages: %v", err)
	}
	return zipPath, len(named), nil
}

func (e *ToolExecutor) ImageToPDF(ctx context.Context, input string) (string, error) {
	outputPath := e.resultPath("converted", ".pdf")
	if err := e.imageToPDFPage(ctx, input, outputPath); err != nil {
		_ = os.Remove(outputPath)
		return "", err
	}
	return e.checkResult(outputPath)
}

func (e *ToolExecutor) ImagesToPDF(ctx context.Context, inputs []string) (string, error) {
	if len(inputs) < 2 {
		return "", fmt.Errorf("combine needs at least 2 images, got %d", len(inputs))
	}

	pages := make([]string, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, 3)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			pagePath := e.resultPath(fmt.Sprintf("combine_%03d", i+1), ".pdf")
			if err := e.imageToPDFPage(gctx, input, pagePath); err != nil {
				return fmt.Errorf("image %q: %w", filepath.Base(input), err)
			}
			pages[i] = pagePath
			return nil
		})
	}
	err := g.Wait()
	defer func() {
		for _, page := range pages {
			if page != "" {
				_ = os.Remove(page)
			}
		}
	}()
	if err != nil {
		return "", err
	}

	return e.Merge(ctx, pages)
}

// A4 in PostScript points. Each image keeps its aspect ratio and is
// centered on a white A4 canvas.
const a4Extent = "595x842"

func (e *ToolExecutor) imageToPDFPage(ctx context.Context, input, outputPath string) error {
	cmdName := "magick"
	if !e.hasCommand("magick") {
		if !e.hasCommand("convert") {
			return fmt.Errorf("image conversion: %w (need ImageMagick)", ErrToolUnavailable)
		}
		cmdName = "convert"
	}

	cmd := exec.CommandContext(ctx, cmdName,
		input,
		"-resize", a4Extent,
		"-background", "white",
		"-gravity", "center",
		"-extent", a4Extent,
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ImageMagick failed: %v, output: %s", err, string(output))
	}
	return nil
}

func (e *ToolExecutor) checkResult(outputPath string) (string, error) {
	info, err := os.Stat(outputPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("result file was not created: %s", outputPath)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read result file: %v", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("result file is empty: %s", outputPath)
	}
	return outputPath, nil
}
