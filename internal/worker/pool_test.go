package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/internal/pdf"
)

func TestFailureTextTimedOutJob(t *testing.T) {
	// Deadline expiry kills the external tool, so the job error only
	// reports the signal; the context error carries the deadline.
	jobErr := fmt.Errorf("merge failed: %v, output: %s", "signal: killed", "")

	got := failureText("Merging 2 PDFs", jobErr, context.DeadlineExceeded)
	if got != messages.TimeoutAdvisory() {
		t.Fatalf("failureText on expired context = %q, want timeout advisory", got)
	}
}

func TestFailureTextWrappedDeadline(t *testing.T) {
	jobErr := fmt.Errorf("split failed: %w", context.DeadlineExceeded)
	got := failureText("Splitting a.pdf (pages 1-2)", jobErr, nil)
	if got != messages.TimeoutAdvisory() {
		t.Fatalf("failureText on wrapped deadline = %q, want timeout advisory", got)
	}
}

func TestFailureTextToolUnavailable(t *testing.T) {
	jobErr := fmt.Errorf("to_images: %w (need pdftoppm)", pdf.ErrToolUnavailable)
	got := failureText("Converting a.pdf to images", jobErr, nil)
	if got != messages.ErrorFeatureUnavailable() {
		t.Fatalf("failureText on missing tool = %q, want feature unavailable", got)
	}
}

func TestFailureTextGenericError(t *testing.T) {
	jobErr := errors.New("merge failed: exit status 1")
	got := failureText("Merging 2 PDFs", jobErr, nil)
	if got != messages.ErrorConversionFailed("Merging 2 PDFs", jobErr) {
		t.Fatalf("failureText on generic error = %q, want conversion failure", got)
	}
}
