package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docnif/internal/parser"
)

// Worker extracts the text of a single document job.
type Worker struct {
	registry *parser.Registry
	log      *slog.Logger
}

func NewWorker(registry *parser.Registry, log *slog.Logger) *Worker {
	return &Worker{
		registry: registry,
		log:      log,
	}
}

// Process extracts the job's file. The job's own Cancel interrupts it
// between pages; on any failure no text is kept.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "session_id", job.SessionID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !job.start(cancel) {
		log.Info("skipping job", "status", job.CurrentStatus())
		return
	}
	start := time.Now()

	p, err := w.registry.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.fail("parsing", err.Error())
		return
	}

	doc, err := p.Parse(ctx, bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		if errors.Is(err, context.Canceled) && job.CurrentStatus() == StatusCanceled {
			log.Info("extraction canceled")
			return
		}
		log.Error("extraction failed", "error", err)
		job.fail("extracting", FailureMessage(job.Filename, err))
		return
	}

	if !job.complete(doc) {
		log.Info("extraction finished after cancel, discarding text")
		return
	}
	log.Info("extraction complete",
		"pages", len(doc.Pages),
		"words", doc.WordCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// FailureMessage is the user-facing message for a failed extraction.
func FailureMessage(filename string, err error) string {
	format := strings.ToUpper(strings.TrimPrefix(filepath.Ext(filename), "."))
	if format == "" {
		return fmt.Sprintf("Failed to extract text: %s", err)
	}
	return fmt.Sprintf("Failed to extract text from %s: %s", format, err)
}
