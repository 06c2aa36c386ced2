package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/dgallion1/doxadoc/internal/render"
)

// Worker processes a single conversion job.
type Worker struct {
	log   *slog.Logger
	opts  render.Options
	stats *RenderStats

	maxConcurrentParse int
	pdfFallback        bool
}

func NewWorker(log *slog.Logger, opts render.Options, stats *RenderStats, maxParse int, pdfFallback bool) *Worker {
	return &Worker{
		log:                log,
		opts:               opts,
		stats:              stats,
		maxConcurrentParse: maxParse,
		pdfFallback:        pdfFallback,
	}
}

// Process runs parse, resolve and render for a job. Failures are recorded
// on the job; nothing is returned.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	report := &doctree.Report{}
	set, err := LoadFiles(ctx, job.Files(), ParseOptions{
		MaxConcurrent: w.maxConcurrentParse,
		PDFFallback:   w.pdfFallback,
		OnParsed:      job.IncrFilesParsed,
	}, report)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	w.stats.Record(PhaseParse, time.Since(start))
	log.Info("parsed inputs", "documents", len(set.Documents), "groups", len(set.Groups()))

	opts := w.opts
	if job.Title != "" {
		opts.Title = job.Title
	}

	// Phases 2 and 3: Resolve and render
	res, err := convert(set, report, opts, log, job, w.stats)
	if err != nil {
		snap := job.Snapshot()
		log.Error("conversion failed", "phase", snap.Phase, "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, snap.Phase)
		return
	}

	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete",
		"groups", len(res.Outline),
		"warnings", len(res.Warnings),
		"bytes", len(res.Document))
}
