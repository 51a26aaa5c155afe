package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/outline"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/parser"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/render"
)

// Worker processes a single document job.
type Worker struct {
	parserOpts parser.Options
	thresholds outline.Thresholds
	stats      *Stats
	log        *slog.Logger
}

func NewWorker(opts parser.Options, thresholds outline.Thresholds, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{
		parserOpts: opts,
		thresholds: thresholds,
		stats:      stats,
		log:        log,
	}
}

// Process runs the outline pipeline for a job. All failures are recorded on
// the job itself; nothing leaks into other jobs.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.Filename)
	start := time.Now()

	// Stats are recorded before the terminal status so waiters see them.
	finish := func(status JobStatus, phase string) {
		if w.stats != nil {
			w.stats.Record(time.Since(start), status == StatusFailed)
		}
		job.SetStatus(status, phase)
	}
	fail := func(phase string, err error) {
		log.Error(phase+" failed", "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		finish(StatusFailed, phase)
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	if err := ctx.Err(); err != nil {
		fail("parsing", err)
		return
	}
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		fail("parsing", err)
		return
	}

	data := job.FileData()
	if data == nil && job.SourcePath != "" {
		data, err = os.ReadFile(job.SourcePath)
		if err != nil {
			fail("parsing", err)
			return
		}
	}
	job.SetContentHash(ContentHashHex(data))

	pages, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		fail("parsing", err)
		return
	}
	spans, err := layout.Flatten(pages)
	if err != nil {
		fail("parsing", err)
		return
	}
	log.Debug("parsed document", "pages", len(pages), "spans", len(spans))

	// Phase 2: Aggregate
	job.SetStatus(StatusAggregating, "aggregating")
	agg := outline.Aggregate(spans)
	job.SetCounts(len(pages), len(spans), agg.Len())

	// Phase 3: Classify
	job.SetStatus(StatusClassifying, "classifying")
	result := w.thresholds.Classify(agg)
	job.SetOutline(result)
	log.Info("outline inferred", "title", result.Title, "headings", len(result.Outline))

	// Phase 4: Write
	if job.OutputDir != "" {
		job.SetStatus(StatusWriting, "writing")
		if err := ctx.Err(); err != nil {
			fail("writing", err)
			return
		}
		path, err := render.WriteFile(job.OutputDir, parser.OutputName(job.Filename), result)
		if err != nil {
			fail("writing", err)
			return
		}
		job.SetOutputPath(path)
	}

	finish(StatusCompleted, "done")
}
