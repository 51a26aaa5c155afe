package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/parser"
)

// ErrNoDocuments is reported when the input directory holds no supported
// documents.
var ErrNoDocuments = errors.New("no input documents found")

// DocumentResult is the outcome for one input document of a batch.
type DocumentResult struct {
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	JobID    string        `json:"job_id,omitempty"`
	Status   JobStatus     `json:"status"`
	Title    string        `json:"title"`
	Headings int           `json:"headings"`
	Errors   []string      `json:"errors,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report summarises a batch run.
type Report struct {
	InputDir  string           `json:"input_dir"`
	OutputDir string           `json:"output_dir"`
	Documents []DocumentResult `json:"documents"`
}

// Succeeded counts completed documents.
func (r Report) Succeeded() int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// Failed counts documents that did not complete.
func (r Report) Failed() int {
	return len(r.Documents) - r.Succeeded()
}

func resultOf(name string, job *Job) DocumentResult {
	snap := job.Snapshot()
	return DocumentResult{
		Input:    name,
		Output:   snap.OutputPath,
		JobID:    snap.ID,
		Status:   snap.Status,
		Title:    snap.Title,
		Headings: snap.Progress.Headings,
		Errors:   snap.Progress.Errors,
		Duration: snap.UpdatedAt.Sub(snap.CreatedAt),
	}
}

// ListDocuments returns the supported documents directly inside dir, sorted
// by name. It returns ErrNoDocuments when there are none.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}
	sort.Strings(names)
	return names, nil
}

// Collisions maps each output name claimed by more than one input to those
// inputs, in input order.
func Collisions(names []string) map[string][]string {
	claims := make(map[string][]string)
	for _, n := range names {
		out := parser.OutputName(n)
		claims[out] = append(claims[out], n)
	}
	for out, inputs := range claims {
		if len(inputs) < 2 {
			delete(claims, out)
		}
	}
	return claims
}

// RunBatch outlines every supported document in inDir and writes one JSON
// file per document into outDir. A failing document is reported and does not
// stop the others. An empty input directory is logged and yields an empty
// report.
func (o *Orchestrator) RunBatch(ctx context.Context, inDir, outDir string) (Report, error) {
	report := Report{InputDir: inDir, OutputDir: outDir, Documents: []DocumentResult{}}

	names, err := ListDocuments(inDir)
	if errors.Is(err, ErrNoDocuments) {
		o.log.Error("no input documents found", "input_dir", inDir)
		return report, nil
	}
	if err != nil {
		return report, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, fmt.Errorf("create output directory: %w", err)
	}

	rejected := make(map[string]string)
	for out, inputs := range Collisions(names) {
		for _, in := range inputs {
			rejected[in] = fmt.Sprintf("output %s is claimed by %d inputs", out, len(inputs))
		}
	}

	o.log.Info("batch started", "input_dir", inDir, "output_dir", outDir, "documents", len(names))

	jobs := make([]*Job, len(names))
	for i, name := range names {
		if _, ok := rejected[name]; ok {
			continue
		}
		job := NewFileJob(filepath.Join(inDir, name), name, outDir)
		jobs[i] = job
		o.log.Info("processing document", "file", name, "job_id", job.ID)
		if err := o.SubmitWait(ctx, job); err != nil {
			break
		}
	}

	for i, name := range names {
		job := jobs[i]
		if job == nil {
			reason, ok := rejected[name]
			if !ok {
				reason = "not submitted"
				if ctx.Err() != nil {
					reason = ctx.Err().Error()
				}
			}
			o.log.Error("document failed", "file", name, "error", reason)
			report.Documents = append(report.Documents, DocumentResult{
				Input:  name,
				Status: StatusFailed,
				Errors: []string{reason},
			})
			continue
		}

		select {
		case <-job.Done():
		case <-ctx.Done():
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "canceled")
		}

		res := resultOf(name, job)
		if res.Status == StatusCompleted {
			o.log.Info("document completed", "file", name, "output", res.Output, "headings", res.Headings)
		} else {
			o.log.Error("document failed", "file", name, "errors", res.Errors)
		}
		report.Documents = append(report.Documents, res)
	}

	o.log.Info("batch finished", "succeeded", report.Succeeded(), "failed", report.Failed())
	return report, ctx.Err()
}
