package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/parser"
	"github.com/fsnotify/fsnotify"
)

// Watcher outlines documents as they appear in an input directory.
type Watcher struct {
	orch     *Orchestrator
	fsw      *fsnotify.Watcher
	inDir    string
	outDir   string
	settle   time.Duration
	attempts int
	log      *slog.Logger

	// OnResult, when set, is called after each document finishes.
	OnResult func(DocumentResult)

	mu      sync.Mutex
	pending map[string]bool
	wg      sync.WaitGroup
}

// NewWatcher starts watching inDir. Events are only consumed once Run is
// called.
func NewWatcher(orch *Orchestrator, inDir, outDir string, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inDir, err)
	}
	cfg := orch.Config()
	return &Watcher{
		orch:     orch,
		fsw:      fsw,
		inDir:    inDir,
		outDir:   outDir,
		settle:   cfg.WatchSettle,
		attempts: cfg.WatchAttempts,
		log:      log.With("input_dir", inDir),
		pending:  make(map[string]bool),
	}, nil
}

// Run consumes filesystem events until ctx is done, then waits for
// documents already in flight.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.wg.Wait()
	defer w.fsw.Close()

	w.log.Info("watching for documents", "output_dir", w.outDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !parser.IsSupported(ev.Name) {
				continue
			}
			w.schedule(ctx, ev.Name)
		}
	}
}

// schedule processes path once it has settled, ignoring repeat events for a
// file that is already waiting.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	if w.pending[path] {
		w.mu.Unlock()
		return
	}
	w.pending[path] = true
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
		}()

		name := filepath.Base(path)
		log := w.log.With("file", name)

		if _, err := WaitStable(ctx, path, w.settle, w.attempts); err != nil {
			log.Warn("document skipped", "error", err)
			return
		}

		job := NewFileJob(path, name, w.outDir)
		log.Info("processing document", "job_id", job.ID)
		if err := w.orch.SubmitWait(ctx, job); err != nil {
			log.Error("submit failed", "error", err)
			return
		}

		select {
		case <-job.Done():
		case <-ctx.Done():
			return
		}

		res := resultOf(name, job)
		if res.Status == StatusCompleted {
			log.Info("document completed", "output", res.Output, "headings", res.Headings)
		} else {
			log.Error("document failed", "errors", res.Errors)
		}
		if w.OnResult != nil {
			w.OnResult(res)
		}
	}()
}
