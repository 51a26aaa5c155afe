package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/doctree"
	"github.com/google/uuid"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusAggregating JobStatus = "aggregating"
	StatusClassifying JobStatus = "classifying"
	StatusWriting     JobStatus = "writing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Terminal reports whether no further transitions follow.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single document.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	// SourcePath is read when no in-memory data was supplied.
	SourcePath string `json:"source_path,omitempty"`
	// OutputDir receives the outline JSON; empty keeps the result in memory only.
	OutputDir  string `json:"-"`
	OutputPath string `json:"output_path,omitempty"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	outline  *doctree.Outline
	errors   []string
	done     chan struct{}
	doneOnce sync.Once
}

// Progress tracks processing progress.
type Progress struct {
	Pages    int      `json:"pages"`
	Spans    int      `json:"spans"`
	Groups   int      `json:"groups"`
	Headings int      `json:"headings"`
	Errors   []string `json:"errors"`
}

// NewJob creates a queued job for an uploaded document held in memory.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.New().String(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// NewFileJob creates a queued job for a document on disk whose outline is
// written into outputDir.
func NewFileJob(path, filename, outputDir string) *Job {
	job := NewJob(filename, nil)
	job.SourcePath = path
	job.OutputDir = outputDir
	return job
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Delete forgets a job. It reports whether the job was known.
func (s *JobStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[id]
	delete(s.jobs, id)
	return ok
}

// List returns all tracked jobs, newest first.
func (s *JobStore) List() []*Job {
	s.mu.Lock()
	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes finished jobs that have not changed within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl && (job.Status == "" || job.Status.Terminal())
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically. Reaching a terminal status
// releases anyone waiting on Done.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	j.mu.Unlock()

	if status.Terminal() {
		j.doneOnce.Do(func() { close(j.doneChan()) })
	}
}

// Done is closed once the job completes or fails.
func (j *Job) Done() <-chan struct{} {
	return j.doneChan()
}

func (j *Job) doneChan() chan struct{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done == nil {
		j.done = make(chan struct{})
	}
	return j.done
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// Errors returns a copy of the recorded errors.
func (j *Job) Errors() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.errors...)
}

// SetCounts records how much input each stage saw.
func (j *Job) SetCounts(pages, spans, groups int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = pages
	j.Progress.Spans = spans
	j.Progress.Groups = groups
	j.UpdatedAt = time.Now()
}

// SetOutline stores the finished outline.
func (j *Job) SetOutline(o doctree.Outline) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outline = &o
	j.Progress.Headings = len(o.Outline)
	j.UpdatedAt = time.Now()
}

// Outline returns the finished outline, or false while none is available.
func (j *Job) Outline() (doctree.Outline, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.outline == nil {
		return doctree.Outline{}, false
	}
	return *j.outline, true
}

// SetOutputPath records where the outline was written.
func (j *Job) SetOutputPath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = path
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the source bytes.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	OutputPath  string    `json:"output_path,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	var title string
	if j.outline != nil {
		title = j.outline.Title
	}
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       title,
		OutputPath:  j.OutputPath,
		ContentHash: j.ContentHash,
		Progress: Progress{
			Pages:    j.Progress.Pages,
			Spans:    j.Progress.Spans,
			Groups:   j.Progress.Groups,
			Headings: j.Progress.Headings,
			Errors:   errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
