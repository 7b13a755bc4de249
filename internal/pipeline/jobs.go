package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/dnrewrite/internal/render"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
)

// JobStatus represents the state of a rewrite job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusRewriting JobStatus = "rewriting"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single document rewrite.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Filename string        `json:"filename"`
	Format   render.Format `json:"format"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	output   *Output
	errors   []string
}

// Progress tracks rewrite counters and errors.
type Progress struct {
	Replaced int      `json:"replaced"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// NewJob creates a queued job for a document.
func NewJob(filename string, data []byte, format render.Format) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		DocID:     ContentHashHex(data)[:16],
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Format:    format,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult records the rewrite counters.
func (j *Job) SetResult(res rewrite.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Replaced = res.Replaced
	j.Progress.Skipped = res.Skipped
	j.UpdatedAt = time.Now()
}

// SetOutput stores the rendered document and releases the input bytes.
func (j *Job) SetOutput(out *Output) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.output = out
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Output returns the rendered document, or nil until the job completes.
func (j *Job) Output() *Output {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string        `json:"job_id"`
	DocID    string        `json:"doc_id"`
	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Filename string        `json:"filename"`
	Format   render.Format `json:"format"`
	Progress Progress      `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Format:   j.Format,
		Progress: Progress{
			Replaced: j.Progress.Replaced,
			Skipped:  j.Progress.Skipped,
			Errors:   errs,
		},
	}
}

// Done reports whether the job reached a terminal state.
func (s JobSnapshot) Done() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
