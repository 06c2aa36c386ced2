package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusResolving JobStatus = "resolving"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of one conversion.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Title     string    `json:"title"`
	Filenames []string  `json:"filenames"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []File
	result *Result
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles  int      `json:"total_files"`
	FilesParsed int      `json:"files_parsed"`
	Groups      int      `json:"groups"`
	Warnings    int      `json:"warnings"`
	Errors      []string `json:"errors"`
}

// NewJob returns a queued job over files with a fresh id.
func NewJob(title string, files []File) *Job {
	now := time.Now()
	names := make([]string, len(files))
	hash := sha256.New()
	for i, f := range files {
		names[i] = f.Name
		hash.Write([]byte(f.Name))
		hash.Write(f.Data)
	}
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Title:       title,
		Filenames:   names,
		Progress:    Progress{TotalFiles: len(files)},
		ContentHash: fmt.Sprintf("%x", hash.Sum(nil)),
		CreatedAt:   now,
		UpdatedAt:   now,
		files:       files,
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
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

// IncrFilesParsed atomically increments the parsed file count.
func (j *Job) IncrFilesParsed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesParsed++
	j.UpdatedAt = time.Now()
}

// SetResult stores the finished conversion and its counts.
func (j *Job) SetResult(r *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.Progress.Groups = len(r.Outline)
	j.Progress.Warnings = len(r.Warnings)
	j.files = nil
	j.UpdatedAt = time.Now()
}

// Result returns the finished conversion, or nil.
func (j *Job) Result() *Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Files returns the uploaded inputs.
func (j *Job) Files() []File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Title       string    `json:"title"`
	Filenames   []string  `json:"filenames"`
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
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Title:       j.Title,
		Filenames:   append([]string(nil), j.Filenames...),
		ContentHash: j.ContentHash,
		Progress:    p,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
