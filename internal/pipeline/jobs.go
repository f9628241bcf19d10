package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docnif/internal/document"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCanceled   JobStatus = "canceled"
)

// Terminal reports whether no further transitions are possible.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}

// Job tracks the text extraction of one uploaded file.
type Job struct {
	mu sync.Mutex

	ID        string `json:"job_id"`
	SessionID string `json:"session_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	doc      *document.Document
	errMsg   string
	cancel   context.CancelFunc
}

// NewJob creates a queued job for an uploaded file.
func NewJob(id, sessionID, filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		SessionID: sessionID,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     document.Title(filename),
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

// Active returns the queued or running jobs of a session.
func (s *JobStore) Active(sessionID string) []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Job
	for _, job := range s.jobs {
		if job.SessionID == sessionID && !job.CurrentStatus().Terminal() {
			out = append(out, job)
		}
	}
	return out
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs. Jobs still queued or running are kept.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
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

// CurrentStatus reads the status under the job lock.
func (j *Job) CurrentStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Document returns the extracted document of a completed job.
func (j *Job) Document() *document.Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.doc
}

// start moves a queued job to extracting and records how to interrupt it.
// It returns false if the job was canceled while queued.
func (j *Job) start(cancel context.CancelFunc) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusQueued {
		return false
	}
	j.Status = StatusExtracting
	j.Phase = "extracting"
	j.cancel = cancel
	j.UpdatedAt = time.Now()
	return true
}

// complete stores the extracted document unless the job was canceled.
func (j *Job) complete(doc *document.Document) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
	j.cancel = nil
	if j.Status != StatusExtracting {
		return false
	}
	j.doc = doc
	if doc.Title != "" {
		j.Title = doc.Title
	}
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
	return true
}

// fail records an error message. Any text is discarded.
func (j *Job) fail(phase, msg string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
	j.cancel = nil
	if j.Status.Terminal() {
		return false
	}
	j.doc = nil
	j.errMsg = msg
	j.Status = StatusFailed
	j.Phase = phase
	j.UpdatedAt = time.Now()
	return true
}

// Cancel stops a queued or running job and drops its data. It returns false
// if the job had already finished.
func (j *Job) Cancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return false
	}
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.fileData = nil
	j.doc = nil
	j.Status = StatusCanceled
	j.Phase = "canceled"
	j.UpdatedAt = time.Now()
	return true
}

// JobSnapshot is a read-only, JSON-safe copy of job state. Text is only
// set for completed jobs.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	SessionID   string    `json:"session_id,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Pages       int       `json:"pages"`
	Words       int       `json:"words"`
	Text        string    `json:"text,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:        j.ID,
		SessionID: j.SessionID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Title:     j.Title,
		Error:     j.errMsg,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.doc != nil {
		snap.Pages = len(j.doc.Pages)
		snap.Words = j.doc.WordCount()
		snap.Text = j.doc.Text
		snap.ContentHash = ContentHashHex([]byte(j.doc.Text))
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
