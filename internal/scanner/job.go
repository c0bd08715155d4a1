package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/lookalike-app/lookalike/internal/constants"
)

// JobStatus represents the status of a scan job.
type JobStatus string

// JobStatus constants define the lifecycle states of a scan job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is a final state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// ScanError records one identity that could not be fully processed.
type ScanError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// JobEvent represents an event from a scan job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ScanJob tracks one directory-processing run. All mutable fields are
// guarded by mu; use View for a consistent copy.
type ScanJob struct {
	id        string
	root      string
	startedAt time.Time

	status     JobStatus
	total      int
	processed  int
	success    int
	scanErrors []ScanError
	fatal      string
	finishedAt *time.Time

	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// JobView is an immutable copy of a job's state for status polling and JSON.
type JobView struct {
	ID              string      `json:"id"`
	Root            string      `json:"root"`
	Status          JobStatus   `json:"status"`
	TotalIdentities int         `json:"total_identities"`
	ProcessedCount  int         `json:"processed_count"`
	SuccessCount    int         `json:"success_count"`
	Errors          []ScanError `json:"errors"`
	Error           string      `json:"error,omitempty"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      *time.Time  `json:"finished_at,omitempty"`
}

func newScanJob(id, root string) *ScanJob {
	return &ScanJob{
		id:        id,
		root:      root,
		status:    JobStatusPending,
		startedAt: time.Now(),
	}
}

// ID returns the job identifier.
func (j *ScanJob) ID() string { return j.id }

// Root returns the scanned root path.
func (j *ScanJob) Root() string { return j.root }

// GetStatus returns the current job status.
func (j *ScanJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// View returns a consistent copy of the job state.
func (j *ScanJob) View() JobView {
	j.mu.RLock()
	defer j.mu.RUnlock()
	errs := make([]ScanError, len(j.scanErrors))
	copy(errs, j.scanErrors)
	return JobView{
		ID:              j.id,
		Root:            j.root,
		Status:          j.status,
		TotalIdentities: j.total,
		ProcessedCount:  j.processed,
		SuccessCount:    j.success,
		Errors:          errs,
		Error:           j.fatal,
		StartedAt:       j.startedAt,
		FinishedAt:      j.finishedAt,
	}
}

// AddListener adds an event listener.
func (j *ScanJob) AddListener() chan JobEvent {
	j.mu.Lock()
	defer j.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	j.listeners = append(j.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (j *ScanJob) RemoveListener(ch chan JobEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, listener := range j.listeners {
		if listener == ch {
			j.listeners = append(j.listeners[:i], j.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (j *ScanJob) SendEvent(event JobEvent) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, listener := range j.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel requests cooperative cancellation of the scan. The running scan
// checks for it between identities; the catalog is left untouched.
func (j *ScanJob) Cancel() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (j *ScanJob) setCancel(cancel context.CancelFunc) {
	j.mu.Lock()
	j.cancel = cancel
	j.mu.Unlock()
}

func (j *ScanJob) setRunning() {
	j.mu.Lock()
	j.status = JobStatusRunning
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "started", Message: "Scan started"})
}

func (j *ScanJob) setTotal(total int) {
	j.mu.Lock()
	j.total = total
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "identities_counted", Data: map[string]int{"total": total}})
}

func (j *ScanJob) progress(processed, success int) {
	j.mu.Lock()
	j.processed = processed
	j.success = success
	total := j.total
	j.mu.Unlock()
	j.SendEvent(JobEvent{
		Type: "progress",
		Data: map[string]int{"processed": processed, "success": success, "total": total},
	})
}

func (j *ScanJob) complete(success int, errs []ScanError) {
	now := time.Now()
	j.mu.Lock()
	j.status = JobStatusCompleted
	j.success = success
	j.processed = j.total
	j.scanErrors = errs
	j.finishedAt = &now
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "completed", Data: j.View()})
}

func (j *ScanJob) fail(reason string) {
	now := time.Now()
	j.mu.Lock()
	j.status = JobStatusFailed
	j.fatal = reason
	j.finishedAt = &now
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "job_error", Message: reason})
}

func (j *ScanJob) cancelled() {
	now := time.Now()
	j.mu.Lock()
	j.status = JobStatusCancelled
	j.finishedAt = &now
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "cancelled", Message: "Scan cancelled"})
}

// JobManager tracks the single scan job per catalog. A finished job's record
// persists until the next scan replaces it.
type JobManager struct {
	activeJob *ScanJob
	mu        sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{}
}

// BeginJob installs job as the active one. Fails with ErrScanConflict when a
// non-terminal job is already installed, leaving that job untouched.
func (m *JobManager) BeginJob(job *ScanJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeJob != nil && !m.activeJob.GetStatus().Terminal() {
		return ErrScanConflict
	}
	m.activeJob = job
	return nil
}

// ActiveJob returns the current (possibly finished) job, or nil.
func (m *JobManager) ActiveJob() *ScanJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeJob
}

// Job returns the job with the given ID, or nil.
func (m *JobManager) Job(id string) *ScanJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeJob != nil && m.activeJob.ID() == id {
		return m.activeJob
	}
	return nil
}
