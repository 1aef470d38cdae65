package async

import (
	"sync"
	"time"
)

// BuildStatus is the lifecycle state of a background build.
type BuildStatus string

const (
	// StatusPending means no build has started.
	StatusPending BuildStatus = "pending"
	// StatusBuilding means a build is in flight.
	StatusBuilding BuildStatus = "building"
	// StatusReady means the last build succeeded.
	StatusReady BuildStatus = "ready"
	// StatusFailed means the last build failed; it may be retried.
	StatusFailed BuildStatus = "failed"
)

// ProgressSnapshot is an immutable view of a BuildProgress.
type ProgressSnapshot struct {
	Status         string  `json:"status"`
	Source         string  `json:"source,omitempty"`
	Documents      int     `json:"documents"`
	Generation     uint64  `json:"generation"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

// BuildProgress tracks one build lifecycle. Safe for concurrent use.
type BuildProgress struct {
	mu sync.RWMutex

	status     BuildStatus
	source     string
	documents  int
	generation uint64
	started    time.Time
	finished   time.Time
	errMessage string
}

// NewBuildProgress returns a tracker in the pending state.
func NewBuildProgress() *BuildProgress {
	return &BuildProgress{status: StatusPending}
}

// Begin marks a build as started.
func (p *BuildProgress) Begin() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusBuilding
	p.started = time.Now()
	p.finished = time.Time{}
	p.errMessage = ""
}

// SetReady records a successful build from source holding documents docs.
// Each success bumps the generation.
func (p *BuildProgress) SetReady(source string, docs int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusReady
	p.source = source
	p.documents = docs
	p.generation++
	p.finished = time.Now()
}

// SetError records a failed build.
func (p *BuildProgress) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusFailed
	p.errMessage = message
	p.finished = time.Now()
}

// Reset returns the tracker to pending, keeping the generation counter.
func (p *BuildProgress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusPending
	p.source = ""
	p.documents = 0
	p.errMessage = ""
	p.started = time.Time{}
	p.finished = time.Time{}
}

// Status returns the current state.
func (p *BuildProgress) Status() BuildStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Generation counts successful builds.
func (p *BuildProgress) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// Snapshot returns a copy of the current state.
func (p *BuildProgress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var elapsed time.Duration
	switch {
	case p.started.IsZero():
	case p.finished.IsZero():
		elapsed = time.Since(p.started)
	default:
		elapsed = p.finished.Sub(p.started)
	}

	return ProgressSnapshot{
		Status:         string(p.status),
		Source:         p.source,
		Documents:      p.documents,
		Generation:     p.generation,
		ElapsedSeconds: elapsed.Seconds(),
		ErrorMessage:   p.errMessage,
	}
}
