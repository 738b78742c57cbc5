package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gofrs/flock"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Engine owns the on-disk representation of jobs under <data>/jobs. Each
// job is one JSON file, written via write-temp-then-rename; create and
// cancel take a directory-wide file lock to avoid racing concurrent
// Engine instances (spec §4.6, generalizing the teacher's daemon
// singleton lock from one socket to many job files).
type Engine struct {
	dir string
}

// NewEngine opens (creating if necessary) the jobs directory under dataDir.
func NewEngine(dataDir string) (*Engine, error) {
	dir := filepath.Join(dataDir, "jobs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jobs: creating %s: %w", dir, err)
	}
	return &Engine{dir: dir}, nil
}

// Dir returns the jobs directory, for handing off to a spawned worker.
func (e *Engine) Dir() string { return e.dir }

func (e *Engine) lock() (*flock.Flock, error) {
	l := flock.New(filepath.Join(e.dir, ".lock"))
	if err := l.Lock(); err != nil {
		return nil, fmt.Errorf("jobs: acquiring lock: %w", err)
	}
	return l, nil
}

// Create persists a new pending job and returns it.
func (e *Engine) Create(kind Kind, details Details) (Job, error) {
	l, err := e.lock()
	if err != nil {
		return Job{}, err
	}
	defer l.Unlock()

	details.Kind = kind
	j := Job{
		ID:        coreid.JobID(uuid.New().String()),
		Kind:      kind,
		Status:    StatusPending,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if err := saveJob(e.dir, &j); err != nil {
		return Job{}, err
	}
	return j, nil
}

// Get returns one job by id, or coreid.ErrNotFound if it does not exist.
func (e *Engine) Get(id coreid.JobID) (Job, error) {
	j, err := loadJob(e.dir, id)
	if err != nil {
		return Job{}, err
	}
	return *j, nil
}

// List returns every job matching filter, in no particular order.
func (e *Engine) List(filter Filter) ([]Job, error) {
	ids, err := listJobIDs(e.dir)
	if err != nil {
		return nil, err
	}
	var out []Job
	for _, id := range ids {
		j, err := loadJob(e.dir, id)
		if err != nil {
			if coreid.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if filter.matches(*j) {
			out = append(out, *j)
		}
	}
	return out, nil
}

// Patch mutates a loaded job in place. Update rejects patches that violate
// monotonic status transitions (spec §3: a job may not leave a terminal
// status, and progress must not decrease within a status).
type Patch func(*Job)

// Update loads job id, applies patch, validates the resulting transition,
// and persists it.
func (e *Engine) Update(id coreid.JobID, patch Patch) (Job, error) {
	l, err := e.lock()
	if err != nil {
		return Job{}, err
	}
	defer l.Unlock()

	j, err := loadJob(e.dir, id)
	if err != nil {
		return Job{}, err
	}
	before := *j
	patch(j)
	if err := validateTransition(before, *j); err != nil {
		return Job{}, err
	}
	if err := saveJob(e.dir, j); err != nil {
		return Job{}, err
	}
	return *j, nil
}

func validateTransition(before, after Job) error {
	if before.Status.IsTerminal() && after.Status != before.Status {
		return fmt.Errorf("jobs: job %s: %w: cannot leave terminal status %s", before.ID, coreid.ErrConflict, before.Status)
	}
	if after.Status == before.Status && after.Progress < before.Progress {
		return fmt.Errorf("jobs: job %s: %w: progress cannot decrease", before.ID, coreid.ErrConflict)
	}
	return nil
}

// Cancel marks job id cancelled. If the job is already terminal this is a
// no-op. If a PID file exists (the job has a running worker), Cancel then
// also delivers an OS termination signal to it; the worker's own signal
// handler stops the job and exits.
func (e *Engine) Cancel(id coreid.JobID) error {
	l, err := e.lock()
	if err != nil {
		return err
	}
	defer l.Unlock()

	j, err := loadJob(e.dir, id)
	if err != nil {
		return err
	}
	if j.Status.IsTerminal() {
		return nil
	}

	now := time.Now().UTC()
	j.Status = StatusCancelled
	j.CompletedAt = &now
	if err := saveJob(e.dir, j); err != nil {
		return err
	}

	pid, ok, err := readPID(e.dir, id)
	if err != nil {
		return err
	}
	if ok {
		return signalProcess(pid)
	}
	return nil
}
