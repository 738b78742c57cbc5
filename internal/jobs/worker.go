package jobs

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Execute runs the body of a job kind. It reports progress via
// report and returns the final human-readable message on success.
type Execute func(ctx context.Context, job Job, report func(percent int, message string)) (string, error)

// RunWorker is the body of a spawned job subprocess (spec §4.6 worker
// lifecycle): write a PID file, install a termination handler that marks
// the job cancelled, run execute, and mark the job completed or failed.
// PID file removal is always attempted on every exit path.
func RunWorker(ctx context.Context, engine *Engine, id coreid.JobID, execute Execute) error {
	if err := writePID(engine.dir, id, os.Getpid()); err != nil {
		return fmt.Errorf("jobs: worker %s: writing pid file: %w", id, err)
	}
	defer removePID(engine.dir, id)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, terminationSignals()...)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			now := time.Now().UTC()
			_, _ = engine.Update(id, func(j *Job) {
				j.Status = StatusCancelled
				j.CompletedAt = &now
			})
			cancel()
		case <-done:
		}
	}()

	now := time.Now().UTC()
	if _, err := engine.Update(id, func(j *Job) {
		j.Status = StatusRunning
		j.StartedAt = &now
	}); err != nil {
		close(done)
		return err
	}

	job, err := engine.Get(id)
	if err != nil {
		close(done)
		return err
	}

	report := func(percent int, message string) {
		_, _ = engine.Update(id, func(j *Job) {
			j.Progress = percent
			j.Message = message
		})
	}

	message, runErr := execute(ctx, job, report)
	close(done)

	finished, getErr := engine.Get(id)
	if getErr == nil && finished.Status == StatusCancelled {
		// The termination-signal handler already marked this job
		// cancelled and the process is expected to exit 0 (spec §4.6),
		// distinct from the in-band poller-detected cancellation that
		// execute itself can still return as a non-nil error.
		return nil
	}

	completedAt := time.Now().UTC()
	if runErr != nil {
		_, _ = engine.Update(id, func(j *Job) {
			j.Status = StatusFailed
			j.CompletedAt = &completedAt
			j.Details.Error = runErr.Error()
		})
		return runErr
	}

	_, err = engine.Update(id, func(j *Job) {
		j.Status = StatusCompleted
		j.Progress = 100
		j.Message = message
		j.CompletedAt = &completedAt
	})
	return err
}

// Poller adapts Engine to internal/indexer.CancellationPoller by
// re-reading the job's own status on each call, structurally satisfying
// that interface without either package importing the other.
type Poller struct {
	Engine *Engine
	JobID  coreid.JobID
}

// IsCancelled reports whether the job has been marked cancelled.
func (p Poller) IsCancelled(ctx context.Context) (bool, error) {
	j, err := p.Engine.Get(p.JobID)
	if err != nil {
		return false, err
	}
	return j.Status == StatusCancelled, nil
}
