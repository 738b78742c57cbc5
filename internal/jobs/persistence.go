package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/project-cortex/internal/atomicio"
	"github.com/mvp-joe/project-cortex/internal/coreid"
)

func jobPath(dir string, id coreid.JobID) string {
	return filepath.Join(dir, string(id)+".json")
}

func pidPath(dir string, id coreid.JobID) string {
	return filepath.Join(dir, string(id)+".pid")
}

func loadJob(dir string, id coreid.JobID) (*Job, error) {
	raw, err := os.ReadFile(jobPath(dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, coreid.ErrNotFound
		}
		return nil, err
	}
	var j Job
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, fmt.Errorf("jobs: parse job %s: %w: %v", id, coreid.ErrCorruption, err)
	}
	return &j, nil
}

func saveJob(dir string, j *Job) error {
	raw, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return err
	}
	return atomicio.WriteFile(jobPath(dir, j.ID), raw, 0o644)
}

func listJobIDs(dir string) ([]coreid.JobID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []coreid.JobID
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, coreid.JobID(strings.TrimSuffix(e.Name(), ".json")))
	}
	return ids, nil
}

// writePID persists the worker's own process id so Cancel can deliver an
// OS signal to a running job. Failure to write the PID file is fatal to
// the worker (spec §4.6 worker lifecycle step 1).
func writePID(dir string, id coreid.JobID, pid int) error {
	return atomicio.WriteFile(pidPath(dir, id), []byte(strconv.Itoa(pid)), 0o644)
}

func readPID(dir string, id coreid.JobID) (int, bool, error) {
	raw, err := os.ReadFile(pidPath(dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, err
	}
	return pid, true, nil
}

// removePID is always best-effort: workers call it on every exit path,
// including ones where the file was never written.
func removePID(dir string, id coreid.JobID) {
	_ = os.Remove(pidPath(dir, id))
}
