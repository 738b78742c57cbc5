package jobs

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Spawn starts a detached worker subprocess for job id. workerBinary and
// workerArgs identify the entrypoint to run (typically the cortex binary
// itself, re-invoked with its "worker" subcommand); the job id is
// appended positionally and the data directory is passed via
// CORTEX_DATA_DIR, per spec §4.6's job-id-plus-data-dir handoff. Spawn
// does not wait for the worker; cmd.Start returns as soon as the process
// exists.
func Spawn(workerBinary string, workerArgs []string, id coreid.JobID, dataDir string) error {
	args := append(append([]string{}, workerArgs...), string(id))
	cmd := exec.Command(workerBinary, args...)
	cmd.SysProcAttr = getSysProcAttr()
	cmd.Env = append(os.Environ(), "CORTEX_DATA_DIR="+dataDir)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("jobs: spawning worker for %s: %w", id, err)
	}
	return nil
}
