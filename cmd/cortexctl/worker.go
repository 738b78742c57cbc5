package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// workerCmd is the job engine's subprocess entrypoint (spec §4.6's
// "internal/jobs.Spawn" launches this binary as `cortexctl worker JOB_ID`).
// It is hidden because operators never invoke it directly.
var workerCmd = &cobra.Command{
	Use:    "worker JOB_ID",
	Short:  "Run a single queued job to completion (internal)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		return c.RunJob(context.Background(), coreid.JobID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
