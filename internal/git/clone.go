package git

import (
	"context"
	"fmt"
	"os/exec"
)

// Clone clones url into dest, shelling out to the git binary. branch, if
// non-empty, is passed as --branch so the clone checks out that ref
// directly (spec §3's cloned-repo Store, spec §4.6's clone job kind).
func Clone(ctx context.Context, url, dest, branch string) error {
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dest)

	cmd := exec.CommandContext(ctx, "git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git: clone %s: %w: %s", url, err, out)
	}
	return nil
}
