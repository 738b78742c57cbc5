package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn_StartsWorkerWithJobIDAndDataDir(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	outFile := filepath.Join(dataDir, "out.txt")

	// A tiny shell worker that proves it received the job id positionally
	// and the data dir via CORTEX_DATA_DIR.
	script := `echo "$1:$CORTEX_DATA_DIR" > ` + outFile
	err := Spawn("/bin/sh", []string{"-c", script, "sh"}, "job-123", dataDir)
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	var content []byte
	for time.Now().Before(deadline) {
		content, err = os.ReadFile(outFile)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	assert.Equal(t, "job-123:"+dataDir+"\n", string(content))
}
