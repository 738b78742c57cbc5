package indexer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/project-cortex/internal/atomicio"
)

// manifestFileName is the file recording each source path's last-indexed
// content hash, consulted by incremental runs (spec §4.5 step 2: "skip
// unchanged files by comparing file_hash against the existing document's
// stored hash").
const manifestFileName = "manifest.json"

// manifest tracks per-file content hashes across runs, grounded on the
// teacher's GeneratorMetadata.FileChecksums (internal/indexer/types.go,
// now removed) — the same incremental-skip bookkeeping, narrowed to just
// the checksum map the spec's algorithm needs.
type manifest struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	FileChecksums map[string]string `json:"file_checksums"`
}

func loadManifest(dataDir string) (*manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, manifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &manifest{FileChecksums: map[string]string{}}, nil
		}
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m.FileChecksums == nil {
		m.FileChecksums = map[string]string{}
	}
	return &m, nil
}

// save persists the manifest atomically (spec §1 non-goals: "strong
// durability guarantees beyond filesystem atomic rename" — this is that
// guarantee, applied to the manifest the same way internal/graph's
// Storage applies it to the code graph blob).
func (m *manifest) save(dataDir string) error {
	m.GeneratedAt = time.Now().UTC()
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return atomicio.WriteFile(filepath.Join(dataDir, manifestFileName), raw, 0o644)
}
