package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/project-cortex/internal/atomicio"
	"github.com/mvp-joe/project-cortex/internal/coreid"
)

const (
	// GraphFileName is the name of the graph data file within a Store's
	// directory (spec §6: "graph.json").
	GraphFileName = "graph.json"
	// GraphVersion is the current version of the graph format.
	GraphVersion = "1.0"
)

// Storage handles reading and writing a Store's graph data to disk.
type Storage interface {
	// Load loads the graph from disk. Returns nil if file doesn't exist.
	Load() (*GraphData, error)

	// Save saves the graph to disk using atomicio's write-temp-then-rename
	// pattern (spec §4.2: "loaded lazily and cached in memory").
	Save(data *GraphData) error

	// Exists checks if the graph file exists.
	Exists() bool
}

// storage implements Storage for a single Store's graph directory.
type storage struct {
	graphDir string
}

// NewStorage creates a graph storage instance rooted at graphDir (the
// owning Store's data directory).
func NewStorage(graphDir string) (Storage, error) {
	if err := os.MkdirAll(graphDir, 0o755); err != nil {
		return nil, fmt.Errorf("graph: create directory %s: %w", graphDir, err)
	}
	return &storage{graphDir: graphDir}, nil
}

// Load loads the graph data from disk.
func (s *storage) Load() (*GraphData, error) {
	filePath := s.graphFilePath()

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("graph: read %s: %w", filePath, err)
	}

	var data GraphData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("graph: parse %s: %w: %w", filePath, err, coreid.ErrCorruption)
	}
	return &data, nil
}

// Save saves the graph data to disk atomically.
func (s *storage) Save(data *GraphData) error {
	data.Metadata.Version = GraphVersion
	data.Metadata.GeneratedAt = time.Now()
	data.Metadata.NodeCount = len(data.Nodes)
	data.Metadata.EdgeCount = len(data.Edges)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("graph: marshal: %w", err)
	}
	if err := atomicio.WriteFile(s.graphFilePath(), raw, 0o644); err != nil {
		return fmt.Errorf("graph: save %s: %w", s.graphFilePath(), err)
	}
	return nil
}

// Exists checks if the graph file exists.
func (s *storage) Exists() bool {
	_, err := os.Stat(s.graphFilePath())
	return err == nil
}

func (s *storage) graphFilePath() string {
	return filepath.Join(s.graphDir, GraphFileName)
}
