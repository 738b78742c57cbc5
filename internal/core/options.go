// Package core is the composition root: it wires the Store Registry, job
// engine, embedding client, watcher, and search planner into the one
// running system spec.md describes, and is the only package the tool
// surface (cmd/cortexctl) imports.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Options is the core library's own small defaults layer (spec.md §4.13's
// "internal/core.Options"): a data directory, default chunk size/overlap,
// and default fusion weights. This is deliberately not the schema-rich,
// consumer-facing on-disk configuration spec.md §1 names as an external
// collaborator — that loader belongs to whatever application embeds this
// core; these are just the core's own operating defaults.
type Options struct {
	DataDir string

	ChunkSize    int
	ChunkOverlap int

	VectorWeight float64
	FTSWeight    float64

	EmbedEndpoint   string
	EmbedDimensions int
}

// DefaultOptions returns Options with the same chunking defaults
// internal/chunker.DefaultOptions uses and the search package's built-in
// fusion weights, rooted at ~/.cortex.
func DefaultOptions() Options {
	dataDir := ".cortex"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".cortex")
	}
	return Options{
		DataDir:         dataDir,
		ChunkSize:       768,
		ChunkOverlap:    100,
		VectorWeight:    0.6,
		FTSWeight:       0.4,
		EmbedEndpoint:   "http://localhost:8121",
		EmbedDimensions: 384,
	}
}

// LoadOptions loads Options from an optional YAML file at configPath
// layered over DefaultOptions, with CORTEX_*-prefixed environment
// variables taking highest priority (spec.md §4.13, mirroring the
// defaults→file→env priority the teacher's own configuration loader used
// for its richer, now-superseded project config).
func LoadOptions(configPath string) (Options, error) {
	v := viper.New()
	defaults := DefaultOptions()

	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("chunk_size", defaults.ChunkSize)
	v.SetDefault("chunk_overlap", defaults.ChunkOverlap)
	v.SetDefault("vector_weight", defaults.VectorWeight)
	v.SetDefault("fts_weight", defaults.FTSWeight)
	v.SetDefault("embed_endpoint", defaults.EmbedEndpoint)
	v.SetDefault("embed_dimensions", defaults.EmbedDimensions)

	v.SetEnvPrefix("CORTEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("core: reading %s: %w", configPath, err)
		}
	}

	return Options{
		DataDir:         v.GetString("data_dir"),
		ChunkSize:       v.GetInt("chunk_size"),
		ChunkOverlap:    v.GetInt("chunk_overlap"),
		VectorWeight:    v.GetFloat64("vector_weight"),
		FTSWeight:       v.GetFloat64("fts_weight"),
		EmbedEndpoint:   v.GetString("embed_endpoint"),
		EmbedDimensions: v.GetInt("embed_dimensions"),
	}, nil
}
