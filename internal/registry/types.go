// Package registry implements spec.md §4.10: the Store Registry. It owns
// the set of Stores, resolves them by id or name, and is the fail-fast
// source of truth every other component defers to for Store existence.
package registry

import (
	"fmt"
	"time"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Kind is the origin a Store's documents come from (spec §3).
type Kind string

const (
	KindLocalDirectory Kind = "local-directory"
	KindClonedRepo     Kind = "cloned-repo"
	KindWebCollection  Kind = "web-collection"
)

// Status is a Store's lifecycle state (spec §3).
type Status string

const (
	StatusPending  Status = "pending"
	StatusReady    Status = "ready"
	StatusIndexing Status = "indexing"
	StatusError    Status = "error"
)

// Store is one registered collection (spec §3).
type Store struct {
	ID          coreid.StoreID `json:"id"`
	Name        string         `json:"name"`
	Kind        Kind           `json:"kind"`
	Path        string         `json:"path,omitempty"`
	URL         string         `json:"url,omitempty"`
	Branch      string         `json:"branch,omitempty"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Status      Status         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Spec is the caller-supplied shape of a new Store (spec §4.10: "create(spec)").
type Spec struct {
	Name        string
	Kind        Kind
	Path        string
	URL         string
	Branch      string
	Description string
	Tags        []string
}

// validate enforces spec §3's kind-specific presence invariants:
// "local-directory requires path that exists; cloned-repo requires at
// least one of path/url; web-collection requires url". Path existence
// itself is checked by the caller (the registry does not touch the
// filesystem on behalf of a Spec); this only enforces shape.
func (s Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("registry: %w: name is required", coreid.ErrInvalid)
	}
	switch s.Kind {
	case KindLocalDirectory:
		if s.Path == "" {
			return fmt.Errorf("registry: %w: local-directory requires a path", coreid.ErrInvalid)
		}
	case KindClonedRepo:
		if s.Path == "" && s.URL == "" {
			return fmt.Errorf("registry: %w: cloned-repo requires a path or url", coreid.ErrInvalid)
		}
	case KindWebCollection:
		if s.URL == "" {
			return fmt.Errorf("registry: %w: web-collection requires a url", coreid.ErrInvalid)
		}
	default:
		return fmt.Errorf("registry: %w: unknown kind %q", coreid.ErrInvalid, s.Kind)
	}
	return nil
}

// Filter narrows List results. A zero-value field means "don't filter on
// this attribute".
type Filter struct {
	Kind   Kind
	Status Status
	Tag    string
}

func (f Filter) matches(s Store) bool {
	if f.Kind != "" && s.Kind != f.Kind {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range s.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Patch mutates a loaded Store in place, applied under Registry's lock
// before persisting.
type Patch func(*Store)
