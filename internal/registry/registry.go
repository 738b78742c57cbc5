package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// FileName is the registry's file name under the data directory (spec
// §4.10/§6: "<data>/stores.json").
const FileName = "stores.json"

// registryFile is the on-disk JSON shape.
type registryFile struct {
	Stores []*Store `json:"stores"`
}

// Registry owns the set of Stores (spec §4.10). It is read-through at
// construction and rewritten atomically on every mutation.
type Registry struct {
	dataRoot string

	mu     sync.RWMutex
	byID   map[coreid.StoreID]*Store
	byName map[string]coreid.StoreID
}

// Open loads the registry rooted at dataRoot, creating an empty one if
// stores.json is absent (spec §4.10: "First-run absence creates the file
// with an empty set"). A parse failure is returned, not swallowed — the
// registry is the source of truth for all downstream operations, so
// callers must treat it as fatal (spec §4.10: "Parse failure is fatal").
func Open(dataRoot string) (*Registry, error) {
	r := &Registry{
		dataRoot: dataRoot,
		byID:     make(map[coreid.StoreID]*Store),
		byName:   make(map[string]coreid.StoreID),
	}

	raw, err := os.ReadFile(filepath.Join(dataRoot, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("registry: read %s: %w", FileName, err)
	}

	var file registryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("registry: %w: parse %s: %v", coreid.ErrCorruption, FileName, err)
	}
	for _, s := range file.Stores {
		r.byID[s.ID] = s
		r.byName[s.Name] = s.ID
	}
	return r, nil
}

func (r *Registry) save() error {
	stores := make([]*Store, 0, len(r.byID))
	for _, s := range r.byID {
		stores = append(stores, s)
	}
	raw, err := json.MarshalIndent(registryFile{Stores: stores}, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	tmp := filepath.Join(r.dataRoot, FileName+".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("registry: write temp file: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(r.dataRoot, FileName)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("registry: rename: %w", err)
	}
	return nil
}

// Create registers a new Store from spec, rejecting a name already in
// use (spec §3: "name uniqueness across the registry"). The new Store
// starts in StatusPending; it becomes ready once its first index job
// completes (spec §3's lifecycle note) — the registry itself does not
// drive that transition, the job engine does via Update.
func (r *Registry) Create(spec Spec) (Store, error) {
	if err := spec.validate(); err != nil {
		return Store{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[spec.Name]; exists {
		return Store{}, fmt.Errorf("registry: %w: name %q already registered", coreid.ErrConflict, spec.Name)
	}

	now := time.Now().UTC()
	s := &Store{
		ID:          coreid.StoreID(uuid.New().String()),
		Name:        spec.Name,
		Kind:        spec.Kind,
		Path:        spec.Path,
		URL:         spec.URL,
		Branch:      spec.Branch,
		Description: spec.Description,
		Tags:        spec.Tags,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.byID[s.ID] = s
	r.byName[s.Name] = s.ID
	if err := r.save(); err != nil {
		delete(r.byID, s.ID)
		delete(r.byName, s.Name)
		return Store{}, err
	}
	return *s, nil
}

// Get returns one Store by id.
func (r *Registry) Get(id coreid.StoreID) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return Store{}, fmt.Errorf("registry: store %s: %w", id, coreid.ErrNotFound)
	}
	return *s, nil
}

// GetByName returns one Store by its unique human name.
func (r *Registry) GetByName(name string) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return Store{}, fmt.Errorf("registry: store named %q: %w", name, coreid.ErrNotFound)
	}
	return *r.byID[id], nil
}

// GetByIDOrName resolves s as an id first, falling back to a name lookup
// (spec §4.10: "get_by_id_or_name(s)").
func (r *Registry) GetByIDOrName(s string) (Store, error) {
	if got, err := r.Get(coreid.StoreID(s)); err == nil {
		return got, nil
	}
	return r.GetByName(s)
}

// List returns every Store matching filter, in no particular order.
func (r *Registry) List(filter Filter) ([]Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Store
	for _, s := range r.byID {
		if filter.matches(*s) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// Update loads Store id, applies patch, and persists the result.
func (r *Registry) Update(id coreid.StoreID, patch Patch) (Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return Store{}, fmt.Errorf("registry: store %s: %w", id, coreid.ErrNotFound)
	}

	before := *s
	patch(s)
	s.UpdatedAt = time.Now().UTC()

	if s.Name != before.Name {
		if _, exists := r.byName[s.Name]; exists {
			*s = before
			return Store{}, fmt.Errorf("registry: %w: name %q already registered", coreid.ErrConflict, s.Name)
		}
		delete(r.byName, before.Name)
		r.byName[s.Name] = s.ID
	}

	if err := r.save(); err != nil {
		*s = before
		return Store{}, err
	}
	return *s, nil
}

// Delete removes Store id's on-disk document-store data and code-graph
// file before removing its registry entry, in that order, so a failure
// partway through never leaves an orphaned registry entry pointing at
// vector data that no longer fully exists (spec §4.10: "Delete removes
// the Store's document-store data and code-graph file before removing
// the registry entry, to avoid orphaned vector data if a later step
// fails"). Both live under the same per-Store directory, so one
// store.DeleteStore call covers them — see internal/store's DeleteStore
// doc comment and internal/graph's file-under-Store-directory placement.
func (r *Registry) Delete(id coreid.StoreID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return coreid.ErrNotFound
	}

	if err := store.DeleteStore(r.dataRoot, id); err != nil {
		return err
	}

	delete(r.byID, id)
	delete(r.byName, s.Name)
	return r.save()
}
