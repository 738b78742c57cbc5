package core

import (
	"fmt"
	"os"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/jobs"
	"github.com/mvp-joe/project-cortex/internal/registry"
)

// CreateStore registers a new Store. The caller still has to run an index
// (or clone, or crawl) job to populate it before it becomes searchable.
func (c *Context) CreateStore(spec registry.Spec) (registry.Store, error) {
	return c.Registry.Create(spec)
}

// ListStores returns every registered Store matching filter.
func (c *Context) ListStores(filter registry.Filter) ([]registry.Store, error) {
	return c.Registry.List(filter)
}

// GetStore resolves a Store by id or name.
func (c *Context) GetStore(idOrName string) (registry.Store, error) {
	return c.Registry.GetByIDOrName(idOrName)
}

// DeleteStore stops watching s (if watched), closes and forgets any open
// Store handle, then removes it from the registry, which itself deletes
// the on-disk document-store and graph data (spec §4.10's delete
// ordering).
func (c *Context) DeleteStore(id coreid.StoreID) error {
	_ = c.Watcher.Unwatch(id)

	c.mu.Lock()
	if s, ok := c.stores[id]; ok {
		_ = s.Close()
		delete(c.stores, id)
	}
	c.mu.Unlock()

	return c.Registry.Delete(id)
}

// workerBinary resolves the path to re-exec as a job worker: this same
// executable, invoked with its hidden "worker" subcommand (spec §4.6: one
// detached subprocess per job).
func workerBinary() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("core: resolving worker binary: %w", err)
	}
	return exe, nil
}

// StartIndexJob creates a pending index job for storeID and spawns a
// worker subprocess to run it.
func (c *Context) StartIndexJob(storeID coreid.StoreID) (jobs.Job, error) {
	job, err := c.Jobs.Create(jobs.KindIndex, jobs.Details{
		Index: &jobs.IndexDetails{StoreID: storeID},
	})
	if err != nil {
		return jobs.Job{}, err
	}
	return c.spawnWorker(job)
}

// StartCloneJob creates a pending clone job for a cloned-repo Store and
// spawns a worker subprocess to run it.
func (c *Context) StartCloneJob(storeID coreid.StoreID, url, branch string) (jobs.Job, error) {
	job, err := c.Jobs.Create(jobs.KindClone, jobs.Details{
		Clone: &jobs.CloneDetails{StoreID: storeID, URL: url, Branch: branch},
	})
	if err != nil {
		return jobs.Job{}, err
	}
	return c.spawnWorker(job)
}

// StartCrawlJob creates a pending crawl job for a web-collection Store and
// spawns a worker subprocess to run it.
func (c *Context) StartCrawlJob(storeID coreid.StoreID, url string, maxPages int) (jobs.Job, error) {
	job, err := c.Jobs.Create(jobs.KindCrawl, jobs.Details{
		Crawl: &jobs.CrawlDetails{StoreID: storeID, URL: url, MaxPages: maxPages},
	})
	if err != nil {
		return jobs.Job{}, err
	}
	return c.spawnWorker(job)
}

func (c *Context) spawnWorker(job jobs.Job) (jobs.Job, error) {
	exe, err := workerBinary()
	if err != nil {
		return jobs.Job{}, err
	}
	if err := jobs.Spawn(exe, []string{"worker"}, job.ID, c.opts.DataDir); err != nil {
		return jobs.Job{}, err
	}
	return job, nil
}
