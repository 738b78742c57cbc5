package core

import (
	"context"
	"fmt"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/crawl"
	"github.com/mvp-joe/project-cortex/internal/git"
	"github.com/mvp-joe/project-cortex/internal/graph"
	"github.com/mvp-joe/project-cortex/internal/indexer"
	"github.com/mvp-joe/project-cortex/internal/jobs"
)

// RunJob is the hidden "worker" subcommand's entire body: it runs job id
// to completion via jobs.RunWorker, dispatching on the job's kind (spec
// §4.6 step 3: "execute the job based on its kind").
func (c *Context) RunJob(ctx context.Context, id coreid.JobID) error {
	job, err := c.Jobs.Get(id)
	if err != nil {
		return fmt.Errorf("core: worker: loading job %s: %w", id, err)
	}

	poller := jobs.Poller{Engine: c.Jobs, JobID: id}

	var execute jobs.Execute
	switch job.Kind {
	case jobs.KindIndex:
		execute = c.executeIndex(poller)
	case jobs.KindClone:
		execute = c.executeClone(poller)
	case jobs.KindCrawl:
		execute = c.executeCrawl(poller)
	default:
		return fmt.Errorf("core: worker: unknown job kind %q", job.Kind)
	}

	return jobs.RunWorker(ctx, c.Jobs, id, execute)
}

func (c *Context) executeIndex(poller jobs.Poller) jobs.Execute {
	return func(ctx context.Context, job jobs.Job, report func(int, string)) (string, error) {
		if job.Details.Index == nil {
			return "", fmt.Errorf("core: index job missing index details")
		}
		storeID := job.Details.Index.StoreID

		reg, err := c.Registry.Get(storeID)
		if err != nil {
			return "", err
		}

		s, err := c.openStore(storeID)
		if err != nil {
			return "", err
		}

		gs, err := graph.NewStorage(c.storeDataDir(storeID))
		if err != nil {
			return "", err
		}

		extractor := graph.NewExtractor(reg.Path, c.dispatcher, c.langs)
		builder := graph.NewBuilder(reg.Path, extractor)
		ix := indexer.New(c.dispatcher, c.Embedder, builder, poller)

		return runIndexer(ctx, ix, indexer.Target{
			StoreID:      storeID,
			Store:        s,
			GraphStorage: gs,
			DataDir:      c.storeDataDir(storeID),
		}, indexer.Options{RootDir: reg.Path}, report)
	}
}

func (c *Context) executeClone(poller jobs.Poller) jobs.Execute {
	return func(ctx context.Context, job jobs.Job, report func(int, string)) (string, error) {
		if job.Details.Clone == nil {
			return "", fmt.Errorf("core: clone job missing clone details")
		}
		d := job.Details.Clone

		reg, err := c.Registry.Get(d.StoreID)
		if err != nil {
			return "", err
		}

		report(0, "cloning "+d.URL)
		if err := git.Clone(ctx, d.URL, reg.Path, d.Branch); err != nil {
			return "", err
		}
		report(50, "indexing cloned repository")

		s, err := c.openStore(d.StoreID)
		if err != nil {
			return "", err
		}
		gs, err := graph.NewStorage(c.storeDataDir(d.StoreID))
		if err != nil {
			return "", err
		}
		extractor := graph.NewExtractor(reg.Path, c.dispatcher, c.langs)
		builder := graph.NewBuilder(reg.Path, extractor)
		ix := indexer.New(c.dispatcher, c.Embedder, builder, poller)

		return runIndexer(ctx, ix, indexer.Target{
			StoreID:      d.StoreID,
			Store:        s,
			GraphStorage: gs,
			DataDir:      c.storeDataDir(d.StoreID),
		}, indexer.Options{RootDir: reg.Path}, report)
	}
}

func (c *Context) executeCrawl(poller jobs.Poller) jobs.Execute {
	return func(ctx context.Context, job jobs.Job, report func(int, string)) (string, error) {
		if job.Details.Crawl == nil {
			return "", fmt.Errorf("core: crawl job missing crawl details")
		}
		d := job.Details.Crawl

		s, err := c.openStore(d.StoreID)
		if err != nil {
			return "", err
		}

		pages, err := fetchPages(ctx, d.URL, d.MaxPages)
		if err != nil {
			return "", err
		}

		progressCh := make(chan crawl.Progress, 1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for p := range progressCh {
				report(p.Current*100/max(p.Total, 1), p.Message)
			}
		}()

		err = crawl.Ingest(ctx, d.StoreID, s, pages, c.Embedder, poller, progressCh)
		close(progressCh)
		<-done
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("crawled %d pages", len(pages)), nil
	}
}

// fetchPages is the boundary to an external crawler (browser automation,
// LLM extraction) that spec.md §1 names as out of scope. This repo has
// nothing of its own to plug in here yet.
func fetchPages(ctx context.Context, url string, maxPages int) ([]crawl.Page, error) {
	return nil, fmt.Errorf("core: crawling %s: no crawler backend configured", url)
}

func runIndexer(ctx context.Context, ix *indexer.Indexer, target indexer.Target, opts indexer.Options, report func(int, string)) (string, error) {
	progressCh := make(chan indexer.Progress, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progressCh {
			report(p.Current*100/max(p.Total, 1), p.Message)
		}
	}()

	err := ix.Run(ctx, target, opts, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return "", err
	}
	return "index complete", nil
}
