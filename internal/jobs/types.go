// Package jobs implements spec.md §4.6: durable background jobs with
// out-of-process cancellation. A job persists as one JSON file, updated
// atomically; a supervisor spawns one detached worker subprocess per job;
// the worker re-reads its own job before every progress tick so a
// cancellation written by the parent is observed promptly.
package jobs

import (
	"time"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Kind is the job kind a Job carries (spec §3).
type Kind string

const (
	KindClone Kind = "clone"
	KindIndex Kind = "index"
	KindCrawl Kind = "crawl"
)

// Status is a Job's lifecycle state (spec §3). Status transitions are
// monotonic except pending→cancelled and running→cancelled (enforced by
// Engine.Update/Cancel, not by this type).
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Details is the tagged-union payload describing what a job does (spec §9
// design note: "enumerate a tagged variant per job kind ... Persist the
// tag explicitly"), plus the failure payload spec §4.6 step 3 requires
// ("mark failed with an error message and stack trace in details").
type Details struct {
	Kind  Kind          `json:"kind"`
	Clone *CloneDetails `json:"clone,omitempty"`
	Index *IndexDetails `json:"index,omitempty"`
	Crawl *CrawlDetails `json:"crawl,omitempty"`

	Error string `json:"error,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// CloneDetails is the payload of a KindClone job.
type CloneDetails struct {
	StoreID coreid.StoreID `json:"store_id"`
	URL     string         `json:"url"`
	Branch  string         `json:"branch,omitempty"`
}

// IndexDetails is the payload of a KindIndex job.
type IndexDetails struct {
	StoreID coreid.StoreID `json:"store_id"`
}

// CrawlDetails is the payload of a KindCrawl job.
type CrawlDetails struct {
	StoreID  coreid.StoreID `json:"store_id"`
	URL      string         `json:"url"`
	MaxPages int            `json:"max_pages"`
}

// Job is one durable background job (spec §3).
type Job struct {
	ID          coreid.JobID `json:"id"`
	Kind        Kind         `json:"kind"`
	Status      Status       `json:"status"`
	Progress    int          `json:"progress"` // percent, [0,100]
	Message     string       `json:"message"`
	Details     Details      `json:"details"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Filter narrows List results. A zero-value field means "don't filter on
// this attribute".
type Filter struct {
	Kind   Kind
	Status Status
}

func (f Filter) matches(j Job) bool {
	if f.Kind != "" && j.Kind != f.Kind {
		return false
	}
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	return true
}
