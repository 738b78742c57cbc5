package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
)

// QueryOperation is the kind of traversal a Query performs (spec §4.2:
// "given a node id, return outgoing calls (callees), incoming calls
// (callers), and outgoing imports").
type QueryOperation string

const (
	OperationCallers QueryOperation = "callers"
	OperationCallees QueryOperation = "callees"
	OperationImports QueryOperation = "imports"
)

const (
	DefaultDepth = 1
	MaxDepth     = 10
)

// QueryRequest is a single graph query.
type QueryRequest struct {
	Operation QueryOperation
	Target    string
	Depth     int // traversal depth for callers/callees; imports is always depth 1
}

// QueryResult is one node reached by a query, with the depth it was found
// at (1 = direct, 2 = one hop further, etc).
type QueryResult struct {
	Node  *Node `json:"node"`
	Depth int   `json:"depth"`
}

// Searcher answers callers/callees/imports queries against the code graph
// (spec §4.2's "depth-bounded traversal used to populate contextual detail
// in search results"), backed by an in-memory graph rebuilt from storage on
// Reload.
type Searcher interface {
	Query(ctx context.Context, req QueryRequest) ([]QueryResult, error)
	Reload(ctx context.Context) error
	Close() error
}

type searcher struct {
	storage Storage
	mu      sync.RWMutex

	g graph.Graph[string, *Node]

	callers map[string][]string // callee id -> [caller id]
	callees map[string][]string // caller id -> [callee id]
	imports map[string][]string // file -> [imported path]
}

// NewSearcher creates a Searcher over storage, loading the current graph
// immediately.
func NewSearcher(storage Storage) (Searcher, error) {
	s := &searcher{
		storage: storage,
		callers: make(map[string][]string),
		callees: make(map[string][]string),
		imports: make(map[string][]string),
	}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the in-memory graph and reverse indexes from storage
// (spec §4.2: "loaded lazily and cached in memory").
func (s *searcher) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Load()
	if err != nil {
		return fmt.Errorf("graph: load for search: %w", err)
	}
	if data == nil {
		data = &GraphData{}
	}

	g := graph.New(func(n *Node) string { return n.ID }, graph.Directed())
	for i := range data.Nodes {
		node := &data.Nodes[i]
		if err := g.AddVertex(node); err != nil {
			return fmt.Errorf("graph: add vertex %s: %w", node.ID, err)
		}
	}

	callers := make(map[string][]string)
	callees := make(map[string][]string)
	imports := make(map[string][]string)

	for _, edge := range data.Edges {
		_ = g.AddEdge(edge.From, edge.To) // external/unresolved targets may have no vertex

		switch edge.Type {
		case EdgeCalls:
			callees[edge.From] = append(callees[edge.From], edge.To)
			callers[edge.To] = append(callers[edge.To], edge.From)
		case EdgeImports:
			imports[edge.From] = append(imports[edge.From], edge.To)
		}
	}

	s.g = g
	s.callers = callers
	s.callees = callees
	s.imports = imports
	return nil
}

// Close releases resources held by the searcher. The in-memory graph and
// indexes need no explicit teardown; Close exists to satisfy callers that
// manage Searcher lifetime alongside other Store components.
func (s *searcher) Close() error {
	return nil
}

// Query executes req and returns matching nodes in discovery order,
// deduplicated by id, nearest depth first.
func (s *searcher) Query(ctx context.Context, req QueryRequest) ([]QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	depth := req.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	var ids []idAtDepth
	switch req.Operation {
	case OperationCallers:
		ids = s.traverse(s.callers, req.Target, depth)
	case OperationCallees:
		ids = s.traverse(s.callees, req.Target, depth)
	case OperationImports:
		for _, path := range s.imports[req.Target] {
			ids = append(ids, idAtDepth{id: path, depth: 1})
		}
	default:
		return nil, fmt.Errorf("graph: unsupported operation %q", req.Operation)
	}

	sort.SliceStable(ids, func(i, j int) bool { return ids[i].depth < ids[j].depth })
	results := make([]QueryResult, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, item := range ids {
		if seen[item.id] {
			continue
		}
		seen[item.id] = true

		node, err := s.g.Vertex(item.id)
		if err != nil {
			continue // edge target has no node (import path, unresolved call)
		}
		results = append(results, QueryResult{Node: node, Depth: item.depth})
	}
	return results, nil
}

type idAtDepth struct {
	id    string
	depth int
}

// traverse walks index (callers or callees) from target up to maxDepth
// hops, re-expanding an id only when it is reached at a shallower depth
// than before; an id may therefore appear more than once in the result.
func (s *searcher) traverse(index map[string][]string, target string, maxDepth int) []idAtDepth {
	var results []idAtDepth
	visited := make(map[string]int)

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if depth > maxDepth {
			return
		}
		if prev, ok := visited[id]; ok && prev <= depth {
			return
		}
		visited[id] = depth

		for _, next := range index[id] {
			results = append(results, idAtDepth{id: next, depth: depth})
			if depth < maxDepth {
				walk(next, depth+1)
			}
		}
	}
	walk(target, 1)
	return results
}
