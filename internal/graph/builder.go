package graph

import (
	"context"
	"log"
	"path/filepath"
	"time"
)

// ProgressReporter reports progress during graph building.
type ProgressReporter interface {
	OnGraphBuildingStart(totalFiles int)
	OnGraphFileProcessed(processedFiles, totalFiles int, fileName string)
	OnGraphBuildingComplete(nodeCount, edgeCount int, duration time.Duration)
}

// Builder builds graph data from source files (spec §4.2).
type Builder interface {
	// BuildFull builds the complete graph from every file.
	BuildFull(ctx context.Context, files []string) (*GraphData, error)

	// BuildIncremental updates the graph for changed files only, reusing
	// nodes/edges from unaffected files in previousGraph.
	BuildIncremental(ctx context.Context, previousGraph *GraphData, changedFiles, deletedFiles []string) (*GraphData, error)
}

type builder struct {
	extractor Extractor
	rootDir   string
	progress  ProgressReporter
}

// BuilderOption configures a Builder.
type BuilderOption func(*builder)

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) BuilderOption {
	return func(b *builder) { b.progress = progress }
}

// NewBuilder creates a graph builder backed by extractor.
func NewBuilder(rootDir string, extractor Extractor, opts ...BuilderOption) Builder {
	b := &builder{extractor: extractor, rootDir: rootDir}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildFull builds the complete graph from every file (spec §4.2 steps 1-3).
func (b *builder) BuildFull(ctx context.Context, files []string) (*GraphData, error) {
	startTime := time.Now()
	if b.progress != nil {
		b.progress.OnGraphBuildingStart(len(files))
	}

	var allNodes []Node
	var importEdges []Edge
	callsByFile := make(map[string][]rawCall)
	symbolsByFile := make(map[string]map[string]bool)

	for i, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, calls, err := b.extractor.ExtractFile(file)
		if err != nil {
			log.Printf("graph: failed to extract %s: %v", file, err)
			if b.progress != nil {
				b.progress.OnGraphFileProcessed(i+1, len(files), filepath.Base(file))
			}
			continue
		}

		allNodes = append(allNodes, data.Nodes...)
		importEdges = append(importEdges, data.Edges...)
		callsByFile[data.FilePath] = calls
		symbolsByFile[data.FilePath] = symbolNameSet(data.Nodes)

		if b.progress != nil {
			b.progress.OnGraphFileProcessed(i+1, len(files), filepath.Base(file))
		}
	}

	callEdges := resolveCalls(callsByFile, symbolsByFile)
	allEdges := dedupeEdges(append(importEdges, callEdges...))

	graphData := &GraphData{Nodes: allNodes, Edges: allEdges}
	if b.progress != nil {
		b.progress.OnGraphBuildingComplete(len(allNodes), len(allEdges), time.Since(startTime))
	}
	return graphData, nil
}

// BuildIncremental recomputes only changedFiles and deletedFiles, keeping
// nodes/edges sourced from every other file untouched (spec §4.2's
// persistence note: the graph is loaded lazily and cached, so an
// incremental update must not force a full re-parse).
func (b *builder) BuildIncremental(ctx context.Context, previousGraph *GraphData, changedFiles, deletedFiles []string) (*GraphData, error) {
	if previousGraph == nil {
		return b.BuildFull(ctx, changedFiles)
	}

	startTime := time.Now()
	affected := make(map[string]bool)
	for _, f := range changedFiles {
		affected[relOf(b.rootDir, f)] = true
	}
	for _, f := range deletedFiles {
		affected[relOf(b.rootDir, f)] = true
	}

	var preservedNodes []Node
	for _, n := range previousGraph.Nodes {
		if !affected[n.File] {
			preservedNodes = append(preservedNodes, n)
		}
	}
	var preservedEdges []Edge
	for _, e := range previousGraph.Edges {
		if !affected[e.Location.File] {
			preservedEdges = append(preservedEdges, e)
		}
	}

	if b.progress != nil {
		b.progress.OnGraphBuildingStart(len(changedFiles))
	}

	var newNodes []Node
	var importEdges []Edge
	callsByFile := make(map[string][]rawCall)
	symbolsByFile := make(map[string]map[string]bool)

	for i, file := range changedFiles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, calls, err := b.extractor.ExtractFile(file)
		if err != nil {
			log.Printf("graph: failed to extract %s: %v", file, err)
			if b.progress != nil {
				b.progress.OnGraphFileProcessed(i+1, len(changedFiles), filepath.Base(file))
			}
			continue
		}
		newNodes = append(newNodes, data.Nodes...)
		importEdges = append(importEdges, data.Edges...)
		callsByFile[data.FilePath] = calls
		symbolsByFile[data.FilePath] = symbolNameSet(data.Nodes)

		if b.progress != nil {
			b.progress.OnGraphFileProcessed(i+1, len(changedFiles), filepath.Base(file))
		}
	}

	allNodes := append(preservedNodes, newNodes...)
	callEdges := resolveCalls(callsByFile, symbolsByFile)
	allEdges := dedupeEdges(append(append(preservedEdges, importEdges...), callEdges...))

	// Drop any edge whose call-resolution target belongs to a file that no
	// longer has a node for it (a deleted or renamed symbol).
	present := make(map[string]bool, len(allNodes))
	for _, n := range allNodes {
		present[n.ID] = true
	}
	validEdges := allEdges[:0]
	for _, e := range allEdges {
		if e.Type == EdgeImports || present[e.To] || isUnresolvedID(e.To) {
			validEdges = append(validEdges, e)
		}
	}

	graphData := &GraphData{Nodes: allNodes, Edges: validEdges}
	if b.progress != nil {
		b.progress.OnGraphBuildingComplete(len(allNodes), len(validEdges), time.Since(startTime))
	}
	return graphData, nil
}

func relOf(rootDir, file string) string {
	rel, err := filepath.Rel(rootDir, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

func symbolNameSet(nodes []Node) map[string]bool {
	set := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		_, name := splitNodeID(n.ID)
		set[name] = true
	}
	return set
}

func splitNodeID(id string) (file, name string) {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == ':' {
			return id[:i], id[i+1:]
		}
	}
	return "", id
}

// isUnresolvedID reports whether id has UnresolvedCalleeID's
// `<file>:unknown:<name>` shape.
func isUnresolvedID(id string) bool {
	rest, name := splitNodeID(id)
	file, marker := splitNodeID(rest)
	return file != "" && marker == "unknown" && name != ""
}

// resolveCalls implements spec §4.2 step 3: resolve calls within a file to
// local symbols first, then to any other file that defines a matching
// symbol name (the best available proxy for "imported symbols" across a
// multi-language corpus without per-language import-to-file resolution),
// retaining unresolved calls at lower confidence.
func resolveCalls(callsByFile map[string][]rawCall, symbolsByFile map[string]map[string]bool) []Edge {
	globalDefiners := make(map[string][]string) // symbol name -> files defining it
	for file, names := range symbolsByFile {
		for name := range names {
			globalDefiners[name] = append(globalDefiners[name], file)
		}
	}

	var edges []Edge
	for file, calls := range callsByFile {
		locals := symbolsByFile[file]
		for _, c := range calls {
			var to string
			confidence := c.confidence
			switch {
			case locals[c.calleeName]:
				to = file + ":" + c.calleeName
			case len(globalDefiners[c.calleeName]) == 1:
				to = globalDefiners[c.calleeName][0] + ":" + c.calleeName
				confidence = minFloat(confidence, 0.7)
			default:
				to = UnresolvedCalleeID(file, c.calleeName)
				confidence = minFloat(confidence, 0.3)
			}
			edges = append(edges, Edge{
				From:       file + ":" + c.callerName,
				To:         to,
				Type:       EdgeCalls,
				Confidence: confidence,
				Location:   Location{File: file, Line: c.line},
			})
		}
	}
	return edges
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// dedupeEdges keeps, for each (from, to, type) triple, the edge with the
// highest confidence (spec §4.2: "Edge deduplication: (from, to, kind)
// triple with max confidence retained").
func dedupeEdges(edges []Edge) []Edge {
	type key struct {
		from, to string
		kind     EdgeType
	}
	best := make(map[key]Edge, len(edges))
	order := make([]key, 0, len(edges))
	for _, e := range edges {
		k := key{e.From, e.To, e.Type}
		if existing, ok := best[k]; !ok {
			best[k] = e
			order = append(order, k)
		} else if e.Confidence > existing.Confidence {
			best[k] = e
		}
	}
	out := make([]Edge, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}
