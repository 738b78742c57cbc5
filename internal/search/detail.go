package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvp-joe/project-cortex/internal/graph"
	"github.com/mvp-joe/project-cortex/internal/store"
)

const previewLength = 200

// GraphSearcher is the subset of graph.Searcher search needs, so tests can
// supply a fake without standing up a full code graph.
type GraphSearcher interface {
	Query(ctx context.Context, req graph.QueryRequest) ([]graph.QueryResult, error)
}

func summarize(doc store.Document) Summary {
	name := doc.Metadata.SymbolName
	if name == "" {
		name = doc.Metadata.SourcePath
	}
	location := doc.Metadata.SourcePath
	if doc.Metadata.SymbolName != "" {
		location = fmt.Sprintf("%s:%s", doc.Metadata.SourcePath, doc.Metadata.SymbolName)
	}
	return Summary{
		Kind:     doc.Metadata.Kind,
		Name:     name,
		Location: location,
		Purpose:  onelinePurpose(doc.Content),
	}
}

// onelinePurpose takes the first non-empty line of content as a one-line
// purpose string (spec §6's "one-line purpose"), trimmed to previewLength.
func onelinePurpose(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return truncate(trimmed, previewLength)
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// buildContext materializes the "contextual" detail level: imports (first
// 3), related callers/callees from the code graph (first 3), and a short
// content preview (spec §4.4 step 8).
func buildContext(ctx context.Context, g GraphSearcher, doc store.Document) *Context {
	c := &Context{ContentPreview: truncate(doc.Content, previewLength)}
	if g == nil || doc.Metadata.SourcePath == "" {
		return c
	}

	if imports, err := g.Query(ctx, graph.QueryRequest{
		Operation: graph.OperationImports,
		Target:    doc.Metadata.SourcePath,
	}); err == nil {
		c.Imports = firstN(nodeIDs(imports), 3)
	}

	if doc.Metadata.SymbolName != "" {
		nodeID := doc.Metadata.SourcePath + ":" + doc.Metadata.SymbolName
		var related []string
		if callees, err := g.Query(ctx, graph.QueryRequest{
			Operation: graph.OperationCallees, Target: nodeID, Depth: 1,
		}); err == nil {
			related = append(related, nodeIDs(callees)...)
		}
		if callers, err := g.Query(ctx, graph.QueryRequest{
			Operation: graph.OperationCallers, Target: nodeID, Depth: 1,
		}); err == nil {
			related = append(related, nodeIDs(callers)...)
		}
		c.RelatedConcepts = firstN(related, 3)
	}
	return c
}

func nodeIDs(results []graph.QueryResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.Node != nil {
			ids = append(ids, r.Node.ID)
		}
	}
	return ids
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// buildFull materializes the "full" detail level: the chunk's entire
// content plus its previous and next sibling chunk by chunk_index.
func buildFull(ctx context.Context, s store.Store, doc store.Document) *Full {
	full := &Full{Content: doc.Content}
	if s == nil || doc.Metadata.FileHash == "" || doc.Metadata.TotalChunks <= 1 {
		return full
	}

	siblings, err := s.SiblingChunks(ctx, doc.Metadata.FileHash)
	if err != nil {
		return full
	}
	for i, sib := range siblings {
		if sib.ID != doc.ID {
			continue
		}
		if i > 0 {
			full.PreviousChunk = siblings[i-1].Content
		}
		if i < len(siblings)-1 {
			full.NextChunk = siblings[i+1].Content
		}
		break
	}
	return full
}
