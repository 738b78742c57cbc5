package graph

import "time"

// NodeKind is the symbol kind a graph node was built from (spec §3's
// language-neutral symbol kinds, narrowed to what the graph actually
// distinguishes).
type NodeKind string

const (
	NodeFunction  NodeKind = "function"
	NodeClass     NodeKind = "class"
	NodeInterface NodeKind = "interface"
	NodeType      NodeKind = "type"
	NodeConstant  NodeKind = "constant"
	NodeObject    NodeKind = "object"
	NodeGlobal    NodeKind = "global"
)

// Node represents a code entity with its source location (spec §4.2 step 1:
// one node per symbol, id `<file>:<symbol-name>`).
type Node struct {
	ID        string   `json:"id"`
	Kind      NodeKind `json:"kind"`
	File      string   `json:"file"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
}

// EdgeType represents the type of relationship between nodes. Spec §4.2
// defines exactly these two.
type EdgeType string

const (
	EdgeCalls   EdgeType = "calls"
	EdgeImports EdgeType = "imports"
)

// Edge represents a relationship between two code entities. Confidence is
// 1.0 for a resolved import, 0.9 for an adapter-analyzed call, and lower
// for an unresolved or lexically-scanned call (spec §4.2 step 3).
type Edge struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Type       EdgeType `json:"type"`
	Confidence float64  `json:"confidence"`
	Location   Location `json:"location"`
}

// Location is the source position an edge was discovered at.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// GraphData is the complete code graph structure stored in JSON: a pair of
// arrays, one per Store (spec §4.2: "serialized as a pair of arrays
// (nodes, edges) in a single JSON blob per Store").
type GraphData struct {
	Metadata GraphMetadata `json:"_metadata"`
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
}

// GraphMetadata contains metadata about a persisted graph.
type GraphMetadata struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
}

// FileGraphData is the graph data extracted from a single file. Used
// during incremental builds to know which nodes/edges belong to which
// file when recomputing a changed subset.
type FileGraphData struct {
	FilePath string
	Nodes    []Node
	Edges    []Edge
}

// UnresolvedCalleeID is the id assigned to a call that couldn't be
// resolved to a local or imported symbol (spec §4.2 step 3: retained as
// `<file>:<unknown>:<name>` with lower confidence).
func UnresolvedCalleeID(file, name string) string {
	return file + ":unknown:" + name
}
