package store

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Krrish109/codegraph/entity"
)

// Node is a graph-store record. Its identity is derivable solely from
// (file, kind, name); the store owns every node's lifetime from AddNode to
// RemoveNode.
type Node struct {
	ID         string
	Kind       entity.Kind
	Name       string
	FilePath   string
	LineStart  int
	LineEnd    int
	Properties map[string]interface{}
}

// Edge is a directed, typed relationship jointly owned by its source and
// target nodes: removing either cascades edge removal.
type Edge struct {
	SourceID   string
	TargetID   string
	Type       EdgeType
	Properties map[string]interface{}
}

// EdgeType enumerates the relationship kinds the bridge creates.
type EdgeType string

const (
	EdgeCalls       EdgeType = "calls"
	EdgeImports     EdgeType = "imports"
	EdgeInherits    EdgeType = "inherits"
	EdgeUsesType    EdgeType = "uses_type"
	EdgeDecoratedBy EdgeType = "decorated_by"
	EdgeUses        EdgeType = "uses"
)

// Confidence is the resolver's assessment of an edge's correctness.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// NodeID derives a node's identity from its owning triple, matching the
// bridge's own id-generation so nodes created either way collide correctly.
func NodeID(filePath string, kind entity.Kind, name string) string {
	sum := sha256.Sum256([]byte(filePath + ":" + string(kind) + ":" + name))
	return hex.EncodeToString(sum[:])[:16]
}
