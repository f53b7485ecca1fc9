// Package persist implements the typed, versioned persistence document a
// surrounding daemon would save and reload between runs (never consulted
// by the core pipeline itself). It is saved and loaded as YAML, this
// codebase's own format for its config/document plumbing, rather than
// hand-rolling a bespoke JSON reader: a single versioned body with a
// refuse-unknown-higher-version load guard.
package persist

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/store"
)

// FormatVersion is the current document version this package writes and
// the highest version it will load.
const FormatVersion = 3

// ErrUnsupportedVersion is returned by Load when a document's
// format_version exceeds FormatVersion.
var ErrUnsupportedVersion = errors.New("persist: unsupported format_version")

// NodeRecord is one persisted graph node.
type NodeRecord struct {
	ID         string                 `yaml:"id"`
	Kind       entity.Kind            `yaml:"kind"`
	Name       string                 `yaml:"name"`
	FilePath   string                 `yaml:"file_path"`
	LineStart  int                    `yaml:"line_start"`
	LineEnd    int                    `yaml:"line_end"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
}

// EdgeRecord is one persisted graph edge.
type EdgeRecord struct {
	SourceID   string                 `yaml:"source_id"`
	TargetID   string                 `yaml:"target_id"`
	Type       store.EdgeType         `yaml:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
}

// ResolutionStats mirrors bridge.ResolutionStats without importing
// package bridge (bridge imports persist for its SaveDocument and
// LoadDocument methods, so persist cannot import bridge back).
type ResolutionStats struct {
	TotalAttempted  int `yaml:"total_attempted"`
	Resolved        int `yaml:"resolved"`
	Ambiguous       int `yaml:"ambiguous"`
	ToTestFile      int `yaml:"to_test_file"`
	ExternalSkipped int `yaml:"external_skipped"`
}

// Document is the persistence format body.
type Document struct {
	FormatVersion int `yaml:"format_version"`

	Nodes []NodeRecord `yaml:"nodes"`
	Edges []EdgeRecord `yaml:"edges"`

	FileContentsKeys     []string            `yaml:"file_contents_keys,omitempty"`
	DependencyIndex      map[string][]string `yaml:"dependency_index,omitempty"`
	ModuleFileIndex      map[string]string   `yaml:"module_file_index,omitempty"`
	ModuleFileCollisions map[string][]string `yaml:"module_file_collisions,omitempty"`
	ResolutionStats      ResolutionStats     `yaml:"resolution_stats,omitempty"`

	GraphVersion  int            `yaml:"graph_version,omitempty"`
	VersionVector map[string]int `yaml:"version_vector,omitempty"`

	// TrackedFiles is harvested from a v1/v2 document's file_contents map
	// on load; new documents never populate it directly (it's redundant
	// with FileContentsKeys going forward).
	TrackedFiles []string `yaml:"-"`
}

// legacyDocument captures the v1/v2 shape: a file_contents map of
// path -> content, instead of file_contents_keys.
type legacyDocument struct {
	FormatVersion int `yaml:"format_version"`

	Nodes []NodeRecord `yaml:"nodes"`
	Edges []EdgeRecord `yaml:"edges"`

	FileContents         map[string]string   `yaml:"file_contents"`
	DependencyIndex      map[string][]string `yaml:"dependency_index,omitempty"`
	ModuleFileIndex      map[string]string   `yaml:"module_file_index,omitempty"`
	ModuleFileCollisions map[string][]string `yaml:"module_file_collisions,omitempty"`
	ResolutionStats      ResolutionStats     `yaml:"resolution_stats,omitempty"`
}

// Save renders doc as YAML. FormatVersion is forced to the current value.
func Save(doc Document) ([]byte, error) {
	doc.FormatVersion = FormatVersion
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "persist: marshal document")
	}
	return out, nil
}

// Load parses a persisted document, accepting the current format and the
// older v1/v2 file_contents shape for backward compatibility (its keys are
// harvested into TrackedFiles). A format_version higher than FormatVersion
// is refused outright.
func Load(data []byte) (Document, error) {
	var probe struct {
		FormatVersion int `yaml:"format_version"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Document{}, errors.Wrap(err, "persist: probe format_version")
	}
	if probe.FormatVersion > FormatVersion {
		return Document{}, errors.Wrapf(ErrUnsupportedVersion, "document version %d > supported %d", probe.FormatVersion, FormatVersion)
	}

	if probe.FormatVersion == 0 || probe.FormatVersion >= 3 {
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, errors.Wrap(err, "persist: unmarshal document")
		}
		return doc, nil
	}

	var legacy legacyDocument
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return Document{}, errors.Wrap(err, "persist: unmarshal legacy document")
	}
	doc := Document{
		FormatVersion:        legacy.FormatVersion,
		Nodes:                legacy.Nodes,
		Edges:                legacy.Edges,
		DependencyIndex:      legacy.DependencyIndex,
		ModuleFileIndex:      legacy.ModuleFileIndex,
		ModuleFileCollisions: legacy.ModuleFileCollisions,
		ResolutionStats:      legacy.ResolutionStats,
	}
	for path := range legacy.FileContents {
		doc.TrackedFiles = append(doc.TrackedFiles, path)
		doc.FileContentsKeys = append(doc.FileContentsKeys, path)
	}
	return doc, nil
}

// FromGraph builds a Document body's nodes/edges from a live graph
// snapshot; callers fill in the bridge-level fields (dependency index,
// module-file index, stats) separately since persist never imports bridge.
func FromGraph(g *store.Graph) (nodes []NodeRecord, edges []EdgeRecord) {
	for _, n := range g.GetAllNodes() {
		nodes = append(nodes, NodeRecord{
			ID: n.ID, Kind: n.Kind, Name: n.Name, FilePath: n.FilePath,
			LineStart: n.LineStart, LineEnd: n.LineEnd, Properties: n.Properties,
		})
	}
	for _, e := range g.GetAllEdges() {
		edges = append(edges, EdgeRecord{
			SourceID: e.SourceID, TargetID: e.TargetID, Type: e.Type, Properties: e.Properties,
		})
	}
	return nodes, edges
}

// ToGraph rebuilds a graph from a loaded document's nodes and edges.
func ToGraph(doc Document) *store.Graph {
	g := store.New()
	for _, n := range doc.Nodes {
		g.AddNode(&store.Node{
			ID: n.ID, Kind: n.Kind, Name: n.Name, FilePath: n.FilePath,
			LineStart: n.LineStart, LineEnd: n.LineEnd, Properties: n.Properties,
		})
	}
	for _, e := range doc.Edges {
		g.AddEdge(&store.Edge{
			SourceID: e.SourceID, TargetID: e.TargetID, Type: e.Type, Properties: e.Properties,
		})
	}
	return g
}
