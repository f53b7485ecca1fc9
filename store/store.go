// Package store implements the in-memory code graph: nodes, typed edges,
// five secondary indexes, cascading removal, traversal, dead-code and
// cycle detection, and a deterministic content hash, built around
// indexed lookups (one map per index, keyed to node IDs).
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Krrish109/codegraph/entity"
)

// Graph is the code-graph store. All public mutations keep the five
// indexes consistent; partial updates are never observable by a
// concurrent reader holding the read side of Lock.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*Node

	// Five secondary indexes, an invariant of the store.
	byFile    map[string]map[string]struct{}
	byKind    map[entity.Kind]map[string]struct{}
	byName    map[string]map[string]struct{}
	outEdges  map[string][]*Edge
	inEdges   map[string][]*Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		byFile:   make(map[string]map[string]struct{}),
		byKind:   make(map[entity.Kind]map[string]struct{}),
		byName:   make(map[string]map[string]struct{}),
		outEdges: make(map[string][]*Edge),
		inEdges:  make(map[string][]*Edge),
	}
}

// Lock/Unlock/RLock/RUnlock expose the single write-gate the delta
// pipeline requires: the bridge holds Lock for the duration of a
// mutating pipeline; readers use RLock for queries concurrent with
// other readers.
func (g *Graph) Lock()    { g.mu.Lock() }
func (g *Graph) Unlock()  { g.mu.Unlock() }
func (g *Graph) RLock()   { g.mu.RLock() }
func (g *Graph) RUnlock() { g.mu.RUnlock() }

func indexAdd(idx map[string]struct{}, id string) map[string]struct{} {
	if idx == nil {
		idx = make(map[string]struct{})
	}
	idx[id] = struct{}{}
	return idx
}

// AddNode inserts or replaces a node, keeping all indexes consistent.
func (g *Graph) AddNode(n *Node) {
	if existing, ok := g.nodes[n.ID]; ok {
		g.unindex(existing)
	}
	g.nodes[n.ID] = n
	g.byFile[n.FilePath] = indexAdd(g.byFile[n.FilePath], n.ID)
	g.byKind[n.Kind] = indexAdd(g.byKind[n.Kind], n.ID)
	g.byName[n.Name] = indexAdd(g.byName[n.Name], n.ID)
}

func (g *Graph) unindex(n *Node) {
	delete(g.byFile[n.FilePath], n.ID)
	delete(g.byKind[n.Kind], n.ID)
	delete(g.byName[n.Name], n.ID)
}

// RemoveNode deletes a node and cascades removal of every incident edge on
// both sides. Returns the removed node, or nil if it did not exist.
func (g *Graph) RemoveNode(id string) *Node {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	g.unindex(n)
	delete(g.nodes, id)

	for _, e := range g.outEdges[id] {
		g.removeFromIn(e.TargetID, id, e.Type)
	}
	delete(g.outEdges, id)
	for _, e := range g.inEdges[id] {
		g.removeFromOut(e.SourceID, id, e.Type)
	}
	delete(g.inEdges, id)
	return n
}

func (g *Graph) removeFromOut(srcID, targetID string, t EdgeType) {
	edges := g.outEdges[srcID]
	out := edges[:0]
	for _, e := range edges {
		if e.TargetID == targetID && e.Type == t {
			continue
		}
		out = append(out, e)
	}
	g.outEdges[srcID] = out
}

func (g *Graph) removeFromIn(targetID, srcID string, t EdgeType) {
	edges := g.inEdges[targetID]
	out := edges[:0]
	for _, e := range edges {
		if e.SourceID == srcID && e.Type == t {
			continue
		}
		out = append(out, e)
	}
	g.inEdges[targetID] = out
}

// AddEdge inserts a directed edge. Both endpoints must already exist in
// the graph; callers are responsible for that invariant (the bridge only
// creates edges after resolving a target node).
func (g *Graph) AddEdge(e *Edge) {
	g.outEdges[e.SourceID] = append(g.outEdges[e.SourceID], e)
	g.inEdges[e.TargetID] = append(g.inEdges[e.TargetID], e)
}

// RemoveEdge deletes the first matching edge, returning it or nil.
func (g *Graph) RemoveEdge(src, tgt string, t EdgeType) *Edge {
	edges := g.outEdges[src]
	for i, e := range edges {
		if e.TargetID == tgt && e.Type == t {
			g.outEdges[src] = append(edges[:i], edges[i+1:]...)
			g.removeFromIn(tgt, src, t)
			return e
		}
	}
	return nil
}

// GetNode looks a node up by ID.
func (g *Graph) GetNode(id string) *Node { return g.nodes[id] }

// GetNodeByName returns any one node with the given name (non-deterministic
// when multiple share it).
func (g *Graph) GetNodeByName(name string) *Node {
	for id := range g.byName[name] {
		return g.nodes[id]
	}
	return nil
}

// GetNodesByFile returns every node owned by a file.
func (g *Graph) GetNodesByFile(path string) []*Node {
	var out []*Node
	for id := range g.byFile[path] {
		out = append(out, g.nodes[id])
	}
	return out
}

// GetAllNodes returns every node in the graph.
func (g *Graph) GetAllNodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// GetAllEdges returns every edge in the graph.
func (g *Graph) GetAllEdges() []*Edge {
	var out []*Edge
	for _, edges := range g.outEdges {
		out = append(out, edges...)
	}
	return out
}

// GetOutgoingEdges returns edges whose source is id.
func (g *Graph) GetOutgoingEdges(id string) []*Edge { return g.outEdges[id] }

// GetIncomingEdges returns edges whose target is id.
func (g *Graph) GetIncomingEdges(id string) []*Edge { return g.inEdges[id] }

// NodesByName exposes the name index to callers; the bridge's resolver
// walks it directly for suffix fallback.
func (g *Graph) NodesByName() map[string]map[string]struct{} { return g.byName }

// Query returns the intersection of the file/kind/name indexes; an
// all-nil query returns every node.
func (g *Graph) Query(file *string, kind *entity.Kind, name *string) []*Node {
	var sets []map[string]struct{}
	if file != nil {
		sets = append(sets, g.byFile[*file])
	}
	if kind != nil {
		sets = append(sets, g.byKind[*kind])
	}
	if name != nil {
		sets = append(sets, g.byName[*name])
	}
	if len(sets) == 0 {
		return g.GetAllNodes()
	}
	ids := intersect(sets)
	out := make([]*Node, 0, len(ids))
	for id := range ids {
		out = append(out, g.nodes[id])
	}
	return out
}

func intersect(sets []map[string]struct{}) map[string]struct{} {
	smallest := sets[0]
	for _, s := range sets[1:] {
		if len(s) < len(smallest) {
			smallest = s
		}
	}
	out := make(map[string]struct{})
	for id := range smallest {
		inAll := true
		for _, s := range sets {
			if _, ok := s[id]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out[id] = struct{}{}
		}
	}
	return out
}

// QueryRegex filters nodes whose name matches pattern, optionally scoped
// by file/kind.
func (g *Graph) QueryRegex(pattern string, file *string, kind *entity.Kind) ([]*Node, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var candidates []*Node
	if file != nil || kind != nil {
		candidates = g.Query(file, kind, nil)
	} else {
		candidates = g.GetAllNodes()
	}
	var out []*Node
	for _, n := range candidates {
		if re.MatchString(n.Name) {
			out = append(out, n)
		}
	}
	return out, nil
}

// NodeCount and EdgeCount report graph size.
func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.outEdges {
		n += len(edges)
	}
	return n
}

// Snapshot returns a deep copy; callers may mutate it without affecting
// the original.
func (g *Graph) Snapshot() *Graph {
	cp := New()
	for id, n := range g.nodes {
		nn := *n
		nn.Properties = cloneProps(n.Properties)
		cp.nodes[id] = &nn
		cp.byFile[nn.FilePath] = indexAdd(cp.byFile[nn.FilePath], id)
		cp.byKind[nn.Kind] = indexAdd(cp.byKind[nn.Kind], id)
		cp.byName[nn.Name] = indexAdd(cp.byName[nn.Name], id)
	}
	for src, edges := range g.outEdges {
		for _, e := range edges {
			ee := *e
			ee.Properties = cloneProps(e.Properties)
			cp.outEdges[src] = append(cp.outEdges[src], &ee)
			cp.inEdges[ee.TargetID] = append(cp.inEdges[ee.TargetID], &ee)
		}
	}
	return cp
}

func cloneProps(p map[string]interface{}) map[string]interface{} {
	if p == nil {
		return nil
	}
	out := make(map[string]interface{}, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ComputeHash returns a deterministic digest over the logical content of
// the graph: sorted "{id}:{kind}:{name}" node strings and sorted
// "{src}->{tgt}:{type}" edge strings, joined with "|" and hashed with
// SHA-256, truncated to 16 hex chars.
func (g *Graph) ComputeHash() string {
	nodeStrs := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodeStrs = append(nodeStrs, n.ID+":"+string(n.Kind)+":"+n.Name)
	}
	sort.Strings(nodeStrs)

	var edgeStrs []string
	for _, edges := range g.outEdges {
		for _, e := range edges {
			edgeStrs = append(edgeStrs, e.SourceID+"->"+e.TargetID+":"+string(e.Type))
		}
	}
	sort.Strings(edgeStrs)

	joined := strings.Join(nodeStrs, ",") + "|" + strings.Join(edgeStrs, ",")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:16]
}
