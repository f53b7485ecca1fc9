package bridge

import (
	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/store"
)

// isSemanticEqual implements the semantic gate's equality test: the two
// extraction outputs are compared as {(name, signature_hash)} sets.
func isSemanticEqual(oldEntities, newEntities []*entity.Entity) bool {
	if len(oldEntities) != len(newEntities) {
		return false
	}
	oldSet := signatureSet(oldEntities)
	newSet := signatureSet(newEntities)
	if len(oldSet) != len(newSet) {
		return false
	}
	for k := range oldSet {
		if _, ok := newSet[k]; !ok {
			return false
		}
	}
	return true
}

func signatureSet(entities []*entity.Entity) map[string]struct{} {
	out := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		out[e.Name+"\x00"+e.SignatureHash] = struct{}{}
	}
	return out
}

func byName(entities []*entity.Entity) map[string]*entity.Entity {
	out := make(map[string]*entity.Entity, len(entities))
	for _, e := range entities {
		out[e.Name] = e
	}
	return out
}

// delta is the result of computing old-vs-new entity differences.
type delta struct {
	removed  map[string]*entity.Entity
	added    map[string]*entity.Entity
	modified map[string]*entity.Entity // includes renamed entities (OldName set)
}

// computeDelta diffs old/new entity sets by name, detects renames among
// the unmatched halves, and classifies everything else as a pure
// addition, removal, or signature-hash-changed modification.
func computeDelta(oldEntities, newEntities []*entity.Entity) delta {
	oldByName := byName(oldEntities)
	newByName := byName(newEntities)

	potentiallyRemoved := make(map[string]*entity.Entity)
	for name, e := range oldByName {
		if _, ok := newByName[name]; !ok {
			potentiallyRemoved[name] = e
		}
	}
	potentiallyAdded := make(map[string]*entity.Entity)
	for name, e := range newByName {
		if _, ok := oldByName[name]; !ok {
			potentiallyAdded[name] = e
		}
	}

	renamed := make(map[string]*entity.Entity) // keyed by the new name
	matchedOld := make(map[string]struct{})
	matchedNew := make(map[string]struct{})

	for _, oldName := range sortedKeys(potentiallyRemoved) {
		old := potentiallyRemoved[oldName]
		for _, newName := range sortedKeys(potentiallyAdded) {
			if _, used := matchedNew[newName]; used {
				continue
			}
			nw := potentiallyAdded[newName]
			if nw.Kind != old.Kind {
				continue
			}
			if !linesOverlap(old, nw) {
				continue
			}
			if old.StructureHash != nw.StructureHash {
				continue
			}
			clone := nw.Clone()
			clone.OldName = old.Name
			renamed[newName] = clone
			matchedOld[oldName] = struct{}{}
			matchedNew[newName] = struct{}{}
			break
		}
	}

	d := delta{
		removed:  make(map[string]*entity.Entity),
		added:    make(map[string]*entity.Entity),
		modified: renamed,
	}
	for name, e := range potentiallyRemoved {
		if _, matched := matchedOld[name]; !matched {
			d.removed[name] = e
		}
	}
	for name, e := range potentiallyAdded {
		if _, matched := matchedNew[name]; !matched {
			d.added[name] = e
		}
	}
	for name, newE := range newByName {
		oldE, inOld := oldByName[name]
		if !inOld {
			continue
		}
		if oldE.SignatureHash != newE.SignatureHash {
			d.modified[name] = newE
		}
	}
	return d
}

func linesOverlap(a, b *entity.Entity) bool {
	if a.LineStart == b.LineStart {
		return true
	}
	return a.LineStart <= b.LineEnd && b.LineStart <= a.LineEnd
}

// applyRemoval records cross-file callers
// before removing, then remove_node.
func (b *Bridge) applyRemoval(path, name string) []Operation {
	id := findNodeID(b.Graph, path, name)
	if id == "" {
		return nil
	}
	var callers []string
	for _, e := range b.Graph.GetIncomingEdges(id) {
		src := b.Graph.GetNode(e.SourceID)
		if src != nil && src.FilePath != path {
			callers = append(callers, src.FilePath+":"+src.Name)
		}
	}
	removed := b.Graph.RemoveNode(id)
	if removed == nil {
		return nil
	}
	props := map[string]interface{}{"name": name}
	if len(callers) > 0 {
		props["had_callers"] = callers
	}
	return []Operation{{OpType: "remove_node", NodeID: id, NodeType: string(removed.Kind), Properties: props}}
}

func findNodeID(g *store.Graph, path, name string) string {
	for _, n := range g.GetNodesByFile(path) {
		if n.Name == name {
			return n.ID
		}
	}
	return ""
}

// applyAddition adds a newly-discovered entity as a graph node.
func (b *Bridge) applyAddition(path string, e *entity.Entity) []Operation {
	id := store.NodeID(path, e.Kind, e.Name)
	node := &store.Node{
		ID:         id,
		Kind:       e.Kind,
		Name:       e.Name,
		FilePath:   path,
		LineStart:  e.LineStart,
		LineEnd:    e.LineEnd,
		Properties: entityProperties(e),
	}
	b.Graph.AddNode(node)

	edges := b.resolveAllEdges(path, e)
	b.reverseImportSweep(path, e)

	return []Operation{{
		OpType:     "add_node",
		NodeID:     id,
		NodeType:   string(e.Kind),
		Properties: map[string]interface{}{"name": e.Name, "signature_hash": e.SignatureHash},
		Edges:      edges,
	}}
}

// applyModification handles an entity that changed in place: a rename is split into
// remove_node(old) + add_node(new) with renamed_from set; otherwise the
// existing node is mutated in place and its stale resolved-edge types are
// cleared for re-resolution.
func (b *Bridge) applyModification(path string, e *entity.Entity) []Operation {
	if e.OldName != "" {
		oldID := findNodeID(b.Graph, path, e.OldName)
		if oldID != "" {
			b.Graph.RemoveNode(oldID)
		}
		newID := store.NodeID(path, e.Kind, e.Name)
		node := &store.Node{
			ID:         newID,
			Kind:       e.Kind,
			Name:       e.Name,
			FilePath:   path,
			LineStart:  e.LineStart,
			LineEnd:    e.LineEnd,
			Properties: entityProperties(e),
		}
		node.Properties["renamed_from"] = e.OldName
		b.Graph.AddNode(node)
		edges := b.resolveAllEdges(path, e)
		return []Operation{{
			OpType:   "update_node",
			NodeID:   newID,
			NodeType: string(e.Kind),
			Properties: map[string]interface{}{
				"name": e.Name, "renamed_from": e.OldName, "signature_hash": e.SignatureHash,
			},
			Edges: edges,
		}}
	}

	id := store.NodeID(path, e.Kind, e.Name)
	node := b.Graph.GetNode(id)
	if node == nil {
		node = &store.Node{ID: id, Kind: e.Kind, Name: e.Name, FilePath: path}
	}
	node.LineStart, node.LineEnd = e.LineStart, e.LineEnd
	node.Properties = entityProperties(e)
	b.Graph.AddNode(node)

	for _, t := range []store.EdgeType{store.EdgeCalls, store.EdgeInherits, store.EdgeUsesType, store.EdgeDecoratedBy} {
		for _, out := range append([]*store.Edge{}, b.Graph.GetOutgoingEdges(id)...) {
			if out.Type == t {
				b.Graph.RemoveEdge(out.SourceID, out.TargetID, out.Type)
			}
		}
	}

	edges := b.resolveAllEdges(path, e)
	return []Operation{{
		OpType:     "update_node",
		NodeID:     id,
		NodeType:   string(e.Kind),
		Properties: map[string]interface{}{"name": e.Name, "signature_hash": e.SignatureHash},
		Edges:      edges,
	}}
}

func entityProperties(e *entity.Entity) map[string]interface{} {
	props := map[string]interface{}{
		"params":     e.Params,
		"decorators": e.Decorators,
		"uses":       e.Uses,
		"type_refs":  e.TypeRefs,
	}
	if e.ShadowConfidence > 0 {
		props["shadow_confidence"] = e.ShadowConfidence
	}
	if e.Kind == entity.KindImport && len(e.Imports) > 0 {
		props["module"] = e.Imports[0].Module
	}
	for _, d := range e.Decorators {
		if d == "@property" || d == "property" {
			props["is_property"] = true
		}
		if d == "@abstractmethod" || d == "abstractmethod" {
			props["is_abstract"] = true
		}
	}
	return props
}

// updateDependencyIndex records that path's entity e calls each of its
// callee names, keyed by name so GetAffectedFiles can seed directly from a
// changed entity's name without a graph walk.
func (b *Bridge) updateDependencyIndex(path string, e *entity.Entity) {
	for _, call := range e.Calls {
		bare := call
		if i := lastDot(call); i >= 0 {
			bare = call[i+1:]
		}
		for _, name := range []string{call, bare} {
			if b.dependencyIndex[name] == nil {
				b.dependencyIndex[name] = make(map[string]struct{})
			}
			b.dependencyIndex[name][path] = struct{}{}
		}
	}
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
