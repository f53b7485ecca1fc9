package bridge

import (
	"path"
	"sort"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/langsets"
	"github.com/Krrish109/codegraph/store"
	"github.com/Krrish109/codegraph/testfile"
)

var combinedBuiltins = []langsets.StringSet{
	langsets.GoBuiltins, langsets.GoCommonMethods,
	langsets.TSBuiltins, langsets.TSCommonMethods,
	langsets.RustBuiltins, langsets.RustCommonMethods,
	langsets.CPPBuiltins, langsets.CPPCommonMethods,
	langsets.CBuiltins,
	langsets.JavaBuiltins, langsets.JavaCommonMethods,
}

func isBuiltinName(name string) bool {
	for _, set := range combinedBuiltins {
		if set.Has(name) {
			return true
		}
	}
	return false
}

// resolveAllEdges runs the name resolver for every outgoing reference an
// entity carries (calls, inherits, imports, type_refs, decorators) and
// creates the corresponding graph edges, returning what was created so the
// caller can attach it to the emitted operation.
func (b *Bridge) resolveAllEdges(path string, e *entity.Entity) []EdgeRef {
	var edges []EdgeRef
	srcID := store.NodeID(path, e.Kind, e.Name)

	funcOrClass := []entity.Kind{entity.KindFunction, entity.KindClass}
	classOnly := []entity.Kind{entity.KindClass}

	for _, call := range e.Calls {
		if n, conf := b.resolveName(path, call, funcOrClass, e.Name); n != nil {
			b.linkEdge(srcID, n, store.EdgeCalls, conf, &edges)
		}
	}
	for _, parent := range e.Inherits {
		if n, conf := b.resolveName(path, parent, classOnly, e.Name); n != nil {
			b.linkEdge(srcID, n, store.EdgeInherits, conf, &edges)
		}
	}
	for _, ref := range e.TypeRefs {
		if n, conf := b.resolveName(path, ref, classOnly, e.Name); n != nil {
			b.linkEdge(srcID, n, store.EdgeUsesType, conf, &edges)
		}
	}
	for _, dec := range e.Decorators {
		name := strings.TrimPrefix(strings.TrimPrefix(dec, "@"), "#")
		name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
		if n, conf := b.resolveName(path, name, funcOrClass, e.Name); n != nil {
			b.linkEdge(srcID, n, store.EdgeDecoratedBy, conf, &edges)
		}
	}
	if e.Kind == entity.KindImport {
		edges = append(edges, b.resolveImport(path, e)...)
	}
	return edges
}

func (b *Bridge) linkEdge(srcID string, target *store.Node, t store.EdgeType, conf store.Confidence, out *[]EdgeRef) {
	b.Graph.AddEdge(&store.Edge{
		SourceID:   srcID,
		TargetID:   target.ID,
		Type:       t,
		Properties: map[string]interface{}{"confidence": string(conf)},
	})
	*out = append(*out, EdgeRef{TargetID: target.ID, EdgeType: t})
}

// resolveName resolves an unresolved name: given a caller file, the
// name, and the kinds it may legally target, pick the best graph node.
func (b *Bridge) resolveName(callerFile, name string, kinds []entity.Kind, scope string) (*store.Node, store.Confidence) {
	b.stats.TotalAttempted++

	bare := name
	receiver, method, qualified := "", "", false
	if i := strings.LastIndex(name, "."); i >= 0 {
		receiver, method, qualified = name[:i], name[i+1:], true
		bare = method
	}

	if !qualified && isBuiltinName(bare) {
		b.stats.ExternalSkipped++
		return nil, store.ConfidenceNone
	}

	if qualified && receiver != "" && receiver[0] >= 'A' && receiver[0] <= 'Z' {
		if classNode := b.Graph.GetNodeByName(receiver); classNode != nil && classNode.Kind == entity.KindClass {
			if n := b.findInFile(classNode.FilePath, []string{name, method}, kinds); n != nil {
				b.stats.Resolved++
				return n, store.ConfidenceHigh
			}
			if n := b.findSuffixInFile(classNode.FilePath, method, kinds); n != nil {
				b.stats.Resolved++
				return n, store.ConfidenceHigh
			}
			if n := b.resolveViaInheritance(classNode, method, kinds, 5); n != nil {
				b.stats.Resolved++
				return n, store.ConfidenceLow
			}
		}
	} else if qualified {
		if targetFile, ok := b.receiverFile(callerFile, receiver); ok {
			if n := b.findInFile(targetFile, []string{name, method}, kinds); n != nil {
				b.stats.Resolved++
				return n, store.ConfidenceHigh
			}
		}
	}

	if idx := b.semanticPaths[callerFile]; idx != nil {
		if resolved, ok := idx.Resolve(scope, name); ok {
			if n := b.findInFile(callerFile, []string{resolved}, kinds); n != nil {
				b.stats.Resolved++
				return n, store.ConfidenceHigh
			}
		}
	}

	if n, conf, ok := b.resolveByBinning(callerFile, name, bare, kinds); ok {
		b.stats.Resolved++
		return n, conf
	}

	if n := b.suffixFallback(callerFile, bare, kinds); n != nil {
		b.stats.Resolved++
		return n, store.ConfidenceLow
	}

	if n := b.finalFallback(callerFile, name, kinds); n != nil {
		b.stats.Resolved++
		return n, store.ConfidenceLow
	}

	return nil, store.ConfidenceNone
}

func (b *Bridge) findInFile(file string, candidateNames []string, kinds []entity.Kind) *store.Node {
	for _, n := range b.Graph.GetNodesByFile(file) {
		if !kindAllowed(n.Kind, kinds) {
			continue
		}
		for _, cand := range candidateNames {
			if n.Name == cand {
				return n
			}
		}
	}
	return nil
}

func (b *Bridge) findSuffixInFile(file, bareMethod string, kinds []entity.Kind) *store.Node {
	for _, n := range b.Graph.GetNodesByFile(file) {
		if kindAllowed(n.Kind, kinds) && strings.HasSuffix(n.Name, "."+bareMethod) {
			return n
		}
	}
	return nil
}

func (b *Bridge) resolveViaInheritance(classNode *store.Node, method string, kinds []entity.Kind, maxDepth int) *store.Node {
	visited := map[string]struct{}{classNode.ID: {}}
	frontier := []*store.Node{classNode}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []*store.Node
		for _, c := range frontier {
			for _, e := range b.Graph.GetOutgoingEdges(c.ID) {
				if e.Type != store.EdgeInherits {
					continue
				}
				parent := b.Graph.GetNode(e.TargetID)
				if parent == nil {
					continue
				}
				if _, seen := visited[parent.ID]; seen {
					continue
				}
				visited[parent.ID] = struct{}{}
				if n := b.findInFile(parent.FilePath, []string{parent.Name + "." + method, method}, kinds); n != nil {
					return n
				}
				next = append(next, parent)
			}
		}
		frontier = next
	}
	return nil
}

// receiverFile resolves a bare receiver identifier to the file it was
// imported from in callerFile, via the import nodes recorded for that file
// and the module-file index.
func (b *Bridge) receiverFile(callerFile, receiver string) (string, bool) {
	for _, n := range b.Graph.GetNodesByFile(callerFile) {
		if n.Kind != entity.KindImport || n.Name != receiver {
			continue
		}
		if mod, ok := n.Properties["module"].(string); ok {
			if file, ok := b.moduleFileLookup(mod); ok {
				return file, true
			}
		}
	}
	return "", false
}

func (b *Bridge) importedFilesOf(callerFile string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, n := range b.Graph.GetNodesByFile(callerFile) {
		if n.Kind != entity.KindImport {
			continue
		}
		if mod, ok := n.Properties["module"].(string); ok {
			if file, ok := b.moduleFileLookup(mod); ok {
				out[file] = struct{}{}
			}
		}
	}
	return out
}

type candidate struct {
	node   *store.Node
	bucket int
}

// bucketConfidence maps a priority bucket index to its resolution
// confidence: bucket 0 (exact, imported) is high; buckets 1-3
// (exact-cross-file-any, exact-same-file, suffix-imported) are medium;
// buckets 4-5 (suffix-cross-file-any, suffix-same-file) are low.
func bucketConfidence(idx int) store.Confidence {
	switch {
	case idx == 0:
		return store.ConfidenceHigh
	case idx <= 3:
		return store.ConfidenceMedium
	default:
		return store.ConfidenceLow
	}
}

// testFilePenalty is subtracted from a candidate's bin-selection score
// when its file is a test file and the caller's isn't, so a test-file
// target only wins when no better-bucket candidate exists, rather than
// being excluded outright.
const testFilePenalty = 10000

// bucketWeight spaces buckets far enough apart that the test-file
// penalty can only reorder candidates within the same bucket, never
// promote a worse bucket over a better one.
const bucketWeight = 100000

// resolveByBinning classifies every node of an
// allowed kind into priority buckets and picks the winner, applying a
// test-file penalty to the bin-selection score rather than excluding
// test-file candidates outright.
func (b *Bridge) resolveByBinning(callerFile, name, bare string, kinds []entity.Kind) (*store.Node, store.Confidence, bool) {
	imported := b.importedFilesOf(callerFile)
	callerIsTest := testfile.Is(callerFile)

	buckets := make([][]*store.Node, 6)
	for _, n := range b.Graph.GetAllNodes() {
		if !kindAllowed(n.Kind, kinds) {
			continue
		}
		exact := n.Name == name
		suffix := !exact && strings.HasSuffix(n.Name, "."+bare)
		if !exact && !suffix {
			continue
		}
		_, isImported := imported[n.FilePath]
		sameFile := n.FilePath == callerFile

		var idx int
		switch {
		case exact && isImported:
			idx = 0
		case exact && sameFile:
			idx = 2
		case exact:
			idx = 1
		case suffix && isImported:
			idx = 3
		case suffix && sameFile:
			idx = 5
		default:
			idx = 4
		}
		buckets[idx] = append(buckets[idx], n)
	}

	var bestNode *store.Node
	bestIdx := -1
	bestScore := 0
	bestBucketLen := 0
	for idx, nodes := range buckets {
		if len(nodes) == 0 {
			continue
		}
		sort.Slice(nodes, func(i, j int) bool {
			return pathSimilarity(callerFile, nodes[i].FilePath) > pathSimilarity(callerFile, nodes[j].FilePath)
		})
		for _, n := range nodes {
			score := (5 - idx) * bucketWeight
			if testfile.Is(n.FilePath) && !callerIsTest {
				score -= testFilePenalty
			}
			if bestNode == nil || score > bestScore {
				bestNode, bestIdx, bestScore, bestBucketLen = n, idx, score, len(nodes)
			}
		}
	}
	if bestNode == nil {
		return nil, store.ConfidenceNone, false
	}
	if bestBucketLen > 1 {
		b.stats.Ambiguous++
	}
	if testfile.Is(bestNode.FilePath) && !callerIsTest {
		b.stats.ToTestFile++
	}
	return bestNode, bucketConfidence(bestIdx), true
}

func pathSimilarity(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	return n
}

func (b *Bridge) suffixFallback(callerFile, bare string, kinds []entity.Kind) *store.Node {
	imported := b.importedFilesOf(callerFile)
	var matches []*store.Node
	for full, ids := range b.Graph.NodesByName() {
		if !strings.HasSuffix(full, "."+bare) {
			continue
		}
		for id := range ids {
			n := b.Graph.GetNode(id)
			if n != nil && kindAllowed(n.Kind, kinds) {
				matches = append(matches, n)
			}
		}
	}
	if len(matches) == 0 {
		return nil
	}
	if len(matches) == 1 {
		return matches[0]
	}
	for _, n := range matches {
		if _, ok := imported[n.FilePath]; ok {
			return n
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return pathSimilarity(callerFile, matches[i].FilePath) > pathSimilarity(callerFile, matches[j].FilePath)
	})
	return matches[0]
}

func (b *Bridge) finalFallback(callerFile, name string, kinds []entity.Kind) *store.Node {
	var best *store.Node
	for id := range b.Graph.NodesByName()[name] {
		n := b.Graph.GetNode(id)
		if n == nil || !kindAllowed(n.Kind, kinds) {
			continue
		}
		if best == nil || (testfile.Is(best.FilePath) && !testfile.Is(n.FilePath)) {
			best = n
		}
	}
	return best
}

func kindAllowed(k entity.Kind, allowed []entity.Kind) bool {
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a == k {
			return true
		}
	}
	return false
}

// resolveImport handles import resolution: star imports expand via
// the target module's exports; a plain import resolves to the one
// definition it names, following re-export chains up to 5 hops.
func (b *Bridge) resolveImport(callerFile string, e *entity.Entity) []EdgeRef {
	if len(e.Imports) == 0 {
		return nil
	}
	imp := e.Imports[0]
	srcID := store.NodeID(callerFile, e.Kind, e.Name)
	targetFile, ok := b.moduleFileLookup(imp.Module)
	if !ok {
		return nil
	}

	if imp.Name == "*" {
		var edges []EdgeRef
		for _, exported := range b.GetModuleExports(targetFile) {
			if n := b.findInFile(targetFile, []string{exported}, nil); n != nil {
				b.Graph.AddEdge(&store.Edge{
					SourceID: srcID, TargetID: n.ID, Type: store.EdgeImports,
					Properties: map[string]interface{}{"via_star": true, "confidence": string(store.ConfidenceMedium)},
				})
				edges = append(edges, EdgeRef{TargetID: n.ID, EdgeType: store.EdgeImports})
			}
		}
		return edges
	}

	n := b.findInFile(targetFile, []string{imp.Name}, nil)
	n = b.followReexport(n, 5)
	if n == nil {
		return nil
	}
	b.Graph.AddEdge(&store.Edge{
		SourceID: srcID, TargetID: n.ID, Type: store.EdgeImports,
		Properties: map[string]interface{}{"confidence": string(store.ConfidenceHigh)},
	})
	return []EdgeRef{{TargetID: n.ID, EdgeType: store.EdgeImports}}
}

func (b *Bridge) followReexport(n *store.Node, hops int) *store.Node {
	visited := map[string]struct{}{}
	for n != nil && n.Kind == entity.KindImport && hops > 0 {
		if _, seen := visited[n.ID]; seen {
			return nil
		}
		visited[n.ID] = struct{}{}
		var next *store.Node
		for _, e := range b.Graph.GetOutgoingEdges(n.ID) {
			if e.Type == store.EdgeImports {
				next = b.Graph.GetNode(e.TargetID)
				break
			}
		}
		n = next
		hops--
	}
	return n
}

// reverseImportSweep handles the case where any existing import node in
// another file whose name equals this new definition's name gets a missing
// imports edge added now.
func (b *Bridge) reverseImportSweep(definitionFile string, e *entity.Entity) {
	if e.Kind == entity.KindImport {
		return
	}
	defID := store.NodeID(definitionFile, e.Kind, e.Name)
	for _, n := range b.Graph.GetAllNodes() {
		if n.Kind != entity.KindImport || n.FilePath == definitionFile || n.Name != e.Name {
			continue
		}
		already := false
		for _, out := range b.Graph.GetOutgoingEdges(n.ID) {
			if out.Type == store.EdgeImports && out.TargetID == defID {
				already = true
				break
			}
		}
		if !already {
			b.Graph.AddEdge(&store.Edge{
				SourceID: n.ID, TargetID: defID, Type: store.EdgeImports,
				Properties: map[string]interface{}{"confidence": string(store.ConfidenceHigh)},
			})
		}
	}
}

// applyDataflowHints runs the attached DataflowEnricher over newContent
// and links each reported (function, type) hint to a uses_type edge,
// preferring a class node in the same file. Edges land on the graph
// regardless; they are also attached to this change's emitted operation
// when the source function was itself touched by the change (a dataflow
// hint for an untouched function is still correct to add to the graph,
// just not attributable to an emitted op).
func (b *Bridge) applyDataflowHints(path, content string, ops []Operation) {
	for _, hint := range b.Dataflow.Enrich(content) {
		srcID := findNodeID(b.Graph, path, hint.FnScope)
		if srcID == "" {
			continue
		}
		target := b.findInFile(path, []string{hint.TypeName}, []entity.Kind{entity.KindClass})
		if target == nil {
			target = b.Graph.GetNodeByName(hint.TypeName)
			if target == nil || target.Kind != entity.KindClass {
				continue
			}
		}
		edge := &store.Edge{
			SourceID: srcID, TargetID: target.ID, Type: store.EdgeUsesType,
			Properties: map[string]interface{}{"confidence": string(store.ConfidenceLow), "dataflow": true},
		}
		if !hasEdge(b.Graph, srcID, target.ID, store.EdgeUsesType) {
			b.Graph.AddEdge(edge)
		}
		for i := range ops {
			if ops[i].NodeID == srcID {
				ops[i].Edges = append(ops[i].Edges, EdgeRef{TargetID: target.ID, EdgeType: store.EdgeUsesType})
			}
		}
	}
}

func hasEdge(g *store.Graph, src, tgt string, t store.EdgeType) bool {
	for _, e := range g.GetOutgoingEdges(src) {
		if e.TargetID == tgt && e.Type == t {
			return true
		}
	}
	return false
}

// GetModuleExports returns every name a module (file or package) exports.
func (b *Bridge) GetModuleExports(file string) []string {
	for _, n := range b.Graph.GetNodesByFile(file) {
		if n.Kind != entity.KindVariable || n.Name != "__all__" {
			continue
		}
		if names, ok := n.Properties["all_names"].([]string); ok {
			return names
		}
	}
	var out []string
	for _, n := range b.Graph.GetNodesByFile(file) {
		if n.Kind == entity.KindImport {
			continue
		}
		if !strings.Contains(n.Name, ".") {
			out = append(out, n.Name)
		}
	}
	sort.Strings(out)
	return out
}

// pathToModuleForm turns a file path into its dotted module form, e.g.
// "a/b/c.go" -> "a.b.c".
func pathToModuleForm(p string) string {
	p = strings.TrimSuffix(p, path.Ext(p))
	return strings.ReplaceAll(p, "/", ".")
}

func moduleSuffixes(module string) []string {
	parts := strings.Split(strings.ReplaceAll(module, "/", "."), ".")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[i:], "."))
	}
	return out
}

// updateModuleFileIndex registers path under every dotted suffix of its
// module form, first write wins, tracking collisions for the rest.
func (b *Bridge) updateModuleFileIndex(p string) {
	form := pathToModuleForm(p)
	for _, suffix := range moduleSuffixes(form) {
		if existing, ok := b.moduleFileIndex[suffix]; !ok {
			b.moduleFileIndex[suffix] = p
		} else if existing != p {
			b.moduleFileCollisions[suffix] = appendUnique(b.moduleFileCollisions[suffix], p)
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}

// moduleFileLookup resolves an import's module path to a tracked file by
// longest dotted-suffix match against the module-file index.
func (b *Bridge) moduleFileLookup(module string) (string, bool) {
	suffixes := moduleSuffixes(module)
	for _, suffix := range suffixes {
		if file, ok := b.moduleFileIndex[suffix]; ok {
			return file, true
		}
	}
	return "", false
}
