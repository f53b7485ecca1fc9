package store

import (
	"sort"

	"github.com/Krrish109/codegraph/testfile"
)

type color int

const (
	white color = iota
	gray
	black
)

// FindCycles projects every cross-file outgoing edge onto src.file ->
// tgt.file, then finds cycles in that file-level graph with an iterative
// three-color DFS starting from each lexicographically smallest uncolored
// file. Each cycle is rotated to start at its lex-minimum node,
// de-duplicated by canonical node set, and filtered so no returned cycle's
// node set is a strict superset of another's. The head is repeated at the
// tail of each returned path.
func (g *Graph) FindCycles(excludeTests bool) [][]string {
	adj := g.fileAdjacency(excludeTests)

	files := make([]string, 0, len(adj))
	for f := range adj {
		files = append(files, f)
	}
	sort.Strings(files)

	colors := make(map[string]color, len(files))
	var rawCycles [][]string

	for _, start := range files {
		if colors[start] != white {
			continue
		}
		g.dfsFindCycles(start, adj, colors, &rawCycles)
	}

	return normalizeCycles(rawCycles)
}

type frame struct {
	node string
	idx  int
}

func (g *Graph) dfsFindCycles(start string, adj map[string][]string, colors map[string]color, out *[][]string) {
	colors[start] = gray
	path := []string{start}
	stack := []frame{{node: start, idx: 0}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		neighbors := adj[top.node]
		advanced := false
		for top.idx < len(neighbors) {
			neighbor := neighbors[top.idx]
			top.idx++
			switch colors[neighbor] {
			case white:
				colors[neighbor] = gray
				path = append(path, neighbor)
				stack = append(stack, frame{node: neighbor, idx: 0})
				advanced = true
			case gray:
				idx := indexOf(path, neighbor)
				if idx >= 0 {
					cycle := append(append([]string(nil), path[idx:]...), neighbor)
					*out = append(*out, cycle)
				}
				continue
			default:
				continue
			}
			break
		}
		if !advanced {
			colors[top.node] = black
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}
}

func indexOf(path []string, v string) int {
	for i, p := range path {
		if p == v {
			return i
		}
	}
	return -1
}

func (g *Graph) fileAdjacency(excludeTests bool) map[string][]string {
	adj := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, n := range g.nodes {
		if _, ok := adj[n.FilePath]; !ok {
			adj[n.FilePath] = nil
		}
		if excludeTests && testfile.Is(n.FilePath) {
			continue
		}
		for _, e := range g.outEdges[n.ID] {
			tgt := g.nodes[e.TargetID]
			if tgt == nil || tgt.FilePath == n.FilePath {
				continue
			}
			if excludeTests && testfile.Is(tgt.FilePath) {
				continue
			}
			if seen[n.FilePath] == nil {
				seen[n.FilePath] = make(map[string]struct{})
			}
			if _, dup := seen[n.FilePath][tgt.FilePath]; dup {
				continue
			}
			seen[n.FilePath][tgt.FilePath] = struct{}{}
			adj[n.FilePath] = append(adj[n.FilePath], tgt.FilePath)
			if _, ok := adj[tgt.FilePath]; !ok {
				adj[tgt.FilePath] = nil
			}
		}
	}
	return adj
}

func rotateToMin(cycle []string) []string {
	body := cycle[:len(cycle)-1]
	minIdx := 0
	for i, v := range body {
		if v < body[minIdx] {
			minIdx = i
		}
	}
	rotated := append(append([]string(nil), body[minIdx:]...), body[:minIdx]...)
	return append(rotated, rotated[0])
}

func canonicalSet(cycle []string) string {
	body := append([]string(nil), cycle[:len(cycle)-1]...)
	sort.Strings(body)
	key := ""
	for _, v := range body {
		key += v + "\x00"
	}
	return key
}

func normalizeCycles(raw [][]string) [][]string {
	normalized := make([][]string, 0, len(raw))
	seen := make(map[string]bool)
	nodeSets := make([]map[string]struct{}, 0, len(raw))

	for _, c := range raw {
		if len(c) < 2 {
			continue
		}
		rotated := rotateToMin(c)
		key := canonicalSet(rotated)
		if seen[key] {
			continue
		}
		seen[key] = true
		set := make(map[string]struct{}, len(rotated)-1)
		for _, v := range rotated[:len(rotated)-1] {
			set[v] = struct{}{}
		}
		normalized = append(normalized, rotated)
		nodeSets = append(nodeSets, set)
	}

	var result [][]string
	for i, c := range normalized {
		isSuperset := false
		for j, other := range nodeSets {
			if i == j || len(other) >= len(nodeSets[i]) {
				continue
			}
			if isSubset(other, nodeSets[i]) {
				isSuperset = true
				break
			}
		}
		if !isSuperset {
			result = append(result, c)
		}
	}
	return result
}

func isSubset(a, b map[string]struct{}) bool {
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}
