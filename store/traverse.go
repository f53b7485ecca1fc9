package store

// Direction selects which adjacency Traverse follows.
type Direction string

const (
	DirOut  Direction = "out"
	DirIn   Direction = "in"
	DirBoth Direction = "both"
)

// Hop pairs a reached node with its BFS depth from the traversal start.
type Hop struct {
	Node  *Node
	Depth int
}

func edgeTypeAllowed(t EdgeType, allowed map[EdgeType]struct{}) bool {
	if allowed == nil {
		return true
	}
	_, ok := allowed[t]
	return ok
}

func edgeTypeSet(types []EdgeType) map[EdgeType]struct{} {
	if len(types) == 0 {
		return nil
	}
	m := make(map[EdgeType]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}

// Traverse performs a breadth-first walk from start, excluding the start
// node itself, and returns (node, depth) pairs. A visited set prevents
// re-entry.
func (g *Graph) Traverse(start string, edgeTypes []EdgeType, dir Direction, maxDepth int) []Hop {
	allowed := edgeTypeSet(edgeTypes)
	visited := map[string]struct{}{start: {}}
	queue := []Hop{{Node: g.nodes[start], Depth: 0}}
	var out []Hop

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Depth >= maxDepth {
			continue
		}
		var neighbors []*Edge
		if dir == DirOut || dir == DirBoth {
			neighbors = append(neighbors, g.outEdges[cur.Node.ID]...)
		}
		if dir == DirIn || dir == DirBoth {
			neighbors = append(neighbors, g.inEdges[cur.Node.ID]...)
		}
		for _, e := range neighbors {
			if !edgeTypeAllowed(e.Type, allowed) {
				continue
			}
			var nextID string
			if dir == DirIn {
				nextID = e.SourceID
			} else if e.SourceID == cur.Node.ID {
				nextID = e.TargetID
			} else {
				nextID = e.SourceID
			}
			if _, seen := visited[nextID]; seen {
				continue
			}
			next := g.nodes[nextID]
			if next == nil {
				continue
			}
			visited[nextID] = struct{}{}
			hop := Hop{Node: next, Depth: cur.Depth + 1}
			out = append(out, hop)
			queue = append(queue, hop)
		}
	}
	return out
}

// FindPath returns the shortest path from src to tgt (inclusive of both
// ends), or nil if unreachable.
func (g *Graph) FindPath(src, tgt string, edgeTypes []EdgeType, dir Direction, maxDepth int) []*Node {
	if src == tgt {
		if n := g.nodes[src]; n != nil {
			return []*Node{n}
		}
		return nil
	}
	allowed := edgeTypeSet(edgeTypes)
	visited := map[string]string{src: ""}
	queue := []struct {
		id    string
		depth int
	}{{src, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		var neighbors []*Edge
		if dir == DirOut || dir == DirBoth {
			neighbors = append(neighbors, g.outEdges[cur.id]...)
		}
		if dir == DirIn || dir == DirBoth {
			neighbors = append(neighbors, g.inEdges[cur.id]...)
		}
		for _, e := range neighbors {
			if !edgeTypeAllowed(e.Type, allowed) {
				continue
			}
			var nextID string
			if e.SourceID == cur.id {
				nextID = e.TargetID
			} else {
				nextID = e.SourceID
			}
			if _, seen := visited[nextID]; seen {
				continue
			}
			visited[nextID] = cur.id
			if nextID == tgt {
				return backtrack(visited, src, tgt, g)
			}
			queue = append(queue, struct {
				id    string
				depth int
			}{nextID, cur.depth + 1})
		}
	}
	return nil
}

func backtrack(parents map[string]string, src, tgt string, g *Graph) []*Node {
	var path []*Node
	for cur := tgt; ; {
		path = append([]*Node{g.nodes[cur]}, path...)
		if cur == src {
			break
		}
		cur = parents[cur]
	}
	return path
}

// IsReachable is a boolean variant of FindPath.
func (g *Graph) IsReachable(src, tgt string, edgeTypes []EdgeType, dir Direction, maxDepth int) bool {
	return g.FindPath(src, tgt, edgeTypes, dir, maxDepth) != nil
}
