package store

import (
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/langsets"
	"github.com/Krrish109/codegraph/testfile"
)

var excludedDeadNames = map[string]struct{}{
	"main": {}, "__main__": {}, "__module__": {},
}

func bareName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name
	}
	return name[i+1:]
}

func isDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4
}

func hasDecorator(n *Node, want string) bool {
	decs, _ := n.Properties["decorators"].([]string)
	for _, d := range decs {
		if d == want {
			return true
		}
	}
	return false
}

func isAbstract(n *Node) bool {
	if b, ok := n.Properties["is_abstract"].(bool); ok {
		return b
	}
	return hasDecorator(n, "abstractmethod")
}

// FindDeadCode returns nodes with no incoming references, after excluding
// imports/module-code/variables, well-known entry points, dunder names,
// properties, polymorphic overrides, and (optionally) test/framework code.
func (g *Graph) FindDeadCode(excludeTests, excludeFramework bool) []*Node {
	var dead []*Node
	for _, n := range g.nodes {
		if g.isDeadCandidate(n, excludeTests, excludeFramework) {
			dead = append(dead, n)
		}
	}
	return dead
}

func (g *Graph) isDeadCandidate(n *Node, excludeTests, excludeFramework bool) bool {
	if len(g.inEdges[n.ID]) > 0 {
		return false
	}
	switch n.Kind {
	case entity.KindImport, entity.KindModuleCode, entity.KindVariable:
		return false
	}
	if _, ok := excludedDeadNames[n.Name]; ok {
		return false
	}
	bare := bareName(n.Name)
	if isDunder(bare) {
		return false
	}
	if excludeTests && testfile.Is(n.FilePath) {
		return false
	}
	if excludeFramework {
		for _, pat := range langsets.FrameworkDeadCodePatterns {
			if strings.HasPrefix(bare, pat) {
				return false
			}
		}
	}
	if hasDecorator(n, "property") {
		return false
	}
	if g.isPolymorphicOverride(n) {
		return false
	}
	if g.isNestedInAliveParent(n) {
		return false
	}
	return true
}

// isPolymorphicOverride walks up to 5 levels through inherits edges; a
// method X.m counts as used if any ancestor A.m has incoming edges or is
// marked abstract.
func (g *Graph) isPolymorphicOverride(n *Node) bool {
	if n.Kind != entity.KindFunction || !strings.Contains(n.Name, ".") {
		return false
	}
	i := strings.LastIndex(n.Name, ".")
	class, method := n.Name[:i], n.Name[i+1:]

	var classNode *Node
	for _, c := range g.nodes {
		if c.Kind == entity.KindClass && c.Name == class {
			classNode = c
			break
		}
	}
	if classNode == nil {
		return false
	}

	visited := map[string]struct{}{classNode.ID: {}}
	queue := []string{classNode.ID}
	for depth := 0; depth < 5 && len(queue) > 0; depth++ {
		var next []string
		for _, id := range queue {
			for _, e := range g.outEdges[id] {
				if e.Type != EdgeInherits {
					continue
				}
				if _, seen := visited[e.TargetID]; seen {
					continue
				}
				visited[e.TargetID] = struct{}{}
				parent := g.nodes[e.TargetID]
				if parent == nil {
					continue
				}
				next = append(next, e.TargetID)
				target := parent.Name + "." + method
				for _, fn := range g.nodes {
					if fn.Kind == entity.KindFunction && fn.Name == target {
						if len(g.inEdges[fn.ID]) > 0 || isAbstract(fn) {
							return true
						}
					}
				}
			}
		}
		queue = next
	}
	return false
}

// isNestedInAliveParent reports whether the parent of a name with three
// or more segments (stripping the last .segment) is itself a live node
// (a two-segment name such as "Class.method" is never checked against
// its class, so this always reports false for it): the parent has
// direct callers, or it is itself a polymorphic override (a method name
// reached through dynamic dispatch on an ancestor, so it has no direct
// callers of its own but isn't dead). Candidates are looked up by name
// across every file, not just n's own, since the parent method a nested
// function belongs to may be defined anywhere in the graph.
func (g *Graph) isNestedInAliveParent(n *Node) bool {
	i := strings.LastIndex(n.Name, ".")
	if i < 0 {
		return false
	}
	parentName := n.Name[:i]
	if strings.LastIndex(parentName, ".") < 0 {
		return false
	}
	for id := range g.byName[parentName] {
		p := g.nodes[id]
		if p == nil {
			continue
		}
		if len(g.inEdges[p.ID]) > 0 {
			return true
		}
		if strings.Contains(p.Name, ".") && g.isPolymorphicOverride(p) {
			return true
		}
	}
	return false
}
