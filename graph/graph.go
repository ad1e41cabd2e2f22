// Package graph holds the header dependency graph: one node per header path,
// one edge per local include, and the ordering and cycle logic on top of it.
package graph

import (
	"fmt"
	"strings"
)

// visitState is the traversal tag of a node during Order.
type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

type Node struct {
	Path     string
	External bool // reached through a local include but not found under include/
	deps     []*Node
	state    visitState
}

type Edge struct {
	From *Node // never nil.
	To   *Node
}

// Graph is an insertion ordered set of nodes and their local include edges.
// It is not safe for concurrent mutation.
type Graph struct {
	nodes map[string]*Node // path -> Node
	order []*Node          // insertion order
	edges []Edge
}

// Cycle is a closed include chain, first and last element being the same path.
type Cycle []string

func (c Cycle) String() string {
	return strings.Join(c, " -> ")
}

// CycleError is returned by Order when a header is reached again while its
// own dependencies are still being walked.
type CycleError struct {
	Cycle Cycle
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle: %s", e.Cycle)
}

func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode returns the node for path, creating it on first use.
func (g *Graph) AddNode(path string) *Node {
	if n, ok := g.nodes[path]; ok {
		return n
	}
	n := &Node{Path: path}
	g.nodes[path] = n
	g.order = append(g.order, n)
	return n
}

// Node returns the node for path or nil.
func (g *Graph) Node(path string) *Node {
	return g.nodes[path]
}

// AddEdge records that from includes to. Repeated edges are kept once, in the
// position of their first occurrence.
func (g *Graph) AddEdge(from, to string) {
	f := g.AddNode(from)
	t := g.AddNode(to)
	for _, d := range f.deps {
		if d == t {
			return
		}
	}
	f.deps = append(f.deps, t)
	g.edges = append(g.edges, Edge{From: f, To: t})
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.order
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Deps returns the paths path includes, in textual order.
func (g *Graph) Deps(path string) []string {
	n := g.nodes[path]
	if n == nil {
		return nil
	}
	res := make([]string, 0, len(n.deps))
	for _, d := range n.deps {
		res = append(res, d.Path)
	}
	return res
}

// Len is the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Order returns every node reachable from roots exactly once, each after all
// of the nodes it includes. Roots and dependencies are walked last to first,
// so among unrelated headers the later discovered comes out first. A cycle
// reachable from roots yields a *CycleError naming the chain.
func (g *Graph) Order(roots []string) ([]string, error) {
	for _, n := range g.order {
		n.state = unvisited
	}
	var (
		res   []string
		stack []*Node
	)
	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch n.state {
		case done:
			return nil
		case inProgress:
			cycle := Cycle{}
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == n {
					for _, s := range stack[i:] {
						cycle = append(cycle, s.Path)
					}
					break
				}
			}
			cycle = append(cycle, n.Path)
			return &CycleError{Cycle: cycle}
		}
		n.state = inProgress
		stack = append(stack, n)
		for i := len(n.deps) - 1; i >= 0; i-- {
			if err := visit(n.deps[i]); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		n.state = done
		res = append(res, n.Path)
		return nil
	}
	for i := len(roots) - 1; i >= 0; i-- {
		n := g.nodes[roots[i]]
		if n == nil {
			return nil, fmt.Errorf("graph: unknown root %q", roots[i])
		}
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return res, nil
}
