package graph

import (
	"sort"

	"fortio.org/log"
)

// CycleMembers returns the set of node paths that sit on an include cycle.
// Unlike Order it never fails: it runs Kahn's algorithm leaves first and then
// prunes the residue down to nodes still included by another residual node.
func (g *Graph) CycleMembers() map[string]bool {
	reverseAdj := make(map[*Node][]*Node)
	inDegree := make(map[*Node]int, len(g.order))
	for _, n := range g.order {
		inDegree[n] = len(n.deps)
		for _, d := range n.deps {
			reverseAdj[d] = append(reverseAdj[d], n)
		}
	}

	queue := []*Node{}
	for _, n := range g.order {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	processed := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		processed++
		for _, v := range reverseAdj[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	members := make(map[string]bool)
	if processed == len(g.order) {
		return members
	}
	log.Warnf("Cycle detected in include graph: processed %d of %d headers", processed, len(g.order))
	residue := make(map[*Node]bool)
	for _, n := range g.order {
		if inDegree[n] > 0 {
			residue[n] = true
		}
	}
	// A residual node that nothing else in the residue includes only depends
	// on a cycle; drop those until the set is stable.
	for changed := true; changed; {
		changed = false
		included := make(map[*Node]bool)
		for n := range residue {
			for _, d := range n.deps {
				if residue[d] {
					included[d] = true
				}
			}
		}
		for n := range residue {
			if !included[n] {
				delete(residue, n)
				changed = true
			}
		}
	}
	for n := range residue {
		members[n.Path] = true
	}
	if log.LogVerbose() {
		paths := make([]string, 0, len(members))
		for p := range members {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			log.LogVf("  - %s", p)
		}
	}
	return members
}
