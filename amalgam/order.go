package amalgam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"fortio.org/log"
	"github.com/ldemailly/camalgam/graph"
)

// resolveLocal maps a local include as written to the path of the file it
// names, relative to the including file's directory.
func resolveLocal(dir, include string) string {
	if filepath.IsAbs(include) {
		return filepath.Clean(include)
	}
	return filepath.Join(dir, include)
}

// buildHeaderGraph reads headers and everything they reach through local
// includes, breadth first. Headers reached that are not in the list are marked
// External.
func buildHeaderGraph(ctx context.Context, r *sourceReader, headers []string) (*graph.Graph, error) {
	g := graph.New()
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		g.AddNode(h)
		seen[h] = true
	}
	queue := append([]string(nil), headers...)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		text, err := r.Read(ctx, h)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(h)
		for _, inc := range LocalIncludes(text) {
			dep := resolveLocal(dir, inc)
			log.LogVf("  %s includes %s", h, dep)
			g.AddEdge(h, dep)
			if seen[dep] {
				continue
			}
			seen[dep] = true
			g.Node(dep).External = true
			log.Warnf("%s includes %q (%s) which is not among the discovered headers", h, inc, dep)
			queue = append(queue, dep)
		}
	}
	log.Infof("Header graph: %d headers, %d local include edges", g.Len(), len(g.Edges()))
	return g, nil
}

// orderHeaders returns each header reachable from headers exactly once, every
// one after the headers it includes.
func orderHeaders(g *graph.Graph, headers []string) ([]string, error) {
	order, err := g.Order(headers)
	if err != nil {
		var cerr *graph.CycleError
		if errors.As(err, &cerr) {
			return nil, &Error{
				Kind:  ErrCyclicIncludeDependency,
				Msg:   fmt.Sprintf("Cyclic include dependency detected: %s", cerr.Cycle),
				Paths: cerr.Cycle,
				Err:   err,
			}
		}
		return nil, err
	}
	return order, nil
}
