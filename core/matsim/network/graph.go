package network

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph is a directed gonum view of the network topology, optionally
// restricted to links allowing a mode.
type Graph struct {
	g   *simple.DirectedGraph
	ids map[string]int64
}

// Graph builds the directed graph of all links allowing mode. An empty mode
// keeps every link. Self loops are ignored.
func (n *Network) Graph(mode string) *Graph {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(n.Nodes))
	for i, nd := range n.Nodes {
		ids[nd.ID] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}
	for _, l := range n.Links.Links {
		if l.From == l.To {
			continue
		}
		if mode != "" && !l.Allows(mode) {
			continue
		}
		from, okF := ids[l.From]
		to, okT := ids[l.To]
		if !okF || !okT {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}
	return &Graph{g: g, ids: ids}
}

// Reachable reports whether there is a directed path between two node ids.
func (g *Graph) Reachable(from, to string) (bool, error) {
	f, ok := g.ids[from]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	t, ok := g.ids[to]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	return topo.PathExistsIn(g.g, g.g.Node(f), g.g.Node(t)), nil
}

// StronglyConnected reports whether every listed node can reach every other
// listed node. Unknown ids are an error.
func (g *Graph) StronglyConnected(ids []string) (bool, error) {
	if len(ids) < 2 {
		return true, nil
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		v, ok := g.ids[id]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		want[v] = true
	}
	for _, comp := range topo.TarjanSCC(g.g) {
		if !containsNode(comp, want) {
			continue
		}
		hits := 0
		for _, nd := range comp {
			if want[nd.ID()] {
				hits++
			}
		}
		return hits == len(want), nil
	}
	return false, nil
}

func containsNode(comp []graph.Node, want map[int64]bool) bool {
	for _, nd := range comp {
		if want[nd.ID()] {
			return true
		}
	}
	return false
}
