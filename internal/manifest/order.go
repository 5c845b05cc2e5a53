package manifest

import (
	"container/heap"
	"fmt"
	"slices"
	"strings"

	"reflq/internal/diag"
)

// graph orders declaration entries so that every entry comes after the
// entries it refers to. Edges[dep] lists the dependents of dep.
type graph struct {
	Edges   [][]int
	Indeg   []int
	Present []bool
}

type topo struct {
	Order  []int
	Cyclic bool
	Cycles []int
}

func (l *loader) buildGraph() graph {
	n := len(l.decls)
	g := graph{
		Edges:   make([][]int, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for i := range l.decls {
		g.Present[i] = !l.decls[i].broken
	}

	for from := range l.decls {
		e := &l.decls[from]
		if e.broken {
			continue
		}
		seen := make(map[int]struct{}, len(e.deps))
		for _, dep := range e.deps {
			if dep == from {
				l.report(diag.ManCyclicReference, e.line, fmt.Sprintf("declaration %s refers to itself", e.label()))
				e.broken = true
				g.Present[from] = false
				break
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			g.Edges[dep] = append(g.Edges[dep], from)
			g.Indeg[from]++
		}
	}
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}
	return g
}

// toposortKahn prefers document order whenever the dependencies allow it,
// so that siblings keep the order in which the manifest lists them.
func toposortKahn(g graph) *topo {
	n := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	t := &topo{Order: make([]int, 0, n)}

	active := 0
	ready := &indexHeap{}
	for i := range n {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	for ready.Len() > 0 {
		id := heap.Pop(ready).(int)
		t.Order = append(t.Order, id)
		for _, to := range g.Edges[id] {
			if !g.Present[to] {
				continue
			}
			indeg[to]--
			if indeg[to] == 0 {
				heap.Push(ready, to)
			}
		}
	}

	if len(t.Order) != active {
		t.Cyclic = true
		for i := range n {
			if g.Present[i] && indeg[i] > 0 {
				t.Cycles = append(t.Cycles, i)
			}
		}
	}
	return t
}

func (l *loader) reportCycles(t *topo) {
	if !t.Cyclic || len(t.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(t.Cycles))
	for _, id := range t.Cycles {
		names = append(names, l.decls[id].label())
	}
	summary := strings.Join(names, " -> ")
	for _, id := range t.Cycles {
		e := &l.decls[id]
		e.broken = true
		l.report(diag.ManCyclicReference, e.line,
			fmt.Sprintf("declaration %s participates in a reference cycle: %s", e.label(), summary))
	}
}

// propagateBroken marks dependents of broken entries and reports each once,
// pointing at the first error of the dependency.
func (l *loader) propagateBroken() {
	changed := true
	for changed {
		changed = false
		for i := range l.decls {
			e := &l.decls[i]
			if e.broken {
				continue
			}
			for _, dep := range e.deps {
				d := &l.decls[dep]
				if !d.broken {
					continue
				}
				e.broken = true
				changed = true
				l.reportWithNote(diag.ManUnresolvedRef, e.line,
					fmt.Sprintf("declaration %s depends on %s, which has errors", e.label(), d.label()),
					d.line, "dependency declared here")
				break
			}
		}
	}
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }

func (h *indexHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}
