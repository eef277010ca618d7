package layoutstore

import (
	"sort"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

// Layout is an in-memory implementation of geom.Layout: cells keyed by id,
// a shared shape repository, and a bottom-up traversal order computed
// once by Finalize.
type Layout struct {
	cells      map[geom.CellID]*Cell
	order      []geom.CellID
	repository *Repository
	guard      *ChangesGuard
}

// NewLayout returns an empty layout. Cells must be added with AddCell
// before Finalize is called.
func NewLayout() *Layout {
	return &Layout{
		cells:      make(map[geom.CellID]*Cell),
		repository: NewRepository(),
		guard:      NewChangesGuard(),
	}
}

// AddCell registers a new, empty cell under id and returns it for the
// caller to populate with shapes and instances. Calling AddCell again with
// a known id returns the existing cell.
func (l *Layout) AddCell(id geom.CellID) *Cell {
	if c, ok := l.cells[id]; ok {
		return c
	}

	c := newCell(id, l.repository, l)
	l.cells[id] = c

	return c
}

// Cell implements geom.Layout.
func (l *Layout) Cell(id geom.CellID) (geom.Cell, bool) {
	c, ok := l.cells[id]

	return c, ok
}

// Repository implements geom.Layout.
func (l *Layout) Repository() geom.ShapeRepository {
	return l.repository
}

// Guard implements geom.Layout: the layout's scoped "changes in progress"
// marker.
func (l *Layout) Guard() geom.ChangesGuard {
	return l.guard
}

// BottomUp implements geom.Layout. It must be called only after Finalize.
func (l *Layout) BottomUp() []geom.CellID {
	return l.order
}

// Finalize computes the bottom-up traversal order over the instantiation
// DAG rooted at top, via Kahn's algorithm over the "instantiates" edges
// (parent -> child), adapted from the teacher's pkg/toposort.IntGraph:
// that package topologically sorts a commit-parent DAG; here the edges
// are cell-instantiates-child edges and cells with in-degree zero among
// the reachable set are emitted first (i.e. leaves before the cells that
// place them), which is exactly bottom-up order for this DAG's edge
// direction.
func (l *Layout) Finalize(top geom.CellID) {
	reachable := l.reachableFrom(top)

	// Every map keyed by CellID below is only ever walked in this fixed,
	// numerically sorted order — never via a bare `range` over a map —
	// so that two cells ready at the same topological level (e.g. two
	// independent sibling leaves under one top cell) are always ordered
	// the same way across runs. Go deliberately randomizes map iteration
	// order; ranging one here to decide relative emission order would
	// make the bottom-up order (and therefore the order bodies are
	// materialized into the repository during reconciliation) vary
	// run-to-run, violating spec.md's context-determinism law.
	sortedIDs := make([]geom.CellID, 0, len(reachable))
	for id := range reachable {
		sortedIDs = append(sortedIDs, id)
	}

	sort.Slice(sortedIDs, func(i, j int) bool { return sortedIDs[i] < sortedIDs[j] })

	children := make(map[geom.CellID][]geom.CellID, len(reachable))

	for _, id := range sortedIDs {
		c := l.cells[id]
		seen := make(map[geom.CellID]bool)

		for _, inst := range c.Instances() {
			if seen[inst.Target] {
				continue
			}

			seen[inst.Target] = true
			children[id] = append(children[id], inst.Target)
		}
	}

	// Kahn's algorithm run against child-count instead of parent-count: a
	// cell is ready once every cell it instantiates has already been
	// emitted, which yields leaves-before-placers (bottom-up) order.
	remainingChildren := make(map[geom.CellID]int, len(reachable))
	for _, id := range sortedIDs {
		remainingChildren[id] = len(children[id])
	}

	parents := make(map[geom.CellID][]geom.CellID, len(reachable))
	for _, id := range sortedIDs {
		for _, child := range children[id] {
			parents[child] = append(parents[child], id)
		}
	}

	queue := make([]geom.CellID, 0, len(reachable))

	for _, id := range sortedIDs {
		if remainingChildren[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]geom.CellID, 0, len(reachable))
	visited := make(map[geom.CellID]bool, len(reachable))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}

		visited[id] = true
		order = append(order, id)

		for _, p := range parents[id] {
			remainingChildren[p]--
			if remainingChildren[p] == 0 {
				queue = append(queue, p)
			}
		}
	}

	l.order = order
}

// reachableFrom returns every cell id reachable from top (inclusive) by
// following instance targets.
func (l *Layout) reachableFrom(top geom.CellID) map[geom.CellID]bool {
	seen := map[geom.CellID]bool{top: true}
	stack := []geom.CellID{top}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c, ok := l.cells[id]
		if !ok {
			continue
		}

		for _, inst := range c.Instances() {
			if !seen[inst.Target] {
				seen[inst.Target] = true
				stack = append(stack, inst.Target)
			}
		}
	}

	return seen
}
