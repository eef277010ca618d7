// Package interact provides the four interaction-registry receivers
// (shape×shape, shape×instance, instance×shape, instance×instance) that
// the hierarchical local processor builds its per-cell and per-context
// interaction maps from, each driven by pkg/layoutstore.Scan.
package interact

import "github.com/latticeforge/hiergeom/pkg/geom"

// ShapeResults maps a scope polygon ref to every intruder ref it overlaps,
// the output of the Shape×Shape and Shape×Instance receivers (spec.md
// §4.1). Built fresh per cell evaluation.
type ShapeResults map[geom.PolygonRef][]geom.PolygonRef

// Add appends intruder to result's entry for scope, creating the entry if
// this is the first intruder seen for scope.
func (r ShapeResults) Add(scope, intruder geom.PolygonRef) {
	r[scope] = append(r[scope], intruder)
}

// IntruderSet accumulates the "below" intruders of a single child instance
// during top-down context discovery: other instances that touch it
// (spec.md's `intruders_below.first`) and foreign shapes that live
// alongside it (`intruders_below.second`).
type IntruderSet struct {
	Instances map[geom.CellInstArray]struct{}
	Shapes    map[geom.PolygonRef]struct{}
}

func newIntruderSet() *IntruderSet {
	return &IntruderSet{
		Instances: make(map[geom.CellInstArray]struct{}),
		Shapes:    make(map[geom.PolygonRef]struct{}),
	}
}

// AddInstance records inst as an intruder instance.
func (s *IntruderSet) AddInstance(inst geom.CellInstArray) {
	s.Instances[inst] = struct{}{}
}

// AddShape records ref as an intruder shape.
func (s *IntruderSet) AddShape(ref geom.PolygonRef) {
	s.Shapes[ref] = struct{}{}
}

// IntruderMap is the per-instance result of the Instance×Instance and
// Instance×Shape receivers, keyed by the current cell's own child
// instance (spec.md §4.1's `result[inst]`).
type IntruderMap map[geom.CellInstArray]*IntruderSet

func (m IntruderMap) entry(inst geom.CellInstArray) *IntruderSet {
	s, ok := m[inst]
	if !ok {
		s = newIntruderSet()
		m[inst] = s
	}

	return s
}
