// Package localop declares the local-operation capability the
// hierarchical processor invokes once per cell evaluation, plus a handful
// of reference operations useful for tests and demonstration.
package localop

import "github.com/latticeforge/hiergeom/pkg/geom"

// Interactions maps a scope polygon ref to every intruder ref it
// overlaps, all expressed in the evaluating cell's own frame — the input
// a LocalOperation is given once per cell (spec.md §4.2).
type Interactions map[geom.PolygonRef][]geom.PolygonRef

// Operation is the capability the processor consumes: given a layout's
// shape repository and this cell's interaction map, produce the set of
// output refs to merge into the cell's result. Implementations must be
// deterministic — identical inputs, as sets, produce identical output
// sets regardless of the interaction map's iteration or intruder-list
// order. An operation may return the empty set. Name identifies the
// operation for logging and telemetry labeling, mirroring the teacher's
// Analyzer.Name() convention.
type Operation interface {
	Name() string
	Compute(repo geom.ShapeRepository, interactions Interactions) []geom.PolygonRef
}
