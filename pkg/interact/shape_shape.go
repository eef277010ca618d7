package interact

import (
	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

// ShapeShape records result[a].append(b) for every pair (a, b) drawn from
// scope x intruders whose bounding boxes overlap (spec.md §4.1's
// Shape×Shape receiver). Used by the per-cell local evaluator.
func ShapeShape(repo geom.ShapeRepository, scope, intruders []geom.PolygonRef, into ShapeResults) {
	boxOf := func(r geom.PolygonRef) geom.Box { return layoutstore.PolygonBBox(repo, r) }

	layoutstore.Scan(scope, boxOf, intruders, boxOf, func(a, b geom.PolygonRef) {
		into.Add(a, b)
	})
}
