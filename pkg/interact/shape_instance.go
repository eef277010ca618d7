package interact

import (
	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

// ShapeInstance implements spec.md §4.1's Shape×Instance receiver: for
// every scope ref that overlaps an instance's intruder-layer bounding box,
// clip to the overlap region, descend into the instance's target cell
// with a recursive shape iterator restricted to the intruder layer over
// that region, and append every found polygon — transformed by the
// instance transform composed with the shape's own transform — into
// result[a], materializing the flattened body into the layout's shape
// repository (the only place this module duplicates a polygon body).
//
// The descent runs per array element (not once over the whole array's
// union bbox): see pkg/layoutstore.RecursiveShapes's doc comment for why.
func ShapeInstance(layout geom.Layout, intruderLayer geom.LayerID, scope []geom.PolygonRef, instances []geom.CellInstArray, into ShapeResults) {
	repo := layout.Repository()

	boxOfShape := func(r geom.PolygonRef) geom.Box { return layoutstore.PolygonBBox(repo, r) }
	boxOfInst := func(inst geom.CellInstArray) geom.Box { return layoutstore.InstanceBBox(layout, inst, intruderLayer) }

	layoutstore.Scan(scope, boxOfShape, instances, boxOfInst, func(a geom.PolygonRef, inst geom.CellInstArray) {
		aBox := a.Box(repo)

		for _, tn := range inst.Elements() {
			target, ok := layout.Cell(inst.Target)
			if !ok {
				continue
			}

			targetBBox := target.BBox(intruderLayer)
			if targetBBox.Empty() {
				continue
			}

			elBBox := tn.ApplyBox(targetBBox)

			region := aBox.Intersection(elBBox)
			if region.Empty() {
				continue
			}

			childRegion := tn.Inverse().ApplyBox(region)

			for _, found := range layoutstore.RecursiveShapes(layout, inst.Target, intruderLayer, childRegion) {
				into.Add(a, found.Materialize(repo, tn))
			}
		}
	})
}
