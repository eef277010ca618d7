package interact

import (
	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

// InstanceShape implements spec.md §4.1's Instance×Shape receiver:
// records into[inst].Shapes the foreign shapes (from the given intruder
// set, typically in-cell intruder-layer shapes unioned with an incoming
// context's intruder shapes) that could reach each own child instance's
// subtree.
//
// The own instance gates on its *scope*-layer hierarchical bbox, not the
// intruder layer — grounded on the original's inst_bcs (compute_contexts'
// second scan, dbNetExtractor.cc), since a scope-only subtree must still
// be able to receive an intruder shape passed down from above.
func InstanceShape(layout geom.Layout, scopeLayer geom.LayerID, own []geom.CellInstArray, shapes []geom.PolygonRef, into IntruderMap) {
	repo := layout.Repository()

	boxOfInst := func(inst geom.CellInstArray) geom.Box { return layoutstore.InstanceBBox(layout, inst, scopeLayer) }
	boxOfShape := func(r geom.PolygonRef) geom.Box { return layoutstore.PolygonBBox(repo, r) }

	layoutstore.Scan(own, boxOfInst, shapes, boxOfShape, func(inst geom.CellInstArray, ref geom.PolygonRef) {
		into.entry(inst).AddShape(ref)
	})
}
