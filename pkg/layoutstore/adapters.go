package layoutstore

import "github.com/latticeforge/hiergeom/pkg/geom"

// InstanceBBox returns the bounding box, in the instantiating cell's own
// frame, of everything an instance places on layer: the union, over every
// array element, of the element's transform applied to the target cell's
// own BBox(layer). This is the "box-convert adapter for instances on a
// given layer" spec.md §6 lists among the provided collaborators
// (klayout's db::box_convert<CellInstArray>).
func InstanceBBox(layout geom.Layout, inst geom.CellInstArray, layer geom.LayerID) geom.Box {
	target, ok := layout.Cell(inst.Target)
	if !ok {
		return geom.EmptyBox()
	}

	targetBBox := target.BBox(layer)
	if targetBBox.Empty() {
		return geom.EmptyBox()
	}

	result := geom.EmptyBox()
	for _, tn := range inst.Elements() {
		result = result.Union(tn.ApplyBox(targetBBox))
	}

	return result
}

// PolygonBBox returns a PolygonRef's bounding box in its own cell's frame;
// a thin adapter matching klayout's db::box_convert<PolygonRef>.
func PolygonBBox(repo geom.ShapeRepository, ref geom.PolygonRef) geom.Box {
	return ref.Box(repo)
}
