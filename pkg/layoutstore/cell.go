package layoutstore

import "github.com/latticeforge/hiergeom/pkg/geom"

// Cell is an in-memory implementation of geom.Cell.
type Cell struct {
	id        geom.CellID
	shapes    map[geom.LayerID][]geom.PolygonRef
	instances []geom.CellInstArray
	repo      geom.ShapeRepository
	layout    *Layout
	bboxCache map[geom.LayerID]geom.Box
}

func newCell(id geom.CellID, repo geom.ShapeRepository, layout *Layout) *Cell {
	return &Cell{
		id:        id,
		shapes:    make(map[geom.LayerID][]geom.PolygonRef),
		repo:      repo,
		layout:    layout,
		bboxCache: make(map[geom.LayerID]geom.Box),
	}
}

// ID implements geom.Cell.
func (c *Cell) ID() geom.CellID {
	return c.id
}

// Shapes implements geom.Cell.
func (c *Cell) Shapes(layer geom.LayerID) []geom.PolygonRef {
	return c.shapes[layer]
}

// AppendShape implements geom.Cell.
func (c *Cell) AppendShape(layer geom.LayerID, ref geom.PolygonRef) {
	c.shapes[layer] = append(c.shapes[layer], ref)
}

// AddInstance appends a child instance placement (array or single). Cells
// are built once before a Layout is finalized; instance order is
// insertion order, matching spec.md's "ordered list of child instance
// arrays".
func (c *Cell) AddInstance(inst geom.CellInstArray) {
	c.instances = append(c.instances, inst)
}

// Instances implements geom.Cell.
func (c *Cell) Instances() []geom.CellInstArray {
	return c.instances
}

// BBox implements geom.Cell: the hierarchical bounding box of layer in this
// cell's own frame, i.e. this cell's own shapes on layer unioned with every
// child instance's target-cell BBox transformed into this cell's frame,
// recursively. This mirrors klayout's db::Cell::bbox(), which box_convert
// adapters rely on to gate whether an intruder can possibly reach *into* an
// instance even when the instance's own cell carries no shapes on layer
// itself (the shapes live further down its subtree) — without this, an
// intrusion context could never propagate through an un-shaped
// intermediate cell. Results are cached per layer: scope and intruder
// layers are fixed for the duration of a processor run, so recomputing on
// every query would be wasted work on shared subtrees.
func (c *Cell) BBox(layer geom.LayerID) geom.Box {
	if cached, ok := c.bboxCache[layer]; ok {
		return cached
	}

	result := geom.EmptyBox()

	for _, ref := range c.shapes[layer] {
		result = result.Union(ref.Box(c.repo))
	}

	for _, inst := range c.instances {
		target, ok := c.layout.Cell(inst.Target)
		if !ok {
			continue
		}

		targetBBox := target.BBox(layer)
		if targetBBox.Empty() {
			continue
		}

		for _, tn := range inst.Elements() {
			result = result.Union(tn.ApplyBox(targetBBox))
		}
	}

	c.bboxCache[layer] = result

	return result
}
