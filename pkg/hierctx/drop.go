package hierctx

import (
	"errors"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

// ErrNilParentContext is an invariant-violation error: Propagate was
// asked to route a non-empty result through a drop whose parent context
// is nil. Every non-root drop must carry a parent context; only the root
// drop (the top cell's single instantiation) may lack one, and the root
// context's table never holds more than one entry, so Propagate is never
// exercised on it in a well-formed run.
var ErrNilParentContext = errors.New("hierctx: propagate through drop with nil parent context")

// CellDrop records one instantiation path reaching a cell context: the
// parent context it was discovered from, the parent cell, and the
// transform from the parent's frame into this cell's frame (spec.md
// §4.3's "(parent_context, parent_cell, instance_transform)"). Only the
// root drop has a nil ParentContext/ParentCell.
type CellDrop struct {
	ParentContext *CellContext
	ParentCell    geom.Cell
	InstTrans     geom.Transform
}

// CellContext holds every drop (instantiation path) that shares one
// IntrusionContext, plus the set of shapes later shown to be
// context-specific to this instantiation and routed here via Propagate.
type CellContext struct {
	drops      []CellDrop
	propagated map[geom.PolygonRef]struct{}
}

// NewCellContext returns a CellContext with an empty propagated set.
func NewCellContext() *CellContext {
	return &CellContext{propagated: make(map[geom.PolygonRef]struct{})}
}

// AddDrop appends a new instantiation path to this context.
func (c *CellContext) AddDrop(parentContext *CellContext, parentCell geom.Cell, instTrans geom.Transform) {
	c.drops = append(c.drops, CellDrop{ParentContext: parentContext, ParentCell: parentCell, InstTrans: instTrans})
}

// Propagated returns this context's accumulated context-specific result
// set. Callers must not mutate the returned map.
func (c *CellContext) Propagated() map[geom.PolygonRef]struct{} {
	return c.propagated
}

// Propagate transforms each ref in res by this drop's instance transform
// composed with the ref's own transform, materializes the flattened
// polygon into repo, and inserts it into every drop's parent context's
// propagated set (spec.md §4.3). A no-op for an empty res. Shapes are
// copied, not moved: a cell context may be referenced by many drops, each
// of which needs its own materialized copy in its parent's frame.
func (c *CellContext) Propagate(res map[geom.PolygonRef]struct{}, repo geom.ShapeRepository) error {
	if len(res) == 0 {
		return nil
	}

	for _, d := range c.drops {
		if d.ParentContext == nil {
			return ErrNilParentContext
		}

		for ref := range res {
			materialized := ref.Materialize(repo, d.InstTrans)
			d.ParentContext.propagated[materialized] = struct{}{}
		}
	}

	return nil
}
