package processor

import (
	"context"
	"fmt"

	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/hierctx"
	"github.com/latticeforge/hiergeom/pkg/interact"
)

// computeContexts is spec.md §4.5's top-down context-discovery pass. It
// is called once at the root with a nil parent context/cell and an empty
// IntrusionContext, and recurses once per child instance array element —
// unconditionally, regardless of whether the target cell's subtree
// carries any intruder-layer content (see the note below on why this
// deliberately does not reuse the source's bbox-emptiness shortcut as a
// recursion gate).
func (p *Processor) computeContexts(
	ctx context.Context,
	parentContext *hierctx.CellContext,
	parentCell geom.Cell,
	cellID geom.CellID,
	cellInst geom.Transform,
	intruders hierctx.IntrusionContext,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	contexts, ok := p.contextsPerCell[cellID]
	if !ok {
		contexts = hierctx.NewCellContexts()
		p.contextsPerCell[cellID] = contexts
	}

	if existing, found := contexts.Find(intruders); found {
		existing.AddDrop(parentContext, parentCell, cellInst)

		if p.cfg.Metrics != nil {
			p.cfg.Metrics.ContextReused(cellID)
		}

		return nil
	}

	cellCtx := contexts.Create(intruders)
	cellCtx.AddDrop(parentContext, parentCell, cellInst)

	if p.cfg.Metrics != nil {
		p.cfg.Metrics.ContextCreated(cellID)
	}

	cell, ok := p.layout.Cell(cellID)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNilCell, cellID)
	}

	own := cell.Instances()
	if len(own) == 0 {
		return nil
	}

	intruderShapes := cell.Shapes(p.intruderLayer)
	allShapes := make([]geom.PolygonRef, 0, len(intruderShapes)+len(intruders.Shapes))
	allShapes = append(allShapes, intruderShapes...)
	allShapes = append(allShapes, intruders.Shapes...)

	repo := p.layout.Repository()

	below := make(interact.IntruderMap)
	interact.InstanceInstance(p.layout, p.scopeLayer, p.intruderLayer, own, intruders.Instances, below)
	interact.InstanceShape(p.layout, p.scopeLayer, own, allShapes, below)

	for _, inst := range own {
		target, ok := p.layout.Cell(inst.Target)
		if !ok {
			return fmt.Errorf("%w: id %d", ErrNilCell, inst.Target)
		}

		// nbox gates only the sibling-touching-instance re-expression
		// below, not whether this child gets visited at all: a child
		// with no intruder-layer content anywhere in its own subtree
		// still needs its own context computed (an unconditional local
		// operation like identity or no-op does not depend on intruders
		// existing), so every array element is always recursed into.
		targetBBox := target.BBox(p.intruderLayer)
		targetScopeBBox := target.BBox(p.scopeLayer)

		set := below[inst]

		for _, tn := range inst.Elements() {
			nbox := tn.ApplyBox(targetBBox)

			tni := tn.Inverse()

			belowInstances, err := p.reexpressTouchingInstances(set, tni, nbox.Enlarged(-1, -1))
			if err != nil {
				return err
			}

			// A context-carried or in-cell intruder shape is only handed
			// down to the array elements whose scope footprint it can
			// actually reach; without this, every element of an array
			// instance would see every shape the instance as a whole
			// overlaps, even elements far from that particular shape.
			elementScope := tn.ApplyBox(targetScopeBBox)

			belowShapes := make([]geom.PolygonRef, 0)
			if set != nil {
				for ref := range set.Shapes {
					if ref.Box(repo).Overlaps(elementScope) {
						belowShapes = append(belowShapes, ref)
					}
				}
			}

			childIntruders := hierctx.NewIntrusionContext(belowInstances, belowShapes)

			if err := p.computeContexts(ctx, cellCtx, cell, inst.Target, tn, childIntruders); err != nil {
				return err
			}
		}
	}

	return nil
}

// reexpressTouchingInstances implements spec.md §4.5's
// `intruders_below.first` construction: every array element of every
// instance in set.Instances that touches nbox (already enlarged by
// (-1,-1) to exclude boundary-only touches), re-expressed as a
// single-element instance in the child cell's own frame via tni composed
// with that element's transform.
func (p *Processor) reexpressTouchingInstances(set *interact.IntruderSet, tni geom.Transform, nbox geom.Box) ([]geom.CellInstArray, error) {
	if set == nil {
		return nil, nil
	}

	var out []geom.CellInstArray

	for foreign := range set.Instances {
		target, ok := p.layout.Cell(foreign.Target)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrNilCell, foreign.Target)
		}

		targetBBox := target.BBox(p.intruderLayer)

		for _, jtn := range foreign.TouchingElements(nbox, targetBBox) {
			out = append(out, geom.NewInstance(foreign.Target, tni.Compose(jtn)))
		}
	}

	return out, nil
}

// computeResults is spec.md §4.5's bottom-up evaluation pass: visit cells
// in bottom-up order, reconcile every context table that has one, commit
// the common result to the output layer, and drop the table (freeing its
// memory, matching the original's map::erase after compute_results).
func (p *Processor) computeResults(ctx context.Context) error {
	repo := p.layout.Repository()

	for _, cellID := range p.layout.BottomUp() {
		if err := ctx.Err(); err != nil {
			return err
		}

		contexts, ok := p.contextsPerCell[cellID]
		if !ok {
			continue
		}

		cell, ok := p.layout.Cell(cellID)
		if !ok {
			return fmt.Errorf("%w: id %d", ErrNilCell, cellID)
		}

		common, err := contexts.ComputeResults(repo, p.cfg.Workers, func(intrusionCtx hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
			p.computeLocalCell(cell, intrusionCtx, res)
		})
		if err != nil {
			return err
		}

		p.pushResults(cell, common)
		delete(p.contextsPerCell, cellID)
	}

	return nil
}

// pushResults commits common to cell's output layer in a deterministic
// order (spec.md §8's "context determinism": identical input sets must
// produce byte-identical output, which requires a stable commit order
// since the reconciled result is a set).
func (p *Processor) pushResults(cell geom.Cell, common map[geom.PolygonRef]struct{}) {
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.CellCommitted(cell.ID(), len(common))
	}

	if len(common) == 0 {
		return
	}

	refs := make([]geom.PolygonRef, 0, len(common))
	for ref := range common {
		refs = append(refs, ref)
	}

	for _, ref := range geom.SortRefs(refs) {
		cell.AppendShape(p.outputLayer, ref)
	}
}
