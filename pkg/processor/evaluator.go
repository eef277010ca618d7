package processor

import (
	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/hierctx"
	"github.com/latticeforge/hiergeom/pkg/interact"
	"github.com/latticeforge/hiergeom/pkg/localop"
)

// computeLocalCell is spec.md §4.6's per-cell local evaluator: assemble
// the shape×shape and shape×instance interaction map for cell under ctx,
// invoke the local operation, and merge its output into res. The scan
// short-circuits exactly as the original does: a scan only runs when
// there are scope shapes to seed interactions for, and only when there
// is at least one candidate intruder on the corresponding side (in-cell
// or context-carried).
func (p *Processor) computeLocalCell(cell geom.Cell, ctx hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
	repo := p.layout.Repository()

	scopeShapes := cell.Shapes(p.scopeLayer)

	interactions := make(localop.Interactions, len(scopeShapes))
	for _, s := range scopeShapes {
		interactions[s] = nil
	}

	intruderShapes := cell.Shapes(p.intruderLayer)

	if len(scopeShapes) > 0 && (len(intruderShapes) > 0 || len(ctx.Shapes) > 0) {
		allIntruders := make([]geom.PolygonRef, 0, len(intruderShapes)+len(ctx.Shapes))
		allIntruders = append(allIntruders, intruderShapes...)
		allIntruders = append(allIntruders, ctx.Shapes...)

		shapeResult := make(interact.ShapeResults)
		interact.ShapeShape(repo, scopeShapes, allIntruders, shapeResult)

		for scope, found := range shapeResult {
			interactions[scope] = append(interactions[scope], found...)
		}
	}

	instances := cell.Instances()

	if len(scopeShapes) > 0 && (len(instances) > 0 || len(ctx.Instances) > 0) {
		allInstances := make([]geom.CellInstArray, 0, len(instances)+len(ctx.Instances))
		allInstances = append(allInstances, instances...)
		allInstances = append(allInstances, ctx.Instances...)

		instResult := make(interact.ShapeResults)
		interact.ShapeInstance(p.layout, p.intruderLayer, scopeShapes, allInstances, instResult)

		for scope, found := range instResult {
			interactions[scope] = append(interactions[scope], found...)
		}
	}

	for _, ref := range p.op.Compute(repo, interactions) {
		res[ref] = struct{}{}
	}
}
