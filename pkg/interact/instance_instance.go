package interact

import (
	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

// indexedInst tags a CellInstArray with its position in the current
// cell's own child-instance list, or -1 if it comes from outside that
// list (a context-carried intruder instance). The tag lets InstanceInstance
// skip an own instance touching itself, which a plain bounding-box
// overlap test cannot distinguish from two equal-valued instances.
type indexedInst struct {
	idx  int
	inst geom.CellInstArray
}

// InstanceInstance implements spec.md §4.1's Instance×Instance receiver:
// for every own child instance, record every other instance (another own
// child, or one supplied via extra, e.g. an incoming context's intruder
// instances) that could reach its subtree, into into[own].Instances
// ("candidate subtree intruders for the child context"). An own instance
// never records itself.
//
// The two sides of the scan deliberately use different layers for their
// gating bounding box, grounded on the original's inst_bcs/inst_bci pair
// (dbNetExtractor.cc's compute_contexts): an own instance gates on its
// *scope*-layer hierarchical bbox, since what matters is whether some
// other instance's intruder-layer content could ever reach scope geometry
// somewhere in that subtree; the other side (another own instance, or an
// extra/context-carried instance) gates on its *intruder*-layer
// hierarchical bbox, since only intruder-layer content can possibly act
// as an intruder. Using the same layer for both sides would either miss
// every candidate whose own subtree has no intruder-layer shapes of its
// own (scope-layer gating) or fail to find candidates reaching into a
// scope-only subtree (intruder-layer gating for both sides).
func InstanceInstance(layout geom.Layout, scopeLayer, intruderLayer geom.LayerID, own, extra []geom.CellInstArray, into IntruderMap) {
	boxOfOwn := func(x indexedInst) geom.Box { return layoutstore.InstanceBBox(layout, x.inst, scopeLayer) }
	boxOfOther := func(x indexedInst) geom.Box { return layoutstore.InstanceBBox(layout, x.inst, intruderLayer) }

	setA := make([]indexedInst, len(own))
	for i, inst := range own {
		setA[i] = indexedInst{idx: i, inst: inst}
	}

	setB := make([]indexedInst, 0, len(own)+len(extra))
	setB = append(setB, setA...)

	for _, inst := range extra {
		setB = append(setB, indexedInst{idx: -1, inst: inst})
	}

	layoutstore.Scan(setA, boxOfOwn, setB, boxOfOther, func(a, b indexedInst) {
		if a.idx == b.idx {
			return
		}

		into.entry(a.inst).AddInstance(b.inst)
	})
}
