package layoutstore

import (
	"sort"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

// boxed pairs an item with its precomputed bounding box, sorted by Left for
// the scanner's sweep.
type boxed[T any] struct {
	box  geom.Box
	item T
}

// Scan enumerates every pair (a, b) from setA x setB whose bounding boxes
// overlap and invokes onOverlap for each. This is the "generic two-set
// box scanner" spec.md §6 lists as a provided collaborator and §4.1
// builds the four interaction receivers atop.
//
// The sweep is adapted from the teacher's augmented interval tree
// (pkg/alg/interval.Tree, whose maxHigh-pruned search is exactly a
// Low-sorted overlap query): since a scanner instance is built once per
// cell visit and only ever queried, never mutated mid-scan, the mutable
// red-black tree is unneeded — a plain sort of setB by left edge plus an
// early-break sweep gives the same Low-sorted pruning with no insert/
// delete machinery.
func Scan[A, B any](
	setA []A, boxOfA func(A) geom.Box,
	setB []B, boxOfB func(B) geom.Box,
	onOverlap func(A, B),
) {
	if len(setA) == 0 || len(setB) == 0 {
		return
	}

	bs := make([]boxed[B], 0, len(setB))

	for _, b := range setB {
		bb := boxOfB(b)
		if !bb.Empty() {
			bs = append(bs, boxed[B]{box: bb, item: b})
		}
	}

	if len(bs) == 0 {
		return
	}

	sort.Slice(bs, func(i, j int) bool { return bs[i].box.Left < bs[j].box.Left })

	for _, a := range setA {
		ab := boxOfA(a)
		if ab.Empty() {
			continue
		}

		for _, b := range bs {
			if b.box.Left > ab.Right {
				// bs is sorted ascending by Left: no later entry can
				// satisfy b.Left <= ab.Right either.
				break
			}

			if ab.Overlaps(b.box) {
				onOverlap(a, b.item)
			}
		}
	}
}
