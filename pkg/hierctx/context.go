// Package hierctx implements the per-cell intrusion-context bookkeeping
// the hierarchical local processor uses to memoize cell evaluation: the
// context key itself, cell drops and cell contexts, and the per-cell
// context-table reconciliation algorithm.
package hierctx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

// IntrusionContext is the pair (I, P) from spec.md's data model: I is the
// set of foreign CellInstArray intruders reaching a cell, already
// expressed in that cell's own coordinate frame, and P is the set of
// foreign PolygonRef shape intruders. Equality is by set content,
// irrespective of order.
type IntrusionContext struct {
	Instances []geom.CellInstArray
	Shapes    []geom.PolygonRef
}

// NewIntrusionContext builds a context from (possibly unsorted,
// already-deduplicated) instance and shape sets, canonicalizing their
// order so two contexts built from the same sets compare equal via Key.
func NewIntrusionContext(instances []geom.CellInstArray, shapes []geom.PolygonRef) IntrusionContext {
	return IntrusionContext{
		Instances: sortInstances(instances),
		Shapes:    geom.SortRefs(shapes),
	}
}

// Key returns a canonical string identity for the context, suitable as a
// map key: two contexts over equal sets produce equal keys, independent
// of how the sets were originally ordered. This is a process-local
// identity (not persisted across runs), so a direct textual encoding of
// the canonicalized fields is used rather than a cryptographic hash.
func (c IntrusionContext) Key() string {
	var sb strings.Builder

	for _, inst := range c.Instances {
		fmt.Fprintf(&sb, "%+v;", inst)
	}

	sb.WriteByte('#')

	for _, ref := range c.Shapes {
		fmt.Fprintf(&sb, "%+v;", ref)
	}

	return sb.String()
}

func sortInstances(insts []geom.CellInstArray) []geom.CellInstArray {
	out := make([]geom.CellInstArray, len(insts))
	copy(out, insts)

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}

		if a.Base.DX != b.Base.DX {
			return a.Base.DX < b.Base.DX
		}

		if a.Base.DY != b.Base.DY {
			return a.Base.DY < b.Base.DY
		}

		if a.Base.Orient != b.Base.Orient {
			return a.Base.Orient < b.Base.Orient
		}

		if a.Array.BasisA.X != b.Array.BasisA.X {
			return a.Array.BasisA.X < b.Array.BasisA.X
		}

		if a.Array.BasisA.Y != b.Array.BasisA.Y {
			return a.Array.BasisA.Y < b.Array.BasisA.Y
		}

		if a.Array.BasisB.X != b.Array.BasisB.X {
			return a.Array.BasisB.X < b.Array.BasisB.X
		}

		if a.Array.BasisB.Y != b.Array.BasisB.Y {
			return a.Array.BasisB.Y < b.Array.BasisB.Y
		}

		if a.Array.CountA != b.Array.CountA {
			return a.Array.CountA < b.Array.CountA
		}

		if a.Array.CountB != b.Array.CountB {
			return a.Array.CountB < b.Array.CountB
		}

		if a.Base.MagNum != b.Base.MagNum {
			return a.Base.MagNum < b.Base.MagNum
		}

		return a.Base.MagDen < b.Base.MagDen
	})

	return out
}
