package geom

// CellID identifies a cell within a Layout.
type CellID int

// ArrayGen describes a regular 2D array expansion: counts[0]*counts[1]
// instances at base + i*basisA + j*basisB for i in [0,countA), j in
// [0,countB). CountA==CountB==1 and zero basis vectors represent a single
// (non-array) instance.
type ArrayGen struct {
	BasisA, BasisB   Point
	CountA, CountB   int
}

// single returns the degenerate single-instance array generator.
func single() ArrayGen {
	return ArrayGen{CountA: 1, CountB: 1}
}

// Len returns the number of elements this generator enumerates.
func (g ArrayGen) Len() int {
	a, b := g.CountA, g.CountB
	if a <= 0 {
		a = 1
	}

	if b <= 0 {
		b = 1
	}

	return a * b
}

// offset returns the translation offset of array element n (0-based, row
// major: n = i*CountB + j).
func (g ArrayGen) offset(n int) Point {
	b := g.CountB
	if b <= 0 {
		b = 1
	}

	i, j := n/b, n%b

	return Point{
		X: int64(i)*g.BasisA.X + int64(j)*g.BasisB.X,
		Y: int64(i)*g.BasisA.Y + int64(j)*g.BasisB.Y,
	}
}

// CellInstArray is a placement of a target cell under a base transform,
// optionally expanded into a regular 2D array (spec.md's CellInstArray).
type CellInstArray struct {
	Target CellID
	Base   Transform
	Array  ArrayGen
}

// NewInstance returns a single (non-array) instance placement.
func NewInstance(target CellID, base Transform) CellInstArray {
	return CellInstArray{Target: target, Base: base, Array: single()}
}

// Len returns the number of array elements this instance expands to (1 for
// a plain instance).
func (c CellInstArray) Len() int {
	return c.Array.Len()
}

// ElementTransform returns the forward transform tn for array element n:
// the base transform translated by the n-th array offset. The offset is
// expressed in the instantiating cell's frame and added to the base
// translation as is (it is not rotated or magnified by the base
// transform), matching klayout's CellInstArray::complex_trans(iterator).
func (c CellInstArray) ElementTransform(n int) Transform {
	off := c.Array.offset(n)
	shifted := c.Base
	shifted.DX += off.X
	shifted.DY += off.Y

	return shifted
}

// Elements returns the forward transforms of every array element, in
// deterministic row-major order.
func (c CellInstArray) Elements() []Transform {
	n := c.Len()
	out := make([]Transform, n)

	for i := 0; i < n; i++ {
		out[i] = c.ElementTransform(i)
	}

	return out
}

// TouchingElements returns the forward transforms of every array element
// whose target-cell bounding box — transformed by that element's own
// transform — overlaps region. targetBBox is the target cell's bounding
// box (on whichever layer the caller cares about) in the target cell's
// own frame. Used by spec.md §4.5's instance-array expansion inside
// Instance×Instance (the "only touching array elements" optimization from
// spec.md §9, preserved here for correctness, not performance).
func (c CellInstArray) TouchingElements(region Box, targetBBox Box) []Transform {
	var out []Transform

	for _, tn := range c.Elements() {
		if tn.ApplyBox(targetBBox).Overlaps(region) {
			out = append(out, tn)
		}
	}

	return out
}
