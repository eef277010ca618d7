// Package geom provides the geometric primitives and layout contracts that
// the hierarchical local processor operates on: affine transforms, boxes,
// polygon references backed by a shared repository, and cell-instance
// arrays. It also declares the interfaces the processor expects from a
// layout subsystem (Layout, Cell, ShapeRepository); concrete
// implementations live in package layoutstore.
package geom

// Orient is one of the eight elements of the dihedral group of order 8:
// the four axis-aligned rotations, each optionally preceded by a mirror
// about the x-axis. This mirrors klayout's db::FTrans fixed-point
// transform enum, which this module's integer transform algebra is
// grounded on.
type Orient int

// The eight fixed-point orientations, named rNN for a plain rotation by NN
// degrees and mNN for a mirror-then-rotate-by-NN.
const (
	R0 Orient = iota
	R90
	R180
	R270
	M0
	M90
	M180
	M270
)

// orientMatrix returns the 2x2 linear map [[a,b],[c,d]] for o, applied as
// x' = a*x + b*y, y' = c*x + d*y.
func orientMatrix(o Orient) (a, b, c, d int64) {
	switch o {
	case R0:
		return 1, 0, 0, 1
	case R90:
		return 0, -1, 1, 0
	case R180:
		return -1, 0, 0, -1
	case R270:
		return 0, 1, -1, 0
	case M0:
		return 1, 0, 0, -1
	case M90:
		return 0, 1, 1, 0
	case M180:
		return -1, 0, 0, 1
	case M270:
		return 0, -1, -1, 0
	default:
		return 1, 0, 0, 1
	}
}

var orientByMatrix = func() map[[4]int64]Orient {
	m := make(map[[4]int64]Orient, 8)
	for _, o := range []Orient{R0, R90, R180, R270, M0, M90, M180, M270} {
		a, b, c, d := orientMatrix(o)
		m[[4]int64{a, b, c, d}] = o
	}

	return m
}()

func composeOrient(outer, inner Orient) Orient {
	a1, b1, c1, d1 := orientMatrix(outer)
	a2, b2, c2, d2 := orientMatrix(inner)

	// (outer ∘ inner) applied to a vector v is outer(inner(v)); as
	// matrices this is outer * inner.
	a := a1*a2 + b1*c2
	b := a1*b2 + b1*d2
	c := c1*a2 + d1*c2
	d := c1*b2 + d1*d2

	o, ok := orientByMatrix[[4]int64{a, b, c, d}]
	if !ok {
		// The eight orientations are closed under composition; reaching
		// here would indicate a coding error in orientMatrix itself.
		return R0
	}

	return o
}

func invertOrient(o Orient) Orient {
	switch o {
	case R90:
		return R270
	case R270:
		return R90
	default:
		// R0, R180 and every mirror element are involutions.
		return o
	}
}

// Transform is a complex affine transform: an integer translation composed
// with one of the eight fixed-point orientations and a positive
// magnification. Mag is carried as a ratio (Num/Den) so that inversion
// stays exact for integer layouts instead of drifting through floating
// point.
type Transform struct {
	DX, DY int64
	Orient Orient
	MagNum int64
	MagDen int64
}

// Identity is the neutral transform.
func Identity() Transform {
	return Transform{Orient: R0, MagNum: 1, MagDen: 1}
}

func (t Transform) magRatio() (int64, int64) {
	if t.MagNum == 0 || t.MagDen == 0 {
		return 1, 1
	}

	return t.MagNum, t.MagDen
}

// IsIdentity reports whether t has no effect on any point.
func (t Transform) IsIdentity() bool {
	n, d := t.magRatio()

	return t.Orient == R0 && t.DX == 0 && t.DY == 0 && n == d
}

// Apply transforms a point: orientation first, then magnification, then
// translation.
func (t Transform) Apply(p Point) Point {
	a, b, c, d := orientMatrix(t.Orient)
	x := a*p.X + b*p.Y
	y := c*p.X + d*p.Y

	n, den := t.magRatio()
	x = x * n / den
	y = y * n / den

	return Point{X: x + t.DX, Y: y + t.DY}
}

// ApplyBox transforms a box by two opposite corners (which stay opposite
// under every orientation), returning the enclosing axis-aligned box
// (orientation may swap width/height or flip corners). An empty box maps
// to the canonical empty box.
func (t Transform) ApplyBox(b Box) Box {
	if b.Empty() {
		return EmptyBox()
	}

	p1 := t.Apply(Point{X: b.Left, Y: b.Bottom})
	p2 := t.Apply(Point{X: b.Right, Y: b.Top})

	return NewBox(p1, p2)
}

// Compose returns the transform equivalent to applying inner first, then
// outer: outer.Compose(inner).Apply(p) == outer.Apply(inner.Apply(p)).
func (outer Transform) Compose(inner Transform) Transform {
	origin := outer.Apply(inner.Apply(Point{}))

	outN, outD := outer.magRatio()
	inN, inD := inner.magRatio()

	return Transform{
		DX:     origin.X,
		DY:     origin.Y,
		Orient: composeOrient(outer.Orient, inner.Orient),
		MagNum: outN * inN,
		MagDen: outD * inD,
	}
}

// Inverse returns the transform t⁻¹ such that t.Compose(t.Inverse()) and
// t.Inverse().Compose(t) both equal Identity() on every point the
// transform is ever applied to in this module (integer lattice points
// under integral magnification ratios).
func (t Transform) Inverse() Transform {
	invOrient := invertOrient(t.Orient)
	n, d := t.magRatio()

	inv := Transform{Orient: invOrient, MagNum: d, MagDen: n}
	// inv must also undo the translation: applying inv to t.Apply(p) must
	// return p. Solve for inv's DX/DY by requiring inv.Apply(origin') == 0
	// where origin' = t.Apply(Point{}).
	origin := t.Apply(Point{})
	back := inv.Apply(origin)
	inv.DX = -back.X
	inv.DY = -back.Y

	return inv
}
