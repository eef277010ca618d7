package geom

// Point is an integer lattice point in a cell's local coordinate frame.
type Point struct {
	X, Y int64
}

// Box is a closed axis-aligned rectangle [Left,Bottom]-[Right,Top]. An
// empty Box has Left > Right (the canonical empty-box representation used
// throughout this module, matching klayout's db::Box::empty()).
type Box struct {
	Left, Bottom, Right, Top int64
}

// EmptyBox is the canonical empty box.
func EmptyBox() Box {
	return Box{Left: 1, Right: 0}
}

// NewBox returns the smallest box containing p1 and p2.
func NewBox(p1, p2 Point) Box {
	b := Box{Left: p1.X, Right: p1.X, Bottom: p1.Y, Top: p1.Y}
	b = b.extend(p2)

	return b
}

func (b Box) extend(p Point) Box {
	if b.Empty() {
		return Box{Left: p.X, Right: p.X, Bottom: p.Y, Top: p.Y}
	}

	if p.X < b.Left {
		b.Left = p.X
	}

	if p.X > b.Right {
		b.Right = p.X
	}

	if p.Y < b.Bottom {
		b.Bottom = p.Y
	}

	if p.Y > b.Top {
		b.Top = p.Y
	}

	return b
}

// Empty reports whether b contains no points.
func (b Box) Empty() bool {
	return b.Left > b.Right || b.Bottom > b.Top
}

// Width returns the box's horizontal extent, or 0 for an empty box.
func (b Box) Width() int64 {
	if b.Empty() {
		return 0
	}

	return b.Right - b.Left
}

// Height returns the box's vertical extent, or 0 for an empty box.
func (b Box) Height() int64 {
	if b.Empty() {
		return 0
	}

	return b.Top - b.Bottom
}

// Overlaps reports whether b and other share at least one point.
func (b Box) Overlaps(other Box) bool {
	if b.Empty() || other.Empty() {
		return false
	}

	return b.Left <= other.Right && b.Right >= other.Left &&
		b.Bottom <= other.Top && b.Top >= other.Bottom
}

// Intersection returns the overlapping region of b and other, or an empty
// box if they do not overlap.
func (b Box) Intersection(other Box) Box {
	if !b.Overlaps(other) {
		return EmptyBox()
	}

	return Box{
		Left:   max64(b.Left, other.Left),
		Bottom: max64(b.Bottom, other.Bottom),
		Right:  min64(b.Right, other.Right),
		Top:    min64(b.Top, other.Top),
	}
}

// Union returns the smallest box containing both b and other.
func (b Box) Union(other Box) Box {
	switch {
	case b.Empty():
		return other
	case other.Empty():
		return b
	default:
		return Box{
			Left:   min64(b.Left, other.Left),
			Bottom: min64(b.Bottom, other.Bottom),
			Right:  max64(b.Right, other.Right),
			Top:    max64(b.Top, other.Top),
		}
	}
}

// Enlarged returns b expanded (or, for negative arguments, shrunk) by dx on
// each horizontal side and dy on each vertical side. Used with dx=dy=-1 to
// exclude boundary-only touches per spec.md §9's array-expansion note.
func (b Box) Enlarged(dx, dy int64) Box {
	if b.Empty() {
		return b
	}

	nb := Box{Left: b.Left - dx, Bottom: b.Bottom - dy, Right: b.Right + dx, Top: b.Top + dy}
	if nb.Empty() {
		return EmptyBox()
	}

	return nb
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}
