package geom

import "sort"

// PolygonBody is an immutable polygon outline expressed in a body-local
// frame, stored once in a ShapeRepository and referenced by handle from
// many PolygonRefs under different transforms.
type PolygonBody struct {
	Points []Point
}

// box computes the bounding box of the body's points.
func (b PolygonBody) box() Box {
	result := EmptyBox()
	for _, p := range b.Points {
		result = result.extend(p)
	}

	return result
}

// Key returns a comparable, order-independent-free value for interning:
// the body is stored by its exact point sequence (polygon identity is
// sensitive to winding and starting vertex, matching klayout's
// db::Polygon equality). Exported for use by ShapeRepository
// implementations outside this package (e.g. package layoutstore).
func (b PolygonBody) Key() string {
	// A cheap, deterministic encoding; collisions are not a concern for a
	// single process run's repository (values are only ever compared for
	// equality within the same repository instance).
	buf := make([]byte, 0, len(b.Points)*16)
	for _, p := range b.Points {
		buf = appendVarint(buf, p.X)
		buf = appendVarint(buf, p.Y)
	}

	return string(buf)
}

func appendVarint(buf []byte, v int64) []byte {
	u := uint64(v)

	for {
		b := byte(u & 0x7f)
		u >>= 7

		if u != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)

			break
		}
	}

	return buf
}

// BodyHandle identifies a PolygonBody interned into a ShapeRepository.
type BodyHandle int

// ShapeRepository interns polygon bodies by structural value and hands
// back stable handles, the "shape repository owned by a layout" from
// spec.md's data model. A concrete implementation lives in
// package layoutstore; the processor depends only on this interface.
type ShapeRepository interface {
	// Intern stores body if not already present and returns its handle.
	Intern(body PolygonBody) BodyHandle
	// Body returns the body for a previously-interned handle.
	Body(h BodyHandle) PolygonBody
}

// PolygonRef is a handle into a shape repository plus a per-reference
// transform, matching spec.md's PolygonRef: "two refs with equal
// body-handle and equal transform are equal".
type PolygonRef struct {
	Body  BodyHandle
	Trans Transform
}

// Box returns the bounding box of the referenced polygon under Trans.
func (r PolygonRef) Box(repo ShapeRepository) Box {
	return r.Trans.ApplyBox(repo.Body(r.Body).box())
}

// Transformed returns a new PolygonRef equivalent to applying outer on top
// of r's existing transform.
func (r PolygonRef) Transformed(outer Transform) PolygonRef {
	return PolygonRef{Body: r.Body, Trans: outer.Compose(r.Trans)}
}

// Materialize copies the referenced polygon's points (already transformed
// by r.Trans) and interns a fresh body into repo under the identity
// transform. This is used when flattening a shape from a child cell's
// frame into a parent's frame (spec.md §4.1 Shape×Instance; §9 notes this
// is the only place bodies are duplicated).
func (r PolygonRef) Materialize(repo ShapeRepository, outer Transform) PolygonRef {
	src := repo.Body(r.Body)
	full := outer.Compose(r.Trans)

	pts := make([]Point, len(src.Points))
	for i, p := range src.Points {
		pts[i] = full.Apply(p)
	}

	h := repo.Intern(PolygonBody{Points: pts})

	return PolygonRef{Body: h, Trans: Identity()}
}

// RefKey is a comparable key usable as a map key or set element for
// PolygonRef, since Transform contains only comparable fields and
// BodyHandle is an int — PolygonRef is already comparable in Go, but
// RefKey documents the comparison's intent at call sites that build
// sets/maps keyed by shape identity.
type RefKey = PolygonRef

// SortRefs returns a deterministically ordered copy of refs, used
// wherever a stable iteration order over a set of PolygonRefs is needed
// for deterministic output (spec.md §8 "Context determinism").
func SortRefs(refs []PolygonRef) []PolygonRef {
	out := make([]PolygonRef, len(refs))
	copy(out, refs)

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Body != b.Body {
			return a.Body < b.Body
		}

		if a.Trans.DX != b.Trans.DX {
			return a.Trans.DX < b.Trans.DX
		}

		if a.Trans.DY != b.Trans.DY {
			return a.Trans.DY < b.Trans.DY
		}

		if a.Trans.Orient != b.Trans.Orient {
			return a.Trans.Orient < b.Trans.Orient
		}

		if a.Trans.MagNum != b.Trans.MagNum {
			return a.Trans.MagNum < b.Trans.MagNum
		}

		return a.Trans.MagDen < b.Trans.MagDen
	})

	return out
}
