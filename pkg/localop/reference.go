package localop

import "github.com/latticeforge/hiergeom/pkg/geom"

// identityOp returns exactly its scope input refs, unchanged — spec.md
// §8's "scope-identity operation" law.
type identityOp struct{}

// Identity is an Operation that reproduces the scope layer unchanged in
// the output layer.
var Identity Operation = identityOp{}

func (identityOp) Name() string { return "identity" }

func (identityOp) Compute(_ geom.ShapeRepository, interactions Interactions) []geom.PolygonRef {
	out := make([]geom.PolygonRef, 0, len(interactions))
	for scope := range interactions {
		out = append(out, scope)
	}

	return geom.SortRefs(out)
}

// noOp always returns the empty set — spec.md §8's "idempotent no-op
// operation" law.
type noOp struct{}

// NoOp is an Operation that never emits output.
var NoOp Operation = noOp{}

func (noOp) Name() string { return "no-op" }

func (noOp) Compute(geom.ShapeRepository, Interactions) []geom.PolygonRef { return nil }

// intrudedOnlyOp emits each scope shape that has at least one intruder.
type intrudedOnlyOp struct{}

// IntrudedOnly is an Operation that emits a scope shape unchanged when it
// has one or more recorded intruders, and drops it otherwise. Used by
// spec.md §8's end-to-end scenarios 1, 3, 4 and 6.
var IntrudedOnly Operation = intrudedOnlyOp{}

func (intrudedOnlyOp) Name() string { return "intruded-only" }

func (intrudedOnlyOp) Compute(_ geom.ShapeRepository, interactions Interactions) []geom.PolygonRef {
	out := make([]geom.PolygonRef, 0, len(interactions))

	for scope, intruders := range interactions {
		if len(intruders) > 0 {
			out = append(out, scope)
		}
	}

	return geom.SortRefs(out)
}
