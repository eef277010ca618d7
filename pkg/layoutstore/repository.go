// Package layoutstore provides a minimal in-memory implementation of the
// layout-subsystem collaborators that spec.md declares "deliberately out
// of scope" for the core processor: the shape repository, the cell/layout
// store, bottom-up traversal, the generic box scanner, box-convert
// adapters and the recursive shape iterator. pkg/processor depends only
// on the interfaces declared in pkg/geom; this package exists so the core
// is exercisable and testable standalone.
package layoutstore

import (
	"sync"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

// Repository interns PolygonBody values by structural equality, adapted
// from the teacher's map-based interning pattern in pkg/cache/lru.go
// (minus any eviction policy — spec.md's Non-goals exclude persistence of
// caches across runs, so there is nothing here to evict between runs;
// a Repository's lifetime is exactly one processor run).
//
// spec.md §5 requires the repository to "accept interning from a single
// writer" — true under the default sequential processor config, but once
// pkg/processor.Config.Workers > 1 drives concurrent per-context
// evaluation (pkg/hierctx.CellContexts.ComputeResults), multiple
// goroutines may intern materialized shapes concurrently. mu serializes
// that case; it costs one uncontended lock/unlock per Intern call in the
// default single-worker path.
type Repository struct {
	mu     sync.Mutex
	bodies []geom.PolygonBody
	index  map[string]geom.BodyHandle
}

// NewRepository returns an empty shape repository.
func NewRepository() *Repository {
	return &Repository{index: make(map[string]geom.BodyHandle)}
}

// Intern implements geom.ShapeRepository.
func (r *Repository) Intern(body geom.PolygonBody) geom.BodyHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := body.Key()

	if h, ok := r.index[key]; ok {
		return h
	}

	h := geom.BodyHandle(len(r.bodies))
	r.bodies = append(r.bodies, body)
	r.index[key] = h

	return h
}

// Body implements geom.ShapeRepository.
func (r *Repository) Body(h geom.BodyHandle) geom.PolygonBody {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.bodies[h]
}

// Len returns the number of distinct bodies interned so far.
func (r *Repository) Len() int {
	return len(r.bodies)
}
