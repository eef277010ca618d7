package hierctx

import (
	"golang.org/x/sync/errgroup"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

type tableEntry struct {
	ctx  IntrusionContext
	cell *CellContext
}

// CellContexts is the per-cell mapping from IntrusionContext to
// CellContext (spec.md §4.4). Entries are kept in first-seen (insertion)
// order: reconciliation in ComputeResults must run in that order for the
// processor's output to be deterministic.
type CellContexts struct {
	byKey map[string]*tableEntry
	order []string
}

// NewCellContexts returns an empty context table.
func NewCellContexts() *CellContexts {
	return &CellContexts{byKey: make(map[string]*tableEntry)}
}

// Find returns the existing CellContext for ctx, if one has already been
// created.
func (t *CellContexts) Find(ctx IntrusionContext) (*CellContext, bool) {
	e, ok := t.byKey[ctx.Key()]
	if !ok {
		return nil, false
	}

	return e.cell, true
}

// Create registers a new, empty CellContext for ctx and returns it. The
// caller must have already confirmed, via Find, that no entry exists.
func (t *CellContexts) Create(ctx IntrusionContext) *CellContext {
	key := ctx.Key()
	cc := NewCellContext()
	t.byKey[key] = &tableEntry{ctx: ctx, cell: cc}
	t.order = append(t.order, key)

	return cc
}

// Len reports how many distinct contexts this cell has accumulated.
func (t *CellContexts) Len() int {
	return len(t.order)
}

// ComputeResults runs spec.md §4.4's reconciliation algorithm: evaluate
// is invoked once per context (in parallel across contexts when workers
// > 1 — §5's "independent cell context tables" parallelism boundary
// applies equally to independent per-context evaluation within a single
// table, since each context's propagated/evaluate step reads only its
// own context and the shared layout, never another context's state) with
// that context's propagated set (evaluate is expected to merge the
// per-cell local operation's output into it in place, mirroring the
// original's in/out result parameter). The sequential common/lost/gained
// merge below always runs in first-seen order regardless of workers,
// since reconciliation itself is not parallelizable — only the work that
// feeds it is. Returns the "common" set provably identical across every
// context — the set push_results commits once to this cell's output
// layer — and materializes every context-specific residual through the
// relevant drops into their parent contexts' propagated sets.
func (t *CellContexts) ComputeResults(
	repo geom.ShapeRepository,
	workers int,
	evaluate func(ctx IntrusionContext, res map[geom.PolygonRef]struct{}),
) (map[geom.PolygonRef]struct{}, error) {
	precomputed := make([]map[geom.PolygonRef]struct{}, len(t.order))

	if workers > 1 && len(t.order) > 1 {
		group := new(errgroup.Group)
		group.SetLimit(workers)

		for i, key := range t.order {
			e := t.byKey[key]

			group.Go(func() error {
				res := cloneSet(e.cell.propagated)
				evaluate(e.ctx, res)
				precomputed[i] = res

				return nil
			})
		}

		// evaluate never returns an error; Wait only joins the goroutines.
		_ = group.Wait()
	} else {
		for i, key := range t.order {
			e := t.byKey[key]
			res := cloneSet(e.cell.propagated)
			evaluate(e.ctx, res)
			precomputed[i] = res
		}
	}

	var common map[geom.PolygonRef]struct{}

	for i, key := range t.order {
		e := t.byKey[key]
		res := precomputed[i]

		if i == 0 {
			common = res

			continue
		}

		switch {
		case len(common) == 0:
			if err := e.cell.Propagate(res, repo); err != nil {
				return nil, err
			}

		case setsEqual(common, res):
			// nothing to do: this context agrees with every context seen
			// so far.

		default:
			lost := setDifference(common, res)
			if len(lost) > 0 {
				common = setIntersection(common, res)

				for _, prevKey := range t.order[:i] {
					if err := t.byKey[prevKey].cell.Propagate(lost, repo); err != nil {
						return nil, err
					}
				}
			}

			gained := setDifference(res, common)
			if err := e.cell.Propagate(gained, repo); err != nil {
				return nil, err
			}
		}
	}

	if common == nil {
		common = make(map[geom.PolygonRef]struct{})
	}

	return common, nil
}

func cloneSet(s map[geom.PolygonRef]struct{}) map[geom.PolygonRef]struct{} {
	out := make(map[geom.PolygonRef]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}

	return out
}

func setsEqual(a, b map[geom.PolygonRef]struct{}) bool {
	if len(a) != len(b) {
		return false
	}

	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}

	return true
}

func setDifference(a, b map[geom.PolygonRef]struct{}) map[geom.PolygonRef]struct{} {
	out := make(map[geom.PolygonRef]struct{})

	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}

	return out
}

func setIntersection(a, b map[geom.PolygonRef]struct{}) map[geom.PolygonRef]struct{} {
	out := make(map[geom.PolygonRef]struct{})

	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}

	return out
}
