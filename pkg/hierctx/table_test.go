package hierctx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/hierctx"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

func ref(repo geom.ShapeRepository, n int64) geom.PolygonRef {
	h := repo.Intern(geom.PolygonBody{Points: []geom.Point{{X: 0, Y: 0}, {X: 0, Y: n}, {X: n, Y: n}, {X: n, Y: 0}}})

	return geom.PolygonRef{Body: h, Trans: geom.Identity()}
}

// fakeCell is a minimal geom.Cell stand-in used only as a drop's parent
// cell identity in these reconciliation tests.
type fakeCell struct{ id geom.CellID }

func (f fakeCell) ID() geom.CellID                          { return f.id }
func (f fakeCell) Shapes(geom.LayerID) []geom.PolygonRef     { return nil }
func (f fakeCell) AppendShape(geom.LayerID, geom.PolygonRef) {}
func (f fakeCell) Instances() []geom.CellInstArray           { return nil }
func (f fakeCell) BBox(geom.LayerID) geom.Box                { return geom.EmptyBox() }

func emptyCtx(n int64) hierctx.IntrusionContext {
	return hierctx.NewIntrusionContext(nil, []geom.PolygonRef{{Body: geom.BodyHandle(n)}})
}

func TestReconcileFirstContextIsCommon(t *testing.T) {
	repo := layoutstore.NewRepository()
	a := ref(repo, 10)

	table := hierctx.NewCellContexts()
	table.Create(emptyCtx(1))

	common, err := table.ComputeResults(repo, 1, func(_ hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
		res[a] = struct{}{}
	})

	require.NoError(t, err)
	require.Contains(t, common, a)
}

func TestReconcileSecondAgreesNothingPropagates(t *testing.T) {
	repo := layoutstore.NewRepository()
	a := ref(repo, 10)
	parent := hierctx.NewCellContext()
	parentCell := fakeCell{id: 100}

	table := hierctx.NewCellContexts()
	c1 := table.Create(emptyCtx(1))
	c1.AddDrop(parent, parentCell, geom.Identity())
	c2 := table.Create(emptyCtx(2))
	c2.AddDrop(parent, parentCell, geom.Identity())

	common, err := table.ComputeResults(repo, 1, func(_ hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
		res[a] = struct{}{}
	})

	require.NoError(t, err)
	require.Contains(t, common, a)
	require.Empty(t, parent.Propagated(), "identical contexts propagate nothing upward")
}

func TestReconcileSecondDisagreesLosingMembers(t *testing.T) {
	repo := layoutstore.NewRepository()
	a, b := ref(repo, 10), ref(repo, 20)
	parent := hierctx.NewCellContext()
	parentCell := fakeCell{id: 100}

	table := hierctx.NewCellContexts()
	c1 := table.Create(emptyCtx(1))
	c1.AddDrop(parent, parentCell, geom.Identity())
	c2 := table.Create(emptyCtx(2))
	c2.AddDrop(parent, parentCell, geom.Identity())

	i := 0
	common, err := table.ComputeResults(repo, 1, func(_ hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
		if i == 0 {
			res[a] = struct{}{}
			res[b] = struct{}{}
		} else {
			res[a] = struct{}{}
		}

		i++
	})

	require.NoError(t, err)
	require.Contains(t, common, a)
	require.NotContains(t, common, b, "b was lost when the second context disagreed")
	require.Contains(t, parent.Propagated(), b, "lost member must be routed to the first context's drop")
}

func TestReconcileSecondDisagreesGainingMembers(t *testing.T) {
	repo := layoutstore.NewRepository()
	a, b := ref(repo, 10), ref(repo, 20)
	parent := hierctx.NewCellContext()
	parentCell := fakeCell{id: 100}

	table := hierctx.NewCellContexts()
	c1 := table.Create(emptyCtx(1))
	c1.AddDrop(parent, parentCell, geom.Identity())
	c2 := table.Create(emptyCtx(2))
	c2.AddDrop(parent, parentCell, geom.Identity())

	i := 0
	common, err := table.ComputeResults(repo, 1, func(_ hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
		res[a] = struct{}{}
		if i == 1 {
			res[b] = struct{}{}
		}

		i++
	})

	require.NoError(t, err)
	require.Contains(t, common, a)
	require.NotContains(t, common, b, "b was never common, it only appeared in the second context")
	require.Contains(t, parent.Propagated(), b, "gained member must be routed to the second context's drop")
}

func TestReconcileNoCommonAtAll(t *testing.T) {
	repo := layoutstore.NewRepository()
	a, b := ref(repo, 10), ref(repo, 20)
	parent := hierctx.NewCellContext()
	parentCell := fakeCell{id: 100}

	table := hierctx.NewCellContexts()
	c1 := table.Create(emptyCtx(1))
	c1.AddDrop(parent, parentCell, geom.Identity())
	c2 := table.Create(emptyCtx(2))
	c2.AddDrop(parent, parentCell, geom.Identity())

	i := 0
	common, err := table.ComputeResults(repo, 1, func(_ hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
		if i == 0 {
			res[a] = struct{}{}
		} else {
			res[b] = struct{}{}
		}

		i++
	})

	require.NoError(t, err)
	require.Empty(t, common)
	require.Contains(t, parent.Propagated(), a)
	require.Contains(t, parent.Propagated(), b)
}

func TestReconcileWithWorkersMatchesSequential(t *testing.T) {
	build := func(workers int) (map[geom.PolygonRef]struct{}, map[geom.PolygonRef]struct{}) {
		repo := layoutstore.NewRepository()
		a, b, c := ref(repo, 10), ref(repo, 20), ref(repo, 30)
		parent := hierctx.NewCellContext()
		parentCell := fakeCell{id: 100}

		table := hierctx.NewCellContexts()

		for n := int64(1); n <= 5; n++ {
			ctx := table.Create(emptyCtx(n))
			ctx.AddDrop(parent, parentCell, geom.Identity())
		}

		common, err := table.ComputeResults(repo, workers, func(ctx hierctx.IntrusionContext, res map[geom.PolygonRef]struct{}) {
			// Keyed only on ctx (via the distinct shape each emptyCtx carries),
			// never on call order, so this is safe under concurrent invocation.
			res[a] = struct{}{}

			if len(ctx.Shapes) > 0 && ctx.Shapes[0].Body == geom.BodyHandle(3) {
				res[b] = struct{}{}
			}

			if len(ctx.Shapes) > 0 && ctx.Shapes[0].Body == geom.BodyHandle(5) {
				res[c] = struct{}{}
			}
		})

		require.NoError(t, err)

		return common, parent.Propagated()
	}

	sequentialCommon, sequentialPropagated := build(1)
	parallelCommon, parallelPropagated := build(8)

	require.Equal(t, sequentialCommon, parallelCommon)
	require.Equal(t, sequentialPropagated, parallelPropagated)
}

func TestPropagateThroughNilParentContextIsAnError(t *testing.T) {
	repo := layoutstore.NewRepository()
	a := ref(repo, 10)

	root := hierctx.NewCellContext()
	root.AddDrop(nil, nil, geom.Identity())

	err := root.Propagate(map[geom.PolygonRef]struct{}{a: {}}, repo)
	require.ErrorIs(t, err, hierctx.ErrNilParentContext)
}
