package layoutstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

const (
	top    geom.CellID = 0
	mid    geom.CellID = 1
	leaf   geom.CellID = 2
	island geom.CellID = 3
)

func buildDiamond(t *testing.T) *layoutstore.Layout {
	t.Helper()

	l := layoutstore.NewLayout()
	l.AddCell(leaf)

	midCell := l.AddCell(mid)
	midCell.AddInstance(geom.NewInstance(leaf, geom.Identity()))

	topCell := l.AddCell(top)
	topCell.AddInstance(geom.NewInstance(mid, geom.Identity()))
	topCell.AddInstance(geom.NewInstance(leaf, geom.Identity()))

	l.AddCell(island) // unreachable from top

	return l
}

func TestLayoutBottomUpOrderRespectsDependencies(t *testing.T) {
	l := buildDiamond(t)
	l.Finalize(top)

	order := l.BottomUp()
	require.Len(t, order, 3, "island is unreachable from top and must be excluded")

	pos := make(map[geom.CellID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	require.Less(t, pos[leaf], pos[mid], "leaf must be emitted before mid, which instantiates it")
	require.Less(t, pos[mid], pos[top], "mid must be emitted before top, which instantiates it")
	require.Less(t, pos[leaf], pos[top])
}

func TestLayoutCellLookup(t *testing.T) {
	l := buildDiamond(t)

	c, ok := l.Cell(mid)
	require.True(t, ok)
	require.Equal(t, mid, c.ID())

	_, ok = l.Cell(geom.CellID(999))
	require.False(t, ok)
}

func TestCellBBoxUnionsOwnShapes(t *testing.T) {
	l := layoutstore.NewLayout()
	c := l.AddCell(leaf)

	repo := l.Repository()
	h := repo.Intern(geom.PolygonBody{Points: []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}})
	c.AppendShape(0, geom.PolygonRef{Body: h, Trans: geom.Transform{DX: 5, DY: 0, Orient: geom.R0, MagNum: 1, MagDen: 1}})

	require.Equal(t, geom.Box{Left: 5, Bottom: 0, Right: 15, Top: 10}, c.BBox(0))
	require.True(t, c.BBox(1).Empty(), "no shapes were added on layer 1")
}

func TestCellBBoxRecursesThroughInstances(t *testing.T) {
	l := layoutstore.NewLayout()

	leafCell := l.AddCell(leaf)
	repo := l.Repository()
	h := repo.Intern(geom.PolygonBody{Points: []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}})
	leafCell.AppendShape(0, geom.PolygonRef{Body: h, Trans: geom.Identity()})

	midCell := l.AddCell(mid)
	midCell.AddInstance(geom.NewInstance(leaf, geom.Transform{DX: 100, DY: 0, Orient: geom.R0, MagNum: 1, MagDen: 1}))

	topCell := l.AddCell(top)
	topCell.AddInstance(geom.NewInstance(mid, geom.Transform{DX: 0, DY: 200, Orient: geom.R0, MagNum: 1, MagDen: 1}))

	// mid carries no shapes of its own either, but its BBox must reach
	// through its leaf instance: a shape living two levels down must still
	// be visible to a box_convert-style gate on the instance above it.
	require.Equal(t, geom.Box{Left: 100, Bottom: 0, Right: 110, Top: 10}, midCell.BBox(0))
	require.Equal(t, geom.Box{Left: 100, Bottom: 200, Right: 110, Top: 210}, topCell.BBox(0))
}
