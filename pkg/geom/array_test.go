package geom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

func TestArrayExpansionDeterministic(t *testing.T) {
	arr := geom.CellInstArray{
		Target: 1,
		Base:   geom.Transform{DX: 0, DY: 0, Orient: geom.R0, MagNum: 1, MagDen: 1},
		Array: geom.ArrayGen{
			BasisA: geom.Point{X: 100, Y: 0},
			BasisB: geom.Point{X: 0, Y: 100},
			CountA: 2,
			CountB: 2,
		},
	}

	require.Equal(t, 4, arr.Len())

	els := arr.Elements()
	require.Len(t, els, 4)
	require.Equal(t, int64(0), els[0].DX)
	require.Equal(t, int64(0), els[0].DY)
	require.Equal(t, int64(0), els[1].DX)
	require.Equal(t, int64(100), els[1].DY)
	require.Equal(t, int64(100), els[2].DX)
	require.Equal(t, int64(0), els[2].DY)
	require.Equal(t, int64(100), els[3].DX)
	require.Equal(t, int64(100), els[3].DY)

	// Calling Elements() twice must yield byte-identical results (spec.md
	// §8 "Context determinism" applied to array expansion).
	require.Equal(t, els, arr.Elements())
}

func TestSingleInstanceIsDegenerateArray(t *testing.T) {
	inst := geom.NewInstance(1, geom.Transform{DX: 5, DY: 6, Orient: geom.R0, MagNum: 1, MagDen: 1})
	require.Equal(t, 1, inst.Len())
	require.Equal(t, inst.Base, inst.ElementTransform(0))
}

func TestTouchingElementsExcludesNonOverlapping(t *testing.T) {
	arr := geom.CellInstArray{
		Target: 1,
		Base:   geom.Identity(),
		Array: geom.ArrayGen{
			BasisA: geom.Point{X: 100, Y: 0},
			CountA: 3,
			CountB: 1,
		},
	}

	targetBBox := geom.Box{Left: 0, Bottom: 0, Right: 10, Top: 10}
	region := geom.Box{Left: -5, Bottom: -5, Right: 15, Top: 15}

	touching := arr.TouchingElements(region, targetBBox)
	require.Len(t, touching, 1)
	require.Equal(t, int64(0), touching[0].DX)
}
