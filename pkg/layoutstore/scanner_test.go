package layoutstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
)

func box(l, b, r, t int64) geom.Box {
	return geom.Box{Left: l, Bottom: b, Right: r, Top: t}
}

func TestScanFindsOnlyOverlappingPairs(t *testing.T) {
	setA := []geom.Box{box(0, 0, 10, 10), box(100, 100, 110, 110)}
	setB := []geom.Box{box(5, 5, 15, 15), box(200, 200, 210, 210), box(8, 8, 9, 9)}

	var pairs [][2]int
	layoutstore.Scan(
		setA, func(b geom.Box) geom.Box { return b },
		setB, func(b geom.Box) geom.Box { return b },
		func(ai, bi geom.Box) {
			pairs = append(pairs, [2]int{indexOf(setA, ai), indexOf(setB, bi)})
		},
	)

	require.Len(t, pairs, 2)
	require.Contains(t, pairs, [2]int{0, 0})
	require.Contains(t, pairs, [2]int{0, 2})
}

func indexOf(boxes []geom.Box, target geom.Box) int {
	for i, b := range boxes {
		if b == target {
			return i
		}
	}

	return -1
}

func TestScanEmptyInputsProduceNoCalls(t *testing.T) {
	called := false

	layoutstore.Scan(
		[]geom.Box{}, func(b geom.Box) geom.Box { return b },
		[]geom.Box{box(0, 0, 1, 1)}, func(b geom.Box) geom.Box { return b },
		func(a, b geom.Box) { called = true },
	)

	require.False(t, called)
}

func TestScanSkipsEmptyBoxes(t *testing.T) {
	called := false

	layoutstore.Scan(
		[]geom.Box{geom.EmptyBox()}, func(b geom.Box) geom.Box { return b },
		[]geom.Box{box(0, 0, 1, 1)}, func(b geom.Box) geom.Box { return b },
		func(a, b geom.Box) { called = true },
	)

	require.False(t, called)
}
