package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func closed(r orb.Ring) orb.Ring {
	return append(append(orb.Ring{}, r...), r[0])
}

func TestRingContainsSquare(t *testing.T) {
	ring := square(0, 0, 10, 10)
	inside := [][2]float64{{5, 5}, {0.1, 0.1}, {9.9, 9.9}, {1, 9}}
	outside := [][2]float64{{-1, 5}, {11, 5}, {5, -1}, {5, 11}, {-5, -5}, {20, 20}}
	for _, p := range inside {
		assert.Truef(t, RingContains(p[0], p[1], ring), "%v should be inside", p)
		assert.Truef(t, RingContains(p[0], p[1], closed(ring)), "%v should be inside closed ring", p)
	}
	for _, p := range outside {
		assert.Falsef(t, RingContains(p[0], p[1], ring), "%v should be outside", p)
		assert.Falsef(t, RingContains(p[0], p[1], closed(ring)), "%v should be outside closed ring", p)
	}
}

func TestRingContainsEdgeIsStable(t *testing.T) {
	ring := square(0, 0, 10, 10)
	for _, p := range [][2]float64{{0, 5}, {10, 5}, {5, 0}, {5, 10}, {0, 0}, {10, 10}} {
		first := RingContains(p[0], p[1], ring)
		for i := 0; i < 5; i++ {
			require.Equalf(t, first, RingContains(p[0], p[1], ring), "edge point %v flipped", p)
		}
	}
}

func TestRingContainsHorizontalEdgesNoNaN(t *testing.T) {
	// Ray height equals a horizontal edge; the strict straddle test must skip it.
	ring := orb.Ring{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}
	assert.True(t, RingContains(1, 2, ring))
	assert.False(t, RingContains(3, 3, ring))
	assert.True(t, RingContains(3, 1, ring))
}

func TestRingContainsDegenerate(t *testing.T) {
	assert.False(t, RingContains(0, 0, nil))
	assert.False(t, RingContains(0, 0, orb.Ring{{0, 0}, {1, 1}}))
}

func TestRingContainsConcave(t *testing.T) {
	// U shape opening upwards.
	ring := orb.Ring{{0, 0}, {6, 0}, {6, 6}, {4, 6}, {4, 2}, {2, 2}, {2, 6}, {0, 6}}
	assert.True(t, RingContains(1, 5, ring))
	assert.True(t, RingContains(5, 5, ring))
	assert.False(t, RingContains(3, 4, ring))
	assert.True(t, RingContains(3, 1, ring))
}

func TestPolygonWithHole(t *testing.T) {
	poly := orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)}
	assert.False(t, PolygonContains(5, 5, poly), "inside the hole")
	assert.True(t, PolygonContains(2, 2, poly), "inside outer, outside hole")
	assert.False(t, PolygonContains(12, 12, poly), "outside")
	assert.False(t, PolygonContains(0, 0, orb.Polygon{}), "empty polygon")
}

func TestMultiPolygonHolesArePerPart(t *testing.T) {
	// Part A has a hole at (4..6, 4..6). Part B's outer ring overlaps that hole.
	a := orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)}
	b := orb.Polygon{square(3, 3, 7, 7)}
	far := orb.Polygon{square(20, 20, 30, 30)}

	assert.False(t, Contains(5, 5, orb.MultiPolygon{a, far}), "A's hole excludes the point when nothing else covers it")
	assert.True(t, Contains(5, 5, orb.MultiPolygon{a, b}), "B contains the point on its own; A's hole is not global")
	assert.True(t, Contains(25, 25, orb.MultiPolygon{a, far}))
	assert.True(t, Contains(1, 1, orb.MultiPolygon{a, far}))
	assert.False(t, Contains(15, 15, orb.MultiPolygon{a, far}))
}

func TestContainsUnsupportedGeometry(t *testing.T) {
	assert.False(t, Contains(0, 0, nil))
	assert.False(t, Contains(0, 0, orb.Point{0, 0}))
	assert.False(t, Contains(1, 1, orb.LineString{{0, 0}, {2, 2}}))
	assert.False(t, Contains(5, 5, square(0, 0, 10, 10)), "a bare ring is not a polygon")
	assert.True(t, Contains(5, 5, orb.Polygon{square(0, 0, 10, 10)}))
}

func TestShapeMatchesContains(t *testing.T) {
	geoms := []orb.Geometry{
		orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)},
		orb.MultiPolygon{
			{square(0, 0, 10, 10), square(4, 4, 6, 6)},
			{square(3, 3, 7, 7)},
			{square(-30, -10, -20, 0)},
		},
		orb.MultiPolygon{{orb.Ring{{0, 0}, {6, 0}, {6, 6}, {4, 6}, {4, 2}, {2, 2}, {2, 6}, {0, 6}}}},
		orb.Point{1, 1},
		nil,
	}
	for gi, g := range geoms {
		s := NewShape(g)
		for x := -35.0; x <= 35; x += 0.5 {
			for y := -15.0; y <= 15; y += 0.5 {
				require.Equalf(t, Contains(x, y, g), s.Contains(x, y), "geometry %d at (%v, %v)", gi, x, y)
			}
		}
	}
}

func TestShapeParts(t *testing.T) {
	s := NewShape(orb.MultiPolygon{{square(0, 0, 1, 1)}, {}, {square(5, 5, 6, 6)}})
	assert.Equal(t, 2, s.Parts())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{6, 6}}, s.Bound())
	assert.True(t, NewShape(orb.Point{0, 0}).Empty())
	assert.False(t, NewShape(orb.Point{0, 0}).Contains(0, 0))
}
