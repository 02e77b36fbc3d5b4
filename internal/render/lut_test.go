package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldjoshua/LightBox-2.0/internal/config"
)

func TestGammaTableEndpointsAndMonotone(t *testing.T) {
	cases := []struct {
		depth int
		gamma float64
	}{
		{8, 1.0},
		{8, 2.2},
		{8, 0.45},
		{11, 2.8},
		{4, 1.7},
	}
	for _, tc := range cases {
		tab := GammaTable(tc.depth, tc.gamma)
		size := 1 << tc.depth
		require.Len(t, tab, size)
		assert.EqualValues(t, 0, tab[0], "gamma=%v depth=%v", tc.gamma, tc.depth)
		assert.EqualValues(t, size-1, tab[size-1], "gamma=%v depth=%v", tc.gamma, tc.depth)
		for i := 1; i < size; i++ {
			if tab[i] < tab[i-1] {
				t.Fatalf("gamma table not monotone at %d: %d < %d (gamma=%v depth=%v)",
					i, tab[i], tab[i-1], tc.gamma, tc.depth)
			}
		}
	}
}

func TestGammaTableIdentity(t *testing.T) {
	tab := GammaTable(8, 1.0)
	for i := range tab {
		assert.EqualValues(t, i, tab[i])
	}
}

func TestSerpentineIndexExample(t *testing.T) {
	// width=4, height=2: row 0 runs forward, row 1 reversed.
	want := []int{0, 1, 2, 3, 7, 6, 5, 4}
	got := BuildSerpentineMap(4, 2, config.WiringSerpentine)
	assert.Equal(t, want, got)
}

func TestSerpentineIndexLinear(t *testing.T) {
	got := BuildSerpentineMap(4, 2, config.WiringLinear)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got)
}

func TestSerpentineBijection(t *testing.T) {
	for _, dim := range []struct{ w, h int }{{4, 2}, {8, 8}, {10, 10}, {1, 5}, {7, 3}} {
		m := BuildSerpentineMap(dim.w, dim.h, config.WiringSerpentine)
		seen := make(map[int]bool, len(m))
		for _, idx := range m {
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, dim.w*dim.h)
			require.False(t, seen[idx], "%dx%d duplicate index %d", dim.w, dim.h, idx)
			seen[idx] = true
		}
	}
}

func TestTablesMemoization(t *testing.T) {
	tab := &Tables{}
	cfg := config.Default()

	g1 := tab.Gamma(cfg)
	s1 := tab.Serpentine(cfg)

	// Identical snapshot: same backing arrays, no recomputation.
	same := *cfg
	g2 := tab.Gamma(&same)
	s2 := tab.Serpentine(&same)
	assert.Same(t, &g1[0], &g2[0], "gamma table recomputed for identical config")
	assert.Same(t, &s1[0], &s2[0], "serpentine map recomputed for identical config")

	// Changed gamma invalidates only the gamma table.
	changed := *cfg
	changed.Gamma = cfg.Gamma + 0.3
	g3 := tab.Gamma(&changed)
	s3 := tab.Serpentine(&changed)
	assert.NotSame(t, &g1[0], &g3[0])
	assert.Same(t, &s1[0], &s3[0])

	// Changed wiring invalidates the map.
	rewired := *cfg
	rewired.Wiring = config.WiringLinear
	s4 := tab.Serpentine(&rewired)
	assert.NotSame(t, &s1[0], &s4[0])
}
