package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	t.Parallel()

	points := [][2]float64{
		{-6.270075, 106.819858},
		{0, 0},
		{89.9, -179.9},
	}

	for _, p := range points {
		d, err := DistanceMeters(p[0], p[1], p[0], p[1])
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	t.Parallel()

	d1, err := DistanceMeters(-6.270075, 106.819858, -6.200000, 106.816666)
	require.NoError(t, err)
	d2, err := DistanceMeters(-6.200000, 106.816666, -6.270075, 106.819858)
	require.NoError(t, err)

	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	t.Parallel()

	// Monas to Kota Tua, Jakarta: roughly 4.5 km.
	d, err := DistanceMeters(-6.175392, 106.827153, -6.137563, 106.817125)
	require.NoError(t, err)

	assert.InDelta(t, 4350, d, 300)
}

func TestDistanceMeters_InvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"latitude over 90", 91, 0, 0, 0},
		{"latitude under -90", -90.1, 0, 0, 0},
		{"longitude over 180", 0, 181, 0, 0},
		{"longitude under -180", 0, -180.5, 0, 0},
		{"NaN latitude", math.NaN(), 0, 0, 0},
		{"NaN longitude on second point", 0, 0, 0, math.NaN()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DistanceMeters(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			assert.Error(t, err)
		})
	}
}
