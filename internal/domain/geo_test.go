package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		name     string
		lon      float64
		expected float64
	}{
		{"zero-360 convention", 200.0, -160.0},
		{"antimeridian east", 359.9, -0.1},
		{"already normalized positive", 120.0, 120.0},
		{"already normalized negative", -75.0, -75.0},
		{"boundary 180", 180.0, 180.0},
		{"boundary -180", -180.0, -180.0},
		{"zero", 0.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeLongitude(tt.lon), 1e-9)
		})
	}
}

func TestNormalizeLongitude_Idempotent(t *testing.T) {
	for _, lon := range []float64{-180, -90.5, 0, 45.25, 180} {
		assert.Equal(t, lon, NormalizeLongitude(NormalizeLongitude(lon)))
	}
	// A single pass over an out-of-range value lands in range; a second pass
	// is a no-op.
	once := NormalizeLongitude(200)
	assert.Equal(t, once, NormalizeLongitude(once))
}

func TestValidatePoint(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, ValidatePoint(Point{Lon: -160, Lat: 12.5}))
		require.NoError(t, ValidatePoint(Point{Lon: 0, Lat: 0}))
		require.NoError(t, ValidatePoint(Point{Lon: 180, Lat: -90}))
	})

	t.Run("infinite coordinates", func(t *testing.T) {
		err := ValidatePoint(Point{Lon: math.Inf(1), Lat: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "infinite")

		err = ValidatePoint(Point{Lon: 10, Lat: math.Inf(-1)})
		require.Error(t, err)
	})

	t.Run("NaN coordinates", func(t *testing.T) {
		err := ValidatePoint(Point{Lon: math.NaN(), Lat: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NaN")
	})

	t.Run("out of envelope", func(t *testing.T) {
		require.Error(t, ValidatePoint(Point{Lon: 0, Lat: 91}))
		require.Error(t, ValidatePoint(Point{Lon: 181, Lat: 0}))
		require.Error(t, ValidatePoint(Point{Lon: -181, Lat: 0}))
	})
}

func TestBoundsMidpoint(t *testing.T) {
	b := Bounds{MinLon: -10, MinLat: 40, MaxLon: 10, MaxLat: 50}
	assert.Equal(t, Point{Lon: 0, Lat: 45}, b.Midpoint())
}
