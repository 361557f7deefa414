package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSidecar(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSidecar(t *testing.T) {
	t.Run("parses attributes", func(t *testing.T) {
		dir := t.TempDir()
		writeSidecar(t, dir, "sample_global.json", `{
			"attributes": {
				"satellite_filename": "/archive/goes/OR_ABI-L1b-RadF-M6_G16_s20201800001.nc",
				"cloudsat_filename": "2020180000122_75711_CS_2B-GEOPROF_GRANULE_P1_R05_E08_F03.hdf",
				"cloudsat_id": "75711",
				"start": "2020-06-28 00:01:22"
			}
		}`)

		sc, err := LoadSidecar(dir)
		require.NoError(t, err)
		assert.Equal(t, "OR_ABI-L1b-RadF-M6_G16_s20201800001", stem(sc.Attributes.SatelliteFilename))
		assert.Equal(t, "2020-06-28 00:01:22", sc.Attributes.Start)
	})

	t.Run("missing record is a hard failure", func(t *testing.T) {
		_, err := LoadSidecar(t.TempDir())
		require.ErrorIs(t, err, ErrSidecarMissing)
	})

	t.Run("malformed record", func(t *testing.T) {
		dir := t.TempDir()
		writeSidecar(t, dir, "x_global.json", `{not json`)
		_, err := LoadSidecar(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse side-channel record")
	})

	t.Run("multiple matches pick lexicographic first", func(t *testing.T) {
		dir := t.TempDir()
		writeSidecar(t, dir, "b_global.json", `{"attributes":{"cloudsat_id":"B"}}`)
		writeSidecar(t, dir, "a_global.json", `{"attributes":{"cloudsat_id":"A"}}`)

		sc, err := LoadSidecar(dir)
		require.NoError(t, err)
		assert.Equal(t, "A", sc.Attributes.CloudsatID)
	})
}

func TestGranuleIDs(t *testing.T) {
	t.Run("filename stems win", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{
			SatelliteFilename: "/data/OR_ABI_G16_s2020.nc",
			CloudsatFilename:  "2006163223419_00664_CS_2B-GEOPROF.hdf",
			GOESID:            "ignored",
		}}
		sat, radar, err := sc.GranuleIDs(SensorGOES, "sample-1")
		require.NoError(t, err)
		assert.Equal(t, "OR_ABI_G16_s2020", sat)
		assert.Equal(t, "2006163223419_00664_CS_2B-GEOPROF", radar)
	})

	t.Run("sensor id fields as fallback", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{
			HimawariID: "H08_20150707_0200",
			CloudsatID: "48887",
		}}
		sat, radar, err := sc.GranuleIDs(SensorHimawari, "sample-2")
		require.NoError(t, err)
		assert.Equal(t, "H08_20150707_0200", sat)
		assert.Equal(t, "48887", radar)
	})

	t.Run("sample id as last resort for satellite", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{CloudsatID: "664"}}
		sat, _, err := sc.GranuleIDs(SensorMSG, "MSG1_20060613001240_patch_00")
		require.NoError(t, err)
		assert.Equal(t, "MSG1_20060613001240_patch_00", sat)
	})

	t.Run("missing radar granule is an error", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{GOESID: "g16"}}
		_, _, err := sc.GranuleIDs(SensorGOES, "sample-3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "radar granule")
	})
}

func TestStormCenter(t *testing.T) {
	lat, lon := 12.5, 200.0

	t.Run("normalizes 0-360 longitudes", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{CenterLat: &lat, CenterLon: &lon}}
		center, ok := sc.StormCenter()
		require.True(t, ok)
		assert.InDelta(t, -160.0, center.Lon, 1e-9)
		assert.InDelta(t, 12.5, center.Lat, 1e-9)
	})

	t.Run("absent when fields missing", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{CenterLat: &lat}}
		_, ok := sc.StormCenter()
		assert.False(t, ok)
	})
}

func TestDeltaTSeconds(t *testing.T) {
	abs, signed := 420.0, -300.0

	t.Run("prefers abs_delta_t_s", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{AbsDeltaTSec: &abs, DeltaTSec: &signed}}
		assert.Equal(t, 420.0, sc.DeltaTSeconds())
	})

	t.Run("falls back to signed delta_t, absolute value", func(t *testing.T) {
		sc := Sidecar{Attributes: SidecarAttributes{DeltaTSec: &signed}}
		assert.Equal(t, 300.0, sc.DeltaTSeconds())
	})

	t.Run("zero when absent", func(t *testing.T) {
		assert.Equal(t, 0.0, Sidecar{}.DeltaTSeconds())
	})
}
