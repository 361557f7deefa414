package builder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeriscope/cloudcatalog/internal/domain"
	"github.com/aeriscope/cloudcatalog/internal/grid"
	"github.com/aeriscope/cloudcatalog/internal/raster"
)

// stubReader serves canned headers by path.
type stubReader struct {
	headers map[string]raster.Header
	err     error
}

func (s *stubReader) ReadHeader(_ context.Context, path string) (raster.Header, error) {
	if s.err != nil {
		return raster.Header{}, s.err
	}
	h, ok := s.headers[path]
	if !ok {
		return raster.Header{}, fmt.Errorf("no header for %s", path)
	}
	return h, nil
}

func writeSampleDir(t *testing.T, id, sidecarJSON string) domain.SampleContext {
	t.Helper()
	dir := filepath.Join(t.TempDir(), id)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	if sidecarJSON != "" {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "2B-GEOPROF_global.json"), []byte(sidecarJSON), 0o644))
	}
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "cloudsat_aligned.tif"), []byte("stub"), 0o644))

	sensor, err := domain.DetectSensor(id)
	require.NoError(t, err)
	return domain.SampleContext{
		ID:            id,
		Dir:           dir,
		PrimaryPath:   filepath.Join(dir, "geo_patch.tif"),
		SecondaryPath: filepath.Join(dir, "cloudsat_aligned.tif"),
		Sensor:        sensor,
	}
}

func goodHeader() raster.Header {
	return raster.Header{
		CRS:       "",
		Bands:     16,
		Height:    256,
		Width:     256,
		Transform: [6]float64{-100, 0.02, 0, 30, 0, -0.02},
		Tags:      map[string]string{},
		GeoBounds: domain.Bounds{MinLon: -80, MinLat: 10, MaxLon: -70, MaxLat: 20},
	}
}

func newTestBuilder(t *testing.T, headers map[string]raster.Header) *Builder {
	t.Helper()
	coder, err := grid.NewCoder(grid.DefaultLevel)
	require.NoError(t, err)
	return New(&stubReader{headers: headers}, coder, time.UTC, slog.Default())
}

const goesSidecar = `{
  "attributes": {
    "satellite_filename": "/data/goes/OR_ABI-L1b-RadF-M6C13_G16.nc",
    "cloudsat_filename": "/data/cloudsat/2018150021635_64379_CS_2B-GEOPROF.hdf",
    "start": "2018-05-30T02:16:35.000000"
  }
}`

func TestBuild_Success(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	require.NotNil(t, out.Record())
	rec := *out.Record()

	assert.Equal(t, sc.ID, rec.ID)
	assert.Equal(t, domain.SensorGOES, rec.Sensor)
	assert.Equal(t, [3]int{16, 256, 256}, rec.Footprint.Shape)
	assert.Equal(t, domain.Point{Lon: -75, Lat: 15}, rec.Footprint.Centroid)

	// 2018-05-30T02:16:35Z in microseconds; day 30 lands in the test split.
	want := time.Date(2018, 5, 30, 2, 16, 35, 0, time.UTC).UnixMicro()
	assert.Equal(t, want, rec.Footprint.TimeStart)
	assert.Equal(t, want, rec.Footprint.TimeEnd)
	assert.Equal(t, domain.SplitTest, rec.Split)

	assert.Equal(t, "OR_ABI-L1b-RadF-M6C13_G16", rec.SatelliteGranuleID)
	assert.Equal(t, "2018150021635_64379_CS_2B-GEOPROF", rec.RadarGranuleID)
	assert.True(t, rec.HasFluxData)
	assert.NotEmpty(t, rec.GridCode)
	assert.True(t, rec.Valid)
	assert.Equal(t, fake.Now(), rec.BuiltAt)
	assert.Nil(t, rec.Storm)

	// Header carried no projection, so the fixed geostationary string applies.
	assert.Contains(t, rec.Footprint.CRS, "+proj=geos")
	assert.Contains(t, rec.Footprint.CRS, "lon_0=-75")
}

func TestBuild_StormCenterOverridesCentroid(t *testing.T) {
	sidecar := `{
	  "attributes": {
	    "cloudsat_filename": "/d/2015188_CS_2B-GEOPROF.hdf",
	    "start": "2015-07-07T02:00:00",
	    "SID": "2015186N09146",
	    "LAT": -8.1,
	    "LON": 200.5,
	    "dist_km": 42.0,
	    "abs_delta_t_s": 600.0
	  }
	}`
	sc := writeSampleDir(t, "H08_20150707_0200_CS_patch_00", sidecar)
	sc.IsStorm = true
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	rec := *out.Record()

	assert.Equal(t, domain.Point{Lon: -159.5, Lat: -8.1}, rec.Footprint.Centroid)
	require.NotNil(t, rec.Storm)
	assert.Equal(t, "2015186N09146", rec.Storm.StormID)
	assert.Equal(t, domain.Point{Lon: -159.5, Lat: -8.1}, rec.Storm.Center)
	assert.Equal(t, 42.0, rec.Storm.DistKM)
	assert.Equal(t, 600.0, rec.Storm.DeltaTSeconds)
	assert.True(t, rec.IsStorm)
}

func TestBuild_InvalidCentroidSkips(t *testing.T) {
	h := goodHeader()
	h.GeoBounds = domain.Bounds{
		MinLon: math.Inf(-1), MinLat: -90,
		MaxLon: math.Inf(1), MaxLat: 90,
	}
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: h})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	assert.Nil(t, out.Record())
	require.NotNil(t, out.Skipped())
	assert.Equal(t, sc.ID, out.Skipped().ID)
	assert.NotEmpty(t, out.Skipped().Reason)
}

func TestBuild_MidpointLongitudeNormalized(t *testing.T) {
	h := goodHeader()
	h.GeoBounds = domain.Bounds{MinLon: 195, MinLat: 0, MaxLon: 205, MaxLat: 10}
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: h})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	assert.Equal(t, domain.Point{Lon: -160, Lat: 5}, out.Record().Footprint.Centroid)
}

func TestBuild_MissingSidecarIsFatal(t *testing.T) {
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", "")
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.Error(t, out.Err())
	assert.ErrorIs(t, out.Err(), domain.ErrSidecarMissing)
}

func TestBuild_MissingRadarProfileIsFatal(t *testing.T) {
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	require.NoError(t, os.Remove(sc.SecondaryPath))
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.Error(t, out.Err())
	assert.Contains(t, out.Err().Error(), "radar profile")
}

func TestBuild_EmptyRadarProfileIsFatal(t *testing.T) {
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	require.NoError(t, os.WriteFile(sc.SecondaryPath, nil, 0o644))
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.Error(t, out.Err())
	assert.Contains(t, out.Err().Error(), "empty")
}

func TestBuild_HeaderReadErrorIsFatal(t *testing.T) {
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	coder, err := grid.NewCoder(grid.DefaultLevel)
	require.NoError(t, err)
	b := New(&stubReader{err: fmt.Errorf("corrupt tiff")}, coder, time.UTC, slog.Default())

	out := b.Build(context.Background(), sc)
	require.Error(t, out.Err())
	assert.Contains(t, out.Err().Error(), "satellite patch")
}

func TestBuild_NoTimestampIsFatal(t *testing.T) {
	// GOES draws its timestamp from the side-channel start field or the raster
	// tag; with neither present the sample is a hard failure.
	sidecar := `{"attributes": {"cloudsat_filename": "/d/g_CS.hdf"}}`
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", sidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.Error(t, out.Err())
	assert.Contains(t, out.Err().Error(), "timestamp")
}

func TestBuild_TimestampFromIdentifier(t *testing.T) {
	// MSG identifiers carry the full acquisition instant; no sidecar start needed.
	sidecar := `{"attributes": {"cloudsat_filename": "/d/2006163_CS.hdf"}}`
	sc := writeSampleDir(t, "MSG1_20060613001240_CS_2006163223419_00664_merged_patch_00", sidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	rec := *out.Record()

	want := time.Date(2006, 6, 13, 0, 12, 40, 0, time.UTC).UnixMicro()
	assert.Equal(t, want, rec.Footprint.TimeStart)
	assert.Equal(t, domain.SplitTrain, rec.Split)
}

func TestBuild_UnpairedSample(t *testing.T) {
	// Single-file pretraining layout: no radar profile, no side-channel
	// record. The identifier supplies the timestamp and stands in as the
	// satellite granule ID.
	root := t.TempDir()
	sc := domain.SampleContext{
		ID:          "MSG1_20060613001240_patch_00",
		Dir:         root,
		PrimaryPath: filepath.Join(root, "MSG1_20060613001240_patch_00.tif"),
		Sensor:      domain.SensorMSG,
		Unpaired:    true,
	}
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	rec := *out.Record()

	want := time.Date(2006, 6, 13, 0, 12, 40, 0, time.UTC).UnixMicro()
	assert.Equal(t, want, rec.Footprint.TimeStart)
	assert.Equal(t, domain.SplitTrain, rec.Split)
	assert.Equal(t, sc.ID, rec.SatelliteGranuleID)
	assert.Empty(t, rec.RadarGranuleID)
	assert.Nil(t, rec.Storm)
	assert.True(t, rec.Valid)
}

func TestBuild_UnpairedSampleWithoutTimestampIsFatal(t *testing.T) {
	// A bare Himawari date stem yields a timestamp, but a GOES stem encodes
	// none, and without a sidecar or tag the sample is a hard failure.
	root := t.TempDir()
	sc := domain.SampleContext{
		ID:          "G16_s20181500216_patch_012",
		Dir:         root,
		PrimaryPath: filepath.Join(root, "G16_s20181500216_patch_012.tif"),
		Sensor:      domain.SensorGOES,
		Unpaired:    true,
	}
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.Error(t, out.Err())
	assert.Contains(t, out.Err().Error(), "timestamp")
}

func TestBuild_TagTimestampPreferredForHimawari(t *testing.T) {
	h := goodHeader()
	h.Tags[domain.AcquisitionTimeTag] = "2015-07-07T02:10:00"
	sidecar := `{"attributes": {"cloudsat_filename": "/d/x_CS.hdf", "start": "2015-07-07T02:00:00"}}`
	sc := writeSampleDir(t, "H08_20150707_0200_CS_patch_00", sidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: h})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	want := time.Date(2015, 7, 7, 2, 10, 0, 0, time.UTC).UnixMicro()
	assert.Equal(t, want, out.Record().Footprint.TimeStart)
}

func TestBuild_HeaderCRSWins(t *testing.T) {
	h := goodHeader()
	h.CRS = `GEOGCS["WGS 84"]`
	sc := writeSampleDir(t, "G16_s20181500216_patch_012", goesSidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: h})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	assert.Equal(t, `GEOGCS["WGS 84"]`, out.Record().Footprint.CRS)
}

func TestBuild_NoFluxVariant(t *testing.T) {
	sc := writeSampleDir(t, "G16_s20181500216_no_flxhr_patch_012", goesSidecar)
	b := newTestBuilder(t, map[string]raster.Header{sc.PrimaryPath: goodHeader()})

	out := b.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	assert.False(t, out.Record().HasFluxData)
}

func TestBuild_SplitTimezone(t *testing.T) {
	// 23:30Z on the last train day is already the next calendar day one zone
	// east; the configured location decides the split.
	sidecar := `{
	  "attributes": {
	    "cloudsat_filename": "/d/x_CS.hdf",
	    "start": "2018-05-23T23:30:00"
	  }
	}`
	east := time.FixedZone("UTC+1", 3600)

	sc := writeSampleDir(t, "G16_s20181432330_patch_000", sidecar)
	headers := map[string]raster.Header{sc.PrimaryPath: goodHeader()}

	coder, err := grid.NewCoder(grid.DefaultLevel)
	require.NoError(t, err)

	utc := New(&stubReader{headers: headers}, coder, time.UTC, slog.Default())
	out := utc.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	assert.Equal(t, domain.SplitTrain, out.Record().Split)

	local := New(&stubReader{headers: headers}, coder, east, slog.Default())
	out = local.Build(context.Background(), sc)
	require.NoError(t, out.Err())
	assert.Equal(t, domain.SplitValidation, out.Record().Split)
}
