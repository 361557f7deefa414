// Command genmock generates mock sample directory trees for local catalog
// runs: one directory per sample holding a small georeferenced satellite
// patch, a radar profile placeholder, and a side-channel JSON record. The
// three sensor naming conventions are exercised, and acquisition days are
// spread across the month so every split is populated.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/samples -storm-out data/mock/cyclones -per-sensor 8
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/airbusgeo/godal"
)

var baseDate = time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)

// sensorDef describes how to synthesize sample directories for one platform.
type sensorDef struct {
	name      string
	dirName   func(t time.Time, i int) string
	centerLon float64
}

var defs = []sensorDef{
	{
		name: "GOES",
		dirName: func(t time.Time, i int) string {
			return fmt.Sprintf("G16_s%s_patch_%03d", t.Format("20060102150405"), i)
		},
		centerLon: -75,
	},
	{
		name: "Himawari",
		dirName: func(t time.Time, i int) string {
			return fmt.Sprintf("H08_%s_%s_CS_patch_%02d", t.Format("20060102"), t.Format("1504"), i)
		},
		centerLon: 140.7,
	},
	{
		name: "MSG",
		dirName: func(t time.Time, i int) string {
			return fmt.Sprintf("MSG1_%s_CS_patch_%02d", t.Format("20060102150405"), i)
		},
		centerLon: 0,
	},
}

// sidecar mirrors the side-channel record layout the builder consumes.
type sidecar struct {
	Attributes map[string]any `json:"attributes"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for plain sample dirs")
	stormOut := flag.String("storm-out", "", "output directory for storm-associated sample dirs (optional)")
	perSensor := flag.Int("per-sensor", 8, "sample directories per sensor")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	godal.RegisterAll()

	total := 0
	for _, d := range defs {
		n, err := generateSamples(*out, d, *perSensor, false)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		log.Printf("%s: %d sample dirs", d.name, n)
		total += n
	}

	if *stormOut != "" {
		for _, d := range defs {
			n, err := generateSamples(*stormOut, d, *perSensor/2, true)
			if err != nil {
				return fmt.Errorf("%s storm: %w", d.name, err)
			}
			log.Printf("%s (storm): %d sample dirs", d.name, n)
			total += n
		}
	}

	log.Printf("total: %d sample dirs", total)
	return nil
}

func generateSamples(root string, d sensorDef, count int, storm bool) (int, error) {
	for i := 0; i < count; i++ {
		// Walk the acquisition day across the month so the 1-23 / 24-27 /
		// 28-31 split boundaries all get coverage.
		day := (i*4)%30 + 1
		acqTime := baseDate.AddDate(0, 0, day-1).Add(time.Duration(i) * 37 * time.Minute)

		dir := filepath.Join(root, d.dirName(acqTime, i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
		if err := writePatch(filepath.Join(dir, "geo_patch.tif"), d, acqTime, i); err != nil {
			return 0, fmt.Errorf("%s: %w", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "cloudsat_aligned.tif"), []byte("mock radar profile\n"), 0o600); err != nil {
			return 0, err
		}
		if err := writeSidecar(dir, d, acqTime, i, storm); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// writePatch creates a tiny WGS-84 GeoTIFF with an acquisition_time tag,
// enough header for the catalog builder without any meaningful pixel data.
func writePatch(path string, d sensorDef, acqTime time.Time, i int) error {
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Byte, 32, 32)
	if err != nil {
		return fmt.Errorf("create geotiff: %w", err)
	}
	defer ds.Close()

	sr, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return fmt.Errorf("create spatial ref: %w", err)
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		return fmt.Errorf("set spatial ref: %w", err)
	}

	// 0.64° square patch near the platform's sub-satellite longitude,
	// shifted per sample so centroids differ.
	originLon := d.centerLon - 10 + float64(i)
	originLat := 20.0 - float64(i)*0.5
	if err := ds.SetGeoTransform([6]float64{originLon, 0.02, 0, originLat, 0, -0.02}); err != nil {
		return fmt.Errorf("set geotransform: %w", err)
	}

	if err := ds.SetMetadata("acquisition_time", acqTime.Format("2006-01-02T15:04:05")); err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

func writeSidecar(dir string, d sensorDef, acqTime time.Time, i int, storm bool) error {
	attrs := map[string]any{
		"satellite_filename": fmt.Sprintf("/archive/%s/granule_%s.nc", d.name, acqTime.Format("20060102150405")),
		"cloudsat_filename":  fmt.Sprintf("/archive/cloudsat/%s_CS_2B-GEOPROF_GRANULE.hdf", acqTime.Format("2006002150405")),
		"start":              acqTime.Format("2006-01-02T15:04:05.000000"),
	}
	if storm {
		attrs["SID"] = fmt.Sprintf("%sN%02d300", acqTime.Format("2006002"), i)
		attrs["LAT"] = 12.0 + float64(i)*0.3
		attrs["LON"] = d.centerLon + 5 + float64(i)*0.7
		attrs["dist_km"] = 15.0 + float64(i)
		attrs["abs_delta_t_s"] = 300.0 + float64(i)*10
	}

	data, err := json.MarshalIndent(sidecar{Attributes: attrs}, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(dir, "2B-GEOPROF_global.json"), data, 0o600)
}
