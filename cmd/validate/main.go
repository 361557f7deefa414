// Command validate performs integrity checks over an exported catalog: the
// STAC ItemCollection and its run report. It verifies identifier uniqueness,
// split assignment consistency, centroid well-formedness, timestamp sanity,
// and catalog/report accounting.
//
// Usage:
//
//	go run ./cmd/validate -catalog catalog.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/planetlabs/go-stac"

	"github.com/aeriscope/cloudcatalog/internal/adapter/stacexport"
	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "path to exported catalog JSON (report is expected at <catalog>.report.json)")
	splitTZ := flag.String("split-timezone", "UTC", "timezone whose calendar day drives split assignment")
	flag.Parse()

	if *catalogPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*catalogPath, *splitTZ); code != 0 {
		os.Exit(code)
	}
}

func run(catalogPath, splitTZ string) int {
	loc, err := time.LoadLocation(splitTZ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: split timezone: %v\n", err)
		return 1
	}

	fmt.Println("=== Catalog Integrity Validation ===")
	fmt.Println()

	collection, err := loadCatalog(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load catalog: %v\n", err)
		return 1
	}
	report, err := loadReport(catalogPath + ".report.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load report: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateIdentifiers(collection),
		validateGeometry(collection),
		validateSplits(collection, loc),
		validateProvenance(collection),
		validateAccounting(collection, report),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Items: %d catalog, %d dropped, %d failed, %d total enumerated\n",
		len(collection.Features), len(report.Dropped), len(report.Failed), report.Total)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadCatalog(path string) (*stacexport.ItemCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var collection stacexport.ItemCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, err
	}
	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected collection type %q", collection.Type)
	}
	return &collection, nil
}

func loadReport(path string) (*stacexport.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report stacexport.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ── Phase 1: Identifiers ──
// Every item carries a non-empty, unique ID and a collection reference.

func validateIdentifiers(c *stacexport.ItemCollection) *phase {
	p := &phase{name: "Phase 1: Identifiers"}

	seen := map[string]bool{}
	for i, item := range c.Features {
		if item.Id == "" {
			p.errorf("item %d: empty ID", i)
			continue
		}
		if seen[item.Id] {
			p.errorf("item %d: duplicate ID %q", i, item.Id)
		}
		seen[item.Id] = true

		if item.Collection == "" {
			p.errorf("item %d (%s): no collection reference", i, item.Id)
		}
	}
	if c.NumberReturned != len(c.Features) {
		p.errorf("numberReturned=%d but %d features present", c.NumberReturned, len(c.Features))
	}
	return p
}

// ── Phase 2: Geometry ──
// Centroids are finite, normalized points; bbox agrees with the geometry.

func validateGeometry(c *stacexport.ItemCollection) *phase {
	p := &phase{name: "Phase 2: Geometry"}

	for i, item := range c.Features {
		lon, lat, ok := pointCoordinates(item)
		if !ok {
			p.errorf("item %d (%s): geometry is not a Point", i, item.Id)
			continue
		}
		if err := domain.ValidatePoint(domain.Point{Lon: lon, Lat: lat}); err != nil {
			p.errorf("item %d (%s): %v", i, item.Id, err)
		}
		if len(item.Bbox) == 4 {
			if item.Bbox[0] != lon || item.Bbox[1] != lat {
				p.errorf("item %d (%s): bbox does not match geometry", i, item.Id)
			}
		} else {
			p.errorf("item %d (%s): bbox has %d values, want 4", i, item.Id, len(item.Bbox))
		}
	}
	return p
}

// ── Phase 3: Splits ──
// Split labels come from the closed set and agree with the acquisition day.

func validateSplits(c *stacexport.ItemCollection, loc *time.Location) *phase {
	p := &phase{name: "Phase 3: Split assignment"}

	valid := map[string]bool{
		string(domain.SplitTrain):      true,
		string(domain.SplitValidation): true,
		string(domain.SplitTest):       true,
	}

	for i, item := range c.Features {
		split, _ := item.Properties["catalog:split"].(string)
		if !valid[split] {
			p.errorf("item %d (%s): split %q not in {train, validation, test}", i, item.Id, split)
			continue
		}

		timeMicro, ok := microProperty(item, "catalog:time_start_us")
		if !ok || timeMicro <= 0 {
			p.errorf("item %d (%s): missing or non-positive catalog:time_start_us", i, item.Id)
			continue
		}
		if want := string(domain.AssignSplit(timeMicro, loc)); split != want {
			p.errorf("item %d (%s): split %q but acquisition day implies %q", i, item.Id, split, want)
		}
	}
	return p
}

// ── Phase 4: Provenance ──
// The satellite granule identifier is mandatory; the radar granule property
// is absent for unpaired pretraining items but never empty when present.
// Storm items carry complete storm fields.

func validateProvenance(c *stacexport.ItemCollection) *phase {
	p := &phase{name: "Phase 4: Provenance"}

	for i, item := range c.Features {
		if s, _ := item.Properties["catalog:satellite_granule_id"].(string); s == "" {
			p.errorf("item %d (%s): empty satellite granule ID", i, item.Id)
		}
		if v, ok := item.Properties["catalog:radar_granule_id"]; ok {
			if s, _ := v.(string); s == "" {
				p.errorf("item %d (%s): empty radar granule ID", i, item.Id)
			}
		}
		if s, _ := item.Properties["platform"].(string); s == "" {
			p.errorf("item %d (%s): empty platform", i, item.Id)
		}

		isStorm, _ := item.Properties["catalog:is_storm"].(bool)
		if _, hasStormID := item.Properties["storm:id"]; hasStormID && !isStorm {
			p.errorf("item %d (%s): storm fields on non-storm item", i, item.Id)
		}
	}
	return p
}

// ── Phase 5: Accounting ──
// Catalog size and report counts add up; no ID appears in two buckets.

func validateAccounting(c *stacexport.ItemCollection, r *stacexport.Report) *phase {
	p := &phase{name: "Phase 5: Report accounting"}

	if r.Built != len(c.Features) {
		p.errorf("report says %d built, catalog holds %d", r.Built, len(c.Features))
	}
	if sum := r.Built + len(r.Dropped) + len(r.Failed); sum != r.Total {
		p.errorf("built+dropped+failed=%d, total=%d", sum, r.Total)
	}

	catalogIDs := map[string]bool{}
	for _, item := range c.Features {
		catalogIDs[item.Id] = true
	}
	for _, f := range r.Dropped {
		if catalogIDs[f.ID] {
			p.errorf("ID %s both dropped and in catalog", f.ID)
		}
		if f.Reason == "" {
			p.errorf("dropped ID %s has no reason", f.ID)
		}
	}
	for _, f := range r.Failed {
		if catalogIDs[f.ID] {
			p.errorf("ID %s both failed and in catalog", f.ID)
		}
		if f.Reason == "" {
			p.errorf("failed ID %s has no reason", f.ID)
		}
	}
	return p
}

// ── Helpers ──

// pointCoordinates digs the lon/lat out of a decoded Point geometry.
func pointCoordinates(item *stac.Item) (lon, lat float64, ok bool) {
	geom, isMap := item.Geometry.(map[string]any)
	if !isMap || geom["type"] != "Point" {
		return 0, 0, false
	}
	coords, isSlice := geom["coordinates"].([]any)
	if !isSlice || len(coords) != 2 {
		return 0, 0, false
	}
	lon, lonOK := coords[0].(float64)
	lat, latOK := coords[1].(float64)
	return lon, lat, lonOK && latOK
}

// microProperty reads an integer microsecond property that json decoded as
// float64.
func microProperty(item *stac.Item, key string) (int64, bool) {
	v, ok := item.Properties[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return int64(f), true
}
