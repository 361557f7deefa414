// Package scan enumerates sample directories into SampleContexts. Ordering
// is deterministic (lexicographic per root, roots in configured order) so
// repeated runs over unchanged input produce identical context sequences.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// Enumerator lists sample contexts under the configured roots.
type Enumerator struct {
	roots         []string // each entry one directory tree of sample dirs
	stormRoots    []string // same, samples flagged storm-associated
	pretrainRoots []string // flat trees of bare patches, one file per sample
	limit         Limit
	logger        *slog.Logger
}

// NewEnumerator creates an Enumerator over the given roots.
func NewEnumerator(roots, stormRoots, pretrainRoots []string, limit Limit, logger *slog.Logger) *Enumerator {
	return &Enumerator{
		roots:         roots,
		stormRoots:    stormRoots,
		pretrainRoots: pretrainRoots,
		limit:         limit,
		logger:        logger,
	}
}

// List scans every root and returns one SampleContext per sample directory,
// in deterministic order, truncated per the configured limit. A directory
// whose name matches no sensor convention is a hard enumeration error.
func (e *Enumerator) List(ctx context.Context) ([]domain.SampleContext, error) {
	var contexts []domain.SampleContext

	for _, root := range e.roots {
		cs, err := e.scanRoot(ctx, root, false)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, cs...)
	}
	for _, root := range e.stormRoots {
		cs, err := e.scanRoot(ctx, root, true)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, cs...)
	}
	for _, root := range e.pretrainRoots {
		cs, err := e.scanPretrainRoot(ctx, root)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, cs...)
	}

	total := len(contexts)
	contexts = e.limit.Apply(contexts)
	e.logger.Info("enumerated sample contexts",
		"total", total,
		"selected", len(contexts),
		"roots", len(e.roots)+len(e.stormRoots)+len(e.pretrainRoots),
	)
	return contexts, nil
}

func (e *Enumerator) scanRoot(ctx context.Context, root string, isStorm bool) ([]domain.SampleContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root %s: %w", root, err)
	}
	// os.ReadDir sorts by name; re-sort defensively since ordering is a
	// documented guarantee, not an accident of the platform.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	contexts := make([]domain.SampleContext, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		sensor, err := domain.DetectSensor(name)
		if err != nil {
			return nil, fmt.Errorf("enumerate %s: %w", root, err)
		}
		prof, err := domain.ProfileFor(sensor)
		if err != nil {
			return nil, err
		}

		dir := filepath.Join(root, name)
		sc := domain.SampleContext{
			ID:          name,
			Dir:         dir,
			PrimaryPath: filepath.Join(dir, prof.PrimaryFile),
			Sensor:      sensor,
			IsStorm:     isStorm,
		}
		if prof.SecondaryFile != "" {
			sc.SecondaryPath = filepath.Join(dir, prof.SecondaryFile)
		}
		contexts = append(contexts, sc)
	}
	return contexts, nil
}

// scanPretrainRoot enumerates a single-file layout: one bare GeoTIFF per
// sample, identifier = file stem. Subdirectories and non-raster files are
// ignored; a raster whose stem matches no sensor convention is a hard error.
func (e *Enumerator) scanPretrainRoot(ctx context.Context, root string) ([]domain.SampleContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root %s: %w", root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	contexts := make([]domain.SampleContext, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".tif") && !strings.EqualFold(ext, ".tiff") {
			continue
		}
		stem := strings.TrimSuffix(name, ext)

		sensor, err := domain.DetectSensor(stem)
		if err != nil {
			return nil, fmt.Errorf("enumerate %s: %w", root, err)
		}

		contexts = append(contexts, domain.SampleContext{
			ID:          stem,
			Dir:         root,
			PrimaryPath: filepath.Join(root, name),
			Sensor:      sensor,
			Unpaired:    true,
		})
	}
	return contexts, nil
}
