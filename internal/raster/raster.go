// Package raster reads GeoTIFF headers (projection, shape, transform, tags)
// and reprojects their bounds to geographic coordinates. Pixel data is never
// touched. The GDAL-backed implementation lives behind HeaderReader so the
// builder and its tests stay free of CGO.
package raster

import (
	"context"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// Header is the raster metadata needed to build a footprint.
type Header struct {
	// CRS is the raster's projection, as reported by the file (WKT). Empty
	// when the file carries none.
	CRS string

	Bands  int
	Height int
	Width  int

	// Transform is the GDAL-order affine geotransform
	// (originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight).
	Transform [6]float64

	// Tags are the file's default-domain metadata items (acquisition_time
	// among them, when present).
	Tags map[string]string

	// GeoBounds is the raster's bounding box reprojected to WGS-84 lon/lat.
	// Reprojection of off-disk geostationary corners can yield non-finite
	// values; validation downstream decides the sample's fate.
	GeoBounds domain.Bounds
}

// HeaderReader extracts a Header from a raster file.
type HeaderReader interface {
	ReadHeader(ctx context.Context, path string) (Header, error)
}
