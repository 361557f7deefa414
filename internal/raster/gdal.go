package raster

import (
	"context"
	"fmt"

	"github.com/airbusgeo/godal"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// GDALReader implements HeaderReader on top of godal. One instance is shared
// across workers; godal datasets themselves are opened and closed within a
// single ReadHeader call and never escape it.
type GDALReader struct{}

// NewGDALReader returns a reader. godal.RegisterAll must have been called
// once at process startup.
func NewGDALReader() *GDALReader {
	return &GDALReader{}
}

// ReadHeader opens the raster, reads its structure, geotransform, projection
// and default-domain metadata, and reprojects the bounding box corners to
// WGS-84.
func (r *GDALReader) ReadHeader(ctx context.Context, path string) (Header, error) {
	if err := ctx.Err(); err != nil {
		return Header{}, err
	}

	ds, err := godal.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("open raster %s: %w", path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	if structure.NBands < 1 {
		return Header{}, fmt.Errorf("raster %s has no bands", path)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return Header{}, fmt.Errorf("raster %s has no geotransform: %w", path, err)
	}

	hdr := Header{
		CRS:       ds.Projection(),
		Bands:     structure.NBands,
		Height:    structure.SizeY,
		Width:     structure.SizeX,
		Transform: gt,
		Tags:      ds.Metadatas(),
	}

	bounds, err := reprojectBounds(ds, gt, structure.SizeX, structure.SizeY)
	if err != nil {
		return Header{}, fmt.Errorf("reproject bounds of %s: %w", path, err)
	}
	hdr.GeoBounds = bounds

	return hdr, nil
}

// reprojectBounds transforms the (left,bottom) and (right,top) corners of the
// raster into WGS-84 lon/lat, mirroring the upstream colocation pipeline.
func reprojectBounds(ds *godal.Dataset, gt [6]float64, sizeX, sizeY int) (domain.Bounds, error) {
	src := ds.SpatialRef()
	if src == nil {
		return domain.Bounds{}, fmt.Errorf("raster has no spatial reference")
	}
	defer src.Close()

	dst, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return domain.Bounds{}, fmt.Errorf("create WGS-84 spatial ref: %w", err)
	}
	defer dst.Close()

	trn, err := godal.NewTransform(src, dst)
	if err != nil {
		return domain.Bounds{}, fmt.Errorf("create coordinate transform: %w", err)
	}
	defer trn.Close()

	left, top := gt[0], gt[3]
	right := gt[0] + float64(sizeX)*gt[1] + float64(sizeY)*gt[2]
	bottom := gt[3] + float64(sizeX)*gt[4] + float64(sizeY)*gt[5]

	xs := []float64{left, right}
	ys := []float64{bottom, top}
	if err := trn.TransformEx(xs, ys, nil, nil); err != nil {
		return domain.Bounds{}, fmt.Errorf("transform corners: %w", err)
	}

	// GDAL 3 honors EPSG:4326's lat/lon axis order; we want lon/lat.
	if dst.EPSGTreatsAsLatLong() {
		xs, ys = ys, xs
	}

	return domain.Bounds{
		MinLon: xs[0],
		MinLat: ys[0],
		MaxLon: xs[1],
		MaxLat: ys[1],
	}, nil
}
