// Package domain models colocated satellite-patch / radar-profile samples
// and the catalog records built from them.
//
// # Data Layout
//
// Each sample is one directory produced by the upstream colocation pipeline,
// containing:
//
//	geo_patch.tif          geostationary imagery patch (spectral + geometry bands)
//	cloudsat_aligned.tif   radar profile aligned to the geostationary grid
//	*_global.json          side-channel record with provenance attributes
//
// Directory names follow per-sensor conventions that also identify the
// platform:
//
//	G16_*                         GOES-16 ABI
//	MSG<N>_<YYYYMMDDHHMMSS>_*     Meteosat SEVIRI; the 14-digit field is the
//	                              acquisition timestamp
//	H<NN>_<YYYYMMDD>_<HHMM>_*     Himawari AHI
//	<YYYYMMDD>_*                  Himawari AHI (storm scans)
//
// A directory matching no convention is a hard enumeration error. The
// substring "no_flxhr" in a name means the sample lacks radiative flux and
// heating rate data (HasFluxData=false).
//
// # Timestamps
//
// Acquisition timestamps are integer microseconds since the Unix epoch.
// Depending on the sensor they come from the raster's embedded
// acquisition_time tag, from the identifier's fixed-width date field, or from
// the side-channel "start" attribute; the per-sensor trial order lives in the
// [Profile] table. Unzoned text timestamps are read as UTC.
//
// # Centroids
//
// The footprint centroid is geographic (WGS-84 lon/lat) regardless of the
// raster's native projection: the bounding box is reprojected and its
// midpoint taken. Storm-associated samples use the best-track storm center
// from the side-channel record instead. Longitudes above 180° (the [0, 360)
// convention used by some best-track basins) are normalized by subtracting
// 360. A centroid that is non-finite or outside the WGS-84 envelope drops
// the sample from the catalog; the identifier is reported, never silently
// lost.
//
// # Split Assignment
//
// The train/validation/test partition is a fixed day-of-month rule over the
// acquisition date: days 1-23 train, 24-27 validation, 28-31 test. Every day
// maps to exactly one label. See [AssignSplit].
//
// # Side-Channel Records
//
// The *_global.json record carries an "attributes" mapping with granule
// filenames (satellite_filename, cloudsat_filename), sensor-specific IDs
// (goes_id, himawari_id, cloudsat_id), the acquisition start, and for storm
// samples the IBTrACS fields SID, LAT, LON, dist_km and abs_delta_t_s (older
// records: signed delta_t). A missing record is a hard failure because the
// granule identifiers are mandatory provenance.
package domain
