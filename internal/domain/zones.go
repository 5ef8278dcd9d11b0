package domain

import (
	"fmt"
	"math"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Supported output coordinate reference systems for zone geometry.
const (
	CRSWGS84       = 4326
	CRSWebMercator = 3857
)

const (
	zoneVertices = 64

	// maxZoneRadiusKm keeps rings just short of the antipode, where the
	// circle degenerates to a point.
	maxZoneRadiusKm = math.Pi*EarthRadiusKm - 1

	// Web Mercator is undefined at the poles.
	maxMercatorLat = 85.05112878
)

// DamageZone is one concentric ring drawn around the impact point.
type DamageZone struct {
	Name     string   `json:"name"`
	RadiusKm float64  `json:"radius_km"`
	Severity Severity `json:"severity"`
}

// DamageZones lists the map rings for an impact, innermost first. Rings with
// a non-positive radius are omitted and radii are capped below half the
// Earth's circumference.
func DamageZones(phys PhysicalOutputs) []DamageZone {
	candidates := []DamageZone{
		{Name: "crater", RadiusKm: phys.CraterDiameterKm / 2, Severity: SeverityCritical},
		{Name: "blast", RadiusKm: phys.BlastRadiusKm, Severity: SeverityHigh},
		{Name: "thermal", RadiusKm: phys.ThermalRadiusKm, Severity: SeverityHigh},
		{Name: "seismic", RadiusKm: phys.EarthquakePerceptionRadiusKm, Severity: SeverityMedium},
	}

	zones := make([]DamageZone, 0, len(candidates))
	for _, z := range candidates {
		if !(z.RadiusKm > 0) {
			continue
		}
		z.RadiusKm = math.Min(z.RadiusKm, maxZoneRadiusKm)
		zones = append(zones, z)
	}
	return zones
}

// ZonesFeatureCollection renders zones as GeoJSON polygons centred on loc.
// Each ring is approximated by geodesic destination points. crs is
// CRSWGS84 or CRSWebMercator. Longitudes are left continuous across the
// antimeridian. A ring that does not form a valid polygon in the requested
// crs, such as one enclosing a pole, is reported as ErrInvalidArgument.
func ZonesFeatureCollection(loc Location, zones []DamageZone, crs int) (geom.GeoJSONFeatureCollection, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	var project func(lon, lat float64) (float64, float64)
	switch crs {
	case CRSWGS84:
		project = func(lon, lat float64) (float64, float64) { return lon, lat }
	case CRSWebMercator:
		transform := wgs84.EPSG().Transform(CRSWGS84, CRSWebMercator)
		project = func(lon, lat float64) (float64, float64) {
			lat = clamp(lat, -maxMercatorLat, maxMercatorLat)
			x, y, _ := transform(lon, lat, 0)
			return x, y
		}
	default:
		return nil, fmt.Errorf("%w: unsupported crs %d", ErrInvalidArgument, crs)
	}

	fc := make(geom.GeoJSONFeatureCollection, 0, len(zones))
	for _, z := range zones {
		ring, err := circleRing(loc, z.RadiusKm, project)
		if err != nil {
			return nil, fmt.Errorf("%w: zone %s: %w", ErrInvalidArgument, z.Name, err)
		}
		poly, err := geom.NewPolygon([]geom.LineString{ring})
		if err != nil {
			return nil, fmt.Errorf("%w: zone %s: %w", ErrInvalidArgument, z.Name, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: poly.AsGeometry(),
			ID:       z.Name,
			Properties: map[string]any{
				"name":      z.Name,
				"radius_km": z.RadiusKm,
				"severity":  string(z.Severity),
				"crs":       fmt.Sprintf("EPSG:%d", crs),
			},
		})
	}
	return fc, nil
}

// circleRing returns a closed ring of points at distance radiusKm from loc.
func circleRing(loc Location, radiusKm float64, project func(lon, lat float64) (float64, float64)) (geom.LineString, error) {
	coords := make([]float64, 0, (zoneVertices+1)*2)
	for i := 0; i <= zoneVertices; i++ {
		bearing := 2 * math.Pi * float64(i%zoneVertices) / zoneVertices
		lat, lon := destination(loc.Lat, loc.Lon, bearing, radiusKm)
		x, y := project(lon, lat)
		coords = append(coords, x, y)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

// destination returns the point reached from (lat, lon) after travelling
// distanceKm along the great circle with the given initial bearing (radians).
// The longitude is unwrapped relative to the start.
func destination(lat, lon, bearing, distanceKm float64) (float64, float64) {
	rad := math.Pi / 180
	phi1 := lat * rad
	lambda1 := lon * rad
	delta := distanceKm / EarthRadiusKm

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(bearing)
	phi2 := math.Asin(clamp(sinPhi2, -1, 1))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(bearing)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2),
	)

	return phi2 / rad, lambda2 / rad
}
