package domain

import (
	"fmt"
	"math"
	"sort"
)

const (
	// EarthRadiusKm is the mean Earth radius used for haversine distances.
	EarthRadiusKm = 6371.0

	// areaTypeRadiusKm is how close the impact must be to a reference city for
	// the area to take that city's class.
	areaTypeRadiusKm = 50.0

	// backgroundWeight scales background density down to limit double
	// counting with the city disks.
	backgroundWeight = 0.3
)

// OverlapModel selects how much of a city disk counts as inside the query
// circle.
type OverlapModel string

const (
	// OverlapArea weights a city by the share of its disk area covered by the
	// query circle. Monotone in the query radius. Reports under this default
	// do not match historical cosine values: a city whose disk contains the
	// query circle counts r1²/r2² of its population here, all of it there.
	OverlapArea OverlapModel = "area"

	// OverlapCosine is the law-of-cosines expression
	// (r1²+r2²−d²)/(2·r1·r2) clamped to [0, 1], with full overlap whenever one
	// circle contains the other. It reproduces historical report values but is
	// not monotone in the query radius.
	OverlapCosine OverlapModel = "cosine"
)

// ParseOverlapModel accepts "area" or "cosine".
func ParseOverlapModel(s string) (OverlapModel, error) {
	switch OverlapModel(s) {
	case OverlapArea, OverlapCosine:
		return OverlapModel(s), nil
	default:
		return "", fmt.Errorf("%w: unknown overlap model %q", ErrInvalidArgument, s)
	}
}

// Severity bands for cities inside a query radius.
const (
	CitySeverityTotal        = "total"
	CitySeverityCatastrophic = "catastrophic"
	CitySeveritySevere       = "severe"
	CitySeverityModerate     = "moderate"
	CitySeverityLight        = "light"
)

// AffectedCity is a reference city inside a query radius.
type AffectedCity struct {
	City
	DistanceKm float64 `json:"distance_km"`
	Severity   string  `json:"severity"`
}

// ZoneSpec is a named radius with the share of its population that dies.
// A zero MortalityRate means 1.
type ZoneSpec struct {
	RadiusKm      float64 `json:"radius_km"`
	MortalityRate float64 `json:"mortality_rate,omitempty"`
}

// ZoneCasualties is the population and casualty split for one ZoneSpec.
type ZoneCasualties struct {
	Population int64   `json:"population"`
	Deaths     int64   `json:"deaths"`
	Injured    int64   `json:"injured"`
	RadiusKm   float64 `json:"radius_km"`
}

// EstimatorOption customises a PopulationEstimator.
type EstimatorOption func(*PopulationEstimator)

// WithOverlapModel selects the city overlap model. The default is OverlapArea.
func WithOverlapModel(m OverlapModel) EstimatorOption {
	return func(e *PopulationEstimator) {
		if m != "" {
			e.overlap = m
		}
	}
}

// WithCities replaces the reference city dataset.
func WithCities(cities []City) EstimatorOption {
	return func(e *PopulationEstimator) {
		e.cities = cities
	}
}

// PopulationEstimator estimates people affected around a fixed impact point.
// It is immutable after construction and safe for concurrent use.
type PopulationEstimator struct {
	loc      Location
	cities   []City
	overlap  OverlapModel
	areaType AreaType
}

// NewPopulationEstimator validates loc and classifies its area type once.
func NewPopulationEstimator(loc Location, opts ...EstimatorOption) (*PopulationEstimator, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	e := &PopulationEstimator{
		loc:     loc,
		cities:  MajorCities,
		overlap: OverlapArea,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.areaType = e.classifyArea()
	return e, nil
}

// Location returns the impact coordinate.
func (e *PopulationEstimator) Location() Location { return e.loc }

// AreaType returns the land-use class of the impact point.
func (e *PopulationEstimator) AreaType() AreaType { return e.areaType }

// EstimatePopulationInRadius returns the estimated number of people within
// radiusKm of the impact point: overlap-weighted city populations plus a
// background term. A radius of 0 yields 0.
func (e *PopulationEstimator) EstimatePopulationInRadius(radiusKm float64) (int64, error) {
	if err := validateRadius(radiusKm); err != nil {
		return 0, err
	}
	return toCount(e.populationInRadius(radiusKm)), nil
}

func (e *PopulationEstimator) populationInRadius(radiusKm float64) float64 {
	if radiusKm == 0 {
		return 0
	}

	var total float64
	for _, c := range e.cities {
		d := HaversineKm(e.loc.Lat, e.loc.Lon, c.Lat, c.Lon)
		cityRadius := CityRadius(c.Population)
		if d > radiusKm+cityRadius {
			continue
		}
		total += float64(c.Population) * e.overlapFraction(d, radiusKm, cityRadius)
	}

	area := math.Pi * radiusKm * radiusKm
	total += area * e.areaType.Density() * backgroundWeight

	return math.Round(total)
}

func (e *PopulationEstimator) overlapFraction(d, r1, r2 float64) float64 {
	if e.overlap == OverlapCosine {
		return CosineOverlap(d, r1, r2)
	}
	return CalculateOverlap(d, r1, r2)
}

// AffectedCities returns the reference cities whose centres lie within
// radiusKm, nearest first, each tagged with a severity band.
func (e *PopulationEstimator) AffectedCities(radiusKm float64) ([]AffectedCity, error) {
	if err := validateRadius(radiusKm); err != nil {
		return nil, err
	}

	affected := make([]AffectedCity, 0)
	for _, c := range e.cities {
		d := HaversineKm(e.loc.Lat, e.loc.Lon, c.Lat, c.Lon)
		if d > radiusKm {
			continue
		}
		affected = append(affected, AffectedCity{
			City:       c,
			DistanceKm: d,
			Severity:   citySeverity(d, radiusKm),
		})
	}

	sort.SliceStable(affected, func(i, j int) bool {
		return affected[i].DistanceKm < affected[j].DistanceKm
	})
	return affected, nil
}

// CasualtiesByZone estimates population and casualties for each named zone
// independently. Injured is 80% of the survivors.
func (e *PopulationEstimator) CasualtiesByZone(zones map[string]ZoneSpec) (map[string]ZoneCasualties, error) {
	out := make(map[string]ZoneCasualties, len(zones))
	for name, z := range zones {
		pop, err := e.EstimatePopulationInRadius(z.RadiusKm)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", name, err)
		}
		mortality := z.MortalityRate
		if mortality == 0 {
			mortality = 1
		}
		p := float64(pop)
		out[name] = ZoneCasualties{
			Population: pop,
			Deaths:     toCount(p * mortality),
			Injured:    toCount(p * (1 - mortality) * 0.8),
			RadiusKm:   z.RadiusKm,
		}
	}
	return out, nil
}

// classifyArea picks the background density class of the impact point.
func (e *PopulationEstimator) classifyArea() AreaType {
	for _, c := range e.cities {
		if HaversineKm(e.loc.Lat, e.loc.Lon, c.Lat, c.Lon) < areaTypeRadiusKm {
			switch {
			case c.Population > 10_000_000:
				return AreaMegacity
			case c.Population > 5_000_000:
				return AreaMajorCity
			default:
				return AreaCity
			}
		}
	}

	if isOcean(e.loc.Lat, e.loc.Lon) {
		return AreaOcean
	}

	absLat := math.Abs(e.loc.Lat)
	switch {
	case absLat > 60:
		return AreaRemote
	case absLat > 45:
		return AreaRural
	default:
		return AreaSuburban
	}
}

// isOcean approximates the Pacific, Atlantic and Indian basins with boxes.
func isOcean(lat, lon float64) bool {
	if (lon > 140 || lon < -80) && math.Abs(lat) < 60 {
		return true
	}
	if lon > -80 && lon < -10 && lat < 10 && lat > -60 {
		return true
	}
	if lon > 40 && lon < 120 && lat < 10 && lat > -60 {
		return true
	}
	return false
}

func citySeverity(distance, radius float64) string {
	ratio := distance / radius
	switch {
	case ratio < 0.2:
		return CitySeverityTotal
	case ratio < 0.4:
		return CitySeverityCatastrophic
	case ratio < 0.6:
		return CitySeveritySevere
	case ratio < 0.8:
		return CitySeverityModerate
	default:
		return CitySeverityLight
	}
}

// CityRadius is the radius in km of a disk holding population at megacity
// density.
func CityRadius(population int64) float64 {
	return math.Sqrt(float64(population) / (math.Pi * AreaMegacity.Density()))
}

// HaversineKm returns the great-circle distance in km between two points
// given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// CalculateOverlap returns the share of a city disk of radius r2 that lies
// inside a query circle of radius r1 whose centre is distance away. The
// result is in [0, 1]: 1 when the city is wholly inside, 0 when the circles
// do not intersect or either radius is 0.
func CalculateOverlap(distance, r1, r2 float64) float64 {
	if r1 <= 0 || r2 <= 0 {
		return 0
	}
	if distance >= r1+r2 {
		return 0
	}
	if distance <= math.Abs(r1-r2) {
		if r1 >= r2 {
			return 1
		}
		return (r1 * r1) / (r2 * r2)
	}

	d := distance
	a1 := r1 * r1 * math.Acos(clamp((d*d+r1*r1-r2*r2)/(2*d*r1), -1, 1))
	a2 := r2 * r2 * math.Acos(clamp((d*d+r2*r2-r1*r1)/(2*d*r2), -1, 1))
	k := (-d + r1 + r2) * (d + r1 - r2) * (d - r1 + r2) * (d + r1 + r2)
	lens := a1 + a2 - 0.5*math.Sqrt(math.Max(k, 0))

	return clamp(lens/(math.Pi*r2*r2), 0, 1)
}

// CosineOverlap is the law-of-cosines overlap. See OverlapCosine.
func CosineOverlap(distance, r1, r2 float64) float64 {
	if r1 <= 0 || r2 <= 0 {
		return 0
	}
	if distance >= r1+r2 {
		return 0
	}
	if distance <= math.Abs(r1-r2) {
		return 1
	}
	v := (r1*r1 + r2*r2 - distance*distance) / (2 * r1 * r2)
	return clamp(v, 0, 1)
}

func validateRadius(radiusKm float64) error {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return fmt.Errorf("%w: radius_km must be a finite non-negative number (got %v)", ErrInvalidArgument, radiusKm)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// toCount rounds a non-negative population figure, saturating at
// math.MaxInt64 for the very large perception radii of big impacts.
func toCount(v float64) int64 {
	v = math.Round(v)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(v)
	}
}
