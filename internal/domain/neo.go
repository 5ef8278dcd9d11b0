package domain

import (
	"context"
	"errors"
	"sort"
	"time"
)

//go:generate mockgen -destination=mocks/mock_neo_source.go -package=mocks . NEOSource

// DefaultImpactAngle is the impact angle assumed for a NEO when none is given.
const DefaultImpactAngle = 45.0

// ErrNEONotFound is returned by a NEOSource for an unknown object id.
var ErrNEONotFound = errors.New("near-earth object not found")

// NEOSource supplies normalised near-Earth object data. Implementations do
// network I/O; the physics and report code never call one directly.
type NEOSource interface {
	// Feed returns objects with a close approach between start and end
	// inclusive (calendar days, UTC).
	Feed(ctx context.Context, start, end time.Time) ([]NearEarthObject, error)
	// Lookup returns one object by its NeoWs id.
	Lookup(ctx context.Context, id string) (NearEarthObject, error)
}

// DiameterKm is an estimated diameter range.
type DiameterKm struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Velocity is the relative velocity at close approach.
type Velocity struct {
	KmS float64 `json:"km_s"`
	KmH float64 `json:"km_h"`
}

// MissDistance is the close approach distance in several units.
type MissDistance struct {
	Km           float64 `json:"km"`
	Lunar        float64 `json:"lunar"`
	Astronomical float64 `json:"astronomical"`
}

// OrbitalElements are the subset of orbital data kept for display.
type OrbitalElements struct {
	Eccentricity    float64 `json:"eccentricity"`
	SemiMajorAxisAU float64 `json:"semi_major_axis_au"`
	InclinationDeg  float64 `json:"inclination_deg"`
	PeriodDays      float64 `json:"orbital_period_days"`
}

// NearEarthObject is a NEO normalised from the NeoWs representation, using
// its first close approach.
type NearEarthObject struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	JPLURL            string          `json:"nasa_jpl_url,omitempty"`
	Diameter          DiameterKm      `json:"diameter_km"`
	Velocity          Velocity        `json:"velocity"`
	MissDistance      MissDistance    `json:"miss_distance"`
	CloseApproachDate string          `json:"close_approach_date,omitempty"`
	Orbital           OrbitalElements `json:"orbital"`
	Hazardous         bool            `json:"is_hazardous"`
	AbsoluteMagnitude float64         `json:"absolute_magnitude_h"`
}

// EstimateDensity guesses bulk density in kg/m³ from the absolute magnitude:
// faint objects are assumed carbonaceous, bright ones stony or metallic.
func EstimateDensity(absoluteMagnitude float64) float64 {
	switch {
	case absoluteMagnitude > 20:
		return 1500
	case absoluteMagnitude > 17:
		return 2500
	default:
		return 3500
	}
}

// PrepareImpactSimulation normalises a NEO into impact parameters. An
// angleDeg of 0 selects DefaultImpactAngle. The result is not validated; a
// NEO without velocity data yields parameters that fail Validate.
func PrepareImpactSimulation(neo NearEarthObject, angleDeg float64) ImpactParameters {
	if angleDeg == 0 {
		angleDeg = DefaultImpactAngle
	}
	return ImpactParameters{
		DiameterM:   neo.Diameter.Average * 1000,
		DensityKgM3: EstimateDensity(neo.AbsoluteMagnitude),
		VelocityKmS: neo.Velocity.KmS,
		AngleDeg:    angleDeg,
	}
}

// SortByMissDistance orders neos nearest first, in place.
func SortByMissDistance(neos []NearEarthObject) {
	sort.SliceStable(neos, func(i, j int) bool {
		return neos[i].MissDistance.Km < neos[j].MissDistance.Km
	})
}

// FilterHazardous returns the potentially hazardous objects, preserving order.
func FilterHazardous(neos []NearEarthObject) []NearEarthObject {
	out := make([]NearEarthObject, 0, len(neos))
	for _, n := range neos {
		if n.Hazardous {
			out = append(out, n)
		}
	}
	return out
}
