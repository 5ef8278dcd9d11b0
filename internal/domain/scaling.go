package domain

import (
	"fmt"
	"math"
)

const (
	// JoulesPerMegaton is the energy of one megaton of TNT.
	JoulesPerMegaton = 4.184e15

	hiroshimaMegatons = 0.015
	tsarBombaMegatons = 50.0

	// Exponents of the overpressure and thermal families.
	overpressureExp = 0.33
	thermalExp      = 0.41

	maxShockwaveDecibels = 280.0
)

// Mass returns the mass in kg of a sphere of the given diameter and density.
func Mass(diameterM, densityKgM3 float64) float64 {
	r := diameterM / 2
	return (4.0 / 3.0) * math.Pi * r * r * r * densityKgM3
}

// KineticEnergy returns 0.5·m·v² in joules. Velocity is in m/s.
func KineticEnergy(massKg, velocityMS float64) float64 {
	return 0.5 * massKg * velocityMS * velocityMS
}

// EnergyToMegatons converts joules to megatons of TNT.
func EnergyToMegatons(energyJ float64) float64 {
	return energyJ / JoulesPerMegaton
}

// MegatonsToJoules converts megatons of TNT to joules.
func MegatonsToJoules(energyMT float64) float64 {
	return energyMT * JoulesPerMegaton
}

// CraterDiameter returns the final crater diameter in km (Collins et al.
// 2005). A non-positive targetDensity selects DefaultTargetDensity. An angle
// of 0 yields exactly 0.
func CraterDiameter(energyMT, angleDeg, targetDensity float64) float64 {
	if targetDensity <= 0 {
		targetDensity = DefaultTargetDensity
	}
	energyJ := MegatonsToJoules(energyMT)
	sinAngle := math.Sin(angleDeg * math.Pi / 180)
	if sinAngle <= 0 {
		return 0
	}

	diameterM := 1.161 *
		math.Pow(energyJ, 0.302) *
		math.Pow(targetDensity, -0.302) *
		math.Pow(sinAngle, 0.302)

	return diameterM / 1000
}

// CraterDepth returns the crater depth in metres for a 1:5 depth to diameter
// ratio.
func CraterDepth(craterDiameterKm float64) float64 {
	return craterDiameterKm * 1000 / 5
}

// SeismicMagnitude returns a Richter-equivalent magnitude. Small energies give
// negative magnitudes; the value is never clamped.
func SeismicMagnitude(energyJ float64) float64 {
	return (2.0/3.0)*math.Log10(energyJ) - 3.2
}

// BlastRadius is the 20 psi overpressure radius in km.
func BlastRadius(energyMT float64) float64 {
	return 2.2 * math.Pow(energyMT, overpressureExp)
}

// ThermalRadius is the 3rd-degree burn radius in km.
func ThermalRadius(energyMT float64) float64 {
	return 3.5 * math.Pow(energyMT, thermalExp)
}

// FireballDiameter returns the fireball diameter in km.
func FireballDiameter(energyMT float64) float64 {
	return 1.9 * math.Pow(energyMT, 0.4)
}

// LungDamageRadius returns the radius in km of overpressure causing lung damage.
func LungDamageRadius(energyMT float64) float64 {
	return 1.5 * math.Pow(energyMT, overpressureExp)
}

// EardrumRuptureRadius returns the radius in km within which eardrums rupture.
func EardrumRuptureRadius(energyMT float64) float64 {
	return 2.5 * math.Pow(energyMT, overpressureExp)
}

// BuildingCollapseRadius returns the radius in km of multistory building collapse.
func BuildingCollapseRadius(energyMT float64) float64 {
	return 2.8 * math.Pow(energyMT, overpressureExp)
}

// HomeCollapseRadius returns the radius in km of wood-frame home collapse.
func HomeCollapseRadius(energyMT float64) float64 {
	return 3.5 * math.Pow(energyMT, overpressureExp)
}

// TreeFallRadius returns the radius in km within which trees are knocked down.
func TreeFallRadius(energyMT float64) float64 {
	return 4.2 * math.Pow(energyMT, overpressureExp)
}

// SecondDegreeBurnsRadius returns the radius in km of second-degree burns.
func SecondDegreeBurnsRadius(energyMT float64) float64 {
	return 4.5 * math.Pow(energyMT, thermalExp)
}

// ClothesIgnitionRadius returns the radius in km within which clothing ignites.
func ClothesIgnitionRadius(energyMT float64) float64 {
	return 2.8 * math.Pow(energyMT, thermalExp)
}

// TreeIgnitionRadius returns the radius in km within which trees ignite.
func TreeIgnitionRadius(energyMT float64) float64 {
	return 3.2 * math.Pow(energyMT, thermalExp)
}

// ShockwaveDecibels estimates peak loudness from the 20 psi overpressure
// scaled to the energy, capped at 280 dB.
func ShockwaveDecibels(energyMT float64) float64 {
	pressurePSI := 20 * math.Pow(energyMT, overpressureExp)
	db := 194 + 20*math.Log10(pressurePSI)
	return math.Min(db, maxShockwaveDecibels)
}

// WindSpeed is the peak blast wind speed in km/s.
func WindSpeed(energyMT float64) float64 {
	return 0.35 * math.Pow(energyMT, 0.25)
}

// EarthquakePerceptionRadius is the distance in km at which the impact
// tremor is still felt.
func EarthquakePerceptionRadius(magnitude float64) float64 {
	return math.Pow(10, magnitude-2)
}

// CompareToHiroshima returns the energy as a multiple of the 15 kt Hiroshima
// bomb.
func CompareToHiroshima(energyMT float64) float64 {
	return energyMT / hiroshimaMegatons
}

// EnergyComparison labels the event scale against Hiroshima or, for very
// large events, the 50 MT Tsar Bomba.
func EnergyComparison(energyMT float64) string {
	ratio := CompareToHiroshima(energyMT)
	switch {
	case ratio < 0.1:
		return "Small event (meteor)"
	case ratio < 1:
		return fmt.Sprintf("%.2f× Hiroshima", ratio)
	case ratio < 100:
		return fmt.Sprintf("%.1f× Hiroshima", ratio)
	case ratio < 1000:
		return fmt.Sprintf("%.0f× Hiroshima", ratio)
	default:
		return fmt.Sprintf("%.1f× Tsar Bomba", energyMT/tsarBombaMegatons)
	}
}

// FrequencyLabel gives a rough recurrence interval for impacts of this
// energy, based on NEO population statistics.
func FrequencyLabel(energyMT float64) string {
	switch {
	case energyMT < 1:
		return "About once a year"
	case energyMT < 10:
		return "About once every 100 years"
	case energyMT < 100:
		return "About once every 1 thousand years"
	case energyMT < 1000:
		return "About once every 10 thousand years"
	case energyMT < 10000:
		return "About once every 100 thousand years"
	default:
		return "About once every 1 million years"
	}
}
