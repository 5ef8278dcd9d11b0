package domain

import (
	"fmt"
	"math"
)

// Severity tags a report section for presentation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityInfo     Severity = "info"
)

// Metric is one displayable figure of a section. Value is raw; formatting is
// left to the presentation layer. Text carries non-numeric metrics such as
// the recurrence label.
type Metric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Text  string  `json:"text,omitempty"`
}

// Casualties is the deaths/injured split of a section.
type Casualties struct {
	Deaths  int64 `json:"deaths"`
	Injured int64 `json:"injured"`
}

// Section is one damage section of an ImpactReport. Casualties is nil for
// sections that carry none.
type Section struct {
	Severity    Severity    `json:"severity"`
	Metrics     []Metric    `json:"metrics"`
	Comparison  string      `json:"comparison"`
	Description string      `json:"description,omitempty"`
	Casualties  *Casualties `json:"casualties,omitempty"`
}

// Metric returns the metric with the given key.
func (s Section) Metric(key string) (Metric, bool) {
	for _, m := range s.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Summary aggregates the report. TotalDeaths counts overlapping zones
// independently and is an upper-bound style estimate.
type Summary struct {
	TotalDeaths  int64   `json:"total_deaths"`
	TotalInjured int64   `json:"total_injured"`
	TotalAreaKm2 float64 `json:"total_area_km2"`
	EventScale   string  `json:"event_scale"`
}

// ImpactReport is the six damage sections plus summary.
type ImpactReport struct {
	AreaType   AreaType `json:"area_type"`
	Crater     Section  `json:"crater"`
	Fireball   Section  `json:"fireball"`
	Shockwave  Section  `json:"shockwave"`
	WindBlast  Section  `json:"windblast"`
	Earthquake Section  `json:"earthquake"`
	Frequency  Section  `json:"frequency"`
	Summary    Summary  `json:"summary"`
}

// GenerateReport composes the damage sections for an impact at loc. phys must
// be the outputs computed for params. Invalid parameters or an out-of-range
// location fail with ErrInvalidArgument before anything is computed.
func GenerateReport(params ImpactParameters, loc Location, phys PhysicalOutputs, opts ...EstimatorOption) (ImpactReport, error) {
	if err := params.Validate(); err != nil {
		return ImpactReport{}, err
	}
	est, err := NewPopulationEstimator(loc, opts...)
	if err != nil {
		return ImpactReport{}, err
	}

	g := reportGenerator{params: params, phys: phys, est: est}
	summary, err := g.summary()
	if err != nil {
		return ImpactReport{}, err
	}

	r := ImpactReport{
		AreaType:  est.AreaType(),
		Frequency: g.frequency(),
		Summary:   summary,
	}
	sections := []struct {
		dst   *Section
		build func() (Section, error)
	}{
		{&r.Crater, g.crater},
		{&r.Fireball, g.fireball},
		{&r.Shockwave, g.shockwave},
		{&r.WindBlast, g.windBlast},
		{&r.Earthquake, g.earthquake},
	}
	for _, s := range sections {
		if *s.dst, err = s.build(); err != nil {
			return ImpactReport{}, err
		}
	}
	return r, nil
}

type reportGenerator struct {
	params ImpactParameters
	phys   PhysicalOutputs
	est    *PopulationEstimator
}

// pop queries the estimator. Radii from the scaling laws are never negative;
// an error here means phys was not produced by ComputePhysicalOutputs.
func (g reportGenerator) pop(radiusKm float64) (float64, error) {
	n, err := g.est.EstimatePopulationInRadius(radiusKm)
	if err != nil {
		return 0, fmt.Errorf("population query: %w", err)
	}
	return float64(n), nil
}

func (g reportGenerator) crater() (Section, error) {
	p := g.phys
	vaporized, err := g.pop(p.CraterDiameterKm / 2)
	if err != nil {
		return Section{}, err
	}

	return Section{
		Severity: SeverityCritical,
		Metrics: []Metric{
			{Key: "crater_diameter", Label: "Crater diameter", Value: p.CraterDiameterKm, Unit: "km"},
			{Key: "crater_depth", Label: "Crater depth", Value: p.CraterDepthM, Unit: "m"},
			{Key: "impact_velocity", Label: "Impact velocity", Value: g.params.VelocityKmS, Unit: "km/s"},
			{Key: "energy", Label: "Energy released", Value: p.EnergyMegatons, Unit: "Mt TNT"},
			{Key: "vaporized_population", Label: "Population vaporized", Value: vaporized, Unit: "people"},
		},
		Comparison: energyCommentary(p.EnergyMegatons),
		Casualties: &Casualties{Deaths: toCount(vaporized)},
	}, nil
}

func (g reportGenerator) fireball() (Section, error) {
	p := g.phys
	deaths, err := g.pop(p.ThermalRadiusKm)
	if err != nil {
		return Section{}, err
	}
	inner, err := g.pop(p.ThermalRadiusKm * 0.7)
	if err != nil {
		return Section{}, err
	}
	burn2Zone, err := g.pop(p.SecondDegreeBurnsRadiusKm)
	if err != nil {
		return Section{}, err
	}
	burns3rd := math.Max(0, deaths-inner)
	burns2nd := math.Max(0, burn2Zone-deaths)

	return Section{
		Severity: SeverityHigh,
		Metrics: []Metric{
			{Key: "fireball_diameter", Label: "Fireball diameter", Value: p.FireballDiameterKm, Unit: "km"},
			{Key: "thermal_deaths", Label: "Deaths from thermal radiation", Value: deaths, Unit: "people"},
			{Key: "third_degree_burns", Label: "Third-degree burns", Value: burns3rd, Unit: "people"},
			{Key: "second_degree_burns", Label: "Second-degree burns", Value: burns2nd, Unit: "people"},
			{Key: "clothes_ignition_radius", Label: "Clothes ignite within", Value: p.ClothesIgnitionRadiusKm, Unit: "km"},
			{Key: "tree_ignition_radius", Label: "Trees ignite within", Value: p.TreeIgnitionRadiusKm, Unit: "km"},
		},
		Comparison: "Thermal radiation causes severe burns far beyond the fireball itself",
		Casualties: &Casualties{Deaths: toCount(deaths), Injured: toCount(burns2nd)},
	}, nil
}

func (g reportGenerator) shockwave() (Section, error) {
	p := g.phys
	deaths, err := g.pop(p.BuildingCollapseRadiusKm)
	if err != nil {
		return Section{}, err
	}
	eardrum, err := g.pop(p.EardrumRuptureRadiusKm)
	if err != nil {
		return Section{}, err
	}

	return Section{
		Severity: SeverityHigh,
		Metrics: []Metric{
			{Key: "decibels", Label: "Peak loudness", Value: p.ShockwaveDecibels, Unit: "dB"},
			{Key: "overpressure_deaths", Label: "Deaths from overpressure", Value: deaths, Unit: "people"},
			{Key: "lung_damage_radius", Label: "Lung damage within", Value: p.LungDamageRadiusKm, Unit: "km"},
			{Key: "eardrum_rupture_radius", Label: "Eardrums rupture within", Value: p.EardrumRuptureRadiusKm, Unit: "km"},
			{Key: "building_collapse_radius", Label: "Buildings collapse within", Value: p.BuildingCollapseRadiusKm, Unit: "km"},
			{Key: "home_collapse_radius", Label: "Homes collapse within", Value: p.HomeCollapseRadiusKm, Unit: "km"},
		},
		Comparison: "The shock wave travels faster than sound",
		Casualties: &Casualties{Deaths: toCount(deaths), Injured: toCount(eardrum * 0.5)},
	}, nil
}

func (g reportGenerator) windBlast() (Section, error) {
	p := g.phys
	deaths, err := g.pop(p.HomeCollapseRadiusKm * 0.6)
	if err != nil {
		return Section{}, err
	}

	return Section{
		Severity: SeverityMedium,
		Metrics: []Metric{
			{Key: "wind_speed", Label: "Peak wind speed", Value: p.WindSpeedKmS, Unit: "km/s"},
			{Key: "wind_speed_kmh", Label: "Peak wind speed", Value: p.WindSpeedKmS * 3600, Unit: "km/h"},
			{Key: "wind_deaths", Label: "Deaths from wind", Value: deaths, Unit: "people"},
			{Key: "total_destruction_radius", Label: "Total destruction within", Value: p.HomeCollapseRadiusKm * 0.4, Unit: "km"},
			{Key: "ef5_radius", Label: "EF5-tornado-equivalent zone", Value: p.HomeCollapseRadiusKm * 0.7, Unit: "km"},
			{Key: "tree_fall_radius", Label: "Trees knocked down within", Value: p.TreeFallRadiusKm, Unit: "km"},
		},
		Comparison: "Winds stronger than an EF5 tornado",
		Casualties: &Casualties{Deaths: toCount(deaths), Injured: toCount(deaths * 1.5)},
	}, nil
}

func (g reportGenerator) earthquake() (Section, error) {
	p := g.phys
	near, err := g.pop(p.EarthquakePerceptionRadiusKm * 0.1)
	if err != nil {
		return Section{}, err
	}
	deaths := near * 0.05

	severity := SeverityMedium
	if p.SeismicMagnitude >= 7 {
		severity = SeverityHigh
	}

	return Section{
		Severity: severity,
		Metrics: []Metric{
			{Key: "magnitude", Label: "Magnitude", Value: p.SeismicMagnitude, Unit: "Richter"},
			{Key: "earthquake_deaths", Label: "Deaths from the earthquake", Value: math.Round(deaths), Unit: "people"},
			{Key: "perception_radius", Label: "Felt within", Value: p.EarthquakePerceptionRadiusKm, Unit: "km"},
		},
		Comparison:  earthquakeComparison(p.SeismicMagnitude),
		Description: earthquakeDescription(p.SeismicMagnitude),
		Casualties:  &Casualties{Deaths: toCount(deaths), Injured: toCount(deaths * 3)},
	}, nil
}

func (g reportGenerator) frequency() Section {
	return Section{
		Severity: SeverityInfo,
		Metrics: []Metric{
			{Key: "frequency", Label: "Estimated frequency", Text: FrequencyLabel(g.phys.EnergyMegatons)},
		},
		Comparison:  "Impacts of this size are rare but inevitable on geological time scales",
		Description: "Based on near-Earth object population statistics",
	}
}

func (g reportGenerator) summary() (Summary, error) {
	p := g.phys
	crater, err := g.pop(p.CraterDiameterKm / 2)
	if err != nil {
		return Summary{}, err
	}
	thermal, err := g.pop(p.ThermalRadiusKm)
	if err != nil {
		return Summary{}, err
	}
	blast, err := g.pop(p.BlastRadiusKm)
	if err != nil {
		return Summary{}, err
	}

	deaths := crater + 0.8*thermal + 0.6*blast
	return Summary{
		TotalDeaths:  toCount(deaths),
		TotalInjured: toCount(deaths * 2.5),
		TotalAreaKm2: math.Pi * p.BlastRadiusKm * p.BlastRadiusKm,
		EventScale:   EnergyComparison(p.EnergyMegatons),
	}, nil
}

func energyCommentary(energyMT float64) string {
	switch {
	case energyMT < 1:
		return "Energy comparable to a small meteor"
	case energyMT < 100:
		return "More energy than dozens of atomic bombs combined"
	case energyMT < 1000:
		return "Energy comparable to a major volcanic eruption"
	default:
		return "Enough energy to disrupt the global climate for years"
	}
}

func earthquakeDescription(magnitude float64) string {
	switch {
	case magnitude < 4:
		return "Minor: rarely felt"
	case magnitude < 5:
		return "Light: minimal damage"
	case magnitude < 6:
		return "Moderate: structural damage"
	case magnitude < 7:
		return "Strong: serious damage"
	case magnitude < 8:
		return "Major: widespread destruction"
	default:
		return "Great: regional devastation"
	}
}

func earthquakeComparison(magnitude float64) string {
	switch {
	case magnitude >= 9:
		return "Comparable to the largest earthquakes on record (Japan 2011, Chile 1960)"
	case magnitude >= 8:
		return "Comparable to the San Francisco (1906) or Nepal (2015) earthquakes"
	case magnitude >= 7:
		return "Comparable to the Haiti earthquake (2010)"
	default:
		return "Moderate earthquake felt over a wide area"
	}
}
