package domain

// PhysicalOutputs holds every quantity derived from ImpactParameters. Radii
// and diameters are in km unless the field name says otherwise.
type PhysicalOutputs struct {
	MassKg             float64 `json:"mass_kg"`
	KineticEnergyJ     float64 `json:"kinetic_energy_j"`
	EnergyMegatons     float64 `json:"energy_megatons"`
	CraterDiameterKm   float64 `json:"crater_diameter_km"`
	CraterDepthM       float64 `json:"crater_depth_m"`
	SeismicMagnitude   float64 `json:"seismic_magnitude"`
	BlastRadiusKm      float64 `json:"blast_radius_km"`
	ThermalRadiusKm    float64 `json:"thermal_radius_km"`
	FireballDiameterKm float64 `json:"fireball_diameter_km"`

	LungDamageRadiusKm       float64 `json:"lung_damage_radius_km"`
	EardrumRuptureRadiusKm   float64 `json:"eardrum_rupture_radius_km"`
	BuildingCollapseRadiusKm float64 `json:"building_collapse_radius_km"`
	HomeCollapseRadiusKm     float64 `json:"home_collapse_radius_km"`
	TreeFallRadiusKm         float64 `json:"tree_fall_radius_km"`

	SecondDegreeBurnsRadiusKm float64 `json:"second_degree_burns_radius_km"`
	ClothesIgnitionRadiusKm   float64 `json:"clothes_ignition_radius_km"`
	TreeIgnitionRadiusKm      float64 `json:"tree_ignition_radius_km"`

	ShockwaveDecibels            float64 `json:"shockwave_decibels"`
	WindSpeedKmS                 float64 `json:"wind_speed_km_s"`
	EarthquakePerceptionRadiusKm float64 `json:"earthquake_perception_radius_km"`
}

// ComputePhysicalOutputs validates p and evaluates the scaling laws. The
// crater diameter is computed from the megaton figure, converting back to
// joules internally.
func ComputePhysicalOutputs(p ImpactParameters) (PhysicalOutputs, error) {
	if err := p.Validate(); err != nil {
		return PhysicalOutputs{}, err
	}

	mass := Mass(p.DiameterM, p.DensityKgM3)
	energyJ := KineticEnergy(mass, p.VelocityKmS*1000)
	mt := EnergyToMegatons(energyJ)
	crater := CraterDiameter(mt, p.AngleDeg, p.targetDensity())
	magnitude := SeismicMagnitude(energyJ)

	return PhysicalOutputs{
		MassKg:             mass,
		KineticEnergyJ:     energyJ,
		EnergyMegatons:     mt,
		CraterDiameterKm:   crater,
		CraterDepthM:       CraterDepth(crater),
		SeismicMagnitude:   magnitude,
		BlastRadiusKm:      BlastRadius(mt),
		ThermalRadiusKm:    ThermalRadius(mt),
		FireballDiameterKm: FireballDiameter(mt),

		LungDamageRadiusKm:       LungDamageRadius(mt),
		EardrumRuptureRadiusKm:   EardrumRuptureRadius(mt),
		BuildingCollapseRadiusKm: BuildingCollapseRadius(mt),
		HomeCollapseRadiusKm:     HomeCollapseRadius(mt),
		TreeFallRadiusKm:         TreeFallRadius(mt),

		SecondDegreeBurnsRadiusKm: SecondDegreeBurnsRadius(mt),
		ClothesIgnitionRadiusKm:   ClothesIgnitionRadius(mt),
		TreeIgnitionRadiusKm:      TreeIgnitionRadius(mt),

		ShockwaveDecibels:            ShockwaveDecibels(mt),
		WindSpeedKmS:                 WindSpeed(mt),
		EarthquakePerceptionRadiusKm: EarthquakePerceptionRadius(magnitude),
	}, nil
}
