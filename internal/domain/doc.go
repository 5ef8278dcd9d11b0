// Package domain models hypothetical asteroid impacts on Earth and the
// damage and casualty estimates derived from them.
//
// # Inputs
//
// A simulation takes four physical scalars and one coordinate:
//
//	diameter_m        projectile diameter in metres (> 0)
//	density_kg_m3     projectile bulk density (> 0)
//	velocity_km_s     entry velocity in km/s (> 0); converted to m/s before
//	                  the kinetic energy formula is applied
//	angle_deg         entry angle from the horizontal, (0, 90]
//	location          WGS-84 lat in [-90, 90], lon in [-180, 180]
//
// Inputs outside these ranges fail with [ErrInvalidArgument] before any
// output is produced. Values that are legal but physically odd are not
// errors: a very shallow angle drives the crater towards zero and a tiny
// projectile yields a negative seismic magnitude.
//
// Parameters may also come from a NASA NeoWs near-Earth object record
// ([PrepareImpactSimulation]): the diameter is the mean of the estimated
// min/max in km, the angle defaults to 45 degrees and the density is banded
// by absolute magnitude H:
//
//	H > 20  ->  1500 kg/m³ (likely carbonaceous)
//	H > 17  ->  2500 kg/m³ (likely stony)
//	else    ->  3500 kg/m³ (dense stony or metallic)
//
// # Scaling laws
//
// All closed-form. One megaton of TNT is 4.184e15 J. Crater diameter follows
// the Collins et al. (2005) pi-scaling law against a 2500 kg/m³ target:
//
//	D = 1.161 · E^0.302 · ρt^-0.302 · sin(θ)^0.302   (metres)
//
// Radii proportional to mt^0.33 are overpressure scaled (20 psi blast, lung
// damage, eardrum rupture, building and home collapse, tree fall). Radii
// proportional to mt^0.41 are thermal (3rd and 2nd degree burns, clothes and
// tree ignition). Coefficients are constants of this package.
//
// # Population
//
// [PopulationEstimator] combines a fixed table of 50 major cities, each
// treated as a disk of uniform megacity density, with a background density
// chosen from a coarse area classification (megacity, major_city, city,
// suburban, rural, remote, ocean). Background population is weighted by 0.3
// to limit double counting with the city disks. The ocean test is three
// latitude/longitude boxes and is kept coarse on purpose so that reports stay
// comparable with earlier runs.
//
// # Casualties
//
// Mortality per damage zone is a fixed heuristic, not a physical model. The
// summary total adds the crater, 0.8 × thermal and 0.6 × blast populations
// even though those zones overlap, so it is an upper bound rather than a
// deduplicated count.
package domain
