package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidArgument marks inputs that are rejected before any computation:
// non-positive physical quantities, an angle outside (0, 90], a coordinate
// outside the WGS-84 range or a negative query radius.
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultTargetDensity is the crater target rock density in kg/m³.
const DefaultTargetDensity = 2500.0

// ImpactParameters are the physical inputs of one simulation.
type ImpactParameters struct {
	DiameterM   float64 `json:"diameter_m" validate:"gt=0"`
	DensityKgM3 float64 `json:"density_kg_m3" validate:"gt=0"`
	VelocityKmS float64 `json:"velocity_km_s" validate:"gt=0"`
	AngleDeg    float64 `json:"angle_deg" validate:"gt=0,lte=90"`

	// TargetDensityKgM3 overrides the crater target density. Zero means
	// DefaultTargetDensity.
	TargetDensityKgM3 float64 `json:"target_density_kg_m3,omitempty" validate:"gte=0"`
}

// Location is a WGS-84 impact coordinate in degrees.
type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the parameters and wraps ErrInvalidArgument on failure.
func (p ImpactParameters) Validate() error {
	return validateStruct("impact parameters", p)
}

// Validate checks the coordinate range and wraps ErrInvalidArgument on failure.
func (l Location) Validate() error {
	return validateStruct("location", l)
}

// validateStruct runs the struct tags and flattens field errors into one
// message, e.g. "invalid argument: impact parameters: angle_deg must be lte 90".
// NaN fails every numeric comparison, so it is rejected as well.
func validateStruct(what string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, what, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must be %s %s (got %v)", jsonFieldName(fe.Field()), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, what, strings.Join(msgs, "; "))
}

func jsonFieldName(field string) string {
	switch field {
	case "DiameterM":
		return "diameter_m"
	case "DensityKgM3":
		return "density_kg_m3"
	case "VelocityKmS":
		return "velocity_km_s"
	case "AngleDeg":
		return "angle_deg"
	case "TargetDensityKgM3":
		return "target_density_kg_m3"
	case "Lat":
		return "lat"
	case "Lon":
		return "lon"
	default:
		return field
	}
}

func (p ImpactParameters) targetDensity() float64 {
	if p.TargetDensityKgM3 > 0 {
		return p.TargetDensityKgM3
	}
	return DefaultTargetDensity
}
