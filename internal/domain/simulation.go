package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Simulation sources, used in results and metrics labels.
const (
	SourceManual = "manual"
	SourceNEO    = "neo"
)

// simulationNamespace seeds the deterministic result ids.
var simulationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:impact-sim:simulation"))

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// SimulationRequest asks for one impact simulation. When NEOID is set the
// physical parameters are taken from that object and only AngleDeg and
// TargetDensityKgM3 of Parameters are honoured.
type SimulationRequest struct {
	ID         string           `json:"id,omitempty"`
	Parameters ImpactParameters `json:"parameters"`
	Location   Location         `json:"location"`
	NEOID      string           `json:"neo_id,omitempty"`
}

// SimulationResult is everything computed for one request.
type SimulationResult struct {
	ID             string           `json:"id"`
	Source         string           `json:"source"`
	Parameters     ImpactParameters `json:"parameters"`
	Location       Location         `json:"location"`
	NEO            *NearEarthObject `json:"neo,omitempty"`
	Physical       PhysicalOutputs  `json:"physical"`
	Report         ImpactReport     `json:"report"`
	AffectedCities []AffectedCity   `json:"affected_cities"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// ParseSimulationRequest decodes a request from a raw message value. The
// message key is used as the request id when the body carries none.
func ParseSimulationRequest(raw RawEvent) (SimulationRequest, error) {
	var req SimulationRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return SimulationRequest{}, fmt.Errorf("parse simulation request: %w", err)
	}
	if req.ID == "" && len(raw.Key) > 0 {
		req.ID = string(raw.Key)
	}
	return req, nil
}

// WithNEO returns a copy of req whose parameters are derived from neo.
func (req SimulationRequest) WithNEO(neo NearEarthObject) SimulationRequest {
	params := PrepareImpactSimulation(neo, req.Parameters.AngleDeg)
	params.TargetDensityKgM3 = req.Parameters.TargetDensityKgM3
	req.Parameters = params
	req.NEOID = neo.ID
	return req
}

// Simulate computes the physical outputs and the report for req and lists the
// reference cities inside the thermal radius. neo, when non-nil, is attached
// to the result; its parameters must already be applied with WithNEO.
func Simulate(req SimulationRequest, neo *NearEarthObject, opts ...EstimatorOption) (SimulationResult, error) {
	if err := req.Location.Validate(); err != nil {
		return SimulationResult{}, err
	}
	phys, err := ComputePhysicalOutputs(req.Parameters)
	if err != nil {
		return SimulationResult{}, err
	}
	report, err := GenerateReport(req.Parameters, req.Location, phys, opts...)
	if err != nil {
		return SimulationResult{}, err
	}

	est, err := NewPopulationEstimator(req.Location, opts...)
	if err != nil {
		return SimulationResult{}, err
	}
	cities, err := est.AffectedCities(phys.ThermalRadiusKm)
	if err != nil {
		return SimulationResult{}, err
	}

	source := SourceManual
	if req.NEOID != "" {
		source = SourceNEO
	}
	id := req.ID
	if id == "" {
		id = SimulationID(req)
	}

	return SimulationResult{
		ID:             id,
		Source:         source,
		Parameters:     req.Parameters,
		Location:       req.Location,
		NEO:            neo,
		Physical:       phys,
		Report:         report,
		AffectedCities: cities,
		GeneratedAt:    now(),
	}, nil
}

// SimulationID derives a UUIDv5 from the request inputs, so replaying the same
// request yields the same id.
func SimulationID(req SimulationRequest) string {
	p := req.Parameters
	input := fmt.Sprintf("%g|%g|%g|%g|%g|%.6f|%.6f|%s",
		p.DiameterM, p.DensityKgM3, p.VelocityKmS, p.AngleDeg, p.targetDensity(),
		req.Location.Lat, req.Location.Lon, req.NEOID)
	return uuid.NewSHA1(simulationNamespace, []byte(input)).String()
}
