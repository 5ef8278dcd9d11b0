package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/impact-sim-service/internal/domain"
	"github.com/couchcryptid/impact-sim-service/internal/observability"
)

// Simulation outcomes, used as metric labels.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// ErrNEOUnavailable is returned for neo_id requests when no NEO source is
// configured.
var ErrNEOUnavailable = errors.New("neo lookup is disabled")

// SimulationTransformer implements Transformer by decoding a request,
// resolving its NEO if any, and running domain.Simulate.
type SimulationTransformer struct {
	neos         domain.NEOSource
	defaultAngle float64
	overlap      domain.OverlapModel
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// TransformerOption customises a SimulationTransformer.
type TransformerOption func(*SimulationTransformer)

// WithDefaultAngle sets the angle used when a request leaves angle_deg unset.
func WithDefaultAngle(deg float64) TransformerOption {
	return func(t *SimulationTransformer) { t.defaultAngle = deg }
}

// WithOverlapModel selects the population overlap model.
func WithOverlapModel(m domain.OverlapModel) TransformerOption {
	return func(t *SimulationTransformer) { t.overlap = m }
}

// NewTransformer creates a SimulationTransformer. Pass a nil source to
// disable neo_id resolution.
func NewTransformer(neos domain.NEOSource, metrics *observability.Metrics, logger *slog.Logger, opts ...TransformerOption) *SimulationTransformer {
	t := &SimulationTransformer{
		neos:         neos,
		defaultAngle: domain.DefaultImpactAngle,
		overlap:      domain.OverlapArea,
		metrics:      metrics,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *SimulationTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.SimulationResult, error) {
	req, err := domain.ParseSimulationRequest(raw)
	if err != nil {
		t.record(domain.SourceManual, outcomeInvalid)
		return domain.SimulationResult{}, err
	}
	return t.Simulate(ctx, req)
}

// Simulate runs one decoded request. It is shared with the HTTP API.
func (t *SimulationTransformer) Simulate(ctx context.Context, req domain.SimulationRequest) (domain.SimulationResult, error) {
	source := domain.SourceManual
	if req.NEOID != "" {
		source = domain.SourceNEO
	}
	if req.Parameters.AngleDeg == 0 {
		req.Parameters.AngleDeg = t.defaultAngle
	}

	var neo *domain.NearEarthObject
	if req.NEOID != "" {
		resolved, err := t.resolveNEO(ctx, req.NEOID)
		if err != nil {
			t.record(source, outcomeFor(err))
			return domain.SimulationResult{}, err
		}
		req = req.WithNEO(resolved)
		neo = &resolved
	}

	result, err := domain.Simulate(req, neo, domain.WithOverlapModel(t.overlap))
	if err != nil {
		t.record(source, outcomeFor(err))
		return domain.SimulationResult{}, err
	}
	t.record(source, outcomeSuccess)
	t.logger.Debug("simulation complete",
		"id", result.ID,
		"source", result.Source,
		"energy_mt", result.Physical.EnergyMegatons,
		"area_type", result.Report.AreaType,
	)
	return result, nil
}

func (t *SimulationTransformer) resolveNEO(ctx context.Context, id string) (domain.NearEarthObject, error) {
	if t.neos == nil {
		return domain.NearEarthObject{}, ErrNEOUnavailable
	}
	neo, err := t.neos.Lookup(ctx, id)
	if err != nil {
		return domain.NearEarthObject{}, fmt.Errorf("resolve neo %s: %w", id, err)
	}
	return neo, nil
}

func (t *SimulationTransformer) record(source, outcome string) {
	t.metrics.Simulations.WithLabelValues(source, outcome).Inc()
}

func outcomeFor(err error) string {
	if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrNEONotFound) {
		return outcomeInvalid
	}
	return outcomeError
}
