package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-sim-service/internal/adapter/nasa"
	"github.com/couchcryptid/impact-sim-service/internal/domain"
	"github.com/couchcryptid/impact-sim-service/internal/pipeline"
)

const contentTypeGeoJSON = "application/geo+json"

// Simulator runs one simulation request, resolving neo_id when present.
type Simulator interface {
	Simulate(ctx context.Context, req domain.SimulationRequest) (domain.SimulationResult, error)
}

// Handler serves the /api/v1 routes.
type Handler struct {
	sim          Simulator
	neos         domain.NEOSource
	overlap      domain.OverlapModel
	defaultAngle float64
	clock        clockwork.Clock
	logger       *slog.Logger
}

// HandlerConfig carries the optional Handler settings.
type HandlerConfig struct {
	// NEOs may be nil, which disables the /neo routes.
	NEOs         domain.NEOSource
	OverlapModel domain.OverlapModel
	DefaultAngle float64
	Clock        clockwork.Clock
}

// NewHandler creates the API handler.
func NewHandler(sim Simulator, cfg HandlerConfig, logger *slog.Logger) *Handler {
	h := &Handler{
		sim:          sim,
		neos:         cfg.NEOs,
		overlap:      cfg.OverlapModel,
		defaultAngle: cfg.DefaultAngle,
		clock:        cfg.Clock,
		logger:       logger,
	}
	if h.overlap == "" {
		h.overlap = domain.OverlapArea
	}
	if h.defaultAngle == 0 {
		h.defaultAngle = domain.DefaultImpactAngle
	}
	if h.clock == nil {
		h.clock = clockwork.NewRealClock()
	}
	return h
}

// RegisterRoutes mounts the API on a router group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	simulations := api.Group("/simulations")
	{
		simulations.POST("", h.simulate)
		simulations.POST("/zones", h.simulateZones)
	}

	api.GET("/population", h.population)

	neo := api.Group("/neo")
	{
		neo.GET("/feed", h.neoFeed)
		neo.GET("/:id", h.neoLookup)
	}
}

func (h *Handler) simulate(c *gin.Context) {
	var req domain.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.sim.Simulate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "simulate", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) simulateZones(c *gin.Context) {
	crs := domain.CRSWGS84
	if s := c.Query("crs"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "crs must be an EPSG code"})
			return
		}
		crs = n
	}

	var req domain.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.sim.Simulate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "simulate zones", err)
		return
	}
	fc, err := domain.ZonesFeatureCollection(result.Location, domain.DamageZones(result.Physical), crs)
	if err != nil {
		h.writeError(c, "simulate zones", err)
		return
	}
	data, err := json.Marshal(fc)
	if err != nil {
		h.writeError(c, "simulate zones", err)
		return
	}
	c.Data(http.StatusOK, contentTypeGeoJSON, data)
}

func (h *Handler) population(c *gin.Context) {
	var q PopulationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := domain.Location{Lat: *q.Lat, Lon: *q.Lon}
	est, err := domain.NewPopulationEstimator(loc, domain.WithOverlapModel(h.overlap))
	if err != nil {
		h.writeError(c, "population", err)
		return
	}
	pop, err := est.EstimatePopulationInRadius(*q.RadiusKm)
	if err != nil {
		h.writeError(c, "population", err)
		return
	}
	cities, err := est.AffectedCities(*q.RadiusKm)
	if err != nil {
		h.writeError(c, "population", err)
		return
	}

	c.JSON(http.StatusOK, PopulationResponse{
		Location:       loc,
		RadiusKm:       *q.RadiusKm,
		AreaType:       est.AreaType(),
		Population:     pop,
		AffectedCities: cities,
	})
}

func (h *Handler) neoFeed(c *gin.Context) {
	if h.neos == nil {
		h.writeError(c, "neo feed", pipeline.ErrNEOUnavailable)
		return
	}
	var q FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, err := q.window(h.clock.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	neos, err := h.neos.Feed(c.Request.Context(), start, end)
	if err != nil {
		h.writeError(c, "neo feed", err)
		return
	}
	if q.Hazardous {
		neos = domain.FilterHazardous(neos)
	}
	domain.SortByMissDistance(neos)

	c.JSON(http.StatusOK, FeedResponse{
		StartDate: start.Format(nasa.DateLayout),
		EndDate:   end.Format(nasa.DateLayout),
		Count:     len(neos),
		Objects:   neos,
	})
}

func (h *Handler) neoLookup(c *gin.Context) {
	if h.neos == nil {
		h.writeError(c, "neo lookup", pipeline.ErrNEOUnavailable)
		return
	}
	neo, err := h.neos.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "neo lookup", err)
		return
	}

	angle := h.defaultAngle
	if s := c.Query("angle_deg"); s != "" {
		a, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "angle_deg must be a number"})
			return
		}
		angle = a
	}
	params := domain.PrepareImpactSimulation(neo, angle)

	c.JSON(http.StatusOK, NEOResponse{
		NEO:        neo,
		Parameters: params,
		Simulable:  params.Validate() == nil,
	})
}

// writeError maps domain errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNEONotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "near-earth object not found"})
	case errors.Is(err, pipeline.ErrNEOUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": pipeline.ErrNEOUnavailable.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("request timed out", "op", op, "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"})
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
