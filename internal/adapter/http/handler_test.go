package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	httpadapter "github.com/couchcryptid/impact-sim-service/internal/adapter/http"
	"github.com/couchcryptid/impact-sim-service/internal/domain"
	"github.com/couchcryptid/impact-sim-service/internal/domain/mocks"
	"github.com/couchcryptid/impact-sim-service/internal/observability"
	"github.com/couchcryptid/impact-sim-service/internal/pipeline"
)

var apophis = domain.NearEarthObject{
	ID:                "2099942",
	Name:              "99942 Apophis (2004 MN4)",
	Diameter:          domain.DiameterKm{Min: 0.31, Max: 0.69, Average: 0.5},
	Velocity:          domain.Velocity{KmS: 7.42, KmH: 26712},
	MissDistance:      domain.MissDistance{Km: 38000},
	Hazardous:         true,
	AbsoluteMagnitude: 19.09,
}

var bennu = domain.NearEarthObject{
	ID:                "2101955",
	Name:              "101955 Bennu (1999 RQ36)",
	Diameter:          domain.DiameterKm{Average: 0.49},
	Velocity:          domain.Velocity{KmS: 6.1},
	MissDistance:      domain.MissDistance{Km: 750000},
	AbsoluteMagnitude: 20.6,
}

var testNow = time.Date(2029, time.April, 10, 15, 30, 0, 0, time.UTC)

func newTestHandler(t *testing.T, neos domain.NEOSource) *gin.Engine {
	t.Helper()
	sim := pipeline.NewTransformer(neos, observability.NewMetricsForTesting(), discardLogger())
	h := httpadapter.NewHandler(sim, httpadapter.HandlerConfig{
		NEOs:  neos,
		Clock: clockwork.NewFakeClockAt(testNow),
	}, discardLogger())

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func makeRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func newYorkRequest() domain.SimulationRequest {
	return domain.SimulationRequest{
		Parameters: domain.ImpactParameters{DiameterM: 500, DensityKgM3: 2500, VelocityKmS: 28, AngleDeg: 45},
		Location:   domain.Location{Lat: 40.7128, Lon: -74.006},
	}
}

// --- simulations ---

func TestSimulate_Success(t *testing.T) {
	router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/simulations", newYorkRequest())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[domain.SimulationResult](t, w)
	assert.Equal(t, domain.SourceManual, res.Source)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, domain.AreaMegacity, res.Report.AreaType)
	assert.InEpsilon(t, 15330.031, res.Physical.EnergyMegatons, 1e-4)
	require.NotEmpty(t, res.AffectedCities)
	assert.Equal(t, "New York", res.AffectedCities[0].Name)
}

func TestSimulate_DeterministicID(t *testing.T) {
	router := newTestHandler(t, nil)

	a := decode[domain.SimulationResult](t, makeRequest(router, http.MethodPost, "/api/v1/simulations", newYorkRequest()))
	b := decode[domain.SimulationResult](t, makeRequest(router, http.MethodPost, "/api/v1/simulations", newYorkRequest()))

	assert.Equal(t, a.ID, b.ID)
}

func TestSimulate_BadRequests(t *testing.T) {
	router := newTestHandler(t, nil)

	negative := newYorkRequest()
	negative.Parameters.DiameterM = -1
	steep := newYorkRequest()
	steep.Parameters.AngleDeg = 120
	offPlanet := newYorkRequest()
	offPlanet.Location.Lat = 91

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"malformed json", "{", "invalid request body"},
		{"negative diameter", negative, "diameter_m"},
		{"angle above 90", steep, "angle_deg"},
		{"latitude out of range", offPlanet, "lat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := makeRequest(router, http.MethodPost, "/api/v1/simulations", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[map[string]string](t, w)
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestSimulate_WithNEO(t *testing.T) {
	ctrl := gomock.NewController(t)
	neos := mocks.NewMockNEOSource(ctrl)
	neos.EXPECT().Lookup(gomock.Any(), "2099942").Return(apophis, nil)
	router := newTestHandler(t, neos)

	req := domain.SimulationRequest{
		NEOID:    "2099942",
		Location: domain.Location{Lat: 51.5074, Lon: -0.1278},
	}
	w := makeRequest(router, http.MethodPost, "/api/v1/simulations", req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[domain.SimulationResult](t, w)
	assert.Equal(t, domain.SourceNEO, res.Source)
	require.NotNil(t, res.NEO)
	assert.Equal(t, "2099942", res.NEO.ID)
	assert.InDelta(t, 500.0, res.Parameters.DiameterM, 1e-9)
	assert.InDelta(t, 7.42, res.Parameters.VelocityKmS, 1e-9)
	assert.InDelta(t, domain.DefaultImpactAngle, res.Parameters.AngleDeg, 1e-9)
}

func TestSimulate_NEOErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", domain.ErrNEONotFound, http.StatusNotFound},
		{"upstream failure", errors.New("nasa API error: status 500"), http.StatusInternalServerError},
		{"timeout", fmt.Errorf("lookup: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			neos := mocks.NewMockNEOSource(ctrl)
			neos.EXPECT().Lookup(gomock.Any(), "404").Return(domain.NearEarthObject{}, tt.err)
			router := newTestHandler(t, neos)

			req := domain.SimulationRequest{NEOID: "404", Location: domain.Location{Lat: 10, Lon: 10}}
			w := makeRequest(router, http.MethodPost, "/api/v1/simulations", req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestSimulate_NEODisabled(t *testing.T) {
	router := newTestHandler(t, nil)

	req := domain.SimulationRequest{NEOID: "2099942", Location: domain.Location{Lat: 10, Lon: 10}}
	w := makeRequest(router, http.MethodPost, "/api/v1/simulations", req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// --- zones ---

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Type     string `json:"type"`
		ID       string `json:"id"`
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

func TestSimulateZones_WGS84(t *testing.T) {
	router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/simulations/zones", newYorkRequest())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	fc := decode[featureCollection](t, w)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.GreaterOrEqual(t, len(fc.Features), 3)
	first := fc.Features[0]
	assert.Equal(t, "crater", first.ID)
	assert.Equal(t, "Polygon", first.Geometry.Type)
	assert.Equal(t, "EPSG:4326", first.Properties["crs"])

	ring := first.Geometry.Coordinates[0]
	require.NotEmpty(t, ring)
	assert.Equal(t, ring[0], ring[len(ring)-1])
	for _, pt := range ring {
		assert.InDelta(t, -74.006, pt[0], 1)
		assert.InDelta(t, 40.7128, pt[1], 1)
	}
}

func TestSimulateZones_WebMercator(t *testing.T) {
	router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/simulations/zones?crs=3857", newYorkRequest())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fc := decode[featureCollection](t, w)
	require.NotEmpty(t, fc.Features)
	assert.Equal(t, "EPSG:3857", fc.Features[0].Properties["crs"])

	// Web Mercator coordinates are metres, far outside the degree range.
	pt := fc.Features[0].Geometry.Coordinates[0][0]
	assert.Greater(t, pt[1], 1e6)
}

func TestSimulateZones_PolarRingRejected(t *testing.T) {
	router := newTestHandler(t, nil)

	req := newYorkRequest()
	req.Parameters = domain.ImpactParameters{DiameterM: 10_000, DensityKgM3: 3000, VelocityKmS: 20, AngleDeg: 45}
	w := makeRequest(router, http.MethodPost, "/api/v1/simulations/zones?crs=3857", req)

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "zone ")
}

func TestSimulateZones_BadCRS(t *testing.T) {
	router := newTestHandler(t, nil)

	for _, crs := range []string{"abc", "1234"} {
		t.Run(crs, func(t *testing.T) {
			w := makeRequest(router, http.MethodPost, "/api/v1/simulations/zones?crs="+crs, newYorkRequest())
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// --- population ---

func TestPopulation_NewYork(t *testing.T) {
	router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/population?lat=40.7128&lon=-74.006&radius_km=10", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[httpadapter.PopulationResponse](t, w)
	assert.Equal(t, domain.AreaMegacity, res.AreaType)
	assert.Positive(t, res.Population)
	assert.InDelta(t, 10.0, res.RadiusKm, 1e-9)
	require.NotEmpty(t, res.AffectedCities)
	assert.Equal(t, "New York", res.AffectedCities[0].Name)
}

func TestPopulation_Ocean(t *testing.T) {
	router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/population?lat=0&lon=-140&radius_km=50", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[httpadapter.PopulationResponse](t, w)
	assert.Equal(t, domain.AreaOcean, res.AreaType)
	assert.Empty(t, res.AffectedCities)
}

func TestPopulation_ZeroRadius(t *testing.T) {
	router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/population?lat=0&lon=-140&radius_km=0", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[httpadapter.PopulationResponse](t, w)
	assert.Zero(t, res.Population)
	assert.Zero(t, res.RadiusKm)
}

func TestPopulation_BadQuery(t *testing.T) {
	router := newTestHandler(t, nil)

	for name, query := range map[string]string{
		"missing lat":     "lon=0&radius_km=1",
		"missing radius":  "lat=0&lon=0",
		"negative radius": "lat=0&lon=0&radius_km=-1",
		"lat too large":   "lat=95&lon=0&radius_km=1",
		"non-numeric lon": "lat=0&lon=east&radius_km=1",
	} {
		t.Run(name, func(t *testing.T) {
			w := makeRequest(router, http.MethodGet, "/api/v1/population?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// --- neo ---

func TestNEOFeed_DefaultWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	neos := mocks.NewMockNEOSource(ctrl)
	neos.EXPECT().Feed(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, start, end time.Time) ([]domain.NearEarthObject, error) {
			assert.Equal(t, "2029-04-10", start.Format(time.DateOnly))
			assert.Equal(t, "2029-04-17", end.Format(time.DateOnly))
			return []domain.NearEarthObject{bennu, apophis}, nil
		})
	router := newTestHandler(t, neos)

	w := makeRequest(router, http.MethodGet, "/api/v1/neo/feed", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[httpadapter.FeedResponse](t, w)
	assert.Equal(t, "2029-04-10", res.StartDate)
	assert.Equal(t, "2029-04-17", res.EndDate)
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Objects, 2)
	assert.Equal(t, apophis.ID, res.Objects[0].ID, "nearest approach first")
}

func TestNEOFeed_HazardousOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	neos := mocks.NewMockNEOSource(ctrl)
	neos.EXPECT().Feed(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.NearEarthObject{bennu, apophis}, nil)
	router := newTestHandler(t, neos)

	w := makeRequest(router, http.MethodGet, "/api/v1/neo/feed?start_date=2029-04-12&end_date=2029-04-14&hazardous=true", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[httpadapter.FeedResponse](t, w)
	assert.Equal(t, "2029-04-12", res.StartDate)
	assert.Equal(t, "2029-04-14", res.EndDate)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, apophis.ID, res.Objects[0].ID)
}

func TestNEOFeed_Errors(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newTestHandler(t, mocks.NewMockNEOSource(ctrl))

		w := makeRequest(router, http.MethodGet, "/api/v1/neo/feed?start_date=10/04/2029", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("window rejected by source", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		neos := mocks.NewMockNEOSource(ctrl)
		neos.EXPECT().Feed(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: feed window is limited to 7 days", domain.ErrInvalidArgument))
		router := newTestHandler(t, neos)

		w := makeRequest(router, http.MethodGet, "/api/v1/neo/feed?start_date=2029-04-01&end_date=2029-04-30", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		router := newTestHandler(t, nil)

		w := makeRequest(router, http.MethodGet, "/api/v1/neo/feed", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestNEOLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	neos := mocks.NewMockNEOSource(ctrl)
	neos.EXPECT().Lookup(gomock.Any(), "2099942").Return(apophis, nil).Times(2)
	router := newTestHandler(t, neos)

	t.Run("default angle", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/api/v1/neo/2099942", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		res := decode[httpadapter.NEOResponse](t, w)
		assert.Equal(t, apophis, res.NEO)
		assert.True(t, res.Simulable)
		assert.Equal(t, domain.ImpactParameters{
			DiameterM:   500,
			DensityKgM3: 2500,
			VelocityKmS: 7.42,
			AngleDeg:    45,
		}, res.Parameters)
	})

	t.Run("explicit angle", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/api/v1/neo/2099942?angle_deg=30", nil)

		require.Equal(t, http.StatusOK, w.Code)
		res := decode[httpadapter.NEOResponse](t, w)
		assert.InDelta(t, 30.0, res.Parameters.AngleDeg, 1e-9)
	})
}

func TestNEOLookup_NotSimulable(t *testing.T) {
	ctrl := gomock.NewController(t)
	neos := mocks.NewMockNEOSource(ctrl)
	noVelocity := apophis
	noVelocity.Velocity = domain.Velocity{}
	neos.EXPECT().Lookup(gomock.Any(), "2099942").Return(noVelocity, nil)
	router := newTestHandler(t, neos)

	w := makeRequest(router, http.MethodGet, "/api/v1/neo/2099942", nil)

	require.Equal(t, http.StatusOK, w.Code)
	res := decode[httpadapter.NEOResponse](t, w)
	assert.False(t, res.Simulable)
}

func TestNEOLookup_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	neos := mocks.NewMockNEOSource(ctrl)
	neos.EXPECT().Lookup(gomock.Any(), "1").Return(domain.NearEarthObject{}, domain.ErrNEONotFound)
	router := newTestHandler(t, neos)

	w := makeRequest(router, http.MethodGet, "/api/v1/neo/1", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "near-earth object not found", body["error"])
}
