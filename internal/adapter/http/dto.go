package http

import (
	"fmt"
	"time"

	"github.com/couchcryptid/impact-sim-service/internal/adapter/nasa"
	"github.com/couchcryptid/impact-sim-service/internal/domain"
)

// PopulationQuery is the query string of GET /population.
type PopulationQuery struct {
	Lat      *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lon      *float64 `form:"lon" binding:"required,gte=-180,lte=180"`
	RadiusKm *float64 `form:"radius_km" binding:"required,gte=0"`
}

type PopulationResponse struct {
	Location       domain.Location       `json:"location"`
	RadiusKm       float64               `json:"radius_km"`
	AreaType       domain.AreaType       `json:"area_type"`
	Population     int64                 `json:"population"`
	AffectedCities []domain.AffectedCity `json:"affected_cities"`
}

// FeedQuery is the query string of GET /neo/feed. Dates are YYYY-MM-DD.
type FeedQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Hazardous bool   `form:"hazardous"`
}

// window resolves the requested dates. A missing start means today and a
// missing end means a full feed window after start.
func (q FeedQuery) window(now time.Time) (time.Time, time.Time, error) {
	start := now.UTC().Truncate(24 * time.Hour)
	if q.StartDate != "" {
		t, err := time.Parse(nasa.DateLayout, q.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q", q.StartDate)
		}
		start = t
	}

	end := start.AddDate(0, 0, nasa.DefaultFeedDays)
	if q.EndDate != "" {
		t, err := time.Parse(nasa.DateLayout, q.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q", q.EndDate)
		}
		end = t
	}
	return start, end, nil
}

type FeedResponse struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Count     int                      `json:"count"`
	Objects   []domain.NearEarthObject `json:"near_earth_objects"`
}

// NEOResponse pairs an object with the impact parameters derived from it.
// Simulable is false when the object lacks a usable diameter or velocity.
type NEOResponse struct {
	NEO        domain.NearEarthObject  `json:"neo"`
	Parameters domain.ImpactParameters `json:"impact_parameters"`
	Simulable  bool                    `json:"simulable"`
}
