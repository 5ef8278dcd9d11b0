package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/impact-sim-service/internal/config"
	"github.com/couchcryptid/impact-sim-service/internal/domain"
	"github.com/couchcryptid/impact-sim-service/internal/observability"
)

// DateLayout is the NeoWs calendar date format.
const DateLayout = "2006-01-02"

// DefaultFeedDays is the feed window used when no end date is given. NeoWs
// rejects windows longer than seven days.
const DefaultFeedDays = 7

const (
	methodFeed   = "feed"
	methodLookup = "lookup"
)

// Client implements domain.NEOSource using the NASA NeoWs REST API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NeoWs client from the NASA_* settings.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: cfg.NASAAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.NASATimeout,
		},
		baseURL: cfg.NASABaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.NASARateLimit), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// Feed returns every object with a close approach in [start, end], nearest
// first.
func (c *Client) Feed(ctx context.Context, start, end time.Time) ([]domain.NearEarthObject, error) {
	if err := ValidateWindow(start, end); err != nil {
		return nil, err
	}
	params := url.Values{
		"start_date": {start.Format(DateLayout)},
		"end_date":   {end.Format(DateLayout)},
		"api_key":    {c.apiKey},
	}

	var feed feedResponse
	if err := c.doRequest(ctx, c.baseURL+"/feed?"+params.Encode(), methodFeed, &feed); err != nil {
		return nil, err
	}

	neos := make([]domain.NearEarthObject, 0, feed.ElementCount)
	for _, day := range feed.NearEarthObjects {
		for _, raw := range day {
			neos = append(neos, raw.normalise())
		}
	}
	domain.SortByMissDistance(neos)
	c.logger.Debug("neo feed fetched", "start", params.Get("start_date"), "end", params.Get("end_date"), "count", len(neos))
	return neos, nil
}

// Lookup returns one object by its NeoWs id. Unknown ids yield
// domain.ErrNEONotFound.
func (c *Client) Lookup(ctx context.Context, id string) (domain.NearEarthObject, error) {
	if id == "" {
		return domain.NearEarthObject{}, fmt.Errorf("%w: empty neo id", domain.ErrInvalidArgument)
	}
	u := fmt.Sprintf("%s/neo/%s?%s", c.baseURL, url.PathEscape(id), url.Values{"api_key": {c.apiKey}}.Encode())

	var raw neoResponse
	if err := c.doRequest(ctx, u, methodLookup, &raw); err != nil {
		return domain.NearEarthObject{}, err
	}
	return raw.normalise(), nil
}

// ValidateWindow checks a feed date window against the NeoWs limits.
func ValidateWindow(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			domain.ErrInvalidArgument, end.Format(DateLayout), start.Format(DateLayout))
	}
	if end.Sub(start) > DefaultFeedDays*24*time.Hour {
		return fmt.Errorf("%w: feed window is limited to %d days", domain.ErrInvalidArgument, DefaultFeedDays)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, method string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.NEOAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.NEORequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s neo request: %w", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && method == methodLookup:
		c.metrics.NEORequests.WithLabelValues(method, "not_found").Inc()
		return domain.ErrNEONotFound
	case resp.StatusCode != http.StatusOK:
		c.metrics.NEORequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("nasa API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.NEORequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}
	c.metrics.NEORequests.WithLabelValues(method, "success").Inc()
	return nil
}

// NeoWs API response types.

type feedResponse struct {
	ElementCount     int                      `json:"element_count"`
	NearEarthObjects map[string][]neoResponse `json:"near_earth_objects"`
}

type neoResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	JPLURL            string  `json:"nasa_jpl_url"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude_h"`
	EstimatedDiameter struct {
		Kilometers struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	Hazardous     bool             `json:"is_potentially_hazardous_asteroid"`
	CloseApproach []closeApproach  `json:"close_approach_data"`
	Orbital       *orbitalResponse `json:"orbital_data,omitempty"`
}

type closeApproach struct {
	Date             string `json:"close_approach_date"`
	DateFull         string `json:"close_approach_date_full"`
	RelativeVelocity struct {
		KmS flexFloat `json:"kilometers_per_second"`
		KmH flexFloat `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Astronomical flexFloat `json:"astronomical"`
		Lunar        flexFloat `json:"lunar"`
		Km           flexFloat `json:"kilometers"`
	} `json:"miss_distance"`
}

type orbitalResponse struct {
	Eccentricity  flexFloat `json:"eccentricity"`
	SemiMajorAxis flexFloat `json:"semi_major_axis"`
	Inclination   flexFloat `json:"inclination"`
	OrbitalPeriod flexFloat `json:"orbital_period"`
}

// normalise converts the NeoWs shape using the first close approach. Missing
// approach or orbital data leaves the corresponding fields zero.
func (r neoResponse) normalise() domain.NearEarthObject {
	d := r.EstimatedDiameter.Kilometers
	neo := domain.NearEarthObject{
		ID:     r.ID,
		Name:   r.Name,
		JPLURL: r.JPLURL,
		Diameter: domain.DiameterKm{
			Min:     d.Min,
			Max:     d.Max,
			Average: (d.Min + d.Max) / 2,
		},
		Hazardous:         r.Hazardous,
		AbsoluteMagnitude: r.AbsoluteMagnitude,
	}
	if len(r.CloseApproach) > 0 {
		ca := r.CloseApproach[0]
		neo.Velocity = domain.Velocity{
			KmS: float64(ca.RelativeVelocity.KmS),
			KmH: float64(ca.RelativeVelocity.KmH),
		}
		neo.MissDistance = domain.MissDistance{
			Km:           float64(ca.MissDistance.Km),
			Lunar:        float64(ca.MissDistance.Lunar),
			Astronomical: float64(ca.MissDistance.Astronomical),
		}
		neo.CloseApproachDate = ca.DateFull
		if neo.CloseApproachDate == "" {
			neo.CloseApproachDate = ca.Date
		}
	}
	if r.Orbital != nil {
		neo.Orbital = domain.OrbitalElements{
			Eccentricity:    float64(r.Orbital.Eccentricity),
			SemiMajorAxisAU: float64(r.Orbital.SemiMajorAxis),
			InclinationDeg:  float64(r.Orbital.Inclination),
			PeriodDays:      float64(r.Orbital.OrbitalPeriod),
		}
	}
	return neo
}

// flexFloat decodes NeoWs numbers, which arrive as JSON strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	if uq, err := strconv.Unquote(s); err == nil {
		s = uq
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("nasa: invalid numeric field " + string(b))
	}
	*f = flexFloat(v)
	return nil
}
