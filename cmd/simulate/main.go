// Command simulate runs impact simulations locally without Kafka or NASA
// access. It either simulates one impact described by flags or, with -batch,
// every request in a JSON array file.
//
// Usage:
//
//	go run ./cmd/simulate -diameter 500 -density 2500 -velocity 28 -lat 40.7128 -lon -74.006
//	go run ./cmd/simulate -diameter 500 -density 2500 -velocity 28 -lat 40.7128 -lon -74.006 -zones -crs 3857
//	go run ./cmd/simulate -batch requests.json -out results.json -clock 2029-04-13T21:46:00Z
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-sim-service/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	params  domain.ImpactParameters
	loc     domain.Location
	overlap string
	zones   bool
	crs     int
	batch   string
	out     string
	clock   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.params.DiameterM, "diameter", 0, "impactor diameter in metres")
	fs.Float64Var(&o.params.DensityKgM3, "density", 3000, "impactor density in kg/m³")
	fs.Float64Var(&o.params.VelocityKmS, "velocity", 20, "impact velocity in km/s")
	fs.Float64Var(&o.params.AngleDeg, "angle", domain.DefaultImpactAngle, "impact angle from horizontal in degrees")
	fs.Float64Var(&o.params.TargetDensityKgM3, "target-density", 0, "target rock density in kg/m³ (0 = default)")
	fs.Float64Var(&o.loc.Lat, "lat", 0, "impact latitude")
	fs.Float64Var(&o.loc.Lon, "lon", 0, "impact longitude")
	fs.StringVar(&o.overlap, "overlap", string(domain.OverlapArea), "city overlap model: area or cosine")
	fs.BoolVar(&o.zones, "zones", false, "print damage zones as GeoJSON instead of the full result")
	fs.IntVar(&o.crs, "crs", domain.CRSWGS84, "EPSG code of zone geometry: 4326 or 3857")
	fs.StringVar(&o.batch, "batch", "", "JSON file with an array of simulation requests")
	fs.StringVar(&o.out, "out", "", "output path (default stdout)")
	fs.StringVar(&o.clock, "clock", "", "fixed RFC 3339 timestamp for generated_at, for reproducible output")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if o.clock != "" {
		at, err := time.Parse(time.RFC3339, o.clock)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -clock: %v\n", err)
			return 2
		}
		domain.SetClock(clockwork.NewFakeClockAt(at.UTC()))
		defer domain.SetClock(nil)
	}

	overlap, err := domain.ParseOverlapModel(o.overlap)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var out any
	if o.batch != "" {
		results, err := simulateBatch(o.batch, overlap)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		printStats(stderr, results)
		out = results
	} else {
		out, err = simulateOne(o, overlap)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if err := writeJSON(o.out, stdout, out); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func simulateOne(o options, overlap domain.OverlapModel) (any, error) {
	req := domain.SimulationRequest{Parameters: o.params, Location: o.loc}
	result, err := domain.Simulate(req, nil, domain.WithOverlapModel(overlap))
	if err != nil {
		return nil, err
	}
	if !o.zones {
		return result, nil
	}
	return domain.ZonesFeatureCollection(result.Location, domain.DamageZones(result.Physical), o.crs)
}

func simulateBatch(path string, overlap domain.OverlapModel) ([]domain.SimulationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var reqs []domain.SimulationRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}

	results := make([]domain.SimulationResult, 0, len(reqs))
	for i, req := range reqs {
		if req.NEOID != "" {
			return nil, fmt.Errorf("request %d: neo_id is not supported offline", i)
		}
		if req.Parameters.AngleDeg == 0 {
			req.Parameters.AngleDeg = domain.DefaultImpactAngle
		}
		result, err := domain.Simulate(req, nil, domain.WithOverlapModel(overlap))
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func writeJSON(path string, stdout io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// printStats summarises a batch, mainly for updating test fixtures.
func printStats(w io.Writer, results []domain.SimulationResult) {
	byArea := map[domain.AreaType]int{}
	var deaths int64
	for i := range results {
		r := &results[i]
		byArea[r.Report.AreaType]++
		if c := r.Report.Crater.Casualties; c != nil {
			deaths += c.Deaths
		}
	}

	areas := make([]string, 0, len(byArea))
	for a := range byArea {
		areas = append(areas, string(a))
	}
	sort.Strings(areas)

	fmt.Fprintf(w, "simulated %d requests\n", len(results))
	for _, a := range areas {
		fmt.Fprintf(w, "  %s=%d\n", a, byArea[domain.AreaType(a)])
	}
	fmt.Fprintf(w, "crater deaths: %d\n", deaths)
	for i := range results {
		r := &results[i]
		fmt.Fprintf(w, "  %s energy_mt=%.4f area=%s\n", r.ID, r.Physical.EnergyMegatons, r.Report.AreaType)
	}
}
