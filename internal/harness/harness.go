// Package harness implements the run harness (spec §4.6): filtering the
// input catalogue, seeding the spacecraft, driving the simulation, and
// building its result row (which the caller persists) — generalizing the teacher's cmd/mission/main.go
// scenario-to-mission wiring from a single vehicle orbit to a filtered
// fragment population plus one spacecraft.
package harness

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gonum/stat"
	"github.com/soniakeys/meeus/julian"

	"github.com/eliasboegel/ldr/internal/catalog"
	"github.com/eliasboegel/ldr/internal/config"
	"github.com/eliasboegel/ldr/internal/fragment"
	"github.com/eliasboegel/ldr/internal/kepler"
	"github.com/eliasboegel/ldr/internal/sim"
	"github.com/eliasboegel/ldr/internal/spacecraft"
)

// maxCatalogDEq is the run harness's fixed equivalent-diameter admission
// threshold, per the external interface (§6): "equivalent diameter < 0.1 m".
const maxCatalogDEq = 0.1

// filterPercent is the compaction trigger granularity: every 1% increase in
// removal fraction compacts the population, per the design notes (§9)
// example.
const filterPercent = 1

// Workers is the worker-pool size for parallel fragment propagation and
// predicate evaluation. A package-level default; callers needing a
// different size can set it directly before calling Execute.
var Workers = 4

// loadFiltered opens and filters run's catalogue, returning the admitted
// records. Shared by Execute and CompareKey so the fragment count used for
// the skip-if-already-run pre-check can never drift from the count the run
// itself produces.
func loadFiltered(run config.Run) ([]catalog.Record, error) {
	f, err := os.Open(run.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()

	records, err := catalog.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}

	return catalog.Filter(records, catalog.FilterParams{
		Tag:           run.Tag,
		MaxDEq:        maxCatalogDEq,
		REarth:        run.REarth,
		MinPerigeeAlt: run.MinPerigee,
		MaxCount:      run.DN,
	}), nil
}

// t0Days converts run's t0 (seconds past the Unix epoch reference) to the
// Julian-day offset Execute persists in the T0Days column.
func t0Days(run config.Run) float64 {
	epoch0 := time.Unix(0, 0).UTC()
	jdEpoch0 := julian.TimeToJD(epoch0)
	jdT0 := julian.TimeToJD(epoch0.Add(time.Duration(run.T0 * float64(time.Second))))
	return jdT0 - jdEpoch0
}

// CompareKey builds the configuration portion of run's result row — every
// column configEqual compares, with the exact unit conversions and computed
// fields Execute uses (degrees, T0Days, the post-filter fragment count) —
// without running the simulation. Callers use it to check AlreadyRun before
// paying for a full Execute.
func CompareKey(run config.Run) (config.Result, error) {
	filtered, err := loadFiltered(run)
	if err != nil {
		return config.Result{}, err
	}
	return config.Result{
		HCollision:     run.HCollision,
		FragmentCount:  len(filtered),
		T0Days:         t0Days(run),
		HOffset:        run.HOffset,
		TargetFraction: run.TargetFraction,
		FoVDeg:         run.FoV * 180 / math.Pi,
		Range:          run.Range,
		IncidenceDeg:   run.IncidenceAngle * 180 / math.Pi,
		AblationTime:   run.AblationTime,
		ScanTime:       run.ScanTime,
		CooldownTime:   run.CooldownTime,
		Fluence:        run.Fluence,
		MinPerigee:     run.MinPerigee,
	}, nil
}

// Execute runs one configuration record end to end: load and filter the
// catalogue, seed the spacecraft, run the simulation, and return the
// result row ready for persistence. It does not itself write to the
// results file; callers decide whether to skip an already-run
// configuration first.
func Execute(run config.Run, logger log.Logger) (config.Result, error) {
	filtered, err := loadFiltered(run)
	if err != nil {
		return config.Result{}, err
	}

	logger.Log("level", "info", "event", "filtered", "count", len(filtered))

	pop := fragment.New(len(filtered))
	raans := make([]float64, len(filtered))
	means := make([]float64, len(filtered))
	weights := make([]float64, len(filtered))
	var collisionInclination float64
	for i, rec := range filtered {
		pop.Elements[i] = rec.Elements
		pop.Mass[i] = rec.Mass
		pop.AreaToMass[i] = rec.AreaToMass
		raans[i] = rec.Elements.RAAN
		means[i] = rec.Elements.M
		weights[i] = 1
		if i == 0 {
			collisionInclination = rec.Elements.I
		}
	}

	laser := spacecraft.Laser{Fluence: run.Fluence, Cm: run.Cm, Freq: run.Freq}

	var sc *spacecraft.Spacecraft
	if len(filtered) > 0 {
		meanRAAN := stat.CircularMean(raans, weights)
		meanM := stat.CircularMean(means, weights)
		scElements := kepler.Elements{
			A:       run.REarth + run.HCollision + run.HOffset,
			E:       0,
			I:       collisionInclination,
			RAAN:    meanRAAN,
			ArgPeri: 0,
			M:       meanM,
		}
		sc = spacecraft.New(scElements)
	} else {
		sc = spacecraft.New(kepler.Elements{A: run.REarth + run.HCollision + run.HOffset})
	}

	// Propagate all fragments and the spacecraft from t=0 to t0, in parallel
	// for the fragments per the harness's propagate-to-t0 step.
	pop.Propagate(run.Mu, run.REarth, run.J2, 0, run.T0, Workers)
	sc.Propagate(run.Mu, run.REarth, run.J2, 0, run.T0)

	simParams := sim.Params{
		REarth: run.REarth, J2: run.J2, Mu: run.Mu,
		HCollision: run.HCollision, HOffset: run.HOffset,
		ScanTime: run.ScanTime, AblationTime: run.AblationTime, CooldownTime: run.CooldownTime,
		RangeMax: run.Range, IncidenceMax: run.IncidenceAngle, FoV: run.FoV,
		MinPerigeeAlt:  run.MinPerigee,
		MaxDV:          run.MaxDV,
		TargetFraction: run.TargetFraction,
		TMax:           run.TMax,
		BisectTol:      run.BisectTol,
		FilterPercent:  filterPercent,
		Workers:        Workers,
	}

	driver := sim.New(sc, pop, laser, simParams, logger)
	series := driver.Run(run.T0)

	finalFraction := 0.0
	timeRequired := 0.0
	if n := len(series.RemovedFrac); n > 0 {
		finalFraction = series.RemovedFrac[n-1]
		timeRequired = series.ElapsedSeconds[n-1]
	}

	return config.Result{
		HCollision:       run.HCollision,
		FragmentCount:    len(filtered),
		T0Days:           t0Days(run),
		HOffset:          run.HOffset,
		TargetFraction:   run.TargetFraction,
		FoVDeg:           run.FoV * 180 / math.Pi,
		Range:            run.Range,
		IncidenceDeg:     run.IncidenceAngle * 180 / math.Pi,
		AblationTime:     run.AblationTime,
		ScanTime:         run.ScanTime,
		CooldownTime:     run.CooldownTime,
		Fluence:          run.Fluence,
		MinPerigee:       run.MinPerigee,
		TimeRequiredDays: timeRequired / 86400,
		FractionRemoved:  finalFraction,
	}, nil
}
