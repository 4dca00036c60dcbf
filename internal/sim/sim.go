// Package sim implements the epoch-stepping simulation driver: the outer
// loop that schedules epochs, propagates spacecraft and fragments in
// parallel, makes the sequential targeting decision, applies impulses, and
// prunes removed fragments — generalizing the teacher's
// Mission.Propagate/Stop/SetState event loop (mission.go) from a fixed-tick
// RK4 stepper to the event-driven (SHOT_FIRED vs SCAN_ONLY) advance this
// system requires.
package sim

import (
	"math"

	"github.com/go-kit/kit/log"

	"github.com/eliasboegel/ldr/internal/bisect"
	"github.com/eliasboegel/ldr/internal/fragment"
	"github.com/eliasboegel/ldr/internal/impulse"
	"github.com/eliasboegel/ldr/internal/kepler"
	"github.com/eliasboegel/ldr/internal/spacecraft"
	"github.com/eliasboegel/ldr/internal/visibility"
)

// Params bundles every configuration value the driver needs per epoch.
type Params struct {
	REarth float64
	J2     float64
	Mu     float64

	HCollision float64
	HOffset    float64

	ScanTime     float64
	AblationTime float64
	CooldownTime float64

	RangeMax     float64
	IncidenceMax float64
	FoV          float64

	MinPerigeeAlt float64

	MaxDV float64 // impulse sub-step size

	TargetFraction float64
	TMax           float64
	BisectTol      float64

	// FilterPercent is the integer percentage-point increment of removal
	// fraction that triggers a compaction pass (e.g. 1 for "every 1%").
	FilterPercent int

	Workers int
}

// Series is the output time/removal-fraction series, appended exactly once
// per epoch iteration.
type Series struct {
	ElapsedSeconds []float64
	RemovedFrac    []float64
}

// event is the enumerated time-advance outcome of one epoch, per the
// event-driven stepping design note: the handler for each determines how
// much to advance t, rather than a fixed tick.
type event int

const (
	scanOnly event = iota
	shotFired
)

// Driver runs the main loop over a spacecraft and fragment population that
// have already been seeded and propagated to t0 by the run harness.
type Driver struct {
	Spacecraft *spacecraft.Spacecraft
	Population *fragment.Population
	Laser      spacecraft.Laser
	Params     Params
	Logger     log.Logger

	totalFragments int
	removedCount   int
	lastCompactPct int
}

// New constructs a Driver. totalFragments is the fragment count at the
// start of the run (before any compaction), the denominator for the
// removal-fraction series.
func New(sc *spacecraft.Spacecraft, pop *fragment.Population, laser spacecraft.Laser, params Params, logger log.Logger) *Driver {
	return &Driver{
		Spacecraft:     sc,
		Population:     pop,
		Laser:          laser,
		Params:         params,
		Logger:         logger,
		totalFragments: pop.Len(),
	}
}

// Run executes the main loop starting at simulation time t0 until the
// target removal fraction or the time cap is reached, returning the
// time/fraction series.
func (d *Driver) Run(t0 float64) Series {
	p := d.Params
	delta := p.ScanTime + p.AblationTime

	t := t0
	var series Series

	if d.totalFragments == 0 {
		series.ElapsedSeconds = append(series.ElapsedSeconds, 0)
		series.RemovedFrac = append(series.RemovedFrac, 0)
		return series
	}

	for {
		elapsed := t - t0
		removedFrac := float64(d.removedCount) / float64(d.totalFragments)
		series.ElapsedSeconds = append(series.ElapsedSeconds, elapsed)
		series.RemovedFrac = append(series.RemovedFrac, removedFrac)

		if removedFrac >= p.TargetFraction || elapsed >= p.TMax {
			d.Logger.Log("level", "info", "event", "complete", "elapsed_s", elapsed, "fraction_removed", removedFrac)
			return series
		}

		// Snapshot reference elements at t, before anything is propagated
		// forward, so the bisection sub-solver can always re-propagate from
		// this same reference epoch rather than incrementally.
		scRef := d.Spacecraft.Elements
		fragRef := make([]kepler.Elements, d.Population.Len())
		copy(fragRef, d.Population.Elements)

		d.Spacecraft.Propagate(p.Mu, p.REarth, p.J2, t, t+delta)
		d.Population.Propagate(p.Mu, p.REarth, p.J2, t, t+delta, p.Workers)

		visParams := fragment.VisibilityParams{
			RangeMax:     p.RangeMax,
			IncidenceMax: p.IncidenceMax,
			FoV:          p.FoV,
		}
		// Pointing depends only on spacecraft state and fixed geometry
		// constants, never on the fragment, so it is computed once here (the
		// only mat64-allocating call this epoch outside the bisection queries
		// of buildPredicate) and shared read-only across every worker
		// goroutine in EvaluatePredicate.
		offsetAngle := visibility.OffsetAngle(p.REarth, p.HCollision, p.HOffset)
		pointing := visibility.PointingVector(d.Spacecraft.Cartesian.R, d.Spacecraft.Cartesian.V, offsetAngle)
		d.Population.EvaluatePredicate(d.Spacecraft.Cartesian.R, pointing, visParams, p.Workers)

		ev := d.scanAndFire(t, delta, scRef, fragRef)

		if ev == shotFired {
			t = t + 2*delta + p.CooldownTime
		} else {
			t = t + delta
		}

		d.maybeCompact(removedFrac)
	}
}

// scanAndFire performs the strictly sequential ascending-index scan for the
// first in-view, non-removed fragment, resolves its precise visibility
// window via bisection, and fires the laser if the window is long enough.
// At most one shot is fired per call, per the cooldown invariant.
func (d *Driver) scanAndFire(t, delta float64, scRef kepler.Elements, fragRef []kepler.Elements) event {
	p := d.Params
	pop := d.Population

	for i := 0; i < pop.Len(); i++ {
		if pop.Removed[i] {
			continue
		}
		if !pop.InView[i] {
			continue
		}

		predicate := d.buildPredicate(t, scRef, fragRef[i])
		entryTime := bisect.Solve(t, t-delta, t, p.BisectTol, predicate)
		exitTime := bisect.Solve(t, t, t+delta, p.BisectTol, predicate)
		duration := exitTime - entryTime

		if duration < delta {
			continue
		}

		d.fire(i, t)
		return shotFired
	}
	return scanOnly
}

// buildPredicate returns a bisect.Predicate that re-propagates fresh copies
// of the spacecraft and one fragment's cached reference elements (at tRef)
// to any query time and evaluates the composite visibility predicate. This
// is the only place in the driver that allocates on a per-candidate (not
// per-fragment) basis, since it is evaluated only for the rare in-view
// scan candidate, never across the full population.
func (d *Driver) buildPredicate(tRef float64, scRef, fragRefEl kepler.Elements) bisect.Predicate {
	p := d.Params
	mu, re, j2 := p.Mu, p.REarth, p.J2

	return func(tt float64) bool {
		sc := scRef
		kepler.UpdateJ2(&sc, mu, re, j2, tRef, tt)
		var scCart kepler.Cartesian
		kepler.ToCartesian(sc, mu, &scCart)

		frag := fragRefEl
		kepler.UpdateJ2(&frag, mu, re, j2, tRef, tt)
		var fragCart kepler.Cartesian
		kepler.ToCartesian(frag, mu, &fragCart)

		offsetAngle := visibility.OffsetAngle(p.REarth, p.HCollision, p.HOffset)
		pointing := visibility.PointingVector(scCart.R, scCart.V, offsetAngle)
		return visibility.Composite(
			scCart.R, fragCart.R, fragCart.V, pointing,
			p.RangeMax, p.IncidenceMax, p.FoV,
		)
	}
}

// fire applies the laser's impulsive ΔV to fragment i (already propagated
// to t+delta in the population's main arrays), antiparallel to its
// velocity, marks it shot, and decides removal based on the resulting
// perigee/apogee.
func (d *Driver) fire(i int, t float64) {
	p := d.Params
	pop := d.Population

	deltaV := d.Laser.AblationDeltaV(pop.AreaToMass[i], p.AblationTime)
	v := pop.Cartesian[i].V
	speed := norm3(v)
	thrustDir := [3]float64{-v[0] / speed, -v[1] / speed, -v[2] / speed}

	impulse.Apply(&pop.Elements[i], pop.Cartesian[i].R, pop.Cartesian[i].V, thrustDir, deltaV, p.MaxDV, p.Mu)
	pop.Elements[i].Resolve()

	minRadius := p.REarth + p.MinPerigeeAlt
	invalid := !pop.Elements[i].Valid()
	belowRemoval := pop.Elements[i].PerigeeRadius() <= minRadius || pop.Elements[i].ApogeeRadius() <= minRadius

	pop.Shot[i] = true
	pop.Removed[i] = invalid || belowRemoval
	if pop.Removed[i] {
		// Compact() later drops this entry (Shot=true) from the live array,
		// so the running total must be tracked here rather than recomputed
		// from Population.RemovedCount() after compaction.
		d.removedCount++
	}
	d.Spacecraft.LastPulseTime = t

	d.Logger.Log("level", "info", "event", "shot", "fragment_index", i, "delta_v", deltaV, "removed", pop.Removed[i])
}

// maybeCompact triggers a compaction pass when the integer percentage of
// removal has increased by at least FilterPercent since the last pass.
func (d *Driver) maybeCompact(removedFrac float64) {
	pct := int(removedFrac * 100)
	if d.Params.FilterPercent <= 0 {
		return
	}
	if pct-d.lastCompactPct >= d.Params.FilterPercent {
		d.Population.Compact()
		d.lastCompactPct = pct
		d.Logger.Log("level", "info", "event", "compact", "removed_pct", pct, "remaining", d.Population.Len())
	}
}

func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
