// Package fragment holds the debris population as an array-of-struct-of-
// arrays, propagated and predicate-evaluated in parallel across a worker
// pool, generalizing the teacher's single-object Kepler-state ownership
// (orbit.go) to an indexed collection and its own cache-validity pattern
// (hashValid/computeHash) to a bulk, disjoint-index parallel update.
package fragment

import (
	"sync"

	"github.com/eliasboegel/ldr/internal/kepler"
	"github.com/eliasboegel/ldr/internal/visibility"
)

// Population is the driver-owned collection of fragment state, indexed
// disjointly by position. Every slice has the same length and the same
// index refers to the same fragment across all of them.
type Population struct {
	Elements   []kepler.Elements
	Mass       []float64
	AreaToMass []float64
	Shot       []bool
	Removed    []bool
	Cartesian  []kepler.Cartesian
	InView     []bool
}

// New allocates a Population of size n, every field zero-valued.
func New(n int) *Population {
	return &Population{
		Elements:   make([]kepler.Elements, n),
		Mass:       make([]float64, n),
		AreaToMass: make([]float64, n),
		Shot:       make([]bool, n),
		Removed:    make([]bool, n),
		Cartesian:  make([]kepler.Cartesian, n),
		InView:     make([]bool, n),
	}
}

// Len reports the current number of fragments tracked.
func (p *Population) Len() int { return len(p.Elements) }

// RemovedCount reports how many fragments currently carry Removed=true.
func (p *Population) RemovedCount() int {
	n := 0
	for _, r := range p.Removed {
		if r {
			n++
		}
	}
	return n
}

// workerRanges splits [0, n) into up to workers contiguous index ranges.
func workerRanges(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}
	chunk := (n + workers - 1) / workers
	ranges := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Propagate advances every non-removed fragment's Kepler state under the
// secular J2 model from tRef to t and recomputes its Cartesian state, split
// across workers goroutines each owning a contiguous index range. No shared
// mutable state is touched other than each goroutine's own disjoint slice
// window.
func (p *Population) Propagate(mu, re, j2, tRef, t float64, workers int) {
	var wg sync.WaitGroup
	for _, rng := range workerRanges(p.Len(), workers) {
		rng := rng
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := rng[0]; i < rng[1]; i++ {
				if p.Removed[i] {
					continue
				}
				kepler.UpdateJ2(&p.Elements[i], mu, re, j2, tRef, t)
				kepler.ToCartesian(p.Elements[i], mu, &p.Cartesian[i])
			}
		}()
	}
	wg.Wait()
}

// VisibilityParams bundles the geometric constants the composite predicate
// needs, held fixed across an entire epoch evaluation.
type VisibilityParams struct {
	RangeMax     float64
	IncidenceMax float64
	FoV          float64
}

// EvaluatePredicate computes the composite visibility predicate for every
// non-removed fragment against the given spacecraft Cartesian state and its
// precomputed per-epoch laser pointing vector, split across workers
// goroutines over disjoint index ranges. pointing is produced once per
// epoch by visibility.PointingVector (it depends only on spacecraft state
// and fixed geometry constants, never on the fragment), so this per-fragment
// loop never allocates. This phase is conditional-free at the object level:
// every non-removed fragment is evaluated regardless of the outcome.
func (p *Population) EvaluatePredicate(scR [3]float64, pointing [3]float64, params VisibilityParams, workers int) {
	var wg sync.WaitGroup
	for _, rng := range workerRanges(p.Len(), workers) {
		rng := rng
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := rng[0]; i < rng[1]; i++ {
				if p.Removed[i] {
					p.InView[i] = false
					continue
				}
				p.InView[i] = visibility.Composite(
					scR, p.Cartesian[i].R, p.Cartesian[i].V, pointing,
					params.RangeMax, params.IncidenceMax, params.FoV,
				)
			}
		}()
	}
	wg.Wait()
}

// Compact drops every fragment with Shot=true, rewriting all arrays in
// place via a boolean-mask compaction, preserving the relative order of the
// surviving entries.
func (p *Population) Compact() {
	n := p.Len()
	write := 0
	for read := 0; read < n; read++ {
		if p.Shot[read] {
			continue
		}
		if write != read {
			p.Elements[write] = p.Elements[read]
			p.Mass[write] = p.Mass[read]
			p.AreaToMass[write] = p.AreaToMass[read]
			p.Shot[write] = p.Shot[read]
			p.Removed[write] = p.Removed[read]
			p.Cartesian[write] = p.Cartesian[read]
			p.InView[write] = p.InView[read]
		}
		write++
	}
	p.Elements = p.Elements[:write]
	p.Mass = p.Mass[:write]
	p.AreaToMass = p.AreaToMass[:write]
	p.Shot = p.Shot[:write]
	p.Removed = p.Removed[:write]
	p.Cartesian = p.Cartesian[:write]
	p.InView = p.InView[:write]
}
