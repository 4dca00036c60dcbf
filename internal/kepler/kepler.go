// Package kepler implements the Keplerian orbit kernels: the anomaly solver,
// the perifocal-to-ECI Cartesian transform, and the J2 secular propagator.
// Every function here is allocation-free and never fails; callers are
// responsible for filtering out degenerate inputs (e >= 1) upstream, per the
// propagation policy of the rest of the system.
package kepler

import "math"

// Elements are the seven classical Kepler elements of a single orbiting
// body: semi-major axis a (m), eccentricity e, inclination i (rad), RAAN Ω
// (rad), argument of pericenter ω (rad), mean anomaly M (rad), and true
// anomaly Nu (rad). Nu is always the Kepler-equation solution for (E, M);
// any mutation of E or M must be followed by a call to Resolve before Nu is
// used again.
type Elements struct {
	A       float64
	E       float64
	I       float64
	RAAN    float64
	ArgPeri float64
	M       float64
	Nu      float64
}

// newtonIterations is fixed per spec: five iterations from E=0, empirically
// sufficient for e < ~0.3. Larger e must be filtered upstream (see
// DESIGN.md open question 3); no convergence check is performed here.
const newtonIterations = 5

// SolveAnomaly solves Kepler's equation E - e*sin(E) = M for the eccentric
// anomaly via newtonIterations fixed Newton steps starting at E=0, and
// returns the corresponding true anomaly. Undefined for e >= 1.
func SolveAnomaly(e, m float64) float64 {
	E := 0.0
	for iter := 0; iter < newtonIterations; iter++ {
		sinE, cosE := math.Sincos(E)
		f := E - e*sinE - m
		fPrime := 1 - e*cosE
		E -= f / fPrime
	}
	sinE, cosE := math.Sincos(E / 2)
	halfFactor := math.Sqrt((1 + e) / (1 - e))
	return 2 * math.Atan2(halfFactor*sinE, cosE)
}

// Resolve recomputes Nu from the current E and M. Call after any direct
// mutation of E or M (e.g. after an impulse or a J2 step).
func (el *Elements) Resolve() {
	el.Nu = SolveAnomaly(el.E, el.M)
}

// wrap2pi normalizes an angle into [0, 2π), matching the modulo-normalize
// idiom the rest of this codebase's angles use.
func wrap2pi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// PerigeeRadius returns the radius of closest approach, a(1-e).
func (el Elements) PerigeeRadius() float64 {
	return el.A * (1 - el.E)
}

// ApogeeRadius returns the radius of farthest approach, a(1+e).
func (el Elements) ApogeeRadius() float64 {
	return el.A * (1 + el.E)
}

// Valid reports whether el still describes a bound, non-degenerate orbit
// (0 <= e < 1). A fragment whose elements fail this check is removed from
// the simulation per the driver's state machine.
func (el Elements) Valid() bool {
	return el.E >= 0 && el.E < 1 && !math.IsNaN(el.A) && !math.IsInf(el.A, 0)
}
