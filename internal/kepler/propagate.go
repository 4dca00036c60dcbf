package kepler

import "math"

// UpdateJ2 advances el in place from tRef to t under the secular J2 model:
// nodal regression of Ω, apsidal precession of ω, and mean-anomaly advance,
// holding a, e, i fixed. Short-periodic terms are deliberately omitted. mu,
// re, j2 are the central body's gravitational parameter, equatorial radius,
// and second zonal harmonic. Resolve is called before returning, so Nu is
// always consistent with the new M on exit.
func UpdateJ2(el *Elements, mu, re, j2, tRef, t float64) {
	dt := t - tRef
	n := math.Sqrt(mu / (el.A * el.A * el.A))
	oneMinusE2 := 1 - el.E*el.E
	denom := el.A * el.A * oneMinusE2 * oneMinusE2

	sinI, cosI := math.Sincos(el.I)

	raanDot := -1.5 * n * re * re * j2 * cosI / denom
	argPeriDot := 0.75 * n * re * re * j2 * (4 - 5*sinI*sinI) / denom

	el.RAAN = wrap2pi(el.RAAN + raanDot*dt)
	el.ArgPeri = wrap2pi(el.ArgPeri + argPeriDot*dt)
	el.M = wrap2pi(el.M + n*dt)

	el.Resolve()
}
