// Package bisect implements the visibility-window transition-time
// sub-solver: given a predicate that can be evaluated at any simulation
// time by re-propagating from a cached reference epoch, find the time at
// which it transitions, to within a tolerance.
package bisect

// Predicate evaluates the composite visibility predicate at time t by
// re-propagating from whatever reference epoch the caller has cached — it
// must never propagate incrementally from a previous call's t, to avoid
// accumulating error across repeated bisection steps.
type Predicate func(t float64) bool

// Solve finds the transition time of predicate within [tLeft, tRight],
// where exactly one of tLeft or tRight equals tRef (the interval brackets
// tRef on one side), to within tol seconds.
//
// If the predicate agrees at both endpoints, the transition (if any) is
// narrower than the interval and is discarded conservatively: Solve returns
// the outer endpoint (the one that is not tRef). Otherwise it bisects:
// at each step the midpoint is evaluated, and the boundary matching the
// midpoint's value is moved to the midpoint, until the interval width is at
// most tol.
func Solve(tRef, tLeft, tRight, tol float64, predicate Predicate) float64 {
	leftVal := predicate(tLeft)
	rightVal := predicate(tRight)

	if leftVal == rightVal {
		if tLeft == tRef {
			return tRight
		}
		return tLeft
	}

	for tRight-tLeft > tol {
		mid := (tLeft + tRight) / 2
		midVal := predicate(mid)
		if midVal == leftVal {
			tLeft = mid
		} else {
			tRight = mid
		}
	}
	return (tLeft + tRight) / 2
}
