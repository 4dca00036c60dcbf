// Package spacecraft holds the single-vehicle state of the laser platform:
// its Kepler/Cartesian state, cooldown bookkeeping, and the laser device
// model, generalizing the teacher's Spacecraft/EPThruster shapes
// (spacecraft.go, thrusters.go) to the one-instrument, one-orbit vehicle
// this system simulates.
package spacecraft

import (
	"math"

	"github.com/eliasboegel/ldr/internal/kepler"
)

// Spacecraft is the laser platform: its Kepler state, the Cartesian state
// derived from the most recent propagation, and the time of its last laser
// pulse (negative infinity until the first shot).
type Spacecraft struct {
	Elements      kepler.Elements
	Cartesian     kepler.Cartesian
	LastPulseTime float64
}

// New constructs a Spacecraft seeded at the given Kepler elements with no
// prior pulse recorded.
func New(el kepler.Elements) *Spacecraft {
	el.Resolve()
	return &Spacecraft{Elements: el, LastPulseTime: math.Inf(-1)}
}

// Propagate advances the spacecraft's Kepler state under the secular J2
// model from tRef to t and recomputes its Cartesian state.
func (s *Spacecraft) Propagate(mu, re, j2, tRef, t float64) {
	kepler.UpdateJ2(&s.Elements, mu, re, j2, tRef, t)
	kepler.ToCartesian(s.Elements, mu, &s.Cartesian)
}

// Laser is the pulsed ablation device: Fluence (J/m²), Cm (N·s/J, the
// momentum coupling coefficient), and Freq (Hz, pulse rate), generalizing
// the teacher's EPThruster device-constants-plus-one-formula shape
// (thrusters.go's GenericEP) to this system's single fixed laser model.
type Laser struct {
	Fluence float64
	Cm      float64
	Freq    float64
}

// AblationDeltaV returns the impulsive ΔV magnitude (m/s) imparted to a
// target of the given area-to-mass ratio (m²/kg) over ablationTime (s):
// fluence · Cm · freq · (A/M) · ablation_time.
func (l Laser) AblationDeltaV(areaToMass, ablationTime float64) float64 {
	return l.Fluence * l.Cm * l.Freq * areaToMass * ablationTime
}
