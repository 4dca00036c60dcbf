package kepler

import "math"

// Cartesian is a position/velocity pair in the Earth-centered inertial
// frame, expressed as fixed-size arrays so that ToCartesian never touches
// the heap.
type Cartesian struct {
	R [3]float64
	V [3]float64
}

// ToCartesian performs the standard perifocal-to-ECI transform (Ω, ω, i, ν)
// and writes the resulting position and velocity into out. mu is the
// gravitational parameter of the central body. out is never allocated by
// this call; the caller owns its storage.
func ToCartesian(el Elements, mu float64, out *Cartesian) {
	p := el.A * (1 - el.E*el.E)
	sinNu, cosNu := math.Sincos(el.Nu)
	r := p / (1 + el.E*cosNu)
	h := math.Sqrt(mu * p)
	muOverH := mu / h

	xPQW := r * cosNu
	yPQW := r * sinNu
	vxPQW := -muOverH * sinNu
	vyPQW := muOverH * (el.E + cosNu)

	sinO, cosO := math.Sincos(el.RAAN)
	sinW, cosW := math.Sincos(el.ArgPeri)
	sinI, cosI := math.Sincos(el.I)

	r11 := cosO*cosW - sinO*sinW*cosI
	r12 := -cosO*sinW - sinO*cosW*cosI
	r21 := sinO*cosW + cosO*sinW*cosI
	r22 := -sinO*sinW + cosO*cosW*cosI
	r31 := sinW * sinI
	r32 := cosW * sinI

	out.R[0] = r11*xPQW + r12*yPQW
	out.R[1] = r21*xPQW + r22*yPQW
	out.R[2] = r31*xPQW + r32*yPQW

	out.V[0] = r11*vxPQW + r12*vyPQW
	out.V[1] = r21*vxPQW + r22*vyPQW
	out.V[2] = r31*vxPQW + r32*vyPQW
}
