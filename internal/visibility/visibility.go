// Package visibility evaluates the three geometric visibility predicates —
// range, incidence angle, and field of view — and their logical-AND
// composite, over a spacecraft/fragment Cartesian state pair.
package visibility

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func neg(a [3]float64) [3]float64 {
	return [3]float64{-a[0], -a[1], -a[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}

// Range reports whether the slant range between spacecraft and fragment is
// within rangeMax.
func Range(scR, dR [3]float64, rangeMax float64) bool {
	p := sub(scR, dR)
	return norm(p) < rangeMax
}

// Incidence reports whether the angle between the fragment's velocity and
// the spacecraft-to-fragment relative position vector is within
// incidenceMax, enforcing near head-on illumination.
func Incidence(scR, dR, dV [3]float64, incidenceMax float64) bool {
	p := sub(scR, dR)
	cosAngle := dot(dV, p) / (norm(dV) * norm(p))
	cosAngle = clamp(cosAngle, -1, 1)
	return math.Acos(cosAngle) < incidenceMax
}

// PointingVector computes the laser's nominal pointing direction: -v⃗_sc
// rotated by the given offset angle about the (r⃗_sc × -v⃗_sc) axis using
// Rodrigues' rotation formula. It is computed per spacecraft state (once per
// epoch for the whole population, and once per bisection query), never per
// fragment, and is the sole caller of mat64 in this package.
func PointingVector(scR, scV [3]float64, offsetAngle float64) [3]float64 {
	negV := neg(scV)
	axisRaw := cross(scR, negV)
	axis := scaleVec(axisRaw, 1/norm(axisRaw))

	rot := rodrigues(axis, offsetAngle)
	vVec := mat64.NewVector(3, negV[:])
	var out mat64.Vector
	out.MulVec(rot, vVec)
	return [3]float64{out.At(0, 0), out.At(1, 0), out.At(2, 0)}
}

// rodrigues builds the rotation matrix for a right-handed rotation by angle
// theta about the given unit axis, via Rodrigues' rotation formula
// R = I + sin(θ)K + (1-cos(θ))K², where K is the cross-product matrix of
// axis.
func rodrigues(axis [3]float64, theta float64) *mat64.Dense {
	s, c := math.Sincos(theta)
	x, y, z := axis[0], axis[1], axis[2]
	k := mat64.NewDense(3, 3, []float64{
		0, -z, y,
		z, 0, -x,
		-y, x, 0,
	})
	var k2 mat64.Dense
	k2.Mul(k, k)

	var scaledK, scaledK2 mat64.Dense
	scaledK.Scale(s, k)
	scaledK2.Scale(1-c, &k2)

	rot := mat64.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	rot.Add(rot, &scaledK)
	rot.Add(rot, &scaledK2)
	return rot
}

// OffsetAngle returns the angle between the spacecraft's anti-velocity
// direction -v⃗_sc and its laser pointing direction,
// acos((R_e+h_collision)/(R_e+h_collision+h_offset)), the angle
// PointingVector rotates -v⃗_sc by.
func OffsetAngle(reEarth, hCollision, hOffset float64) float64 {
	return math.Acos((reEarth + hCollision) / (reEarth + hCollision + hOffset))
}

// FieldOfView reports whether the fragment lies within the laser's field of
// view: the angle between the already-computed pointing vector and -p⃗
// (p⃗ = r⃗_sc - r⃗_d) is less than fov/2. pointing is produced by
// PointingVector once per spacecraft state (it depends only on spacecraft state and
// fixed geometry constants, never on the fragment) and passed in here so
// this per-fragment call is pure dot/acos arithmetic with no allocation.
func FieldOfView(pointing, scR, dR [3]float64, fov float64) bool {
	p := sub(scR, dR)
	negP := neg(p)
	cosAngle := dot(pointing, negP) / (norm(pointing) * norm(negP))
	cosAngle = clamp(cosAngle, -1, 1)
	return math.Acos(cosAngle) < fov/2
}

// Composite is the logical AND of Range, Incidence, and FieldOfView. pointing
// is the spacecraft's laser pointing vector for this epoch, computed once by
// PointingVector and shared across every fragment's evaluation.
func Composite(scR, dR, dV, pointing [3]float64, rangeMax, incidenceMax, fov float64) bool {
	return Range(scR, dR, rangeMax) &&
		Incidence(scR, dR, dV, incidenceMax) &&
		FieldOfView(pointing, scR, dR, fov)
}

func scaleVec(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
