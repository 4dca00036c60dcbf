package visibility

import (
	"math"
	"testing"
)

func TestRangeMonotonicity(t *testing.T) {
	sc := [3]float64{7000e3, 0, 0}
	rangeMax := 100e3

	// start well within range, directly below spacecraft
	d := [3]float64{6900e3, 0, 0}
	if !Range(sc, d, rangeMax) {
		t.Fatalf("expected in-range at start")
	}

	flips := 0
	prev := true
	for dist := 0.0; dist <= 300e3; dist += 1e3 {
		d := [3]float64{7000e3 - dist, 0, 0}
		got := Range(sc, d, rangeMax)
		if got != prev {
			flips++
		}
		prev = got
	}
	if flips != 1 {
		t.Fatalf("expected exactly one range-predicate flip moving fragment away, got %d", flips)
	}
}

func TestIncidenceHeadOn(t *testing.T) {
	sc := [3]float64{7000e3, 0, 0}
	d := [3]float64{6900e3, 0, 0}
	// fragment velocity points directly at the spacecraft => head-on, angle ~0
	dv := [3]float64{1, 0, 0}
	if !Incidence(sc, d, dv, 0.1) {
		t.Fatalf("expected head-on incidence to pass a tight threshold")
	}
	// velocity perpendicular to the line of sight should fail a tight threshold
	dvPerp := [3]float64{0, 1, 0}
	if Incidence(sc, d, dvPerp, 0.1) {
		t.Fatalf("expected perpendicular incidence to fail a tight threshold")
	}
}

func TestPointingVectorPreservesMagnitude(t *testing.T) {
	scR := [3]float64{7000e3, 0, 0}
	scV := [3]float64{0, 7500, 100}
	p := PointingVector(scR, scV, 0.05)
	mag := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	vMag := math.Sqrt(scV[0]*scV[0] + scV[1]*scV[1] + scV[2]*scV[2])
	if math.Abs(mag-vMag) > 1e-6 {
		t.Fatalf("Rodrigues rotation should preserve vector magnitude: got %v want %v", mag, vMag)
	}
}

func TestFieldOfViewAlongPointingInView(t *testing.T) {
	scR := [3]float64{7000e3, 0, 0}
	scV := [3]float64{0, 7500, 0}
	reEarth := 6378137.0
	hCollision := 500e3
	hOffset := 10e3

	offsetAngle := OffsetAngle(reEarth, hCollision, hOffset)
	pointing := PointingVector(scR, scV, offsetAngle)
	pointingUnit := scaleVec(pointing, 1/math.Sqrt(dot(pointing, pointing)))

	// place the fragment exactly along the pointing vector from the
	// spacecraft so that -p⃗ aligns with the pointing vector
	dist := 50e3
	dR := [3]float64{
		scR[0] + pointingUnit[0]*dist,
		scR[1] + pointingUnit[1]*dist,
		scR[2] + pointingUnit[2]*dist,
	}

	if !FieldOfView(pointing, scR, dR, 0.2) {
		t.Fatalf("expected fragment aligned with pointing vector to be in FoV")
	}
}

func TestCompositeIsLogicalAnd(t *testing.T) {
	scR := [3]float64{7000e3, 0, 0}
	scV := [3]float64{0, 7500, 0}
	reEarth := 6378137.0
	hCollision := 500e3
	hOffset := 10e3

	offsetAngle := OffsetAngle(reEarth, hCollision, hOffset)
	pointing := PointingVector(scR, scV, offsetAngle)
	pointingUnit := scaleVec(pointing, 1/math.Sqrt(dot(pointing, pointing)))
	dist := 50e3
	dR := [3]float64{
		scR[0] + pointingUnit[0]*dist,
		scR[1] + pointingUnit[1]*dist,
		scR[2] + pointingUnit[2]*dist,
	}
	dV := [3]float64{-pointingUnit[0], -pointingUnit[1], -pointingUnit[2]}

	if !Composite(scR, dR, dV, pointing, 100e3, 1.5, 0.2) {
		t.Fatalf("expected composite true when all three predicates individually hold")
	}
	// blow the range threshold far below actual distance
	if Composite(scR, dR, dV, pointing, 1e3, 1.5, 0.2) {
		t.Fatalf("expected composite false when range predicate fails")
	}
}
