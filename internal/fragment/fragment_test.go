package fragment

import (
	"testing"

	"github.com/eliasboegel/ldr/internal/kepler"
)

const mu = 3.986004418e14
const re = 6378137.0
const j2 = 1.08263e-3

func newTestPopulation(n int) *Population {
	p := New(n)
	for i := range p.Elements {
		p.Elements[i] = kepler.Elements{A: 7000e3 + float64(i)*1e3, E: 0.01, I: 1.0, RAAN: 0.1, ArgPeri: 0.2, M: 0.3}
		p.Elements[i].Resolve()
		p.AreaToMass[i] = 0.02
		p.Mass[i] = 5
	}
	return p
}

func TestPropagateSkipsRemoved(t *testing.T) {
	p := newTestPopulation(4)
	p.Removed[1] = true
	before := p.Elements[1]
	p.Propagate(mu, re, j2, 0, 1000, 2)
	if p.Elements[1] != before {
		t.Fatalf("removed fragment should not be propagated")
	}
	if p.Elements[0] == before {
		t.Fatalf("non-removed fragment should have been propagated")
	}
}

func TestCompactDropsShotEntries(t *testing.T) {
	p := newTestPopulation(5)
	p.Shot[1] = true
	p.Shot[3] = true
	p.Removed[1] = true
	p.Removed[3] = true
	keepA := []float64{p.Elements[0].A, p.Elements[2].A, p.Elements[4].A}

	p.Compact()

	if p.Len() != 3 {
		t.Fatalf("expected 3 survivors, got %d", p.Len())
	}
	for i, want := range keepA {
		if p.Elements[i].A != want {
			t.Fatalf("survivor order mismatch at %d: got %v want %v", i, p.Elements[i].A, want)
		}
	}
}

func TestRemovedCount(t *testing.T) {
	p := newTestPopulation(4)
	p.Removed[0] = true
	p.Removed[2] = true
	if p.RemovedCount() != 2 {
		t.Fatalf("expected removed count 2, got %d", p.RemovedCount())
	}
}

func TestWorkerRangesCoverAllIndices(t *testing.T) {
	seen := make([]bool, 17)
	for _, rng := range workerRanges(17, 4) {
		for i := rng[0]; i < rng[1]; i++ {
			if seen[i] {
				t.Fatalf("index %d covered twice", i)
			}
			seen[i] = true
		}
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("index %d never covered", i)
		}
	}
}
