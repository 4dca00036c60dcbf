package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gonum/floats"
)

const sampleScenario = `
[[run]]
catalog_path = "fragments.csv"
tag = "collision-A"
results_path = "results.csv"
h_collision = 800000
d_n = 500
t0 = 0
h_offset = 5000
target_fraction = 0.5
max_dv = 0.01
fov = 0.2
range = 50000
incidence_angle = 0.3
ablation_time = 30
scan_time = 10
cooldown_time = 60
fluence = 10
cm = 0.00005
freq = 20
min_perigee = 200000
t_max = 86400
bisect_tol = 0.1

[[run]]
catalog_path = "fragments.csv"
tag = "collision-B"
results_path = "results.csv"
r_e = 6000000
h_collision = 700000
d_n = 200
t0 = 100
h_offset = 4000
target_fraction = 0.8
max_dv = 0.02
fov = 0.3
range = 40000
incidence_angle = 0.25
ablation_time = 20
scan_time = 5
cooldown_time = 30
fluence = 8
cm = 0.00004
freq = 15
min_perigee = 150000
t_max = 50000
bisect_tol = 0.05
`

func TestLoadParsesMultipleRuns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scenario.toml"), []byte(sampleScenario), 0644); err != nil {
		t.Fatalf("unexpected error writing scenario: %v", err)
	}

	runs, err := Load("scenario", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	if !floats.EqualWithinAbs(runs[0].REarth, DefaultREarth, 1) {
		t.Fatalf("expected default R_e for run 0, got %v", runs[0].REarth)
	}
	if runs[0].Tag != "collision-A" {
		t.Fatalf("unexpected tag for run 0: %v", runs[0].Tag)
	}

	if !floats.EqualWithinAbs(runs[1].REarth, 6000000, 1) {
		t.Fatalf("expected overridden R_e for run 1, got %v", runs[1].REarth)
	}
	if runs[1].Tag != "collision-B" {
		t.Fatalf("unexpected tag for run 1: %v", runs[1].Tag)
	}
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	bad := `
[[run]]
h_collision = 800000
`
	if err := os.WriteFile(filepath.Join(dir, "scenario.toml"), []byte(bad), 0644); err != nil {
		t.Fatalf("unexpected error writing scenario: %v", err)
	}

	_, err := Load("scenario", dir)
	if err == nil {
		t.Fatalf("expected error for missing catalog_path/tag/results_path")
	}
}
