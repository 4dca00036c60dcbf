package config

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleResult() Result {
	return Result{
		HCollision: 800e3, FragmentCount: 100, T0Days: 1.5, HOffset: 5e3, TargetFraction: 0.5,
		FoVDeg: 10, Range: 50e3, IncidenceDeg: 5, AblationTime: 30, ScanTime: 10,
		CooldownTime: 60, Fluence: 10, MinPerigee: 200e3, TimeRequiredDays: 3.2, FractionRemoved: 0.51,
	}
}

func TestAppendWritesHeaderOnceThenAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")

	if err := Append(path, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2 := sampleResult()
	r2.FractionRemoved = 0.9
	if err := Append(path, r2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading file: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 3 {
		t.Fatalf("expected header + 2 rows (3 lines), got %d", lines)
	}
}

func TestAlreadyRunDetectsMatchingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")

	base := sampleResult()
	if err := Append(path, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	match, err := AlreadyRun(path, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match {
		t.Fatalf("expected identical config to be detected as already run")
	}

	different := base
	different.HCollision = 900e3
	match, err = AlreadyRun(path, different)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match {
		t.Fatalf("expected differing config to not match")
	}
}

func TestAlreadyRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.csv")
	match, err := AlreadyRun(path, sampleResult())
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if match {
		t.Fatalf("missing file should never match")
	}
}
