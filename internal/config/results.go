package config

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
)

// resultsHeader matches the external interface's output column order.
var resultsHeader = []string{
	"h_collision", "fragment_count", "t0_days", "h_offset", "target_fraction",
	"fov_deg", "range", "incidence_deg", "ablation_time", "scan_time",
	"cooldown_time", "fluence", "min_perigee", "time_required_days", "fraction_removed",
}

// Result is one row of the output series: the configuration that produced
// it, plus the outcome (time required and fraction removed).
type Result struct {
	HCollision       float64
	FragmentCount    int
	T0Days           float64
	HOffset          float64
	TargetFraction   float64
	FoVDeg           float64
	Range            float64
	IncidenceDeg     float64
	AblationTime     float64
	ScanTime         float64
	CooldownTime     float64
	Fluence          float64
	MinPerigee       float64
	TimeRequiredDays float64
	FractionRemoved  float64
}

func (r Result) row() []string {
	f := func(v float64) string { return fmt.Sprintf("%g", v) }
	return []string{
		f(r.HCollision), fmt.Sprintf("%d", r.FragmentCount), f(r.T0Days), f(r.HOffset), f(r.TargetFraction),
		f(r.FoVDeg), f(r.Range), f(r.IncidenceDeg), f(r.AblationTime), f(r.ScanTime),
		f(r.CooldownTime), f(r.Fluence), f(r.MinPerigee), f(r.TimeRequiredDays), f(r.FractionRemoved),
	}
}

// matchTolerance is the approximate-equality threshold for the skip-if-
// already-run check on the numeric configuration columns (all but
// time_required_days/fraction_removed, which are outcomes, not config).
const matchTolerance = 1e-9

// configEqual reports whether a and b describe the same run configuration
// (every field but the outcome fields), within matchTolerance.
func configEqual(a, b Result) bool {
	close := func(x, y float64) bool {
		return math.Abs(x-y) <= matchTolerance*math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	}
	return close(a.HCollision, b.HCollision) &&
		a.FragmentCount == b.FragmentCount &&
		close(a.T0Days, b.T0Days) &&
		close(a.HOffset, b.HOffset) &&
		close(a.TargetFraction, b.TargetFraction) &&
		close(a.FoVDeg, b.FoVDeg) &&
		close(a.Range, b.Range) &&
		close(a.IncidenceDeg, b.IncidenceDeg) &&
		close(a.AblationTime, b.AblationTime) &&
		close(a.ScanTime, b.ScanTime) &&
		close(a.CooldownTime, b.CooldownTime) &&
		close(a.Fluence, b.Fluence) &&
		close(a.MinPerigee, b.MinPerigee)
}

// AlreadyRun reports whether path already contains a row whose
// configuration columns match result (approximate equality), per the
// external interface's skip-if-already-run rule. A missing file counts as
// "no match".
func AlreadyRun(path string, result Result) (bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening results file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	rows, err := cr.ReadAll()
	if err != nil {
		return false, fmt.Errorf("reading results file: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	for _, row := range rows[1:] {
		existing, err := parseResultRow(row)
		if err != nil {
			continue
		}
		if configEqual(existing, result) {
			return true, nil
		}
	}
	return false, nil
}

func parseResultRow(row []string) (Result, error) {
	if len(row) != len(resultsHeader) {
		return Result{}, fmt.Errorf("unexpected column count %d", len(row))
	}
	var f [15]float64
	for i, s := range row {
		if i == 1 {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
			return Result{}, err
		}
		f[i] = v
	}
	var count int
	if _, err := fmt.Sscanf(row[1], "%d", &count); err != nil {
		return Result{}, err
	}
	return Result{
		HCollision: f[0], FragmentCount: count, T0Days: f[2], HOffset: f[3], TargetFraction: f[4],
		FoVDeg: f[5], Range: f[6], IncidenceDeg: f[7], AblationTime: f[8], ScanTime: f[9],
		CooldownTime: f[10], Fluence: f[11], MinPerigee: f[12], TimeRequiredDays: f[13], FractionRemoved: f[14],
	}, nil
}

// Append writes result to path as a new row, writing the header first if
// the file is empty or does not yet exist. An I/O error here is surfaced
// per §7; the caller's in-memory run result is discarded regardless.
func Append(path string, result Result) error {
	info, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(resultsHeader); err != nil {
			return fmt.Errorf("writing results header: %w", err)
		}
	}
	if err := w.Write(result.row()); err != nil {
		return fmt.Errorf("writing results row: %w", err)
	}
	w.Flush()
	return w.Error()
}
