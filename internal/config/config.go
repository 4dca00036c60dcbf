// Package config loads scenario files with spf13/viper, the same
// SetConfigName/AddConfigPath/ReadInConfig bootstrap the teacher's
// config.go and cmd/mission/main.go use, and reads/writes the results CSV
// described in the external interfaces.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults for the Earth-model constants, per the external interface table.
const (
	DefaultREarth = 6378137.0
	DefaultJ2     = 1.08263e-3
	DefaultMu     = 3.986004418e14
)

// Run is one configuration record: the recognized options of the external
// interface table, plus the catalogue/tag/output wiring a run actually
// needs to execute (not itself part of that table, but required the same
// way the teacher's cmd/mission/main.go reads scenario/orbit fields beyond
// the documented burn table).
type Run struct {
	REarth float64
	J2     float64
	Mu     float64

	CatalogPath string
	Tag         string
	ResultsPath string

	HCollision     float64
	DN             int
	T0             float64
	HOffset        float64
	TargetFraction float64
	MaxDV          float64
	FoV            float64
	Range          float64
	IncidenceAngle float64
	AblationTime   float64
	ScanTime       float64
	CooldownTime   float64
	Fluence        float64
	Cm             float64
	Freq           float64
	MinPerigee     float64
	TMax           float64
	BisectTol      float64
}

// Load reads a TOML scenario file (by base name, without extension, found
// on path) and returns its [[run]] array-of-tables records. A missing
// catalog_path, tag or results_path, or a negative duration, is a
// configuration error (§7): returned as a plain error, never a panic. The
// numeric options are not checked for presence or type: one that is absent,
// or whose value does not convert to a number, reads as zero (r_e, j2 and mu
// keep their defaults when absent).
func Load(name, path string) ([]Run, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.AddConfigPath(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}

	var raw []map[string]interface{}
	if err := v.UnmarshalKey("run", &raw); err != nil {
		return nil, fmt.Errorf("parsing [[run]] records: %w", err)
	}

	runs := make([]Run, 0, len(raw))
	for i := range raw {
		run, err := parseRun(v, i)
		if err != nil {
			return nil, fmt.Errorf("run[%d]: %w", i, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func parseRun(v *viper.Viper, i int) (Run, error) {
	key := func(field string) string { return fmt.Sprintf("run.%d.%s", i, field) }

	r := Run{
		REarth: DefaultREarth,
		J2:     DefaultJ2,
		Mu:     DefaultMu,
	}
	if v.IsSet(key("r_e")) {
		r.REarth = v.GetFloat64(key("r_e"))
	}
	if v.IsSet(key("j2")) {
		r.J2 = v.GetFloat64(key("j2"))
	}
	if v.IsSet(key("mu")) {
		r.Mu = v.GetFloat64(key("mu"))
	}

	r.CatalogPath = v.GetString(key("catalog_path"))
	if r.CatalogPath == "" {
		return Run{}, fmt.Errorf("missing catalog_path")
	}
	r.Tag = v.GetString(key("tag"))
	if r.Tag == "" {
		return Run{}, fmt.Errorf("missing tag")
	}
	r.ResultsPath = v.GetString(key("results_path"))
	if r.ResultsPath == "" {
		return Run{}, fmt.Errorf("missing results_path")
	}

	r.HCollision = v.GetFloat64(key("h_collision"))
	r.DN = v.GetInt(key("d_n"))
	r.T0 = v.GetFloat64(key("t0"))
	r.HOffset = v.GetFloat64(key("h_offset"))
	r.TargetFraction = v.GetFloat64(key("target_fraction"))
	r.MaxDV = v.GetFloat64(key("max_dv"))
	r.FoV = v.GetFloat64(key("fov"))
	r.Range = v.GetFloat64(key("range"))
	r.IncidenceAngle = v.GetFloat64(key("incidence_angle"))
	r.AblationTime = v.GetFloat64(key("ablation_time"))
	r.ScanTime = v.GetFloat64(key("scan_time"))
	r.CooldownTime = v.GetFloat64(key("cooldown_time"))
	r.Fluence = v.GetFloat64(key("fluence"))
	r.Cm = v.GetFloat64(key("cm"))
	r.Freq = v.GetFloat64(key("freq"))
	r.MinPerigee = v.GetFloat64(key("min_perigee"))
	r.TMax = v.GetFloat64(key("t_max"))
	r.BisectTol = v.GetFloat64(key("bisect_tol"))

	for name, val := range map[string]float64{
		"ablation_time": r.AblationTime,
		"scan_time":     r.ScanTime,
		"cooldown_time": r.CooldownTime,
		"t_max":         r.TMax,
		"bisect_tol":    r.BisectTol,
	} {
		if val < 0 {
			return Run{}, fmt.Errorf("negative duration for %s: %v", name, val)
		}
	}

	return r, nil
}
