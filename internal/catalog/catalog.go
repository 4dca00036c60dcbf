// Package catalog loads a fragment catalogue from CSV and applies the run
// harness's admission filters, adapting the teacher's config.go line-by-line
// numeric-field parsing (there, a headerless ephemeris file scanned with
// bufio.Scanner + strconv.ParseFloat) to a header-bearing encoding/csv file.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/eliasboegel/ldr/internal/kepler"
)

// requiredColumns lists the header fields this loader expects, in the
// column order the external interface defines. Note mean_anom is the
// Kepler mean-anomaly angle (rad) while M is target mass (kg) — the
// catalogue's column naming, not this loader's.
var requiredColumns = []string{"Name", "d_eq", "a", "e", "i", "long_asc", "arg_peri", "mean_anom", "M", "A_M"}

// Record is one parsed catalogue row: its Kepler elements plus the physical
// properties the run harness and impulse model need.
type Record struct {
	Name       string
	DEq        float64
	Elements   kepler.Elements
	Mass       float64
	AreaToMass float64
}

// Load reads a CSV fragment catalogue from r, validating the required
// header and parsing each row's SI-unit fields. A missing column or an
// unparseable numeric field is a configuration/input-data error (§7):
// returned as a plain error, never a panic, and no partial result is used.
func Load(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalogue header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	for _, want := range requiredColumns {
		if _, ok := colIndex[want]; !ok {
			return nil, fmt.Errorf("catalogue missing required column %q", want)
		}
	}

	var records []Record
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalogue row %d: %w", rowNum, err)
		}
		rowNum++

		field := func(name string) (float64, error) {
			v, err := strconv.ParseFloat(row[colIndex[name]], 64)
			if err != nil {
				return 0, fmt.Errorf("row %d column %q: %w", rowNum, name, err)
			}
			return v, nil
		}

		var rec Record
		rec.Name = row[colIndex["Name"]]
		if rec.DEq, err = field("d_eq"); err != nil {
			return nil, err
		}
		if rec.Elements.A, err = field("a"); err != nil {
			return nil, err
		}
		if rec.Elements.E, err = field("e"); err != nil {
			return nil, err
		}
		if rec.Elements.I, err = field("i"); err != nil {
			return nil, err
		}
		if rec.Elements.RAAN, err = field("long_asc"); err != nil {
			return nil, err
		}
		if rec.Elements.ArgPeri, err = field("arg_peri"); err != nil {
			return nil, err
		}
		if rec.Elements.M, err = field("mean_anom"); err != nil {
			return nil, err
		}
		if rec.Mass, err = field("M"); err != nil {
			return nil, err
		}
		if rec.AreaToMass, err = field("A_M"); err != nil {
			return nil, err
		}
		rec.Elements.Resolve()

		records = append(records, rec)
	}
	return records, nil
}

// FilterParams bundles the run harness's admission criteria (spec §4.6):
// a fragment tag to match by name, the maximum admitted equivalent
// diameter, and the minimum perigee/apogee altitude above the Earth's
// surface (naturally-decaying fragments already below it are dropped).
type FilterParams struct {
	Tag           string
	MaxDEq        float64
	REarth        float64
	MinPerigeeAlt float64
	MaxCount      int
}

// Filter applies the run harness's admission filters to records: name
// matches Tag, d_eq < MaxDEq, 0 < e < 1, and perigee/apogee both above
// REarth+MinPerigeeAlt. The result is capped at MaxCount entries (<=0 means
// unlimited).
func Filter(records []Record, p FilterParams) []Record {
	var out []Record
	minRadius := p.REarth + p.MinPerigeeAlt
	for _, rec := range records {
		if rec.Name != p.Tag {
			continue
		}
		if rec.DEq >= p.MaxDEq {
			continue
		}
		e := rec.Elements.E
		if !(e > 0 && e < 1) {
			continue
		}
		if rec.Elements.PerigeeRadius() <= minRadius || rec.Elements.ApogeeRadius() <= minRadius {
			continue
		}
		out = append(out, rec)
		if p.MaxCount > 0 && len(out) >= p.MaxCount {
			break
		}
	}
	return out
}
