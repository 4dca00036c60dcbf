package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `Name,d_eq,a,e,i,long_asc,arg_peri,mean_anom,M,A_M
collision-A,0.05,7000000,0.01,1.0,0.2,0.3,0.4,5.0,0.02
collision-A,0.2,7000000,0.01,1.0,0.2,0.3,0.4,5.0,0.02
collision-B,0.05,7000000,0.01,1.0,0.2,0.3,0.4,5.0,0.02
collision-A,0.05,7000000,1.5,1.0,0.2,0.3,0.4,5.0,0.02
collision-A,0.05,6400000,0.001,1.0,0.2,0.3,0.4,5.0,0.02
`

func TestLoadParsesAllRows(t *testing.T) {
	recs, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(recs))
	}
	if recs[0].Name != "collision-A" || recs[0].Elements.A != 7000000 {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
}

func TestLoadMissingColumnErrors(t *testing.T) {
	_, err := Load(strings.NewReader("Name,a,e\ncollision-A,7000000,0.01\n"))
	if err == nil {
		t.Fatalf("expected error for missing required columns")
	}
}

func TestFilterAppliesAllCriteria(t *testing.T) {
	recs, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	filtered := Filter(recs, FilterParams{
		Tag:           "collision-A",
		MaxDEq:        0.1,
		REarth:        6378137,
		MinPerigeeAlt: 200e3,
		MaxCount:      0,
	})
	// of the 5 rows: row0 passes everything; row1 fails d_eq; row2 fails tag;
	// row3 fails eccentricity; row4 fails perigee altitude (a too small)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 surviving record, got %d: %+v", len(filtered), filtered)
	}
}

func TestFilterRespectsMaxCount(t *testing.T) {
	recs, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	filtered := Filter(recs, FilterParams{
		Tag:           "collision-A",
		MaxDEq:        1.0,
		REarth:        6378137,
		MinPerigeeAlt: -7000000,
		MaxCount:      1,
	})
	if len(filtered) != 1 {
		t.Fatalf("expected MaxCount to cap result at 1, got %d", len(filtered))
	}
}
