package shootout

import (
	"math"
	"testing"
)

func rankedSource(name string, total, previousTotal int64) *Source {
	s := NewSource(name)
	s.synced = true
	s.total = total
	s.previousTotal = previousTotal
	return s
}

func TestSeverityForPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		delta   int64
		percent float64
		want    Severity
	}{
		{"stalled beats peak", 0, 1.0, SeverityCritical},
		{"stalled beats low", 0, 0.2, SeverityCritical},
		{"leader", 5, 1.0, SeverityPeak},
		{"just under low threshold", 5, 0.74, SeverityLow},
		{"at low threshold", 5, 0.75, SeverityWarn},
		{"just under warn threshold", 5, 0.89, SeverityWarn},
		{"at warn threshold", 5, 0.90, SeverityGood},
		{"near leader", 5, 0.99, SeverityGood},
	}
	for _, tc := range cases {
		if got := SeverityFor(tc.delta, tc.percent); got != tc.want {
			t.Errorf("%s: SeverityFor(%d, %v) = %v, want %v", tc.name, tc.delta, tc.percent, got, tc.want)
		}
	}
}

func TestRankRelativePercents(t *testing.T) {
	sources := []*Source{
		rankedSource("a", 50, 0),
		rankedSource("b", 60, 0),
		rankedSource("c", 40, 0),
	}
	rows := Rank(sources)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	wantPercent := []float64{50.0 / 60.0, 1.0, 40.0 / 60.0}
	wantSeverity := []Severity{SeverityWarn, SeverityPeak, SeverityLow}
	for i, row := range rows {
		if math.Abs(row.Percent-wantPercent[i]) > 1e-9 {
			t.Errorf("rows[%d].Percent = %v, want %v", i, row.Percent, wantPercent[i])
		}
		if row.Severity != wantSeverity[i] {
			t.Errorf("rows[%d].Severity = %v, want %v", i, row.Severity, wantSeverity[i])
		}
	}
}

func TestRankLeaderAlwaysAtFullPercent(t *testing.T) {
	sources := []*Source{
		rankedSource("a", 7, 0),
		rankedSource("b", 3, 0),
	}
	rows := Rank(sources)
	var sawFull bool
	for _, row := range rows {
		if row.Percent < 0 || row.Percent > 1 {
			t.Errorf("%s percent = %v, want within [0, 1]", row.Name, row.Percent)
		}
		if row.Percent == 1.0 {
			sawFull = true
		}
	}
	if !sawFull {
		t.Error("no row at 100%, the leader must always be at full percent")
	}
}

func TestRankAllZeroTotals(t *testing.T) {
	sources := []*Source{
		rankedSource("a", 0, 0),
		rankedSource("b", 0, 0),
	}
	rows := Rank(sources)
	for _, row := range rows {
		if row.Percent != 0 {
			t.Errorf("%s percent = %v, want 0", row.Name, row.Percent)
		}
		if row.Severity != SeverityCritical {
			t.Errorf("%s severity = %v, want critical", row.Name, row.Severity)
		}
	}
}

func TestRankKeepsRegistrationOrder(t *testing.T) {
	// c leads, but rows must not reorder into a leaderboard.
	sources := []*Source{
		rankedSource("a", 10, 5),
		rankedSource("b", 20, 10),
		rankedSource("c", 30, 15),
	}
	rows := Rank(sources)
	want := []string{"a", "b", "c"}
	for i, row := range rows {
		if row.Name != want[i] {
			t.Errorf("rows[%d].Name = %q, want %q", i, row.Name, want[i])
		}
	}
}
