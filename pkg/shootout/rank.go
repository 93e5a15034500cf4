package shootout

// Severity band thresholds, as fractions of the leader's total.
const (
	lowThreshold  = 0.75
	warnThreshold = 0.90
)

// SeverityFor classifies one source. First match wins:
//
//  1. critical: no new packets this tick; a stalled capture is flagged
//     regardless of its historical total, even if it is the leader.
//  2. peak: this source holds the maximum total.
//  3. low: under 75% of the leader.
//  4. warn: under 90% of the leader.
//  5. good: otherwise.
func SeverityFor(delta int64, percent float64) Severity {
	switch {
	case delta < 1:
		return SeverityCritical
	case percent == 1.0:
		return SeverityPeak
	case percent < lowThreshold:
		return SeverityLow
	case percent < warnThreshold:
		return SeverityWarn
	default:
		return SeverityGood
	}
}

// Rank turns the tracked sources into display rows: each source's total
// relative to the maximum observed total, banded by severity. Rows keep
// registration order; operators expect a fixed layout across ticks, not
// a leaderboard shuffle.
func Rank(sources []*Source) []DisplayRow {
	var maxTotal int64
	for _, s := range sources {
		if s.total > maxTotal {
			maxTotal = s.total
		}
	}
	// With no packets anywhere, show everything as 0% instead of NaN.
	divisor := maxTotal
	if divisor == 0 {
		divisor = 1
	}

	rows := make([]DisplayRow, 0, len(sources))
	for _, s := range sources {
		delta := s.total - s.previousTotal
		percent := float64(s.total) / float64(divisor)
		rows = append(rows, DisplayRow{
			Name:     s.Name,
			Hardware: s.Hardware,
			Delta:    delta,
			Total:    s.total,
			Percent:  percent,
			Severity: SeverityFor(delta, percent),
		})
	}
	return rows
}
