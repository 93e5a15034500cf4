package shootout

// Rate is one source's result from a collecting tick: packets received
// since the previous tick and the zero-adjusted running total.
type Rate struct {
	Delta int64
	Total int64
}

// Accumulator maintains per-source counters during the Collecting phase.
// It performs no I/O; Update is a pure function of the snapshot and the
// accumulator's prior state.
type Accumulator struct {
	sources []*Source
}

// NewAccumulator wraps the tracked sources. The sources must already
// carry their sync-time offsets; at that boundary every total is zero,
// so the first Update yields deltas counted from the sync instant.
func NewAccumulator(sources []*Source) *Accumulator {
	return &Accumulator{sources: sources}
}

// Update folds one snapshot into the per-source counters and returns the
// resulting rates keyed by source name. Call once per tick, only while
// Collecting.
//
// A source absent from the snapshot, or whose raw counter has gone
// backwards (the server reset it), keeps its previous total and reports
// a zero delta; the stall then surfaces through the critical severity
// band rather than as a negative rate.
func (a *Accumulator) Update(snap Snapshot) map[string]Rate {
	rates := make(map[string]Rate, len(a.sources))
	for _, s := range a.sources {
		s.previousTotal = s.total
		if r, ok := snap[s.Name]; ok {
			if total := r.Packets - s.offset; total > s.total {
				s.total = total
			}
		}
		rates[s.Name] = Rate{Delta: s.total - s.previousTotal, Total: s.total}
	}
	return rates
}
