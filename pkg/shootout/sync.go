package shootout

// SyncResult is the outcome of one syncing-phase tick.
type SyncResult int

const (
	StillSyncing SyncResult = iota
	AllSynced
)

// SyncTracker watches per-source tuning state during the Syncing phase.
// Each tracked source's offset is captured from the first snapshot in
// which it reports the target channel; AllSynced fires on the first tick
// where every source has an offset.
type SyncTracker struct {
	channel        string
	ignoreChannels bool
	sources        []*Source
	done           bool
}

// NewSyncTracker tracks the given sources until all reach channel. When
// ignoreChannels is set (the run was started with channel errors
// ignored), any reading counts as arrival regardless of its channel.
func NewSyncTracker(sources []*Source, channel string, ignoreChannels bool) *SyncTracker {
	return &SyncTracker{
		channel:        channel,
		ignoreChannels: ignoreChannels,
		sources:        sources,
	}
}

// Observe processes one snapshot. Sources absent from the snapshot are
// simply not yet synced, never an error. After AllSynced has fired once,
// further snapshots leave every offset untouched.
func (t *SyncTracker) Observe(snap Snapshot) SyncResult {
	if t.done {
		return AllSynced
	}

	synced := 0
	for _, s := range t.sources {
		if s.synced {
			synced++
			continue
		}
		r, ok := snap[s.Name]
		if !ok {
			continue
		}
		if r.Channel == t.channel || t.ignoreChannels {
			s.offset = r.Packets
			s.synced = true
			synced++
		}
	}

	if len(t.sources) > 0 && synced == len(t.sources) {
		t.done = true
		return AllSynced
	}
	return StillSyncing
}

// Pending returns the names of sources that have not reached the target
// channel yet, in registration order.
func (t *SyncTracker) Pending() []string {
	var pending []string
	for _, s := range t.sources {
		if !s.synced {
			pending = append(pending, s.Name)
		}
	}
	return pending
}

// Done reports whether AllSynced has fired.
func (t *SyncTracker) Done() bool {
	return t.done
}
