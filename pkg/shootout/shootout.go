// Package shootout implements the datasource shootout core: it compares
// frame-capture throughput across several named Kismet datasources tuned
// to the same channel and ranks them by packets per second.
//
// The run is a two-phase state machine. While Syncing, the SyncTracker
// waits for every tracked source to reach the target channel and records
// each source's cumulative packet counter at the moment it arrives; that
// counter becomes the source's zero offset, so sources that tuned late
// are not penalised for packets they never had a chance to see. Once
// every source has arrived the run transitions to Collecting, permanently,
// and the Accumulator turns zero-adjusted counters into per-tick deltas
// which the ranker converts into percentages and severity bands.
package shootout

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/source-shootout/pkg/kismet"
)

// State is the process-wide run phase. The transition from Syncing to
// Collecting happens exactly once; there is no way back.
type State int

const (
	StateSyncing State = iota
	StateCollecting
)

// String returns the phase name for logs.
func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateCollecting:
		return "collecting"
	default:
		return "unknown"
	}
}

// Source is one tracked capture device. Sources are created at startup
// from the operator-supplied name list and live until process exit.
// Name is the operator-chosen key; UUID and Hardware come from the
// server at enrollment and are never refreshed.
type Source struct {
	Name     string
	UUID     string
	Hardware string

	// offset is the cumulative packet count recorded the tick this source
	// first reported the target channel. Set exactly once per run.
	offset int64

	// total and previousTotal are the zero-adjusted counters for the
	// current and prior collecting tick.
	total         int64
	previousTotal int64

	synced bool
}

// NewSource creates a Source for the given operator-supplied name.
func NewSource(name string) *Source {
	return &Source{Name: name}
}

// Offset returns the packet-count baseline recorded at sync time.
func (s *Source) Offset() int64 { return s.offset }

// Total returns the zero-adjusted cumulative packet count.
func (s *Source) Total() int64 { return s.total }

// Reading is one source's state in a poll snapshot.
type Reading struct {
	Channel string
	Packets int64
}

// Snapshot maps source name to its reading at one poll instant. It is
// built fresh every tick and never retained.
type Snapshot map[string]Reading

// SnapshotFrom builds a Snapshot from the server's datasource list.
func SnapshotFrom(datasources []kismet.Datasource) Snapshot {
	snap := make(Snapshot, len(datasources))
	for _, ds := range datasources {
		snap[ds.Name] = Reading{Channel: ds.Channel, Packets: ds.Packets}
	}
	return snap
}

// Severity classifies a row for display. Precedence is critical > peak >
// low > warn > good; see SeverityFor.
type Severity int

const (
	SeverityGood Severity = iota
	SeverityWarn
	SeverityLow
	SeverityPeak
	SeverityCritical
)

// String returns the band name.
func (s Severity) String() string {
	switch s {
	case SeverityGood:
		return "good"
	case SeverityWarn:
		return "warn"
	case SeverityLow:
		return "low"
	case SeverityPeak:
		return "peak"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// DisplayRow is one source's ranked result for a single tick. Rows keep
// the registration order of their sources so the table layout is stable
// across ticks.
type DisplayRow struct {
	Name     string
	Hardware string
	Delta    int64
	Total    int64
	Percent  float64
	Severity Severity
}

// Registry is the monitoring-server surface the shootout consumes. It is
// implemented by kismet.Client; tests use MockRegistry.
type Registry interface {
	// CheckSession validates the authenticated session.
	CheckSession(ctx context.Context) error

	// Datasources returns the per-tick snapshot of every known source.
	Datasources(ctx context.Context) ([]kismet.Datasource, error)

	// ListInterfaces returns capture-capable interfaces, for enrollment.
	ListInterfaces(ctx context.Context) ([]kismet.Interface, error)

	// AddSource registers an unclaimed interface as a datasource.
	AddSource(ctx context.Context, definition string) error

	// SetChannel tunes a datasource to a channel.
	SetChannel(ctx context.Context, uuid, channel string) error
}

// Renderer consumes the ranked rows. Implementations own all text, color,
// and clear-screen concerns.
type Renderer interface {
	// Display renders one collecting tick. elapsed counts from the sync
	// instant, not process start.
	Display(rows []DisplayRow, elapsed time.Duration)

	// Waiting reports sync progress: the names still off-channel.
	Waiting(pending []string)
}
