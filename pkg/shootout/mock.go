package shootout

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/source-shootout/pkg/kismet"
)

// MockRegistry implements Registry for testing. Datasource listings are
// served from a queue, one entry per call, so tests can script what the
// server reports on each tick; the last entry repeats once the queue is
// exhausted.
type MockRegistry struct {
	listings [][]kismet.Datasource
	listIdx  int

	interfaces []kismet.Interface

	sessionErr error
	listErr    error
	addErr     error
	tuneErr    error

	SessionChecks int
	ListCalls     int
	AddedSources  []string
	TunedChannels map[string]string
}

// MockRegistryOption configures a MockRegistry.
type MockRegistryOption func(*MockRegistry)

// WithListings scripts the datasource listings returned by successive
// Datasources calls.
func WithListings(listings ...[]kismet.Datasource) MockRegistryOption {
	return func(m *MockRegistry) { m.listings = listings }
}

// WithInterfaces sets the probed interface list.
func WithInterfaces(interfaces ...kismet.Interface) MockRegistryOption {
	return func(m *MockRegistry) { m.interfaces = interfaces }
}

// WithSessionError makes CheckSession fail.
func WithSessionError(err error) MockRegistryOption {
	return func(m *MockRegistry) { m.sessionErr = err }
}

// WithListError makes Datasources fail.
func WithListError(err error) MockRegistryOption {
	return func(m *MockRegistry) { m.listErr = err }
}

// WithAddError makes AddSource fail.
func WithAddError(err error) MockRegistryOption {
	return func(m *MockRegistry) { m.addErr = err }
}

// WithTuneError makes SetChannel fail.
func WithTuneError(err error) MockRegistryOption {
	return func(m *MockRegistry) { m.tuneErr = err }
}

// NewMockRegistry creates a mock registry with the given options.
func NewMockRegistry(opts ...MockRegistryOption) *MockRegistry {
	m := &MockRegistry{TunedChannels: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckSession implements Registry.
func (m *MockRegistry) CheckSession(ctx context.Context) error {
	m.SessionChecks++
	return m.sessionErr
}

// Datasources implements Registry, consuming the scripted listing queue.
func (m *MockRegistry) Datasources(ctx context.Context) ([]kismet.Datasource, error) {
	m.ListCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.listings) == 0 {
		return nil, nil
	}
	listing := m.listings[m.listIdx]
	if m.listIdx < len(m.listings)-1 {
		m.listIdx++
	}
	return listing, nil
}

// ListInterfaces implements Registry.
func (m *MockRegistry) ListInterfaces(ctx context.Context) ([]kismet.Interface, error) {
	return m.interfaces, nil
}

// AddSource implements Registry, recording the definition.
func (m *MockRegistry) AddSource(ctx context.Context, definition string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.AddedSources = append(m.AddedSources, definition)
	return nil
}

// SetChannel implements Registry, recording the tune by uuid.
func (m *MockRegistry) SetChannel(ctx context.Context, uuid, channel string) error {
	if m.tuneErr != nil {
		return m.tuneErr
	}
	m.TunedChannels[uuid] = channel
	return nil
}

// MockRenderer implements Renderer and records everything it is handed.
type MockRenderer struct {
	Displays []MockDisplay
	Waits    [][]string
}

// MockDisplay is one recorded Display call.
type MockDisplay struct {
	Rows    []DisplayRow
	Elapsed time.Duration
}

// Display implements Renderer.
func (m *MockRenderer) Display(rows []DisplayRow, elapsed time.Duration) {
	m.Displays = append(m.Displays, MockDisplay{Rows: rows, Elapsed: elapsed})
}

// Waiting implements Renderer.
func (m *MockRenderer) Waiting(pending []string) {
	m.Waits = append(m.Waits, pending)
}

// LastRows returns the rows from the most recent Display call, or nil.
func (m *MockRenderer) LastRows() []DisplayRow {
	if len(m.Displays) == 0 {
		return nil
	}
	return m.Displays[len(m.Displays)-1].Rows
}
