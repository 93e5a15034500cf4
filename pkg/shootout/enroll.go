package shootout

import (
	"context"
	"fmt"
	"log/slog"

	"gitlab.com/tinyland/lab/source-shootout/pkg/kismet"
)

// EnrollOptions controls startup enrollment.
type EnrollOptions struct {
	// Channel every enrolled source is tuned to.
	Channel string

	// AddMissing registers a requested name as a new datasource when the
	// server has a matching unclaimed interface instead of failing.
	AddMissing bool

	// IgnoreChannelErrors downgrades a rejected tuning command from fatal
	// to a warning.
	IgnoreChannelErrors bool
}

// Enroll resolves the operator-supplied names against the server and
// tunes every source to the target channel. Any name the server cannot
// account for, and any rejected tune without IgnoreChannelErrors, is a
// configuration failure: the caller should report it and exit before the
// poll loop ever starts.
//
// The returned sources keep the operator's order, which later fixes the
// display row order.
func Enroll(ctx context.Context, registry Registry, names []string, opts EnrollOptions, logger *slog.Logger) ([]*Source, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no sources given")
	}
	if len(names) < 2 {
		logger.Warn("a shootout with a single source is uninteresting, continuing anyway")
	}

	byName, err := datasourcesByName(ctx, registry)
	if err != nil {
		return nil, err
	}

	// Register any missing names that map to an unclaimed interface,
	// then re-list so the new datasources have UUIDs.
	if opts.AddMissing {
		added := false
		for _, name := range names {
			if _, ok := byName[name]; ok {
				continue
			}
			if err := addFromInterface(ctx, registry, name, logger); err != nil {
				return nil, err
			}
			added = true
		}
		if added {
			if byName, err = datasourcesByName(ctx, registry); err != nil {
				return nil, err
			}
		}
	}

	sources := make([]*Source, 0, len(names))
	for _, name := range names {
		ds, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("server has no datasource named %q", name)
		}
		s := NewSource(name)
		s.UUID = ds.UUID
		s.Hardware = ds.Hardware
		sources = append(sources, s)
	}

	for _, s := range sources {
		if err := registry.SetChannel(ctx, s.UUID, opts.Channel); err != nil {
			if !opts.IgnoreChannelErrors {
				return nil, fmt.Errorf("tuning %q to channel %s: %w", s.Name, opts.Channel, err)
			}
			logger.Warn("channel tune rejected, ignoring", "source", s.Name, "error", err)
		}
	}

	return sources, nil
}

func datasourcesByName(ctx context.Context, registry Registry) (map[string]kismet.Datasource, error) {
	datasources, err := registry.Datasources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing datasources: %w", err)
	}
	byName := make(map[string]kismet.Datasource, len(datasources))
	for _, ds := range datasources {
		byName[ds.Name] = ds
	}
	return byName, nil
}

// addFromInterface registers name as a new datasource when the server
// probed a matching unclaimed interface.
func addFromInterface(ctx context.Context, registry Registry, name string, logger *slog.Logger) error {
	interfaces, err := registry.ListInterfaces(ctx)
	if err != nil {
		return fmt.Errorf("listing interfaces: %w", err)
	}
	for _, ifc := range interfaces {
		if ifc.Interface != name {
			continue
		}
		if ifc.InUseUUID != "" {
			return fmt.Errorf("interface %q is already claimed by another datasource", name)
		}
		logger.Info("registering interface as datasource", "interface", name, "driver", ifc.Driver.Type)
		if err := registry.AddSource(ctx, name); err != nil {
			return fmt.Errorf("adding source %q: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("server has no datasource or interface named %q", name)
}
