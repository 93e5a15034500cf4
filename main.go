// source-shootout compares frame-capture throughput across Kismet
// datasources tuned to the same channel and renders a live ranked table
// of packets per second, totals, and relative capture percentage.
//
// Usage:
//
//	source-shootout [flags] source [source ...]
//
// Flags:
//
//	-c string              Channel to monitor (required)
//	-u string              Username to log into the server with
//	-p                     Prompt for a password
//	-tui                   Launch the full-screen Bubbletea dashboard
//	-add-missing           Register named interfaces the server has not claimed yet
//	-ignore-channel-errors Keep going when a channel tune is rejected
//	-interval duration     Poll interval (default 1s)
//	-config string         Path to configuration file
//	-verbose               Enable verbose logging
//	-version               Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"gitlab.com/tinyland/lab/source-shootout/pkg/config"
	"gitlab.com/tinyland/lab/source-shootout/pkg/kismet"
	"gitlab.com/tinyland/lab/source-shootout/pkg/render"
	"gitlab.com/tinyland/lab/source-shootout/pkg/shootout"
	"gitlab.com/tinyland/lab/source-shootout/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		channel      = flag.String("c", "", "Channel to monitor (required)")
		user         = flag.String("u", "", "Username to log into the server with")
		askPassword  = flag.Bool("p", false, "Prompt for a password")
		runTUI       = flag.Bool("tui", false, "Launch the full-screen dashboard")
		addMissing   = flag.Bool("add-missing", false, "Register named interfaces the server has not claimed yet")
		ignoreErrors = flag.Bool("ignore-channel-errors", false, "Keep going when a channel tune is rejected")
		interval     = flag.Duration("interval", 0, "Poll interval (default from config, 1s)")
		configPath   = flag.String("config", "", "Path to configuration file")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: source-shootout [flags] source [source ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("source-shootout %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	names := flag.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "at least one data source name is required")
		flag.Usage()
		os.Exit(1)
	}
	if *channel == "" {
		fmt.Fprintln(os.Stderr, "-c channel is required")
		os.Exit(1)
	}

	// Load configuration; flags override the file.
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *user != "" {
		cfg.Server.Username = *user
	}
	if *interval > 0 {
		cfg.Shootout.Interval = config.Duration{Duration: *interval}
	}
	if *ignoreErrors {
		cfg.Shootout.IgnoreChannelErrors = true
	}
	if *addMissing {
		cfg.Shootout.AddMissing = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if *askPassword {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
			os.Exit(1)
		}
		cfg.Server.Password = string(pw)
	}

	logger, closeLog, err := newLogger(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Operator interruption is a clean exit, not an error.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	client, err := kismet.New(kismet.Config{
		URI:      cfg.Server.URI,
		Username: cfg.Server.Username,
		Password: cfg.Server.Password,
		Timeout:  cfg.Server.Timeout.Duration,
		Retries:  cfg.Server.Retries,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create client: %v\n", err)
		os.Exit(1)
	}

	if err := client.CheckSession(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "invalid login: %v\n", err)
		os.Exit(1)
	}

	sources, err := shootout.Enroll(ctx, client, names, shootout.EnrollOptions{
		Channel:             *channel,
		AddMissing:          cfg.Shootout.AddMissing,
		IgnoreChannelErrors: cfg.Shootout.IgnoreChannelErrors,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger.Info("sources enrolled", "count", len(sources), "channel", *channel)

	loopCfg := shootout.LoopConfig{
		Channel:             *channel,
		Interval:            cfg.Shootout.Interval.Duration,
		IgnoreChannelErrors: cfg.Shootout.IgnoreChannelErrors,
	}

	if *runTUI {
		runDashboard(ctx, cancel, client, sources, loopCfg, logger)
		return
	}

	loop := shootout.NewLoop(client, render.NewTerminal(os.Stdout, *channel), sources, loopCfg, logger)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runDashboard runs the loop behind a bubbletea program. The loop lives
// in a goroutine and reports back through a DoneMsg so a dead server
// tears the dashboard down instead of leaving it frozen.
func runDashboard(ctx context.Context, cancel context.CancelFunc, client *kismet.Client, sources []*shootout.Source, loopCfg shootout.LoopConfig, logger *slog.Logger) {
	model := tui.NewModel(loopCfg.Channel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	loop := shootout.NewLoop(client, tui.NewBridge(p), sources, loopCfg, logger)
	go func() {
		err := loop.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		p.Send(tui.DoneMsg{Err: err})
	}()

	final, err := p.Run()
	cancel()
	if err != nil {
		logger.Error("TUI error", "error", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "%v\n", m.Err())
		os.Exit(1)
	}
}

// newLogger builds the slog logger. With a configured log file, logs go
// there (plus stderr in verbose mode); otherwise stderr. The live table
// is drawn on stdout, so stderr logging and the display can coexist when
// output is redirected.
func newLogger(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.Log.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	closeLog := func() {}
	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		closeLog = func() { f.Close() }
		if verbose {
			w = io.MultiWriter(os.Stderr, f)
		} else {
			w = f
		}
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeLog, nil
}
