package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/i474232898/tccon-diagnostics/internal/chart"
	"github.com/i474232898/tccon-diagnostics/internal/config"
	"github.com/i474232898/tccon-diagnostics/internal/diagnostics"
	"github.com/i474232898/tccon-diagnostics/internal/logger"
	"github.com/i474232898/tccon-diagnostics/internal/solar"
	"github.com/i474232898/tccon-diagnostics/internal/store"
)

var version = "0.1.0"

// app holds what the subcommands share once the root command has set up.
type app struct {
	cfg      *config.AppConfig
	log      *zap.Logger
	svc      *diagnostics.Service
	manifest string

	sitesFile   string
	logLevel    string
	logEncoding string
	logOutput   string
}

func main() {
	root, a := newRootCmd()
	if err := a.run(root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command tree, then writes the manifest and flushes the
// logger whether or not the command succeeded.
func (a *app) run(root *cobra.Command) error {
	err := root.Execute()
	return multierr.Append(err, a.finish())
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "tccon-diagnostics",
		Short: "Diagnostic charts for TCCON retrievals, meteo stations and solar trackers",
		Long: `tccon-diagnostics reads TCCON retrieval outputs, meteorological station logs
and solar tracker logs and renders stacked PNG diagnostic charts.

Sites and their path templates come from a YAML registry (--sites).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.sitesFile, "sites", "", "site registry YAML file (default $TCCON_SITES_FILE or sites.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logEncoding, "log-encoding", "", "log encoding (console, json)")
	root.PersistentFlags().StringVar(&a.logOutput, "log-output", "", "comma separated log sinks: stderr, stdout or file paths")
	root.PersistentFlags().StringVar(&a.manifest, "manifest", "", "write the produced artifacts as JSON to this file")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			// no configuration needed
			PersistentPreRun: func(*cobra.Command, []string) {},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "tccon-diagnostics v%s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
				fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
		a.meteoCmd(),
		a.retrievalCmd(),
		a.trackerCmd(),
		a.trackerRangeCmd(),
		a.fileListCmd(),
		a.inspectCmd(),
	)
	return root, a
}

// setup loads the environment configuration, applies the global flags and
// wires the service.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.sitesFile != "" {
		cfg.SitesFile = a.sitesFile
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logEncoding != "" {
		cfg.LogEncoding = a.logEncoding
	}
	if a.logOutput != "" {
		cfg.LogOutput = config.SplitList(a.logOutput)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
		Encoding:    cfg.LogEncoding,
		OutputPaths: cfg.LogOutput,
	})
	if err != nil {
		return err
	}

	sites, err := config.LoadSites(cfg.SitesFile)
	if errors.Is(err, fs.ErrNotExist) {
		// Commands taking explicit input files work without a registry.
		a.log.Debug("no site registry", zap.String("path", cfg.SitesFile))
		sites, err = &config.Sites{}, nil
	}
	if err != nil {
		return err
	}

	a.svc = diagnostics.NewService(
		sites,
		chart.NewRenderer(cfg.PanelWidth, cfg.PanelHeight, a.log),
		store.NewMemoryStore(cfg.MaxArtifacts),
		solar.NOAA{},
		a.log,
	)
	return nil
}

func (a *app) finish() error {
	if a.log == nil {
		return nil
	}
	err := a.writeManifest()
	_ = a.log.Sync()
	return err
}

func (a *app) writeManifest() error {
	if a.manifest == "" || a.svc == nil {
		return nil
	}
	b, err := json.MarshalIndent(a.svc.Artifacts(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(a.manifest, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	a.log.Info("manifest written", zap.String("path", a.manifest))
	return nil
}

// parseDay reads a YYYY-MM-DD flag value as a UTC day.
func parseDay(flag, v string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, v)
	}
	return d, nil
}
