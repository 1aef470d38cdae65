// Package cmd provides the CLI commands for labsite.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/config"
	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/logging"
	"github.com/digital-finance/labsite/internal/output"
	"github.com/digital-finance/labsite/internal/profiling"
	"github.com/digital-finance/labsite/internal/site"
	"github.com/digital-finance/labsite/pkg/version"
)

// Global flags
var (
	debugMode      bool
	formatFlag     string
	dirFlag        string
	loggingCleanup func()
)

// Profiling flags
var (
	profileOpts profiling.Options
	profiler    *profiling.Session
)

// NewRootCmd creates the root command for the labsite CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labsite",
		Short: "Publication browser and site search for the lab website",
		Long: `labsite serves the interactive parts of the lab website from the terminal:
faceted filtering of the publication list with live citation metrics,
prefix search over site sections and publications, BibTeX export and
the data behind the analytics page.

Data paths come from .labsite.yaml in the site directory (see
'labsite config init').`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("labsite version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.labsite/logs/")
	cmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json")
	cmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", ".", "Site directory; data paths resolve against it")
	cmd.PersistentFlags().StringVar(&profileOpts.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newMetricsCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newBibtexCmd())
	cmd.AddCommand(newChartCmd())
	cmd.AddCommand(newGraphCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newThemeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts the requested profiles and installs the
// default logger. The level comes from the site config when it loads; a
// broken config is reported by the command itself.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if profileOpts.Enabled() {
		p, err := profiling.Start(profileOpts)
		if err != nil {
			return err
		}
		profiler = p
	}

	level := "info"
	if cfg, err := config.Load(dirFlag); err == nil {
		level = cfg.LogLevel
	}

	cleanup, err := logging.Init(debugMode, level)
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	if debugMode {
		slog.Info("debug_logging_enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}
	return nil
}

func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	if profiler != nil {
		err := profiler.Stop()
		profiler = nil
		if err != nil {
			return fmt.Errorf("failed to write profiles: %w", err)
		}
	}
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprint(os.Stderr, laberrors.FormatForCLI(err))
	}
	return err
}

// newWriter returns the output writer for the --format flag.
func newWriter(cmd *cobra.Command) (*output.Writer, error) {
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return nil, laberrors.ValidationError(err.Error(), err).
			WithSuggestion("Use --format text or --format json")
	}
	return output.New(cmd.OutOrStdout(), format), nil
}

// loadConfig loads the configuration for the --dir site directory.
func loadConfig() (*config.Config, error) {
	if info, err := os.Stat(dirFlag); err != nil || !info.IsDir() {
		return nil, laberrors.New(laberrors.ErrCodeConfigNotFound, "site directory not found: "+dirFlag, err).
			WithSuggestion("Pass the site directory with --dir")
	}
	cfg, err := config.Load(dirFlag)
	if err != nil {
		return nil, laberrors.ConfigError("failed to load configuration", err).
			WithSuggestion("Check .labsite.yaml or run 'labsite config init'")
	}
	return cfg, nil
}

// openSite loads the configuration and the site it describes.
func openSite(ctx context.Context) (*config.Config, *site.Site, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	s, err := site.Open(ctx, cfg)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, nil, laberrors.IOError("publication data not found: "+cfg.Data.Publications, err).
				WithSuggestion("Set data.publications in .labsite.yaml or LABSITE_PUBLICATIONS")
		case errors.Is(err, catalog.ErrCatalogNotReady):
			return nil, nil, laberrors.New(laberrors.ErrCodeCatalogTimeout, "publication data not ready", err).
				WithSuggestion("Increase ready_timeout in .labsite.yaml")
		default:
			return nil, nil, laberrors.New(laberrors.ErrCodeCatalogMalformed, "failed to load publication data", err).
				WithSuggestion("Run 'labsite check' to inspect the data file")
		}
	}
	return cfg, s, nil
}

// facetFlags are the --year, --topic and --access flags shared by the
// commands that work on a filtered subset.
type facetFlags struct {
	year   string
	topic  string
	access string
}

func (f *facetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.year, "year", "y", facet.All, "Publication year or all")
	cmd.Flags().StringVarP(&f.topic, "topic", "t", facet.All, "Topic: ai, credit, crypto, esg, markets or all")
	cmd.Flags().StringVarP(&f.access, "access", "a", facet.All, "Access: open or all")
}

// apply sets the selection on s and returns the resulting view.
func (f *facetFlags) apply(s *site.Site) (site.View, error) {
	view, err := s.SetSelection(facet.Selection{Year: f.year, Topic: f.topic, Access: f.access})
	if err != nil {
		return view, laberrors.New(laberrors.ErrCodeInvalidSelection, err.Error(), err).
			WithSuggestion("Use a year such as 2021, --access open, or all")
	}
	return view, nil
}
