// Command storedashboard serves and reports the BTST goods-receipt dashboard.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssaurabh5135/storedashboard/internal/config"
	"github.com/ssaurabh5135/storedashboard/internal/dashboard"
	"github.com/ssaurabh5135/storedashboard/internal/datasource"
	"github.com/ssaurabh5135/storedashboard/internal/logging"
	"github.com/ssaurabh5135/storedashboard/internal/metrics"
	"github.com/ssaurabh5135/storedashboard/internal/metrics/datadog"
	"github.com/ssaurabh5135/storedashboard/internal/metrics/prompush"
)

var (
	cfgPath  string
	envFiles []string

	rootCmd = &cobra.Command{
		Use:   "storedashboard",
		Short: "BTST goods-receipt dashboard",
		Long: `storedashboard reads the BTST tracker sheet (AVX challans, invoice
handovers, TML GRNs and physical receipts) and renders the receipt
dashboard: headline counters, part-wise GRN pending quantities, the
GRN ageing pivot and the day-wise material receipt pivot.`,
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "dashboard config (.yaml, .yml or .json); defaults only when empty")
	pf.StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before the config")

	rootCmd.AddCommand(serveCmd, reportCmd, validateCmd, customersCmd)
}

// loadConfig layers defaults, the config file and environment overrides.
func loadConfig() (config.Dashboard, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return config.Dashboard{}, err
	}
	d := config.Defaults()
	if cfgPath != "" {
		var err error
		if d, err = config.Load(cfgPath); err != nil {
			return config.Dashboard{}, err
		}
	}
	return config.ApplyEnv(d, os.Getenv), nil
}

// app is the wired process: logger, metrics backend and dashboard service.
type app struct {
	cfg    config.Dashboard
	log    zerolog.Logger
	svc    *dashboard.Service
	closer io.Closer
}

func newApp(cfg config.Dashboard) (*app, error) {
	issues := config.Validate(cfg)
	if config.HasErrors(issues) {
		return nil, issuesError(issues)
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	for _, iss := range issues {
		log.Warn().Str("path", iss.Path).Msg(iss.Message)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	var loader datasource.Loader
	if cfg.Source.Kind != "" {
		l, c, err := datasource.New(cfg)
		if err != nil {
			return nil, err
		}
		loader, a.closer = l, c
	}

	setupMetrics(cfg, log)

	a.svc = dashboard.NewService(dashboard.Options{
		Loader:   loader,
		Location: loc,
		Logger:   log,
		Job:      cfg.Job,
	})
	return a, nil
}

// Close flushes metrics and releases the source.
func (a *app) Close() {
	if err := metrics.Flush(); err != nil {
		a.log.Warn().Err(err).Msg("metrics: flush")
	}
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Warn().Err(err).Msg("source: close")
		}
	}
}

// setupMetrics installs the configured backend. A backend that fails to
// start leaves metrics disabled rather than stopping the process.
func setupMetrics(cfg config.Dashboard, log zerolog.Logger) {
	m := cfg.Metrics
	switch m.Backend {
	case config.MetricsPushgateway:
		b, err := prompush.NewBackend(cfg.Job, m.URL)
		if err != nil {
			log.Warn().Err(err).Msg("metrics: pushgateway backend unavailable; using nop")
			return
		}
		metrics.SetBackend(b)
		log.Info().Str("url", m.URL).Str("job", cfg.Job).Msg("metrics: pushgateway")

	case config.MetricsDatadog:
		b, err := datadog.NewBackend(datadog.Config{Addr: m.Addr, Namespace: m.Namespace, GlobalTags: m.Tags})
		if err != nil {
			log.Warn().Err(err).Msg("metrics: datadog backend unavailable; using nop")
			return
		}
		metrics.SetBackend(b)
		log.Info().Str("addr", m.Addr).Msg("metrics: datadog")

	case "", config.MetricsNone:
		log.Debug().Msg("metrics: disabled")
	}
}

func issuesError(issues []config.Issue) error {
	var msgs []string
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			msgs = append(msgs, iss.Error())
		}
	}
	return fmt.Errorf("invalid config:\n  %s", strings.Join(msgs, "\n  "))
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Lint the configuration and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		issues := config.Validate(cfg)
		for _, iss := range issues {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		}
		if config.HasErrors(issues) {
			return fmt.Errorf("configuration is invalid")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
		return nil
	},
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List the customer filter values of the current sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := a.svc.Reload(ctx); err != nil {
			return err
		}
		cs, err := a.svc.Customers(ctx)
		if err != nil {
			return err
		}
		for _, c := range cs {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}
