package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssaurabh5135/storedashboard/internal/dashboard"
	"github.com/ssaurabh5135/storedashboard/internal/datasource"
	"github.com/ssaurabh5135/storedashboard/internal/parser"
	"github.com/ssaurabh5135/storedashboard/internal/webui"
)

const (
	reloadTimeout   = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard web UI and JSON API",
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.serve(ctx)
	},
}

// serve loads the sheet once, then runs the HTTP server and the refresh
// schedule until ctx is done.
func (a *app) serve(ctx context.Context) error {
	a.reload(ctx)

	srv := webui.NewServer(webui.Config{
		Addr:           a.cfg.Server.Addr,
		MaxUploadBytes: int64(a.cfg.Server.MaxUploadMB) << 20,
		UploadParser: func(ext string) (parser.Parser, error) {
			return datasource.UploadParser(a.cfg.Upload, ext)
		},
		Logger: a.log,
	}, a.svc)
	hs := srv.HTTPServer()

	var sched *cron.Cron
	if spec := a.cfg.Server.Refresh; spec != "" && a.cfg.Source.Kind != "" {
		sched = cron.New()
		if _, err := sched.AddFunc(spec, func() { a.reload(ctx) }); err != nil {
			return fmt.Errorf("serve: refresh %q: %w", spec, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", hs.Addr).Msg("serve: listening")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	if sched != nil {
		sched.Start()
		a.log.Info().Str("refresh", a.cfg.Server.Refresh).Msg("serve: refresh scheduled")
		g.Go(func() error {
			<-gctx.Done()
			<-sched.Stop().Done()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(sctx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		a.log.Info().Msg("serve: stopped")
		return nil
	})

	return g.Wait()
}

// reload refreshes the cached sheet. Failures are logged; the service keeps
// serving the previous sheet.
func (a *app) reload(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, reloadTimeout)
	defer cancel()
	if err := a.svc.Reload(rctx); err != nil && !errors.Is(err, dashboard.ErrNoLoader) {
		a.log.Warn().Err(err).Msg("serve: reload failed")
	}
}
