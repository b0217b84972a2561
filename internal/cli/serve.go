package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dino-park/internal/adapters/upstream"
	"dino-park/internal/domain/consumers"
	"dino-park/internal/domain/ingest"
	"dino-park/internal/domain/reconcile"
	"dino-park/internal/domain/seed"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
	"dino-park/internal/router"
)

const shutdownTimeout = 10 * time.Second

type ServeOptions struct {
	*RootOptions
	Addr       string
	Gateway    bool
	Handlers   bool
	Reconciler bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway, the event handlers and the reconciler",
		Long: `Start the HTTP server (read API, /metrics, /swagger) plus the enabled roles.

Each role can be switched off to split them across processes sharing a Redis
bus and a SQL store.

Example:
  dinopark serve
  DINOPARK_BUS=redis DINOPARK_STORE=sqlite dinopark serve --handlers=false --reconciler=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address; overrides DINOPARK_HTTP_ADDR")
	cmd.Flags().BoolVar(&opts.Gateway, "gateway", true, "accept events on POST /event")
	cmd.Flags().BoolVar(&opts.Handlers, "handlers", true, "consume bus topics and apply events")
	cmd.Flags().BoolVar(&opts.Reconciler, "reconciler", true, "run the periodic reconciliation loop")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log := opts.cfg, opts.log
	if opts.Addr != "" {
		cfg.HTTPAddr = opts.Addr
	}
	m := metrics.New()

	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Warn("close store", logger.Fields{"err": err})
		}
	}()
	if err := initGrid(ctx, st, log); err != nil {
		return err
	}

	b, err := openBus(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("close bus", logger.Fields{"err": err})
		}
	}()

	var wg sync.WaitGroup

	if opts.Handlers {
		if err := consumers.NewService(st.dinos, st.grid, log, m).Register(ctx, b); err != nil {
			return err
		}
	}

	if opts.Reconciler {
		engine := reconcile.NewEngine(st.dinos, st.grid, log, m, cfg.ReconcileInterval)
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.Run(ctx)
		}()
	}

	var ing *ingest.Service
	if opts.Gateway {
		ing = ingest.NewService(b, log, ingest.Options{
			QueueSize:   cfg.IngestQueueSize,
			PublishRate: cfg.PublishRate,
			Metrics:     m,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			ing.Run(ctx)
		}()

		if cfg.SeedURL != "" {
			src := upstream.NewClient(upstream.Config{URL: cfg.SeedURL, APIKey: cfg.SeedAPIKey, Timeout: cfg.SeedTimeout})
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = seed.NewService(src, ing, log).Run(ctx)
			}()
		}
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.NewRouter(router.Options{
			Log:     log,
			Metrics: m,
			Dinos:   st.dinos,
			Grid:    st.grid,
			Ingest:  ing,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", logger.Fields{
			"addr":       cfg.HTTPAddr,
			"gateway":    opts.Gateway,
			"handlers":   opts.Handlers,
			"reconciler": opts.Reconciler,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested", nil)
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("server error: %w", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", logger.Fields{"err": err})
	}

	wg.Wait()
	log.Info("stopped", nil)
	return runErr
}
