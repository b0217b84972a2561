package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	membus "dino-park/internal/adapters/bus/memory"
	"dino-park/internal/adapters/upstream"
	"dino-park/internal/domain/consumers"
	"dino-park/internal/domain/events"
	"dino-park/internal/domain/ingest"
	"dino-park/internal/domain/seed"
	"dino-park/internal/platform/logger"
	"dino-park/internal/platform/metrics"
)

type SeedOptions struct {
	*RootOptions
	URL          string
	DrainTimeout time.Duration
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fetch an event feed and publish it once",
		Long: `Fetch SEED_URL (a JSON array of events or {"events": [...]}) and publish it
through the same ordering as POST /event.

With the in-memory bus the handlers run in this process and the command waits
until every event is applied, so use a SQL store for the result to persist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "feed url; overrides SEED_URL")
	cmd.Flags().DurationVar(&opts.DrainTimeout, "drain-timeout", 30*time.Second, "max wait for in-process handlers")

	return cmd
}

// syncSubmitter despacha el lote en el momento en vez de encolarlo.
type syncSubmitter struct {
	svc    *ingest.Service
	report ingest.Report
}

func (s *syncSubmitter) Submit(ctx context.Context, evs []events.Event) (ingest.Receipt, error) {
	id := uuid.NewString()
	s.report = s.svc.Dispatch(ctx, id, evs)
	return ingest.Receipt{BatchID: id, Accepted: events.Decoded(evs)}, nil
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log := opts.cfg, opts.log
	if opts.URL != "" {
		cfg.SeedURL = opts.URL
	}
	if cfg.SeedURL == "" {
		return fmt.Errorf("seed: %w", upstream.ErrNotConfigured)
	}

	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()
	if err := initGrid(ctx, st, log); err != nil {
		return err
	}

	b, err := openBus(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	m := metrics.New()
	local, inProcess := b.(*membus.Bus)
	if inProcess {
		if err := consumers.NewService(st.dinos, st.grid, log, m).Register(ctx, b); err != nil {
			return err
		}
	}

	sub := &syncSubmitter{svc: ingest.NewService(b, log, ingest.Options{PublishRate: cfg.PublishRate, Metrics: m})}
	src := upstream.NewClient(upstream.Config{URL: cfg.SeedURL, APIKey: cfg.SeedAPIKey, Timeout: cfg.SeedTimeout})
	if _, err := seed.NewService(src, sub, log).Run(ctx); err != nil {
		return err
	}

	if inProcess {
		drainCtx, cancel := context.WithTimeout(ctx, opts.DrainTimeout)
		defer cancel()
		if err := local.Drain(drainCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("handlers did not finish", logger.Fields{"err": err})
		}
	}

	rep := sub.report
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "batch %s: published=%d failed=%d unroutable=%d invalid=%d\n",
		rep.BatchID, rep.Published, rep.Failed, rep.Unroutable, rep.Invalid)
	return err
}
