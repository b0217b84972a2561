package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dino-park/internal/domain/reconcile"
)

type ReconcileOptions struct {
	*RootOptions
	JSON bool
}

func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReconcileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run a single reconciliation tick against the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReconcile(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the tick report as JSON")

	return cmd
}

func runReconcile(cmd *cobra.Command, opts *ReconcileOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStores(opts.cfg, opts.log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()
	if err := initGrid(ctx, st, opts.log); err != nil {
		return err
	}

	rep := reconcile.NewEngine(st.dinos, st.grid, opts.log, nil, opts.cfg.ReconcileInterval).Tick(ctx)

	out := cmd.OutOrStdout()
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	_, err = fmt.Fprintf(out, "dinos=%d cells=%d hunger=%d repair=%d status=%d failures=%d (%s)\n",
		rep.DinosScanned, rep.CellsScanned, rep.HungerWrites, rep.RepairWrites, rep.StatusWrites, rep.Failures, rep.Duration)
	return err
}
