// Package cli arma los comandos del binario dinopark.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dino-park/internal/platform/config"
	"dino-park/internal/platform/logger"
)

// RootOptions guarda flags globales y lo que PersistentPreRunE resuelve para los subcomandos.
type RootOptions struct {
	LogLevel  string
	LogFormat string
	Store     string
	Bus       string

	cfg config.Config
	log logger.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "dinopark",
		Short:         "DinoPark operations simulator",
		Long:          "Ingests park events, applies them to the record store and keeps hunger, maintenance and grid safety up to date.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error); overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json); overrides LOG_FORMAT")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "record store (memory|sqlite|postgres); overrides DINOPARK_STORE")
	cmd.PersistentFlags().StringVar(&opts.Bus, "bus", "", "event bus (memory|redis); overrides DINOPARK_BUS")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))

	return cmd
}

// load lee la config del entorno, aplica los flags y construye el logger.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if o.Store != "" {
		cfg.Store = o.Store
	}
	if o.Bus != "" {
		cfg.Bus = o.Bus
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	cfg.Bus = strings.ToLower(strings.TrimSpace(cfg.Bus))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	o.cfg = cfg
	o.log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}
