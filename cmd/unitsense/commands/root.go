// Package commands implements the unitsense command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/earlysvahn/unitsense/internal/config"
	"github.com/earlysvahn/unitsense/internal/logging"
	"github.com/earlysvahn/unitsense/internal/relay"
	"github.com/earlysvahn/unitsense/internal/store"
	"github.com/earlysvahn/unitsense/internal/widget"
)

// rootOptions carries the global flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
	quiet      bool

	cfg config.App
	log *zap.Logger
}

func NewRootCommand() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "unitsense",
		Short:         "Unit converter with an AI question box",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd.Flags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if o.log != nil {
				_ = o.log.Sync()
			}
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", config.File(), "path to the TOML config file")
	f.StringVar(&o.envFile, "env-file", config.DefaultEnvFile, "env file holding HUGGINGFACE_API_KEY")
	f.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "only log warnings and errors")

	cmd.AddCommand(
		newServeCommand(o),
		newConvertCommand(),
		newUnitsCommand(),
		newAskCommand(o),
		newChatCommand(o),
		newTUICommand(o),
		newLogCommand(o),
		newConfigCommand(o),
	)
	return cmd
}

func (o *rootOptions) load(fs *pflag.FlagSet) error {
	cfg, err := config.Resolve(o.configPath, o.envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if changed(fs, "log-level") {
		cfg.Log.Level = o.logLevel
	}
	if changed(fs, "quiet") {
		cfg.Log.Quiet = o.quiet
	}
	o.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Quiet)
	if err != nil {
		return err
	}
	o.log = logger
	return nil
}

// changed reports whether the user set flag name on the command line.
func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// services are the pieces every asking command needs.
type services struct {
	actions *widget.Actions
	audit   store.AuditStore
}

func (o *rootOptions) services() (*services, error) {
	audit, err := store.Open(store.Options{
		Backend:     o.cfg.Audit.Backend,
		SQLitePath:  o.cfg.Audit.SQLitePath,
		PostgresDSN: o.cfg.Audit.PostgresDSN,
	})
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}
	if o.cfg.Relay.APIKey == "" {
		o.log.Warn("HUGGINGFACE_API_KEY is not set; the model endpoint will reject questions")
	}

	logf := logging.Func(o.log)
	client := relay.NewClient(o.cfg.Relay.Endpoint, o.cfg.Relay.APIKey, o.cfg.Relay.Timeout, logf)
	return &services{
		actions: &widget.Actions{Relay: client, Audit: audit, Log: logf},
		audit:   audit,
	}, nil
}

func (s *services) Close() {
	_ = s.audit.Close()
}
