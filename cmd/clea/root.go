package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kochabx/clea/config"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log"
)

type rootOptions struct {
	configPath string
	logLevel   string

	cfg    *Config
	loader *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "clea",
		Short:         "CLEA location token tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file (default ./clea.yaml when present)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override log.level")

	cmd.AddCommand(
		newGenKeysCmd(),
		newEncodeCmd(o),
		newDecodeCmd(o),
		newRotateCmd(o),
	)
	return cmd
}

// load reads the configuration and installs the global logger.
func (o *rootOptions) load() error {
	cfg, loader, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.validate(); err != nil {
		return errors.InvalidInput("invalid configuration").WithCause(err)
	}

	// The logger accepts everything; the configured level is applied
	// globally so config reloads reach loggers derived from it.
	logCfg := cfg.Log
	logCfg.Level = zerolog.LevelTraceValue
	logger, err := log.Build(logCfg, log.WithComponent("clea"))
	if err != nil {
		return err
	}
	if err := applyLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	log.SetGlobalLogger(logger)

	o.cfg, o.loader, o.logger = cfg, loader, logger
	return nil
}

// watch follows log level changes of the config file.
func (o *rootOptions) watch() error {
	if o.configPath == "" {
		return nil
	}
	o.loader.OnChange(func() {
		o.loader.Read(func(target any) {
			if err := applyLogLevel(target.(*Config).Log.Level); err != nil {
				log.Warn().Err(err).Msg("ignoring invalid log level")
			}
		})
	})
	if err := o.loader.Watch(); err != nil {
		return errors.Internal("watch config").WithCause(err)
	}
	return nil
}

func applyLogLevel(name string) error {
	if name == "" {
		name = zerolog.LevelInfoValue
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return errors.InvalidInput("unknown log level %q", name).WithCause(err)
	}
	log.SetZerologGlobalLevel(level)
	return nil
}

func (o *rootOptions) close() {
	if o.logger != nil {
		_ = o.logger.Close()
	}
}
