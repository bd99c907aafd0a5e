package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsgonest/tsreflect/internal/config"
	"github.com/tsgonest/tsreflect/internal/logger"
)

const (
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "tsreflect",
		Short:         "Build-time structural type reflection for TypeScript",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := commandLogger(cmd, stderr, nil)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), l))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().String(flagLogLevel, string(logger.InfoLevel), "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool(flagLogJSON, false, "emit logs as JSON")

	root.AddCommand(
		buildCmd(stderr),
		propertiesCmd(stdout),
		valuesCmd(stdout),
		filterCmd(stdout),
		versionCmd(stdout),
	)
	return root
}

// commandLogger builds the logger for cmd. Flags win over the config's
// log section when they were given explicitly.
func commandLogger(cmd *cobra.Command, stderr io.Writer, cfg *config.LogConfig) (logger.Logger, error) {
	flags := cmd.Flags()
	level, err := flags.GetString(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s flag: %w", flagLogLevel, err)
	}
	asJSON, err := flags.GetBool(flagLogJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s flag: %w", flagLogJSON, err)
	}
	if cfg != nil {
		if !flags.Changed(flagLogLevel) && cfg.Level != "" {
			level = cfg.Level
		}
		if !flags.Changed(flagLogJSON) {
			asJSON = cfg.JSON
		}
	}

	switch logger.LogLevel(level) {
	case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel, logger.DisabledLevel:
	default:
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(level),
		Output:     stderr,
		JSON:       asJSON,
		TimeFormat: "15:04:05",
	}), nil
}

func versionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(stdout, "tsreflect", version)
			return err
		},
	}
}
