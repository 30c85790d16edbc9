/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/stegpng/pkg/config"
	"github.com/ssargent/stegpng/pkg/di"
	"github.com/ssargent/stegpng/pkg/logging"
)

// skipConfigAnnotation marks commands that must run even when the config file
// is missing or invalid.
const skipConfigAnnotation = "stegpng/skip-config"

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stegpng",
	Short: "Hide data in the low-order bits of PNG images",
	Long: `stegpng embeds arbitrary payloads into the least significant bits of
PNG pixel channels and recovers them again.

The carrier image is read from a file or stdin and written to a file or
stdout, so stegpng can sit in a pipeline:

  echo "hello" | stegpng encode cat.png > hidden.png
  stegpng decode < hidden.png`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return errors.New("dependency container not initialized")
		}

		cfg := config.DefaultConfig()
		if cmd.Annotations[skipConfigAnnotation] == "" {
			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		applyGlobalFlags(cmd, cfg)
		container.SetConfig(cfg)

		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		container.SetLogger(logging.New(cmd.ErrOrStderr(), level))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write metrics in node_exporter textfile format to this path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the --config file, or the default path when it exists
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			return config.DefaultConfig(), nil
		}
	}
	return config.LoadConfig(path)
}

// applyGlobalFlags lets explicitly set persistent flags win over the config file
func applyGlobalFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile, _ = flags.GetString("metrics-file")
	}
}

// instrument runs fn as one metered operation and exports metrics when a
// textfile is configured
func instrument(op string, fn func(logger *slog.Logger) error) error {
	logger := container.GetLogger().With("op", op)
	m := container.GetMetrics()

	start := time.Now()
	err := fn(logger)
	elapsed := time.Since(start)
	m.RecordOperation(op, err == nil, elapsed)

	if err != nil {
		logger.Debug("operation failed", "error", err, "duration", elapsed)
	} else {
		logger.Debug("operation completed", "duration", elapsed)
	}

	if path := container.GetConfig().Metrics.Textfile; path != "" {
		if werr := m.WriteTextfile(path); werr != nil {
			logger.Warn("metrics export failed", "path", path, "error", werr)
		}
	}
	return err
}
