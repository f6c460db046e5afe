package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pioneerkit/internal/config"
	"github.com/joshuapare/pioneerkit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configFile string

	// vp carries defaults, pioneerkit.yaml, PIONEERKIT_* and bound flags.
	vp = config.New()
	// cfg is resolved before any subcommand runs.
	cfg *config.Config

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "pioneerctl",
	Short: "Inspect and build Pioneer DJ export media",
	Long: `pioneerctl reads and writes the files Pioneer DJ players load from
USB media: ANLZ analysis files, the export.pdb database and the
MYSETTING family of settings files. It can also export a rekordbox XML
library to a USB root.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "Config file (default ./pioneerkit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-dir", "", "Write logs to a dated file in this directory")
	vp.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	vp.BindPFlag(config.KeyLogDir, rootCmd.PersistentFlags().Lookup("log-dir"))
}

func setup(*cobra.Command, []string) error {
	c, err := config.Load(vp, configFile)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	logCloser, err = logger.Init(logger.Options{
		Level:  level,
		JSON:   cfg.LogJSON,
		Writer: os.Stderr,
		LogDir: cfg.LogDir,
	})
	return err
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
