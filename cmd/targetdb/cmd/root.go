package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/OpenTraceLab/OpenTraceTarget/internal/config"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/builtin"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/targetfile"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose       bool
	targetDirs    []string
	allowOverride bool
	noBuiltin     bool
	configPath    string
)

var rootCmd = &cobra.Command{
	Use:   "targetdb",
	Short: "Debug probe target description database",
	Long: `Query and validate the chip descriptions used by debug probe tooling:
memory maps, part identifiers and flash algorithm references.

Examples:
  targetdb list --chips                          # List every known chip
  targetdb info nRF52840_xxAA                    # Show memory map and algorithms
  targetdb identify --idcode 0x00413041          # Resolve a chip from its IDCODE
  targetdb validate ./targets                    # Check definition files`,
	Version:       "0.9.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringArrayVarP(&targetDirs, "targets", "t", nil, "additional target definition file or directory (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&allowOverride, "override", false, "let external definitions replace builtin families")
	rootCmd.PersistentFlags().BoolVar(&noBuiltin, "no-builtin", false, "do not load the builtin families")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $TARGETDB_CONFIG or user config dir)")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

// openRegistry builds the registry from builtin data, the configured target
// directories and the --targets flags, in that order.
func openRegistry() (*registry.Registry, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	reg := registry.New(registry.WithLogger(logger))

	if !noBuiltin && !cfg.NoBuiltin {
		if err := builtin.Register(reg); err != nil {
			return nil, err
		}
	}

	var opts []registry.RegisterOption
	if allowOverride || cfg.AllowOverride {
		opts = append(opts, registry.AllowOverride())
	}

	for _, dir := range slices.Concat(cfg.TargetDirs, targetDirs) {
		families, err := targetfile.Load(dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded target definitions", "path", dir, "families", len(families))
		if err := reg.RegisterAll(families, opts...); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// lookupError adds the candidate list to ambiguous lookup failures.
func lookupError(err error) error {
	var amb *registry.AmbiguousError
	if errors.As(err, &amb) {
		fmt.Println("Candidates:")
		for _, c := range amb.Candidates {
			fmt.Printf("  %s\n", c)
		}
	}
	return err
}
