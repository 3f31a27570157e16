package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/aetrend/aetrend-cli/internal/config"
)

var (
	// Global flags (wired to config/viper in loadConfig)
	cfgFile    string
	debug      bool
	flagRawDir string
	flagOutDir string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "aetrend",
	Short: "AETrend CLI: turn FAERS quarterly drops into monthly adverse-event trends",
	Long: `AETrend loads FDA Adverse Event Reporting System (FAERS) quarterly
ASCII drops, standardizes and joins them into a consolidated event set,
and flags months with unusual reporting volume. It can also mine
consumer drug reviews for adverse-event mentions.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.aetrend/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagRawDir, "raw-dir", "", "directory holding quarterly drops (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutDir, "out-dir", "", "directory for pipeline outputs (overrides config)")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	applyOverrides(c)
	cfg = c
}

// applyOverrides layers CLI flag values over the loaded configuration.
func applyOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("raw-dir") && flagRawDir != "" {
		c.RawDir = flagRawDir
	}
	if f.Changed("out-dir") && flagOutDir != "" {
		c.OutDir = flagOutDir
	}
}

// ensureConfig guards commands that cannot run without a loaded config.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		applyOverrides(c)
		cfg = c
	}
	return cfg, nil
}
