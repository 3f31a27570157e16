package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/aetrend/aetrend-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set AETrend configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		fmt.Printf("raw_dir: %s\n", c.RawDir)
		fmt.Printf("out_dir: %s\n", c.OutDir)
		fmt.Printf("encodings: %s\n", strings.Join(c.Encodings, ","))
		fmt.Printf("chunk_size: %d\n", c.ChunkSize)
		if c.LimitQuarters > 0 {
			fmt.Printf("limit_quarters: %d\n", c.LimitQuarters)
		}
		fmt.Printf("strict: %v\n", c.Strict)
		fmt.Printf("join_loss_warn_pct: %.1f\n", c.JoinLossWarnPct)
		fmt.Printf("key_overlap_warn_pct: %.1f\n", c.KeyOverlapWarnPct)
		fmt.Printf("detect_method: %s\n", c.DetectMethod)
		fmt.Printf("detect_threshold: %.2f\n", c.DetectThreshold)
		fmt.Printf("detect_window: %d\n", c.DetectWindow)
		fmt.Printf("detect_period: %d\n", c.DetectPeriod)
		fmt.Printf("top_k: %d\n", c.TopK)
		fmt.Printf("forecast_enabled: %v\n", c.ForecastEnabled)
		if c.KeywordsFile != "" {
			fmt.Printf("keywords_file: %s\n", c.KeywordsFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		switch key {
		case "raw_dir":
			c.RawDir = val
		case "out_dir":
			c.OutDir = val
		case "encodings":
			c.Encodings = strings.Split(val, ",")
		case "chunk_size":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid chunk_size: %s", val)
			}
			c.ChunkSize = n
		case "limit_quarters":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid limit_quarters: %s", val)
			}
			c.LimitQuarters = n
		case "strict":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid strict: %s", val)
			}
			c.Strict = b
		case "detect_method":
			switch val {
			case "decomposition", "rolling", "forecast":
				c.DetectMethod = val
			default:
				return fmt.Errorf("invalid detect_method: %s (use decomposition, rolling, or forecast)", val)
			}
		case "detect_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid detect_threshold: %s", val)
			}
			c.DetectThreshold = f
		case "detect_window":
			n, err := strconv.Atoi(val)
			if err != nil || n < 3 {
				return fmt.Errorf("invalid detect_window: %s (minimum 3)", val)
			}
			c.DetectWindow = n
		case "detect_period":
			n, err := strconv.Atoi(val)
			if err != nil || n < 2 {
				return fmt.Errorf("invalid detect_period: %s (minimum 2)", val)
			}
			c.DetectPeriod = n
		case "top_k":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid top_k: %s", val)
			}
			c.TopK = n
		case "forecast_enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid forecast_enabled: %s", val)
			}
			c.ForecastEnabled = b
		case "keywords_file":
			c.KeywordsFile = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current effective values",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
