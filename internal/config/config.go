package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	RawDir string `mapstructure:"raw_dir" yaml:"raw_dir"`
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`

	// Reader behavior
	Encodings []string `mapstructure:"encodings" yaml:"encodings"`
	ChunkSize int      `mapstructure:"chunk_size" yaml:"chunk_size"`

	// ETL behavior
	LimitQuarters int  `mapstructure:"limit_quarters" yaml:"limit_quarters"`
	Strict        bool `mapstructure:"strict" yaml:"strict"`

	// Join diagnostics thresholds (percentages)
	JoinLossWarnPct   float64 `mapstructure:"join_loss_warn_pct" yaml:"join_loss_warn_pct"`
	KeyOverlapWarnPct float64 `mapstructure:"key_overlap_warn_pct" yaml:"key_overlap_warn_pct"`

	// Anomaly detection defaults
	DetectMethod    string  `mapstructure:"detect_method" yaml:"detect_method"`
	DetectThreshold float64 `mapstructure:"detect_threshold" yaml:"detect_threshold"`
	DetectWindow    int     `mapstructure:"detect_window" yaml:"detect_window"`
	DetectPeriod    int     `mapstructure:"detect_period" yaml:"detect_period"`
	TopK            int     `mapstructure:"top_k" yaml:"top_k"`
	ForecastEnabled bool    `mapstructure:"forecast_enabled" yaml:"forecast_enabled"`

	// Review extraction
	KeywordsFile string `mapstructure:"keywords_file" yaml:"keywords_file"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.aetrend/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".aetrend")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AETREND")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("raw_dir", filepath.Join("data", "raw"))
	v.SetDefault("out_dir", filepath.Join("data", "processed"))
	v.SetDefault("encodings", []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"})
	v.SetDefault("chunk_size", 50000)
	v.SetDefault("limit_quarters", 0)
	v.SetDefault("strict", false)
	v.SetDefault("join_loss_warn_pct", 20.0)
	v.SetDefault("key_overlap_warn_pct", 80.0)
	v.SetDefault("detect_method", "decomposition")
	v.SetDefault("detect_threshold", 2.0)
	v.SetDefault("detect_window", 6)
	v.SetDefault("detect_period", 12)
	v.SetDefault("top_k", 3)
	v.SetDefault("forecast_enabled", true)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".aetrend")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
