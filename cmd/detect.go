package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aetrend/aetrend-cli/internal/anomaly"
	"github.com/aetrend/aetrend-cli/internal/faers"
	"github.com/aetrend/aetrend-cli/internal/series"
)

var (
	detMethod    string
	detThreshold float64
	detWindow    int
	detPeriod    int
	detDrug      string
	detReaction  string
	detTopK      int
	detOutput    string
	detList      string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Flag months with unusual adverse-event volume",
	Long: `Detect scores the consolidated monthly counts (or the series of one
drug or reaction) and flags months whose volume departs from the
expected pattern. Long series decompose into trend and seasonality;
short ones fall back to a rolling z-score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if detList != "" {
			return listKeys(c.OutDir, detList)
		}
		if detDrug != "" && detReaction != "" {
			return fmt.Errorf("use --drug or --reaction, not both")
		}

		dcfg := anomaly.Config{
			Threshold: c.DetectThreshold,
			Window:    c.DetectWindow,
			Period:    c.DetectPeriod,
		}
		methodName := c.DetectMethod
		if cmd.Flags().Changed("method") {
			methodName = detMethod
		}
		dcfg.Method, err = anomaly.ParseMethod(methodName)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("threshold") {
			dcfg.Threshold = detThreshold
		}
		if cmd.Flags().Changed("window") {
			dcfg.Window = detWindow
		}
		if cmd.Flags().Changed("period") {
			dcfg.Period = detPeriod
		}
		if !c.ForecastEnabled {
			anomaly.SetForecaster(nil)
		}

		s, err := loadSeries(c.OutDir)
		if err != nil {
			return err
		}
		result, err := anomaly.Detect(s, dcfg)
		if err != nil {
			return err
		}

		topK := c.TopK
		if cmd.Flags().Changed("top") {
			topK = detTopK
		}
		if detOutput != "" {
			return writeResultJSON(result, detOutput)
		}
		printResult(result, topK)
		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&detMethod, "method", "", "detection method: decomposition|rolling|forecast")
	detectCmd.Flags().Float64Var(&detThreshold, "threshold", 0, "absolute score above which a month is flagged")
	detectCmd.Flags().IntVar(&detWindow, "window", 0, "rolling window length in months")
	detectCmd.Flags().IntVar(&detPeriod, "period", 0, "seasonal cycle length in months")
	detectCmd.Flags().StringVar(&detDrug, "drug", "", "score the series of one drug name")
	detectCmd.Flags().StringVar(&detReaction, "reaction", "", "score the series of one reaction preferred term")
	detectCmd.Flags().IntVar(&detTopK, "top", 0, "number of top spikes to highlight")
	detectCmd.Flags().StringVar(&detOutput, "output", "", "write the full result as JSON to this path")
	detectCmd.Flags().StringVar(&detList, "list", "", "list available series keys instead of scoring: drugs|reactions")
	rootCmd.AddCommand(detectCmd)
}

// listKeys prints the key values a --drug or --reaction flag can select.
func listKeys(outDir, what string) error {
	var path string
	switch what {
	case "drugs":
		path = filepath.Join(outDir, faers.ByDrugFile)
	case "reactions":
		path = filepath.Join(outDir, faers.ByReactionFile)
	default:
		return fmt.Errorf("unknown --list value %q (use drugs or reactions)", what)
	}
	keys, err := series.Keys(path)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

func loadSeries(outDir string) (*series.Series, error) {
	switch {
	case detDrug != "":
		return series.LoadAggregate(filepath.Join(outDir, faers.ByDrugFile), detDrug)
	case detReaction != "":
		return series.LoadAggregate(filepath.Join(outDir, faers.ByReactionFile), detReaction)
	default:
		return series.LoadAggregate(filepath.Join(outDir, faers.MonthlyFile), "")
	}
}

func printResult(r *anomaly.Result, topK int) {
	if r.FallbackTriggered {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s unavailable (%s), used %s\n", r.Requested, r.FallbackReason, r.Method)
	}
	spikes := r.Spikes()
	fmt.Printf("✓ Scored %d months with %s: %d flagged\n", len(r.Points), r.Method, len(spikes))
	if len(spikes) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Month", "Count", "Score"})
	for _, p := range spikes {
		t.AppendRow(table.Row{p.Month, p.Value, fmt.Sprintf("%+.2f", p.Score)})
	}
	t.Render()

	if topK > 0 {
		fmt.Println("Top spikes:")
		for i, p := range anomaly.TopSpikes(r, topK) {
			fmt.Printf("  %d. %s (score %+.2f, count %.0f)\n", i+1, p.Month, p.Score, p.Value)
		}
	}
}

func writeResultJSON(r *anomaly.Result, path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Printf("✓ Wrote detection result to %s\n", path)
	return nil
}
