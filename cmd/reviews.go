package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aetrend/aetrend-cli/internal/reviews"
)

var (
	revLayout   string
	revKeywords string
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews <file>",
	Short: "Extract adverse-event mentions from a drug-review export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}

		layout, err := reviews.ParseLayout(revLayout)
		if err != nil {
			return err
		}

		vocab := reviews.DefaultVocab()
		vocabPath := c.KeywordsFile
		if cmd.Flags().Changed("keywords") {
			vocabPath = revKeywords
		}
		if vocabPath != "" {
			vocab, err = reviews.LoadVocab(vocabPath)
			if err != nil {
				return err
			}
		}

		revs, err := reviews.Load(args[0], layout)
		if err != nil {
			return err
		}
		if len(revs) == 0 {
			return fmt.Errorf("no usable reviews in %s", args[0])
		}

		extracted := reviews.ExtractAll(revs, reviews.NewExtractor(vocab))
		matched := 0
		for _, e := range extracted {
			if len(e.Keywords) > 0 {
				matched++
			}
		}
		if err := reviews.WriteExtracted(c.OutDir, extracted); err != nil {
			return err
		}
		fmt.Printf("✓ Extracted terms from %d/%d reviews into %s\n", matched, len(extracted), c.OutDir)
		return nil
	},
}

func init() {
	reviewsCmd.Flags().StringVar(&revLayout, "layout", "uci", "review export layout: webmd|uci")
	reviewsCmd.Flags().StringVar(&revKeywords, "keywords", "", "YAML file overriding the adverse-event lexicon")
	rootCmd.AddCommand(reviewsCmd)
}
