package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/hobbyloop/skein/internal/domain/model"
)

var (
	patternsDifficulty string
	patternsWeight     string
	patternsSearch     string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the patterns the service knows",
	Long: `Lists the loaded pattern catalog, optionally filtered by difficulty,
yarn weight or a name substring.

Examples:
  # Everything
  skeinctl patterns

  # Beginner patterns in bulky yarn
  skeinctl patterns --difficulty Beginner --weight bulky

  # Patterns with "scarf" in the name
  skeinctl patterns --search scarf`,
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.Flags().StringVar(&patternsDifficulty, "difficulty", "", "Filter by difficulty level")
	patternsCmd.Flags().StringVar(&patternsWeight, "weight", "", "Filter by yarn weight category")
	patternsCmd.Flags().StringVar(&patternsSearch, "search", "", "Filter by name substring")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	q := url.Values{}
	if patternsDifficulty != "" {
		q.Set("difficulty", patternsDifficulty)
	}
	if patternsWeight != "" {
		q.Set("weight", patternsWeight)
	}
	if patternsSearch != "" {
		q.Set("q", patternsSearch)
	}

	endpoint := baseURL + "/patterns"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var patterns []model.Pattern
	if err := fetchJSON(ctx, endpoint, &patterns); err != nil {
		return err
	}

	printPatterns(patterns)
	return nil
}

// printPatterns renders the pattern listing.
func printPatterns(patterns []model.Pattern) {
	styles := newPrintStyles()

	fmt.Println(styles.header.Render(fmt.Sprintf("%d patterns", len(patterns))))
	for _, p := range patterns {
		hook := "-"
		if !p.HookSize.Missing() {
			hook = p.HookSize.String() + " mm"
		}
		fmt.Printf("  %s %-20s %-8s %s\n",
			styles.name.Render(fmt.Sprintf("%-34s", p.Name)),
			p.YarnWeight,
			hook,
			styles.dim.Render(p.Difficulty))

		if verbose && p.Composition != "" {
			fmt.Printf("      %s\n", styles.dim.Render(p.Composition))
		}
	}
}
