package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hobbyloop/skein/internal/domain/scoring"
	"github.com/hobbyloop/skein/internal/domain/types"
)

var (
	recommendPattern  string
	recommendTemp     float64
	recommendLocation string
	recommendSeason   string
	recommendLimit    int
)

// recommendation mirrors the /recommend response.
type recommendation struct {
	Pattern     string        `json:"pattern"`
	Temperature *float64      `json:"temperature,omitempty"`
	Location    string        `json:"location,omitempty"`
	Season      string        `json:"season,omitempty"`
	Matches     []types.Match `json:"matches"`
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank catalog yarns for a pattern",
	Long: `Asks the service to rank every catalog yarn against a pattern and
renders the best matches with their score breakdown.

With --temp or --location the ranking blends an ambient temperature into
every score; without either it sticks to the five catalog criteria.

Examples:
  # Plain ranking
  skeinctl recommend --pattern "Cozy Winter Scarf"

  # Blend in a fixed temperature
  skeinctl recommend --pattern "Cozy Winter Scarf" --temp -2.5

  # Blend in a location's winter average
  skeinctl recommend --pattern "Summer Top" --location "Sweden (Stockholm)" --season winter`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVar(&recommendPattern, "pattern", "", "Pattern name (required)")
	recommendCmd.Flags().Float64Var(&recommendTemp, "temp", 0, "Ambient temperature in degrees Celsius")
	recommendCmd.Flags().StringVar(&recommendLocation, "location", "", "Location from the climate table")
	recommendCmd.Flags().StringVar(&recommendSeason, "season", "", "Season for --location: winter, spring, summer or fall")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "Number of matches to show (default: service top-N)")
	_ = recommendCmd.MarkFlagRequired("pattern")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	q := url.Values{}
	q.Set("pattern", recommendPattern)
	if recommendLimit > 0 {
		q.Set("limit", strconv.Itoa(recommendLimit))
	}
	if cmd.Flags().Changed("temp") {
		q.Set("temp", strconv.FormatFloat(recommendTemp, 'f', -1, 64))
	}
	if recommendLocation != "" {
		q.Set("location", recommendLocation)
		if recommendSeason != "" {
			q.Set("season", recommendSeason)
		}
	}

	var rec recommendation
	if err := fetchJSON(ctx, baseURL+"/recommend?"+q.Encode(), &rec); err != nil {
		return err
	}

	printRecommendation(rec)
	return nil
}

// printRecommendation renders the ranked matches.
func printRecommendation(rec recommendation) {
	styles := newPrintStyles()

	header := fmt.Sprintf("Matches for %q", rec.Pattern)
	if rec.Temperature != nil {
		header += fmt.Sprintf(" at %.1f°C", *rec.Temperature)
	}
	if rec.Location != "" {
		header += fmt.Sprintf(" (%s, %s)", rec.Location, rec.Season)
	}
	fmt.Println(styles.header.Render(header))

	if len(rec.Matches) == 0 {
		fmt.Println(styles.dim.Render("  no yarns in the catalog"))
		return
	}

	for _, m := range rec.Matches {
		label := fmt.Sprintf("%s (%s)", m.Yarn.Name, m.Yarn.BrandName())
		fmt.Printf("  %s %s %s\n",
			styles.dim.Render(fmt.Sprintf("%2d.", m.Rank)),
			styles.name.Render(fmt.Sprintf("%-36s", label)),
			styles.total.Render(fmt.Sprintf("%8.3f", m.Breakdown.Total)))

		if verbose {
			fmt.Printf("      %s\n", styles.dim.Render(breakdownLine(m.Breakdown)))
		}
	}
}

// breakdownLine formats the per-criterion points of one match.
func breakdownLine(b scoring.Breakdown) string {
	line := fmt.Sprintf("weight %.1f  hook %.1f  composition %.1f  rating %.1f  price %.1f",
		b.Weight, b.Hook, b.Composition, b.Rating, b.Price)
	if b.Blended {
		line += fmt.Sprintf("  base %.1f  temp %.1f", b.Base, b.Temperature)
	}
	return line
}
