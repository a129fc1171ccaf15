package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hobbyloop/skein/internal/climate"
	"github.com/hobbyloop/skein/internal/domain/normalize"
	"github.com/hobbyloop/skein/internal/domain/types"
)

var (
	climateYarn     string
	climateLocation string
)

var climateCmd = &cobra.Command{
	Use:   "climate",
	Short: "Show climate profiles for yarns and locations",
	Long: `With --yarn, asks the service for the comfort range derived from a
yarn's fiber mix. With --location, shows the seasonal averages the
blend uses for that location. Without flags, lists the whole location
table.

Examples:
  # Comfort range of one yarn
  skeinctl climate --yarn "Merino Cloud"

  # Seasonal averages for a location
  skeinctl climate --location "Sweden (Stockholm)"

  # The whole table
  skeinctl climate`,
	RunE: runClimate,
}

func init() {
	rootCmd.AddCommand(climateCmd)
	climateCmd.Flags().StringVar(&climateYarn, "yarn", "", "Yarn name to profile")
	climateCmd.Flags().StringVar(&climateLocation, "location", "", "Location from the climate table")
}

func runClimate(cmd *cobra.Command, args []string) error {
	if climateYarn != "" && climateLocation != "" {
		return errors.New("--yarn and --location are mutually exclusive")
	}

	switch {
	case climateYarn != "":
		return showYarnClimate(context.Background())
	case climateLocation != "":
		printLocationClimate(climateLocation)
		return nil
	default:
		printClimateTable()
		return nil
	}
}

// showYarnClimate fetches and renders the derived comfort range of one yarn.
func showYarnClimate(ctx context.Context) error {
	var profile types.ClimateProfile
	endpoint := baseURL + "/yarns/" + url.PathEscape(climateYarn) + "/climate"
	if err := fetchJSON(ctx, endpoint, &profile); err != nil {
		return err
	}

	styles := newPrintStyles()
	fmt.Println(styles.header.Render(profile.Yarn))
	fmt.Printf("  %s\n", kindStyle(styles, profile.Range.Kind).Render(string(profile.Range.Kind)))
	fmt.Printf("  comfort %.0f°C to %.0f°C, ideal %.0f°C\n",
		profile.Range.Min, profile.Range.Max, profile.Range.Ideal)
	fmt.Printf("  best season: %s\n", profile.Season)
	return nil
}

// printLocationClimate renders the seasonal averages for one location.
func printLocationClimate(location string) {
	styles := newPrintStyles()
	lookup := climate.New()

	if !lookup.Known(location) {
		fmt.Println(styles.errTag.Render(fmt.Sprintf("unknown location %q, showing the %s row", location, climate.CustomLocation)))
	}

	fmt.Println(styles.header.Render(location))
	temps := lookup.Temps(location)
	now := climate.SeasonOf(time.Now())
	for _, s := range []climate.Season{climate.Winter, climate.Spring, climate.Summer, climate.Fall} {
		marker := "  "
		if s == now {
			marker = styles.name.Render("* ")
		}
		fmt.Printf("  %s%-8s %6.1f°C\n", marker, s, temps.For(s))
	}
	fmt.Println(styles.dim.Render("  * current season"))
}

// printClimateTable renders the whole location table.
func printClimateTable() {
	styles := newPrintStyles()
	lookup := climate.New()

	fmt.Println(styles.header.Render("Seasonal averages, °C"))
	fmt.Printf("  %-26s %8s %8s %8s %8s\n", "", "winter", "spring", "summer", "fall")
	for _, location := range lookup.Locations() {
		temps := lookup.Temps(location)
		fmt.Printf("  %s %8.1f %8.1f %8.1f %8.1f\n",
			styles.name.Render(fmt.Sprintf("%-26s", location)),
			temps.Winter, temps.Spring, temps.Summer, temps.Fall)
	}
}

// kindStyle picks a color for a warmth classification.
func kindStyle(styles printStyles, kind normalize.Kind) lipgloss.Style {
	switch kind {
	case normalize.KindWarm:
		return styles.warm
	case normalize.KindCool:
		return styles.cool
	default:
		return styles.name
	}
}
