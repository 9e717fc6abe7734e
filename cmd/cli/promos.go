package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yoopan/compare-service/internal/engine"
)

var (
	promosFresh  bool
	promosOutput string
)

// promosCmd represents the promos command
var promosCmd = &cobra.Command{
	Use:   "promos <storeRef>",
	Short: "List the best promotions in a store's zone",
	Long: `List the strongest promotions currently observed in the zone around the
given store, ranked by savings percentage. Results are cached per zone; use
--fresh to bypass the cache.`,
	Example: `  compare-service promos 07521
  compare-service promos 07521 --fresh --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runPromos,
}

func init() {
	rootCmd.AddCommand(promosCmd)

	promosCmd.Flags().BoolVar(&promosFresh, "fresh", false, "Bypass the promo cache and rescan the zone")
	promosCmd.Flags().StringVar(&promosOutput, "output", "table", "Output format: table or json")
}

func runPromos(cmd *cobra.Command, args []string) error {
	storeRef := args[0]

	detector := newDetector()

	var promos []engine.ZonePromo
	var err error
	if promosFresh {
		promos, err = detector.ZonePromosFresh(cmd.Context(), storeRef)
	} else {
		promos, err = detector.ZonePromos(cmd.Context(), storeRef)
	}
	if err != nil {
		return fmt.Errorf("promo scan failed: %w", err)
	}

	logger.Info().Str("store", storeRef).Msgf("Found %d zone promos", len(promos))

	switch strings.ToLower(promosOutput) {
	case "json":
		return outputJSON(promos)
	case "table":
		outputPromosTable(promos)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", promosOutput)
	}

	return nil
}

func outputPromosTable(promos []engine.ZonePromo) {
	if len(promos) == 0 {
		fmt.Println("No zone promos found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "EAN\tNAME\tSTORE\tPRICE\tOLD\tSAVINGS")
	fmt.Fprintln(w, "---\t----\t-----\t-----\t---\t-------")

	for _, p := range promos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%d%%\n",
			p.EAN, p.Name, p.StoreName, p.Price, p.OldPrice, p.SavingsPercent)
	}

	w.Flush()
}
