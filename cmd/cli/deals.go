package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yoopan/compare-service/internal/database"
	"github.com/yoopan/compare-service/internal/engine"
)

var (
	hotDealsLimit  int
	hotDealsOutput string
)

// hotDealsCmd represents the hotdeals command
var hotDealsCmd = &cobra.Command{
	Use:   "hotdeals <storeRef>",
	Short: "List products cheaper at a store than everywhere nearby",
	Long: `List products sold at the given store that are cheaper there than at
every neighboring store in its zone, ranked by savings percentage.`,
	Example: `  compare-service hotdeals 07521
  compare-service hotdeals 07521 --limit 10 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runHotDeals,
}

func init() {
	rootCmd.AddCommand(hotDealsCmd)

	hotDealsCmd.Flags().IntVar(&hotDealsLimit, "limit", 0, "Maximum number of deals to return (0 = all)")
	hotDealsCmd.Flags().StringVar(&hotDealsOutput, "output", "table", "Output format: table or json")
}

func runHotDeals(cmd *cobra.Command, args []string) error {
	storeRef := args[0]

	detector := newDetector()
	deals, err := detector.HotDeals(cmd.Context(), storeRef, hotDealsLimit)
	if err != nil {
		return fmt.Errorf("hot deal scan failed: %w", err)
	}

	logger.Info().Str("store", storeRef).Msgf("Found %d hot deals", len(deals))

	switch strings.ToLower(hotDealsOutput) {
	case "json":
		return outputJSON(deals)
	case "table":
		outputHotDealsTable(deals)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", hotDealsOutput)
	}

	return nil
}

func outputHotDealsTable(deals []engine.HotDeal) {
	if len(deals) == 0 {
		fmt.Println("No hot deals found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "EAN\tNAME\tHOME\tNEIGHBOR\tSAVINGS")
	fmt.Fprintln(w, "---\t----\t----\t--------\t-------")

	for _, d := range deals {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%d%%\n",
			d.EAN, d.Name, d.HomePrice, d.NeighborPrice, d.SavingsPercent)
	}

	w.Flush()
}

func newDetector() *engine.Detector {
	return engine.NewDetector(database.NewCatalog(), engine.NewResolver(database.NewCatalog()), &cfg.Engine)
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
