package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yoopan/compare-service/internal/database"
	"github.com/yoopan/compare-service/internal/matching"
)

var matchOutput string

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <storeRef> <term>...",
	Short: "Match free-text ingredient terms against a store's catalog",
	Long: `Match one or more free-text ingredient terms against the products priced
at the given store. Candidates are ranked with promoted products first, then by
name relevance, then by price.`,
	Example: `  compare-service match 07521 beurre
  compare-service match 07521 "tomate" "lait" --output json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&matchOutput, "output", "table", "Output format: table or json")
}

func runMatch(cmd *cobra.Command, args []string) error {
	storeRef := args[0]

	ingredients := make([]matching.Ingredient, len(args)-1)
	for i, term := range args[1:] {
		ingredients[i] = matching.Ingredient{Term: term, Quantity: 1}
	}

	matcher := matching.NewMatcher(database.NewCatalog(), cfg.Matching)
	matches, err := matcher.Match(cmd.Context(), storeRef, ingredients)
	if err != nil {
		return fmt.Errorf("ingredient matching failed: %w", err)
	}

	switch strings.ToLower(matchOutput) {
	case "json":
		return outputJSON(matches)
	case "table":
		outputMatchesTable(matches)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", matchOutput)
	}

	return nil
}

func outputMatchesTable(matches []matching.Match) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TERM\tEAN\tNAME\tBRAND\tPRICE\tPROMO")
	fmt.Fprintln(w, "----\t---\t----\t-----\t-----\t-----")

	for _, m := range matches {
		if len(m.Candidates) == 0 {
			fmt.Fprintf(w, "%s\t-\t(no match)\t-\t-\t-\n", m.Term)
			continue
		}
		for _, c := range m.Candidates {
			promo := "-"
			if c.HasPromo {
				promo = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
				m.Term, c.EAN, c.Name, c.Brand, c.Price, promo)
		}
	}

	w.Flush()
}
