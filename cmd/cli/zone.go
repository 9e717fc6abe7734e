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
	zoneSize   int
	zoneOutput string
)

// zoneCmd represents the zone command
var zoneCmd = &cobra.Command{
	Use:   "zone <storeRef>",
	Short: "Resolve the competitive zone around a store",
	Long: `Resolve the competitive zone around a store: the store itself plus its
nearest geocoded neighbors, ranked by distance. The store reference can be a
store id or either of its alternate portal identifiers.`,
	Example: `  compare-service zone 07521
  compare-service zone 7521 --size 6
  compare-service zone 07521 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runZone,
}

func init() {
	rootCmd.AddCommand(zoneCmd)

	zoneCmd.Flags().IntVar(&zoneSize, "size", 0, "Zone size including the store itself (default from config)")
	zoneCmd.Flags().StringVar(&zoneOutput, "output", "table", "Output format: table or json")
}

func runZone(cmd *cobra.Command, args []string) error {
	storeRef := args[0]

	size := cfg.Engine.ZoneSizeBrowse
	if zoneSize > 0 {
		size = zoneSize
	}

	resolver := engine.NewResolver(database.NewCatalog())
	zone, err := resolver.Zone(cmd.Context(), storeRef, size)
	if err != nil {
		return fmt.Errorf("zone resolution failed: %w", err)
	}

	switch strings.ToLower(zoneOutput) {
	case "json":
		return outputZoneJSON(zone)
	case "table":
		outputZoneTable(zone)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", zoneOutput)
	}

	return nil
}

func outputZoneTable(zone *engine.Zone) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDISTANCE (KM)\tROLE")
	fmt.Fprintln(w, "--\t----\t-------------\t----")

	for i, s := range zone.Stores {
		role := "neighbor"
		if i == 0 {
			role = "home"
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", s.ID, s.Name, s.Distance, role)
	}

	w.Flush()
}

func outputZoneJSON(zone *engine.Zone) error {
	type member struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		DistanceKm float64 `json:"distanceKm"`
	}
	members := make([]member, len(zone.Stores))
	for i, s := range zone.Stores {
		members[i] = member{ID: s.ID, Name: s.Name, DistanceKm: s.Distance}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(members)
}
