// Package cmd - compute and normalize commands
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/tower-engine/internal/logging"
	"github.com/warp/tower-engine/quote"
	"github.com/warp/tower-engine/tower"
)

var outputFormat string

// computeCmd runs the full pipeline over a tower document and prints
// the resolved stack.
var computeCmd = &cobra.Command{
	Use:   "compute [file]",
	Short: "Compute attachments, premiums and rate metrics for a tower",
	Long: `Read a tower document, run the allocation engine, and print every
layer's attachment point, actual premium, rate per million and
increased-limit factor.

Examples:
  towerctl compute tower.json
  towerctl compute --format json tower.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

// normalizeCmd migrates and re-resolves a document, writing the
// persisted shape (with the mirrored legacy premium) to stdout.
var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize a tower document to the current persisted shape",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

func init() {
	computeCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
}

func runCompute(cmd *cobra.Command, args []string) error {
	t, err := loadTower(args[0])
	if err != nil {
		return err
	}

	computed, err := tower.Compute(*t)
	if err != nil {
		return fmt.Errorf("failed to compute tower: %w", err)
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(computedJSON(computed))
	}

	printTable(computed)
	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	t, err := loadTower(args[0])
	if err != nil {
		return err
	}

	data, err := quote.Marshal(*t)
	if err != nil {
		return fmt.Errorf("failed to serialize tower: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func loadTower(path string) (*tower.Tower, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logging.Debugf("loaded %d bytes from %s", len(data), path)

	t, err := quote.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tower document: %w", err)
	}
	return t, nil
}

func printTable(c tower.ComputedTower) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCARRIER\tLIMIT\tATTACHMENT\tANNUAL\tACTUAL\tBASIS\tRPM\tILF")
	for i, l := range c.Layers {
		marker := ""
		if l.Ours {
			marker = " *"
		}
		fmt.Fprintf(w, "%d\t%s%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, l.Carrier, marker,
			l.Limit, l.Attachment,
			moneyCell(l.AnnualPremium), moneyCell(l.ActualPremium),
			l.Basis,
			moneyCell(l.RatePerMillion), ilfCell(l.ILF),
		)
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("Total limit: %s\n", c.Summary.TotalLimit)
	if c.Summary.TotalActualPremium != nil {
		fmt.Printf("Total actual premium: %s\n", *c.Summary.TotalActualPremium)
	}
	if c.Summary.UnpricedLayers > 0 {
		fmt.Printf("Unpriced layers: %d\n", c.Summary.UnpricedLayers)
	}
	for _, g := range c.Groups {
		label := g.EffectiveStart.String()
		if g.Undetermined {
			label = "TBD"
		}
		fmt.Printf("Effective %s: layers %d-%d\n", label, g.From+1, g.To+1)
	}
}

func moneyCell(m *tower.Money) string {
	if m == nil {
		return "-"
	}
	return m.String()
}

func ilfCell(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *v)
}

// computedJSON keeps the CLI's JSON output shape in one place.
func computedJSON(c tower.ComputedTower) map[string]any {
	layers := make([]map[string]any, len(c.Layers))
	for i, l := range c.Layers {
		layers[i] = map[string]any{
			"carrier":          l.Carrier,
			"limit":            l.Limit,
			"attachment":       l.Attachment,
			"annual_premium":   l.AnnualPremium,
			"actual_premium":   l.ActualPremium,
			"premium_basis":    l.Basis,
			"rate_per_million": l.RatePerMillion,
			"ilf":              l.ILF,
			"short_term":       l.ShortTerm,
			"ours":             l.Ours,
		}
	}
	groups := make([]map[string]any, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = map[string]any{
			"effective_start": g.EffectiveStart.String(),
			"undetermined":    g.Undetermined,
			"from":            g.From,
			"to":              g.To,
		}
	}
	return map[string]any{
		"position": c.Position,
		"layers":   layers,
		"groups":   groups,
		"summary": map[string]any{
			"total_limit":          c.Summary.TotalLimit,
			"total_annual_premium": c.Summary.TotalAnnualPremium,
			"total_actual_premium": c.Summary.TotalActualPremium,
			"unpriced_layers":      c.Summary.UnpricedLayers,
		},
	}
}
