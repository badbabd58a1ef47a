package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listChips bool
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known chip families or chips",
	Long: `List the registered chip families, or every chip with --chips.

Families are sorted by name; chips by name and then family.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listChips, "chips", false, "list chips instead of families")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	if listChips {
		var chips []ChipInfo
		for f, c := range reg.Chips() {
			chips = append(chips, newChipInfo(f, c))
		}
		if listJSON {
			return printJSON(chips)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHIP\tFAMILY\tPART")
		for _, c := range chips {
			part := c.Part
			if part == "" {
				part = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Family, part)
		}
		return w.Flush()
	}

	var families []FamilyInfo
	for f := range reg.Families() {
		info := FamilyInfo{
			Name:         f.Name,
			Manufacturer: manufacturerName(f.Manufacturer),
			Source:       f.Source,
			Chips:        make([]string, 0, len(f.Variants)),
			Algorithms:   f.AlgorithmNames(),
		}
		for _, c := range f.Variants {
			info.Chips = append(info.Chips, c.Name)
		}
		families = append(families, info)
	}
	if listJSON {
		return printJSON(families)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tMANUFACTURER\tCHIPS\tSOURCE")
	for _, f := range families {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.Name, f.Manufacturer, len(f.Chips), f.Source)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d families\n", len(families))
	return nil
}
