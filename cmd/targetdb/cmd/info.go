package cmd

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/registry"
	"github.com/spf13/cobra"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <chip>",
	Short: "Show the memory map and flash algorithms of a chip",
	Long: `Show a chip's family, part identifier, memory map and flash algorithms.

The name is matched case-insensitively. A partial name works when it selects
exactly one chip; otherwise the candidates are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	t, err := reg.ChipByName(args[0])
	if err != nil {
		return lookupError(err)
	}
	return printTarget(t, infoJSON)
}

func printTarget(t *registry.Target, asJSON bool) error {
	info := newTargetInfo(t)
	if asJSON {
		return printJSON(info)
	}

	fmt.Printf("Chip: %s\n", info.Name)
	fmt.Printf("Family: %s\n", info.Family)
	if info.Manufacturer != "" {
		fmt.Printf("Manufacturer: %s\n", info.Manufacturer)
	}
	fmt.Printf("Part: %s\n", t.Chip.PartString())
	if info.Source != "" {
		fmt.Printf("Source: %s\n", info.Source)
	}

	fmt.Println("\nMemory map:")
	for _, r := range t.Chip.MemoryMap {
		line := "  " + r.String()
		if len(r.Cores) > 0 {
			line += " cores=" + strings.Join(r.Cores, ",")
		}
		fmt.Println(line)
	}

	fmt.Println("\nFlash algorithms:")
	if len(info.Algorithms) == 0 {
		fmt.Println("  (none)")
	}
	for _, a := range info.Algorithms {
		marker := ""
		if a.Default {
			marker = " [default]"
		}
		fmt.Printf("  %s%s %s..%s page=0x%X\n", a.Name, marker, a.Start, a.End, a.PageSize)
		if a.Description != "" {
			fmt.Printf("    %s\n", a.Description)
		}
	}
	return nil
}
