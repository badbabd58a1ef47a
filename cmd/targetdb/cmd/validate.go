package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/targetfile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Check target definition files",
	Long: `Parse and validate target definition files (.yaml, .yml, .tdl).

Every rule violation is reported, not only the first. Family names must also
be unique across all given paths.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	scratch := registry.New(registry.WithLogger(newLogger()))
	failed := 0

	for _, path := range args {
		families, err := targetfile.Load(path)
		if err != nil {
			fmt.Printf("FAIL %s\n  %v\n", path, err)
			failed++
			continue
		}

		ok := true
		chips := 0
		for _, f := range families {
			chips += len(f.Variants)
			if err := scratch.Register(f, registry.Exclusive()); err != nil {
				ok = false
				if vs := registry.Violations(err); len(vs) > 0 {
					fmt.Printf("FAIL %s (family %q)\n", path, f.Name)
					for _, v := range vs {
						fmt.Printf("  %s\n", v)
					}
				} else {
					fmt.Printf("FAIL %s\n  %v\n", path, err)
				}
			}
		}
		if !ok {
			failed++
			continue
		}
		fmt.Printf("OK   %s (%d families, %d chips)\n", path, len(families), chips)
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d path(s)", failed, len(args))
	}
	return nil
}
