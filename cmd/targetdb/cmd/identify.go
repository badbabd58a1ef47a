package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/idcode"
	"github.com/spf13/cobra"
)

var (
	identifyPart   string
	identifyIDCode string
	identifyJSON   bool
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Resolve a chip from its part identifier or JTAG IDCODE",
	Long: `Resolve a chip from a part identifier (--part) or from the IDCODE read
off the debug port (--idcode). An IDCODE contributes its 16-bit part number.

Examples:
  targetdb identify --part 0x52840
  targetdb identify --idcode 0x00413041`,
	Args: cobra.NoArgs,
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
	identifyCmd.Flags().StringVar(&identifyPart, "part", "", "part identifier (decimal or 0x hex)")
	identifyCmd.Flags().StringVar(&identifyIDCode, "idcode", "", "32-bit JTAG IDCODE (decimal or 0x hex)")
	identifyCmd.Flags().BoolVar(&identifyJSON, "json", false, "output as JSON")
	identifyCmd.MarkFlagsMutuallyExclusive("part", "idcode")
	identifyCmd.MarkFlagsOneRequired("part", "idcode")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	var part uint32
	var id *idcode.IDCode

	switch {
	case identifyIDCode != "":
		raw, err := strconv.ParseUint(identifyIDCode, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid IDCODE %q: %w", identifyIDCode, err)
		}
		parsed := idcode.ParseIDCode(uint32(raw))
		if !parsed.HasIDCode {
			return errors.New("IDCODE bit 0 is clear: device is in BYPASS")
		}
		id = &parsed
		part = uint32(parsed.PartNumber)
	default:
		v, err := strconv.ParseUint(identifyPart, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid part %q: %w", identifyPart, err)
		}
		part = uint32(v)
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	t, err := reg.ChipByPart(part)
	if err != nil {
		return lookupError(err)
	}

	if id != nil && !identifyJSON {
		fmt.Printf("IDCODE: %s\n", id)
		if m := t.Family.Manufacturer; m != nil && *m != id.Manufacturer {
			newLogger().Warn("IDCODE manufacturer differs from family",
				"idcode", id.Manufacturer.String(), "family", m.String())
		}
	}
	return printTarget(t, identifyJSON)
}
