package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceTarget/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change persistent settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", path)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

var configAddDirCmd = &cobra.Command{
	Use:   "add-dir <dir>",
	Short: "Add a directory to the persistent target search path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return err
		}
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.AddTargetDir(args[0]) {
			fmt.Printf("%s already configured\n", args[0])
			return nil
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("Added %s to %s\n", args[0], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configAddDirCmd)
}
