package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"housemembers/internal/config"
)

var forceInit bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Writes the built-in configuration to a YAML file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := DefaultConfigPath
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}

		cfg := config.Defaults()
		if err := cfg.SaveConfig(path); err != nil {
			return err
		}

		cmd.Printf("✅ Wrote %s\n", path)

		return nil
	},
}

func init() {
	initConfigCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(initConfigCmd)
}
