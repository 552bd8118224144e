package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"housemembers/internal/validator"
)

// ErrInvalidReport is returned when a summary report fails validation.
var ErrInvalidReport = errors.New("summary report failed validation")

var allowUnsigned bool

var verifyCmd = &cobra.Command{
	Use:   "verify <summary.md>",
	Short: "Checks a summary report's integrity block, table layout and totals.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		result := validator.NewReportValidator(!allowUnsigned).Validate(string(data))

		cmd.Println(result.String())

		if m := result.Metadata; m != nil && !m.GeneratedAt.IsZero() {
			cmd.Printf("🕒 Generated %s from %d sources\n", m.GeneratedAt.Format("2006-01-02 15:04 MST"), m.Sources)

			if m.RunID != "" {
				cmd.Printf("   Run: %s\n", m.RunID)
			}
		}

		result.PrintWarnings(cmd.OutOrStdout())
		result.PrintErrors(cmd.OutOrStdout())

		if !result.IsValid {
			return fmt.Errorf("%w: %s", ErrInvalidReport, args[0])
		}

		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&allowUnsigned, "allow-unsigned", false, "accept reports without an integrity block")

	rootCmd.AddCommand(verifyCmd)
}
