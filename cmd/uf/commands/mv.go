package commands

import (
	"fmt"

	"unifile/pkg/file"

	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv [src] [dest]",
	Short: "Move a local file",
	Long:  `Persist src at dest and remove the original. The write is atomic, so dest never holds a half-written file even if the move is interrupted.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := file.NewFromPath(args[0])
		if err != nil {
			return fmt.Errorf("mv failed: %w", err)
		}

		moved, err := f.Move(args[1])
		if err != nil {
			return fmt.Errorf("mv failed: %w", err)
		}

		fmt.Printf("✅ Moved %s -> %s\n", args[0], moved.Metadata().Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
