package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectShowHash bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [path|url|s3://bucket/key]",
	Short: "Acquire a file and print its resolved metadata",
	Long:  `Acquire the file from the given locator (filesystem path, HTTP URL, or s3:// locator), run metadata resolution, and print every resolved attribute. Attributes that could not be resolved are omitted, never invented.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		f, err := acquire(ctx, args[0])
		if err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}

		fmt.Print(f.Render())

		if inspectShowHash {
			sum, err := f.Checksum()
			if err != nil {
				return err
			}
			fmt.Printf("sha256: %s\n", sum)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectShowHash, "hash", false, "also compute the SHA-256 content digest")
	rootCmd.AddCommand(inspectCmd)
}
