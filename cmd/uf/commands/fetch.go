package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url|s3://bucket/key] [dest]",
	Short: "Download a remote file to the local filesystem",
	Long:  `Acquire a file from an HTTP URL or object storage and persist it to dest with an atomic write. The saved copy is re-acquired from disk, so the printed metadata reflects what actually landed.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		start := time.Now()

		f, err := acquire(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		saved, err := f.Save(args[1])
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		fmt.Printf("✅ Fetched %s (%d bytes) in %s\n", saved.Name(), saved.Size(), time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
