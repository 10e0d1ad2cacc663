package commands

import (
	"context"
	"fmt"
	"time"

	"unifile/pkg/file"
	"unifile/pkg/types"

	"github.com/spf13/cobra"
)

var presignExpiry time.Duration

var presignCmd = &cobra.Command{
	Use:   "presign [s3://bucket/key]",
	Short: "Generate a time-limited download URL for an object",
	Long:  `Generate a presigned GET URL for the given object without downloading it. The URL stops working once the expiry elapses.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		loc, ok := types.ParseS3Locator(args[0])
		if !ok {
			return fmt.Errorf("%w: invalid s3 locator: %s", file.ErrInvalidSource, args[0])
		}

		store, err := UF.ObjectStore(ctx)
		if err != nil {
			return err
		}

		signed, err := store.PresignGet(ctx, loc.Bucket, loc.Key, presignExpiry)
		if err != nil {
			return fmt.Errorf("presign failed: %w", err)
		}

		fmt.Println(signed)
		return nil
	},
}

func init() {
	presignCmd.Flags().DurationVar(&presignExpiry, "expiry", 15*time.Minute, "how long the URL stays valid")
	rootCmd.AddCommand(presignCmd)
}
