package commands

import (
	"context"
	"fmt"
	"strings"

	"unifile/pkg/file"
	"unifile/pkg/types"

	"github.com/spf13/cobra"
)

var cpCmd = &cobra.Command{
	Use:   "cp [src] [dest]",
	Short: "Copy a file, locally or into object storage",
	Long: `Copy src to dest. src may be a local path, an HTTP URL, or an s3:// locator.
When dest is an s3:// locator the file is uploaded with its resolved content type
and filename attached as object metadata; otherwise it is written to disk atomically.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		src, dest := args[0], args[1]

		f, err := acquire(ctx, src)
		if err != nil {
			return fmt.Errorf("cp failed: %w", err)
		}

		// 目标是对象存储：走上传
		if strings.HasPrefix(dest, "s3://") {
			loc, ok := types.ParseS3Locator(dest)
			if !ok {
				return fmt.Errorf("%w: invalid s3 locator: %s", file.ErrInvalidSource, dest)
			}
			store, err := UF.ObjectStore(ctx)
			if err != nil {
				return err
			}
			if err := f.Upload(ctx, store, loc.Bucket, loc.Key); err != nil {
				return fmt.Errorf("cp failed: %w", err)
			}
			fmt.Printf("✅ Uploaded %s -> %s\n", src, dest)
			return nil
		}

		// 目标是本地路径：原子写盘
		if _, err := f.Save(dest); err != nil {
			return fmt.Errorf("cp failed: %w", err)
		}
		fmt.Printf("✅ Copied %s -> %s\n", src, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
