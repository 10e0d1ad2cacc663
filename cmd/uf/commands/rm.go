package commands

import (
	"context"
	"fmt"

	"unifile/pkg/file"

	"github.com/spf13/cobra"
)

var rmPurgeRecord bool

var rmCmd = &cobra.Command{
	Use:   "rm [files...]",
	Short: "Delete local files",
	Long:  `Delete the given files from the filesystem. With --purge-record the matching catalog entries (looked up by content digest) are removed as well.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		count := 0
		for _, path := range args {
			f, err := file.NewFromPath(path)
			if err != nil {
				return fmt.Errorf("rm failed: %w", err)
			}

			// 登记清理要在删文件之前：摘要得从还存在的内容上算
			if rmPurgeRecord {
				if err := purgeRecord(ctx, f); err != nil {
					return err
				}
			}

			if err := f.Delete(); err != nil {
				return fmt.Errorf("rm failed: %w", err)
			}
			fmt.Printf("Deleted: %s\n", path)
			count++
		}

		fmt.Printf("✅ Removed %d files.\n", count)
		return nil
	},
}

func purgeRecord(ctx context.Context, f *file.File) error {
	digest, err := f.Checksum()
	if err != nil {
		return err
	}
	cat, err := UF.Catalog(ctx)
	if err != nil {
		return err
	}
	// 记录本来就不在 catalog 里不算错
	if err := cat.Delete(ctx, digest); err != nil {
		fmt.Printf("⚠️  No catalog record for %s\n", f.Name())
	}
	return nil
}

func init() {
	rmCmd.Flags().BoolVar(&rmPurgeRecord, "purge-record", false, "also delete the catalog record for each file")
	rootCmd.AddCommand(rmCmd)
}
