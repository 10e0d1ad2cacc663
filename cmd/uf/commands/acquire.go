package commands

import (
	"context"
	"fmt"
	"strings"

	"unifile/pkg/file"
	"unifile/pkg/types"
)

// acquire 按定位符前缀分发到对应的采集路径：
//
//	s3://bucket/key  -> 对象存储
//	http(s)://...    -> HTTP 下载
//	其余             -> 本地文件系统
func acquire(ctx context.Context, locator string) (*file.File, error) {
	switch {
	case strings.HasPrefix(locator, "s3://"):
		loc, ok := types.ParseS3Locator(locator)
		if !ok {
			// 定位符残缺不是传输失败，归入"非法来源"一族
			return nil, fmt.Errorf("%w: invalid s3 locator: %s", file.ErrInvalidSource, locator)
		}
		store, err := UF.ObjectStore(ctx)
		if err != nil {
			return nil, err
		}
		return file.NewFromS3(ctx, store, loc.Bucket, loc.Key)

	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return file.NewFromURL(ctx, locator)

	default:
		return file.NewFromPath(locator)
	}
}
