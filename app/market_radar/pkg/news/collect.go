package news

import (
	"context"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
)

// Source 一个可抓取的标题来源
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

// Collect 依次抓取所有来源，单个来源失败只记录日志，返回成功部分的合并结果
func Collect(ctx context.Context, sources ...Source) []string {
	headlines := []string{}
	for _, src := range sources {
		items, err := src.Fetch(ctx)
		if err != nil {
			logger.Log.Errorf("%s Error: %v", src.Name(), err)
			continue
		}
		logger.Log.Debugf("来源 [%s] 抓取到 %d 条标题", src.Name(), len(items))
		headlines = append(headlines, items...)
	}
	return headlines
}
