package repo

import (
	"context"
	"errors"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// ErrNoStore 未配置数据库
var ErrNoStore = errors.New("recommendation history is not configured")

// HistoryRepo 推荐历史仓库接口
type HistoryRepo interface {
	// Save 归档一次推荐，返回记录 ID
	Save(ctx context.Context, rec *model.Recommendation) (int, error)
	// List 按时间倒序分页获取
	List(ctx context.Context, page, pageSize int) ([]*domain.Recommendation, int, error)
}
