package usecase

import (
	"context"
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/repo"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// Recommender 选股流水线，由 engine.Engine 实现
type Recommender interface {
	Recommend(ctx context.Context, req model.RecommendRequest) (*model.Recommendation, error)
}

// RecommendUseCase 选股业务逻辑
type RecommendUseCase struct {
	engine Recommender
	repo   repo.HistoryRepo
	log    *log.Helper
}

// NewRecommendUseCase 创建选股业务逻辑实例
func NewRecommendUseCase(engine Recommender, repo repo.HistoryRepo, logger log.Logger) *RecommendUseCase {
	return &RecommendUseCase{engine: engine, repo: repo, log: log.NewHelper(logger)}
}

// Recommend 执行一次选股，结果尽力归档，归档失败不影响返回
func (uc *RecommendUseCase) Recommend(ctx context.Context, req model.RecommendRequest) (*model.Recommendation, error) {
	rec, err := uc.engine.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	id, err := uc.repo.Save(ctx, rec)
	switch {
	case errors.Is(err, repo.ErrNoStore):
	case err != nil:
		uc.log.Warnf("archive recommendation failed: %v", err)
	default:
		uc.log.Infof("recommendation archived, id=%d", id)
	}
	return rec, nil
}

// History 分页列出历史推荐
func (uc *RecommendUseCase) History(ctx context.Context, page, pageSize int) ([]*domain.Recommendation, int, error) {
	return uc.repo.List(ctx, page, pageSize)
}
