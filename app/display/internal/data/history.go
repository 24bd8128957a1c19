package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/repo"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

type historyRepo struct {
	data *Data
	log  *log.Helper
}

func NewHistoryRepo(data *Data, logger log.Logger) repo.HistoryRepo {
	return &historyRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *historyRepo) Save(ctx context.Context, rec *model.Recommendation) (int, error) {
	if r.data.store == nil {
		return 0, repo.ErrNoStore
	}
	return r.data.store.SaveRecommendation(ctx, rec)
}

func (r *historyRepo) List(ctx context.Context, page, pageSize int) ([]*domain.Recommendation, int, error) {
	if r.data.store == nil {
		return nil, 0, repo.ErrNoStore
	}

	recs, total, err := r.data.store.ListRecommendations(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]*domain.Recommendation, 0, len(recs))
	for _, rec := range recs {
		list = append(list, &domain.Recommendation{
			Segment:     rec.Request.Segment,
			RecentDays:  rec.Request.RecentDays,
			PastDays:    rec.Request.PastDays,
			NewsContext: rec.NewsContext,
			Picks:       rec.Picks,
			ModelUsed:   rec.ModelUsed,
			CreatedAt:   rec.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return list, total, nil
}
