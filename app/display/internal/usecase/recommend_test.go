package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/repo"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// mockHistoryRepo 模拟历史仓库
type mockHistoryRepo struct {
	saved   []*model.Recommendation
	saveErr error
}

func (m *mockHistoryRepo) Save(ctx context.Context, rec *model.Recommendation) (int, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.saved = append(m.saved, rec)
	return len(m.saved), nil
}

func (m *mockHistoryRepo) List(ctx context.Context, page, pageSize int) ([]*domain.Recommendation, int, error) {
	return []*domain.Recommendation{{Segment: "Bitcoin", Picks: "1. ..."}}, 1, nil
}

type stubRecommender struct {
	err error
}

func (s stubRecommender) Recommend(ctx context.Context, req model.RecommendRequest) (*model.Recommendation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Recommendation{Request: req, Picks: "1. ACME"}, nil
}

func TestRecommendUseCase_Recommend(t *testing.T) {
	tests := []struct {
		name      string
		engineErr error
		saveErr   error
		wantErr   bool
		wantSaved int
	}{
		{name: "archived", wantSaved: 1},
		{name: "no database", saveErr: repo.ErrNoStore},
		{name: "archive failure ignored", saveErr: errors.New("connection reset")},
		{name: "engine failure", engineErr: errors.New("model down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockHistoryRepo{saveErr: tt.saveErr}
			uc := NewRecommendUseCase(stubRecommender{err: tt.engineErr}, r, log.DefaultLogger)

			rec, err := uc.Recommend(context.Background(), model.NewRecommendRequest())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Recommend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && rec.Picks != "1. ACME" {
				t.Errorf("Recommend() picks = %q", rec.Picks)
			}
			if len(r.saved) != tt.wantSaved {
				t.Errorf("saved %d, want %d", len(r.saved), tt.wantSaved)
			}
		})
	}
}

func TestRecommendUseCase_History(t *testing.T) {
	uc := NewRecommendUseCase(stubRecommender{}, &mockHistoryRepo{}, log.DefaultLogger)

	list, total, err := uc.History(context.Background(), 1, 10)
	if err != nil {
		t.Errorf("History() error = %v", err)
		return
	}
	if total != 1 {
		t.Errorf("History() total = %v, want 1", total)
	}
	if len(list) != 1 || list[0].Segment != "Bitcoin" {
		t.Errorf("History() list = %v", list)
	}
}
