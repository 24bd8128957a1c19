package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// Storage 推荐、摘要与预测结果的归档
type Storage struct {
	db *sql.DB
}

// NewStorage 连接 Postgres 并初始化表结构
func NewStorage(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (
			id SERIAL PRIMARY KEY,
			segment TEXT NOT NULL,
			recent_days INTEGER,
			past_days INTEGER,
			news_context TEXT,
			picks TEXT,
			model TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS briefings (
			id SERIAL PRIMARY KEY,
			summary TEXT,
			model TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS briefing_headlines (
			id SERIAL PRIMARY KEY,
			briefing_id INTEGER REFERENCES briefings(id),
			position INTEGER,
			headline TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS forecasts (
			id SERIAL PRIMARY KEY,
			ticker TEXT NOT NULL,
			observations INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS forecast_points (
			id SERIAL PRIMARY KEY,
			forecast_id INTEGER REFERENCES forecasts(id),
			ds DATE,
			yhat DOUBLE PRECISION,
			yhat_lower DOUBLE PRECISION,
			yhat_upper DOUBLE PRECISION
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveRecommendation 保存一次选股推荐
func (s *Storage) SaveRecommendation(ctx context.Context, rec *model.Recommendation) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO recommendations (segment, recent_days, past_days, news_context, picks, model)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		rec.Request.Segment, rec.Request.RecentDays, rec.Request.PastDays,
		rec.NewsContext, rec.Picks, rec.ModelUsed).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return id, nil
}

// ListRecommendations 按时间倒序分页
func (s *Storage) ListRecommendations(ctx context.Context, page, pageSize int) ([]*model.Recommendation, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recommendations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT segment, recent_days, past_days, news_context, picks, model, created_at
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var list []*model.Recommendation
	for rows.Next() {
		var r model.Recommendation
		var createdAt time.Time
		if err := rows.Scan(&r.Request.Segment, &r.Request.RecentDays, &r.Request.PastDays,
			&r.NewsContext, &r.Picks, &r.ModelUsed, &createdAt); err != nil {
			return nil, 0, err
		}
		r.CreatedAt = createdAt
		list = append(list, &r)
	}
	return list, total, rows.Err()
}

// SaveBriefing 保存标题与摘要
func (s *Storage) SaveBriefing(ctx context.Context, b *model.Briefing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var briefingID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO briefings (summary, model)
		VALUES ($1, $2)
		RETURNING id`,
		b.Summary, b.ModelUsed).Scan(&briefingID)
	if err != nil {
		return fmt.Errorf("failed to insert briefing: %w", err)
	}

	for i, h := range b.Headlines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO briefing_headlines (briefing_id, position, headline)
			VALUES ($1, $2, $3)`,
			briefingID, i, h)
		if err != nil {
			return fmt.Errorf("failed to insert headline: %w", err)
		}
	}

	return tx.Commit()
}

// SaveForecast 保存预测尾部数据
func (s *Storage) SaveForecast(ctx context.Context, f *model.ForecastReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var forecastID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO forecasts (ticker, observations)
		VALUES ($1, $2)
		RETURNING id`,
		f.Ticker, f.Observations).Scan(&forecastID)
	if err != nil {
		return fmt.Errorf("failed to insert forecast: %w", err)
	}

	for _, p := range f.Tail {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO forecast_points (forecast_id, ds, yhat, yhat_lower, yhat_upper)
			VALUES ($1, $2, $3, $4, $5)`,
			forecastID, p.Date, p.Yhat, p.YhatLower, p.YhatUpper)
		if err != nil {
			return fmt.Errorf("failed to insert forecast point: %w", err)
		}
	}

	return tx.Commit()
}
