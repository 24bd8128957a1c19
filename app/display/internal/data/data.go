package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/storage"
)

type Data struct {
	store *storage.Storage
}

// NewData 配置了数据库时打开归档存储，否则返回空的 Data
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		helper.Info("database not configured, recommendation history disabled")
		return &Data{}, func() {}, nil
	}

	store, err := storage.NewStorage(c.Database.Source)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}
