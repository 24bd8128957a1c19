package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
	"github.com/iWorld-y/market_radar/app/display/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.RecommendService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	// 未配置或无法解析时不设请求超时，请求只随客户端断开而取消
	timeout := time.Duration(0)
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			d, err := time.ParseDuration(c.Http.Timeout)
			if err != nil {
				log.NewHelper(logger).Errorf("Invalid server.http.timeout %q, request timeout disabled: %v", c.Http.Timeout, err)
			} else {
				timeout = d
			}
		}
	}
	opts = append(opts, http.Timeout(timeout))

	srv := http.NewServer(opts...)
	s.RegisterHTTPServer(srv)
	return srv
}
