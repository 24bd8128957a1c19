package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/engine"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/storage"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动投资简报...")

	ctx := context.Background()

	// 配置了数据库才归档
	var store *storage.Storage
	if cfg.DB.Enabled() {
		s, err := storage.NewStorage(cfg.DB.DSN())
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 结果仅输出到终端。", err)
		} else {
			store = s
			defer store.Close()
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 3. 初始化引擎
	eng, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	out := os.Stdout

	// 4. 标题抓取与总结
	fmt.Fprintf(out, "🔍 Fetching latest news from %s...\n", strings.Join(eng.SourceNames(), " & "))
	fmt.Fprintf(out, "🤖 Summarizing with %s via Ollama...\n", eng.ModelName())
	briefing, err := eng.Brief(ctx)
	if err != nil {
		logger.Log.Fatalf("生成投资总结失败: %v", err)
	}
	fmt.Fprint(out, "\n🧠 Investment Summary:\n\n")
	fmt.Fprintln(out, briefing.Summary)

	// 5. 价格预测
	fmt.Fprintf(out, "\n📈 Forecasting %s price for the next %d days...\n", symbol(cfg.Forecast.Ticker), cfg.Forecast.Periods)
	report, err := eng.Forecast(ctx)
	if err != nil {
		logger.Log.Fatalf("价格预测失败: %v", err)
	}
	printForecast(out, report)

	if store != nil {
		if err := store.SaveBriefing(ctx, briefing); err != nil {
			logger.Log.Errorf("保存投资总结失败: %v", err)
		}
		if err := store.SaveForecast(ctx, report); err != nil {
			logger.Log.Errorf("保存预测结果失败: %v", err)
		}
	}

	logger.Log.Info("运行结束")
}

// printForecast 输出预测尾部表格以及最后一天的预测价格
func printForecast(w io.Writer, report *model.ForecastReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ds", "yhat", "yhat_lower", "yhat_upper"})
	for _, p := range report.Tail {
		table.Append([]string{
			p.Date.Format(time.DateOnly),
			fmt.Sprintf("%.2f", p.Yhat),
			fmt.Sprintf("%.2f", p.YhatLower),
			fmt.Sprintf("%.2f", p.YhatUpper),
		})
	}
	table.Render()

	if last, ok := report.Last(); ok {
		fmt.Fprintf(w, "\n📊 %s Predicted Price on %s: $%.2f\n", symbol(report.Ticker), last.Date.Format(time.DateOnly), last.Yhat)
	}
}

// symbol 去掉计价货币后缀，如 BTC-USD → BTC
func symbol(ticker string) string {
	base, _, _ := strings.Cut(ticker, "-")
	return base
}
