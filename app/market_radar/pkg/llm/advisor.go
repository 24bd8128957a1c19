// Package llm 组装提示词并调用 OpenAI 兼容的大模型接口（默认本地 Ollama）。
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
)

// NewChatModel 按配置创建聊天模型
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// NewLimiter RPM 为 0 时返回 nil，表示不限流
func NewLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	if c.RPM <= 0 {
		return nil
	}
	burst := c.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

type chain = compose.Runnable[map[string]any, *schema.Message]

// Advisor 两条 "模板 | 模型" 链：选股推荐与标题摘要
type Advisor struct {
	modelName string
	recommend chain
	briefing  chain
	limiter   *rate.Limiter
}

// NewAdvisor 编译两条链，limiter 可为 nil
func NewAdvisor(ctx context.Context, cm model.BaseChatModel, modelName string, limiter *rate.Limiter) (*Advisor, error) {
	recommend, err := compile(ctx, cm, recommendTemplate)
	if err != nil {
		return nil, fmt.Errorf("compile recommend chain: %w", err)
	}
	briefing, err := compile(ctx, cm, briefingTemplate)
	if err != nil {
		return nil, fmt.Errorf("compile briefing chain: %w", err)
	}
	return &Advisor{
		modelName: modelName,
		recommend: recommend,
		briefing:  briefing,
		limiter:   limiter,
	}, nil
}

func compile(ctx context.Context, cm model.BaseChatModel, tpl string) (chain, error) {
	template := prompt.FromMessages(schema.FString, schema.UserMessage(tpl))
	return compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(template).
		AppendChatModel(cm).
		Compile(ctx)
}

// ModelName 配置的模型名
func (a *Advisor) ModelName() string {
	return a.modelName
}

// RecommendStocks 基于新闻上下文给出 5 只潜力股，模型输出原样返回
func (a *Advisor) RecommendStocks(ctx context.Context, newsText string) (string, error) {
	return a.invoke(ctx, a.recommend, map[string]any{"news_text": newsText})
}

// SummarizeHeadlines 总结标题并给出投资方向，headlines 为空时同样调用模型
func (a *Advisor) SummarizeHeadlines(ctx context.Context, headlines []string) (string, error) {
	return a.invoke(ctx, a.briefing, map[string]any{"headlines": strings.Join(headlines, "\n")})
}

func (a *Advisor) invoke(ctx context.Context, c chain, vars map[string]any) (string, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("limiter wait error: %w", err)
		}
	}
	msg, err := c.Invoke(ctx, vars)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
