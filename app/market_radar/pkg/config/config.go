package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	Forecast    ForecastConfig    `yaml:"forecast"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置，默认指向本地 Ollama 的 OpenAI 兼容接口
type LLMConfig struct {
	BaseURL string `yaml:"base_url" default:"http://localhost:11434/v1" validate:"required,url"`
	APIKey  string `yaml:"api_key" default:"ollama"`
	Model   string `yaml:"model" default:"mixtral" validate:"required"`
	Timeout int    `yaml:"timeout"` // 秒，0 表示不限
}

// SearchConfig 新闻检索配置
type SearchConfig struct {
	Provider string        `yaml:"provider" default:"newsapi" validate:"oneof=newsapi tavily searxng"`
	NewsAPI  NewsAPIConfig `yaml:"newsapi"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// NewsAPIConfig newsapi.org 配置
type NewsAPIConfig struct {
	BaseURL  string `yaml:"base_url" default:"https://newsapi.org"`
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language" default:"en"`
	PageSize int    `yaml:"page_size" default:"5" validate:"min=1,max=100"`
	SortBy   string `yaml:"sort_by" default:"relevancy"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ScrapeConfig 网页标题抓取配置
type ScrapeConfig struct {
	Sources []SourceConfig `yaml:"sources" validate:"dive"`
	Timeout int            `yaml:"timeout"` // 秒，0 表示不限
}

// SourceConfig 单个新闻列表页
type SourceConfig struct {
	Name     string `yaml:"name" validate:"required"`
	URL      string `yaml:"url" validate:"required,url"`
	Selector string `yaml:"selector" default:"h3"`
	Limit    int    `yaml:"limit" default:"5" validate:"min=1"`
}

// SetDefaults 实现 defaults.Setter，未配置时使用 ET 与 WSJ 两个来源
func (s *ScrapeConfig) SetDefaults() {
	if len(s.Sources) == 0 {
		s.Sources = []SourceConfig{
			{Name: "ET", URL: "https://economictimes.indiatimes.com/markets", Selector: "h3", Limit: 5},
			{Name: "WSJ", URL: "https://www.wsj.com/news/markets", Selector: "h3", Limit: 5},
		}
	}
}

// ForecastConfig 价格预测配置
type ForecastConfig struct {
	BaseURL       string  `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
	Ticker        string  `yaml:"ticker" default:"BTC-USD" validate:"required"`
	Range         string  `yaml:"range" default:"2y"`
	Interval      string  `yaml:"interval" default:"1d"`
	Periods       int     `yaml:"periods" default:"30" validate:"min=1"`
	Tail          int     `yaml:"tail" default:"5" validate:"min=1"`
	IntervalWidth float64 `yaml:"interval_width" default:"0.8" validate:"gt=0,lt=1"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" default:"info"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流，RPM 为 0 时不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps" default:"1"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空时不落库
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Enabled 是否配置了数据库
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

// DSN 返回 lib/pq 连接串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// LoadConfig 从指定路径加载配置，文件不存在时全部使用默认值
func LoadConfig(path string) (*Config, error) {
	// .env 可选
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize 依次应用默认值、环境变量覆盖并校验
func (c *Config) Finalize() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	c.applyEnv()
	return c.Validate()
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"NEWS_API_KEY":     &c.Search.NewsAPI.APIKey,
		"TAVILY_API_KEY":   &c.Search.Tavily.APIKey,
		"SEARXNG_BASE_URL": &c.Search.SearXNG.BaseURL,
		"LLM_BASE_URL":     &c.LLM.BaseURL,
		"LLM_API_KEY":      &c.LLM.APIKey,
		"LLM_MODEL":        &c.LLM.Model,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
