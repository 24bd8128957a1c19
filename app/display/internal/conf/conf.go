package conf

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Radar  *Radar  `json:"radar"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Data struct {
	Database *Database `json:"database"`
}

// Database Source 为空时不归档推荐历史
type Database struct {
	Source string `json:"source"`
}

// Radar 选股流水线配置，字段与 market_radar 的 config.Config 对应
type Radar struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Timeout int32  `json:"timeout"`
}

type Search struct {
	Provider string   `json:"provider"`
	Newsapi  *NewsAPI `json:"newsapi"`
	Tavily   *Tavily  `json:"tavily"`
	Searxng  *SearXNG `json:"searxng"`
}

type NewsAPI struct {
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Language string `json:"language"`
	PageSize int32  `json:"page_size"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
