package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
// 进程启动时构造一次，之后只读，通过注入传给 handler/service/LLM 客户端
type Config struct {
	Port               string
	OpenRouterKey      string
	Model              string
	LLMBaseURL         string
	AccessToken        string
	DisableAuth        bool
	RateLimitPerMinute int
	FetchTimeout       time.Duration
	LLMTimeout         time.Duration
	MaxTextChars       int
	DatabaseURL        string
	SQLitePath         string
	CacheTTL           time.Duration
	AllowedOrigins     []string
	LogLevel           string
	LogFormat          string
}

// setting 一个配置项: 环境变量名 / YAML键名 / 赋值函数
type setting struct {
	env   string
	yaml  string
	apply func(c *Config, value string) error
}

var settings = []setting{
	{"PORT", "port", func(c *Config, v string) error { c.Port = v; return nil }},
	{"OPENROUTER_API_KEY", "openrouter_api_key", func(c *Config, v string) error { c.OpenRouterKey = v; return nil }},
	{"LLM_MODEL", "llm_model", func(c *Config, v string) error { c.Model = v; return nil }},
	{"LLM_BASE_URL", "llm_base_url", func(c *Config, v string) error { c.LLMBaseURL = strings.TrimRight(v, "/"); return nil }},
	{"MY_PUBLIC_TOKEN", "access_token", func(c *Config, v string) error { c.AccessToken = v; return nil }},
	{"DISABLE_AUTH", "disable_auth", func(c *Config, v string) error { c.DisableAuth = ParseBool(v); return nil }},
	{"RATE_LIMIT_PER_MINUTE", "rate_limit_per_minute", intSetter(func(c *Config) *int { return &c.RateLimitPerMinute })},
	{"FETCH_TIMEOUT", "fetch_timeout", durationSetter(func(c *Config) *time.Duration { return &c.FetchTimeout })},
	{"LLM_TIMEOUT", "llm_timeout", durationSetter(func(c *Config) *time.Duration { return &c.LLMTimeout })},
	{"MAX_TEXT_CHARS", "max_text_chars", intSetter(func(c *Config) *int { return &c.MaxTextChars })},
	{"DATABASE_URL", "database_url", func(c *Config, v string) error { c.DatabaseURL = v; return nil }},
	{"SQLITE_PATH", "sqlite_path", func(c *Config, v string) error { c.SQLitePath = v; return nil }},
	{"CACHE_TTL", "cache_ttl", durationSetter(func(c *Config) *time.Duration { return &c.CacheTTL })},
	{"CORS_ORIGINS", "cors_origins", func(c *Config, v string) error { c.AllowedOrigins = splitList(v); return nil }},
	{"LOG_LEVEL", "log_level", func(c *Config, v string) error { c.LogLevel = strings.ToLower(v); return nil }},
	{"LOG_FORMAT", "log_format", func(c *Config, v string) error { c.LogFormat = strings.ToLower(v); return nil }},
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Port:               "5000",
		Model:              "google/gemini-2.5-flash",
		LLMBaseURL:         "https://openrouter.ai/api/v1",
		RateLimitPerMinute: 5,
		FetchTimeout:       10 * time.Second,
		LLMTimeout:         30 * time.Second,
		MaxTextChars:       12000,
		CacheTTL:           0,
		AllowedOrigins:     []string{"*"},
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// Load 加载配置: 默认值 <- YAML文件(可选) <- 环境变量
// path 为空时读取 CONFIG_FILE
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for _, s := range settings {
		value, ok := raw[s.yaml]
		if !ok || value == nil {
			continue
		}
		var str string
		switch v := value.(type) {
		case []interface{}:
			str = strings.Join(lo.Map(v, func(item interface{}, _ int) string { return fmt.Sprint(item) }), ",")
		default:
			str = fmt.Sprint(v)
		}
		if err := s.apply(c, str); err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, s.yaml, err)
		}
	}
	return nil
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	for _, s := range settings {
		value, ok := lookup(s.env)
		if !ok || value == "" {
			continue
		}
		if err := s.apply(c, value); err != nil {
			return fmt.Errorf("%s: %w", s.env, err)
		}
	}
	return nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.MaxTextChars <= 0 {
		return fmt.Errorf("max text chars must be positive, got %d", c.MaxTextChars)
	}
	if c.FetchTimeout <= 0 || c.LLMTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// AuthEnabled 是否需要校验 X-Access-Token
func (c *Config) AuthEnabled() bool {
	return !c.DisableAuth
}

// ParseBool 解析 1/true/yes 形式的开关
func ParseBool(value string) bool {
	return lo.Contains([]string{"1", "true", "yes", "on"}, strings.ToLower(strings.TrimSpace(value)))
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*field(c) = n
		return nil
	}
}

// durationSetter 接受 "10s" 这类时长，也接受纯数字（按秒）
func durationSetter(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		v = strings.TrimSpace(v)
		if secs, err := strconv.Atoi(v); err == nil {
			*field(c) = time.Duration(secs) * time.Second
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q", v)
		}
		*field(c) = d
		return nil
	}
}

func splitList(value string) []string {
	parts := lo.Map(strings.Split(value, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Compact(parts)
}
