package configs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// 基础配置
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"` // HTTP监听地址
	SeedDemo   bool   `json:"seed_demo" yaml:"seed_demo"`     // 启动时填充示例交易

	Database Database `json:"database" yaml:"database"`

	// AI 模型参数
	AIConfig AIConfig `json:"ai_config" yaml:"ai_config"`

	// 行情数据参数
	MarketConfig MarketConfig `json:"market_config" yaml:"market_config"`
}

type AIConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`       // 是否启用AI叙述
	APIKey    string `json:"api_key" yaml:"api_key"`       // AI服务API密钥
	ModelType string `json:"model_type" yaml:"model_type"` // AI模型类型
}

type MarketConfig struct {
	CoinGeckoBaseURL string `json:"coingecko_base_url" yaml:"coingecko_base_url"` // 覆盖默认API地址
	BinanceFallback  bool   `json:"binance_fallback" yaml:"binance_fallback"`     // K线缺失时回退Binance
}

type Database struct {
	ConnStr string `json:"conn_str" yaml:"conn_str"` // 数据库连接字符串；为空则使用内存存储
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		ListenAddr: ":8000",
		SeedDemo:   true,
		MarketConfig: MarketConfig{
			BinanceFallback: true,
		},
	}
}

// Load reads a YAML config file and resolves secrets from the environment.
// OPENAI_API_KEY and DATABASE_URL take precedence over file values.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.AIConfig.APIKey = key
		config.AIConfig.Enabled = true
	}
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		config.Database.ConnStr = connStr
	}

	return config, nil
}
