package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"haranalyzer/internal/analyze"
)

// Config 汇总 server 参数与分析阈值。
type Config struct {
	ListenAddr string             `yaml:"listen_addr"`
	DBDriver   string             `yaml:"db_driver"`
	DBPath     string             `yaml:"db_path"`
	Thresholds analyze.Thresholds `yaml:"thresholds"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		DBDriver:   "sqlite",
		Thresholds: analyze.DefaultThresholds(),
	}
}

// Load 读取 yaml 配置。path 为空或文件不存在时退回默认值；
// 非正的阈值视为未配置，回落到对应默认值。
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("读取配置失败：%w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("解析配置失败：%w", err)
	}

	def := analyze.DefaultThresholds()
	if cfg.Thresholds.SlowResponseMS <= 0 {
		cfg.Thresholds.SlowResponseMS = def.SlowResponseMS
	}
	if cfg.Thresholds.HighWaitMS <= 0 {
		cfg.Thresholds.HighWaitMS = def.HighWaitMS
	}
	if cfg.Thresholds.ConnectionDelayMS <= 0 {
		cfg.Thresholds.ConnectionDelayMS = def.ConnectionDelayMS
	}
	if cfg.Thresholds.DNSDelayMS <= 0 {
		cfg.Thresholds.DNSDelayMS = def.DNSDelayMS
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	return cfg, nil
}
