package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL      = "https://api.vk.com/method"
	DefaultAPIVersion  = "5.131"
	DefaultConcurrency = 3
)

type Config struct {
	VK             VKConfig       `yaml:"vk"`
	Logger         LoggerConfig   `yaml:"logger"`
	DatabaseConfig DatabaseConfig `yaml:"database"`
	Report         ReportConfig   `yaml:"report"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	if token := strings.TrimSpace(os.Getenv("VK_ACCESS_TOKEN")); token != "" {
		cfg.VK.AccessToken = token
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.VK.APIURL == "" {
		c.VK.APIURL = DefaultAPIURL
	}
	if c.VK.APIVersion == "" {
		c.VK.APIVersion = DefaultAPIVersion
	}
	if c.VK.RequestTimeout <= 0 {
		c.VK.RequestTimeout = 30 * time.Second
	}
	if c.VK.Concurrency <= 0 {
		c.VK.Concurrency = DefaultConcurrency
	}
	if c.VK.Retry.InitialInterval <= 0 {
		c.VK.Retry.InitialInterval = 500 * time.Millisecond
	}
	if c.VK.Retry.MaxInterval <= 0 {
		c.VK.Retry.MaxInterval = 5 * time.Second
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "reports"
	}
}
