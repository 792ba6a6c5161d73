package config

import "time"

type VKConfig struct {
	APIURL         string        `yaml:"api_url"`
	AccessToken    string        `yaml:"access_token"`
	APIVersion     string        `yaml:"api_version"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Concurrency    int           `yaml:"concurrency"`
	Retry          RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxRetries      uint64        `yaml:"max_retries"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`
	Production bool   `yaml:"production"`
}

type ReportConfig struct {
	OutputDir string   `yaml:"output_dir"`
	Keywords  []string `yaml:"keywords"`
	Summary   bool     `yaml:"summary"`
}
