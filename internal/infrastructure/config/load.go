package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Переменные окружения переопределяют значения из файла.
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	// Парсим duration'ы
	if cfg.Server.ReadTimeout, err = time.ParseDuration(cfg.Server.ReadTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid server.read_timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = time.ParseDuration(cfg.Server.WriteTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid server.write_timeout: %w", err)
	}
	if cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}
	if cfg.Redis.TTL, err = time.ParseDuration(cfg.Redis.TTLStr); err != nil {
		return nil, fmt.Errorf("invalid redis.ttl: %w", err)
	}
	if cfg.Analyzer.Timeout, err = time.ParseDuration(cfg.Analyzer.TimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid analyzer.timeout: %w", err)
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// PostgreSQL
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.PostgreSQL.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.PostgreSQL.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.PostgreSQL.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.PostgreSQL.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.PostgreSQL.Database = v
	}

	// Redis
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	// Stream
	if v := os.Getenv("STREAM_URL"); v != "" && len(cfg.Streams) > 0 {
		cfg.Streams[0].URL = v
	}
	if v := os.Getenv("STREAM_USER_ID"); v != "" && len(cfg.Streams) > 0 {
		cfg.Streams[0].UserID = v
	}

	// Analyzer
	if v := os.Getenv("ANALYZER_BASE_URL"); v != "" {
		cfg.Analyzer.BaseURL = v
	}

	// Server
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutStr == "" {
		cfg.Server.ReadTimeoutStr = "10s"
	}
	if cfg.Server.WriteTimeoutStr == "" {
		cfg.Server.WriteTimeoutStr = "10s"
	}
	if cfg.Server.ShutdownTimeoutStr == "" {
		cfg.Server.ShutdownTimeoutStr = "30s"
	}
	if cfg.Redis.TTLStr == "" {
		cfg.Redis.TTLStr = "1m"
	}
	if cfg.Analyzer.TimeoutStr == "" {
		cfg.Analyzer.TimeoutStr = "10s"
	}
	if cfg.Workers.Persist == 0 {
		cfg.Workers.Persist = 2
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
