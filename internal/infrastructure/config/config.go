package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server struct {
		Port               int    `yaml:"port"`
		ReadTimeoutStr     string `yaml:"read_timeout"`
		WriteTimeoutStr    string `yaml:"write_timeout"`
		ShutdownTimeoutStr string `yaml:"shutdown_timeout"`
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
	} `yaml:"server"`

	PostgreSQL struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"postgresql"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTLStr   string        `yaml:"ttl"`
		TTL      time.Duration `yaml:"-"`
	} `yaml:"redis"`

	Streams []StreamConfig `yaml:"streams"`

	Analyzer struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutStr string        `yaml:"timeout"`
		Timeout    time.Duration `yaml:"-"`
	} `yaml:"analyzer"`

	TradingPairs []string `yaml:"trading_pairs"`

	Workers struct {
		Persist int `yaml:"persist"`
	} `yaml:"workers"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

type StreamConfig struct {
	Name               string `yaml:"name"`
	URL                string `yaml:"url"`
	UserID             string `yaml:"user_id"`
	OpportunitiesLimit int    `yaml:"opportunities_limit"`
	Enabled            bool   `yaml:"enabled"`
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host, c.PostgreSQL.Port, c.PostgreSQL.User,
		c.PostgreSQL.Password, c.PostgreSQL.Database, c.PostgreSQL.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
