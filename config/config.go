// Package config loads the console configuration from YAML, optionally
// stored in an SSM parameter, with environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type API struct {
	BaseURL       string        `yaml:"baseUrl"`
	Token         string        `yaml:"token"`
	SessionCookie string        `yaml:"sessionCookie"`
	Timeout       time.Duration `yaml:"timeout"`
}

type Database struct {
	// DSN wins over Entry when both are set.
	DSN string `yaml:"dsn"`
	// Entry names a record of the "databases" SSM parameter.
	Entry          string `yaml:"entry"`
	Schema         string `yaml:"schema"`
	MaxConnections int    `yaml:"maxConnections"`
	LogLevel       string `yaml:"logLevel"`
}

type Auth struct {
	SigningSecret string        `yaml:"signingSecret"`
	TokenTTL      time.Duration `yaml:"tokenTtl"`
	Cookie        string        `yaml:"cookie"`
}

type Slack struct {
	Token          string `yaml:"token"`
	InfoChannelID  string `yaml:"infoChannel"`
	ErrorChannelID string `yaml:"errorChannel"`
}

type Report struct {
	Company  string   `yaml:"company"`
	Bucket   string   `yaml:"bucket"`
	Prefix   string   `yaml:"prefix"`
	MailFrom string   `yaml:"mailFrom"`
	MailTo   []string `yaml:"mailTo"`
	GroupBy  []string `yaml:"groupBy"`
}

type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	Store          string   `yaml:"store"`
}

type Config struct {
	LogLevel string   `yaml:"logLevel"`
	API      API      `yaml:"api"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Slack    Slack    `yaml:"slack"`
	Report   Report   `yaml:"report"`
	Server   Server   `yaml:"server"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		API: API{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Database: Database{MaxConnections: 10, LogLevel: "error"},
		Auth:     Auth{TokenTTL: 12 * time.Hour, Cookie: "token"},
		Report: Report{
			Company: "Max Loyalty",
			Prefix:  "reportes/",
			GroupBy: []string{"canal"},
		},
		Server: Server{Addr: ":8080", AllowedOrigins: []string{"*"}, Store: "memory"},
	}
}

// Parse reads YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return cfg, nil
}

// Load reads the file at path, or only the defaults when path is empty,
// then applies the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MAXLOYALTY_API_URL":        &c.API.BaseURL,
		"MAXLOYALTY_TOKEN":          &c.API.Token,
		"MAXLOYALTY_SIGNING_SECRET": &c.Auth.SigningSecret,
		"MAXLOYALTY_LOG_LEVEL":      &c.LogLevel,
		"SLACK_BOT_TOKEN":           &c.Slack.Token,
		"SLACK_INFO_CHANNEL":        &c.Slack.InfoChannelID,
		"SLACK_ERROR_CHANNEL":       &c.Slack.ErrorChannelID,
		"DSN":                       &c.Database.DSN,
		"REPORT_BUCKET":             &c.Report.Bucket,
		"REPORT_MAIL_FROM":          &c.Report.MailFrom,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("MAXLOYALTY_TIMEOUT_SECONDS"); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAXLOYALTY_TIMEOUT_SECONDS: %w", err)
		}
		c.API.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}
