package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

var (
	ErrInvalidBaseURL       = errors.New("MASTODON_BASE_URL must be an absolute http(s) URL")
	ErrInvalidContentFormat = errors.New("CONTENT_FORMAT must be one of: html, text, markdown")
	ErrInvalidHTTPTimeout   = errors.New("HTTP_TIMEOUT must be positive")
)

type Config struct {
	BaseURL       string        `env:"MASTODON_BASE_URL,required,notEmpty"`
	AccountID     string        `env:"MASTODON_ACCOUNT_ID,required,notEmpty"`
	AccessToken   string        `env:"MASTODON_ACCESS_TOKEN"`
	Username      string        `env:"MASTODON_USERNAME"`
	InstanceType  string        `env:"INSTANCE_TYPE"                        envDefault:"mastodon"`
	RSSUsername   string        `env:"RSS_USERNAME"                         envDefault:"sun"`
	ContentFormat string        `env:"CONTENT_FORMAT"                       envDefault:"html"`
	ListenAddr    string        `env:"LISTEN_ADDR"                          envDefault:":8080"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT"                         envDefault:"10s"`
	LogLevel      string        `env:"LOG_LEVEL"                            envDefault:"info"`
}

// LoadConfig reads the process environment, after merging an optional .env
// file from the working directory. Variables already set win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.AccountID = strings.TrimSpace(c.AccountID)
	c.AccessToken = strings.TrimSpace(c.AccessToken)
	c.Username = strings.TrimPrefix(strings.TrimSpace(c.Username), "@")
	c.InstanceType = strings.ToLower(strings.TrimSpace(c.InstanceType))
	c.RSSUsername = strings.TrimSpace(c.RSSUsername)
	c.ContentFormat = strings.ToLower(strings.TrimSpace(c.ContentFormat))
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w (got %q)", ErrInvalidBaseURL, c.BaseURL)
	}

	switch c.ContentFormat {
	case "html", "text", "markdown":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidContentFormat, c.ContentFormat)
	}

	if c.HTTPTimeout <= 0 {
		return ErrInvalidHTTPTimeout
	}

	return nil
}
