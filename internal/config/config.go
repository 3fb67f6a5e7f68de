// config - источник загрузки конфигурации для NYT Gateway.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Файл .env из рабочей директории подмешивается в окружение до чтения
// (LoadDotEnv), уже выставленные переменные он не перезаписывает.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PlaceholderAPIKey — значение-заглушка из шаблона .env; с ним сервис не стартует.
const PlaceholderAPIKey = "your_api_key_here"

// DefaultBaseURL — корень NYT API.
const DefaultBaseURL = "https://api.nytimes.com/svc"

var (
	ErrAPIKeyMissing     = errors.New("NYT_API_KEY is not set")
	ErrAPIKeyPlaceholder = errors.New("NYT_API_KEY holds a placeholder value")
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	NYT      NYTConfig     `yaml:"nyt"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — публичный REST-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"MCP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"MCP_PORT" env-default:"8000"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// NYTConfig — доступ к апстриму. APIKey в логи не пишется.
type NYTConfig struct {
	APIKey    string `yaml:"api_key"    env:"NYT_API_KEY"`
	BaseURL   string `yaml:"base_url"   env:"NYT_BASE_URL"   env-default:"https://api.nytimes.com/svc"`
	UserAgent string `yaml:"user_agent" env:"NYT_USER_AGENT" env-default:"nyt-gateway"`
}

// TimeoutConfig — общий дедлайн входящего запроса и таймаут HTTP-клиента апстрима.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE_TIMEOUT"  env-default:"15s"`
	Upstream time.Duration `yaml:"upstream" env:"UPSTREAM_TIMEOUT" env-default:"10s"`
}

// LoadDotEnv подмешивает переменные из файлов .env (по умолчанию ./.env).
// Отсутствие файла ошибкой не считается.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return nil
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}

// validate — fail-fast проверка значений, без которых шлюз бесполезен.
func (c *Config) validate() error {
	key := strings.TrimSpace(c.NYT.APIKey)
	switch {
	case key == "":
		return ErrAPIKeyMissing
	case key == PlaceholderAPIKey:
		return ErrAPIKeyPlaceholder
	}
	c.NYT.APIKey = key

	if c.NYT.BaseURL == "" {
		c.NYT.BaseURL = DefaultBaseURL
	}
	c.NYT.BaseURL = strings.TrimRight(c.NYT.BaseURL, "/")

	if c.Timeouts.Upstream <= 0 {
		return fmt.Errorf("timeouts.upstream must be > 0")
	}

	return nil
}
