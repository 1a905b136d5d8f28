package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Загрузка конфигурации из config.yaml через cleanenv

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Retry     RetryConfig     `yaml:"retry"`
	CoinGecko CoinGeckoConfig `yaml:"coingecko"`
	Binance   BinanceConfig   `yaml:"binance"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"2m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env-default:"90s"` // верхняя граница синхронной операции
}

type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"true"`
	Interval time.Duration `yaml:"interval" env-default:"5m"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"15"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"5s"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL" env-default:"info"` // debug|info|warn|error
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"` // text|json
}

type CoinGeckoConfig struct {
	BaseURL        string        `yaml:"base_url" env-default:"https://api.coingecko.com/api/v3"`
	LeaderboardURL string        `yaml:"leaderboard_url" env-default:"https://www.coingecko.com/en/crypto-gainers-losers"`
	Currency       string        `yaml:"currency" env-default:"usd"`
	PerPage        int           `yaml:"per_page" env-default:"250"`
	Timeout        time.Duration `yaml:"timeout" env-default:"8s"`
	UserAgent      string        `yaml:"user_agent" env-default:"crypto-market-service/1.0"`
}

type BinanceConfig struct {
	BaseURL string        `yaml:"base_url" env-default:"https://api.binance.com"`
	Quote   string        `yaml:"quote" env-default:"USDT"`
	Limit   int           `yaml:"limit" env-default:"1000"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"` // postgres|sqlite
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"favorites.db"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName          string        `yaml:"dbname" env:"POSTGRES_DB" env-default:"crypto"`
	SSLMode         string        `yaml:"sslmode" env-default:"disable"`
	Timeout         time.Duration `yaml:"timeout" env-default:"5s"`
	MaxConns        int32         `yaml:"max_conns" env-default:"10"`
	MinConns        int32         `yaml:"min_conns" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"30m"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env-default:"10m"`
	Prefix   string        `yaml:"prefix" env-default:"cms:search:"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	Token   string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	TopSize int    `yaml:"top_size" env-default:"10"`
	// DigestCheck - как часто проверяем, кому пора отправить сводку
	DigestCheck time.Duration `yaml:"digest_check" env:"TELEGRAM_DIGEST_CHECK" env-default:"1m"`
}

// LoadConfig - читает yaml (если путь задан) и переопределяет значения из окружения.
// Пустой path означает CONFIG_PATH из окружения.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Retry.Attempts < 1 {
		return errors.New("retry.attempts must be >= 1")
	}
	if c.Binance.Limit < 1 || c.Binance.Limit > 1000 {
		return errors.New("binance.limit must be in [1, 1000]")
	}
	switch c.Storage.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("storage.driver must be postgres or sqlite")
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return errors.New("telegram.token is required when telegram is enabled")
	}
	return nil
}
