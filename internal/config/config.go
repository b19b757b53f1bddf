package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые бэкенды локального хранилища заметок.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// DefaultAutosaveDelay - задержка автосохранения после последнего изменения.
const DefaultAutosaveDelay = 1200 * time.Millisecond

type Config struct {
	// Server-side settings (relay)
	DatabaseDSN   string `env:"DATABASE_URI"`
	AuthSecret    string `env:"AUTH_SECRET"`
	EnvelopeMaxKB int    `env:"ENVELOPE_MAX_KB"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	LogLevel    string `env:"LOG_LEVEL"`

	// Client-side settings
	ServerURL     string        `env:"-"`
	StoreDir      string        `env:"STORE_DIR"`
	StoreBackend  string        `env:"STORE_BACKEND"`
	AutosaveDelay time.Duration `env:"AUTOSAVE_DELAY"`
	ShareBaseURL  string        `env:"SHARE_BASE_URL"`
	Version       bool          `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги переопределяют значения из env
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД relay-сервера")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи токенов сайтов")
	flag.IntVar(&cfg.EnvelopeMaxKB, "envelope-max-kb", cfg.EnvelopeMaxKB, "максимальный размер конверта в КБ")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "relay server address (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	// Client flags
	flag.StringVar(&cfg.StoreDir, "store-dir", cfg.StoreDir, "directory for local notes")
	flag.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "local store backend: sqlite|file")
	flag.DurationVar(&cfg.AutosaveDelay, "autosave", cfg.AutosaveDelay, "autosave delay after the last edit")
	flag.StringVar(&cfg.ShareBaseURL, "share-base", cfg.ShareBaseURL, "base URL for share links")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// applyDefaults заполняет пустые значения и исправляет невалидные.
func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.EnvelopeMaxKB <= 0 {
		cfg.EnvelopeMaxKB = 512
	}
	// BaseURL: только "address:port" (без схемы и пути), иначе значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if cfg.StoreBackend != BackendFile {
		cfg.StoreBackend = BackendSQLite
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = DefaultAutosaveDelay
	}
	if cfg.StoreDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.StoreDir = filepath.Join(dir, "StoreText")
		} else {
			home, _ := os.UserHomeDir()
			cfg.StoreDir = filepath.Join(home, ".storetext")
		}
	}
	if cfg.ShareBaseURL == "" {
		cfg.ShareBaseURL = cfg.ServerURL + "/share"
	}
}
