package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "VAEBA"

	DefaultPort        = 8080
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MB
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultTessdata    = "/usr/share/tesseract-ocr/5/tessdata/"
	DefaultOCRLanguage = "por"
	DefaultPlan        = "PPSP-NR"
	DefaultSessionTTL  = 2 * time.Hour
)

type Config struct {
	ServerPort  int
	MaxFileSize int64
	LogLevel    string
	LogFormat   string

	// OCR fallback for image-only PDFs
	OCREnabled        bool
	TesseractDataPath string
	OCRLanguage       string

	// PlansFile replaces the built-in preset table when set.
	PlansFile   string
	DefaultPlan string
	SessionTTL  time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ServerPort:        DefaultPort,
		MaxFileSize:       DefaultMaxFileSize,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		TesseractDataPath: DefaultTessdata,
		OCRLanguage:       DefaultOCRLanguage,
		DefaultPlan:       DefaultPlan,
		SessionTTL:        DefaultSessionTTL,
	}
}

// Load resolves the configuration from defaults, VAEBA_* environment
// variables and the given command-line arguments, in increasing precedence.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("port", cfg.ServerPort)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("ocr", cfg.OCREnabled)
	v.SetDefault("tessdata", cfg.TesseractDataPath)
	v.SetDefault("ocrlang", cfg.OCRLanguage)
	v.SetDefault("plansfile", cfg.PlansFile)
	v.SetDefault("defaultplan", cfg.DefaultPlan)
	v.SetDefault("sessionttl", cfg.SessionTTL)

	fs := pflag.NewFlagSet("vaeba-calculator", pflag.ContinueOnError)
	fs.Int("port", cfg.ServerPort, "HTTP port")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF upload size in bytes")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", cfg.LogFormat, "Log format (json, text)")
	fs.Bool("ocr", cfg.OCREnabled, "OCR image-only PDFs with Tesseract")
	fs.String("tessdata", cfg.TesseractDataPath, "Tesseract tessdata directory")
	fs.String("ocrlang", cfg.OCRLanguage, "Tesseract language")
	fs.String("plansfile", cfg.PlansFile, "JSON file with plan presets (empty uses the built-in table)")
	fs.String("defaultplan", cfg.DefaultPlan, "Plan applied to new sessions")
	fs.Duration("sessionttl", cfg.SessionTTL, "Idle time after which a session is dropped")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg.ServerPort = v.GetInt("port")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.OCREnabled = v.GetBool("ocr")
	cfg.TesseractDataPath = v.GetString("tessdata")
	cfg.OCRLanguage = v.GetString("ocrlang")
	cfg.PlansFile = v.GetString("plansfile")
	cfg.DefaultPlan = v.GetString("defaultplan")
	cfg.SessionTTL = v.GetDuration("sessionttl")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.LogFormat)
	}
	if c.DefaultPlan == "" {
		return errors.New("default plan cannot be empty")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
