package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Aashish23092/paystub-extraction/dto"
)

const (
	ModeStdio  = "stdio"
	ModeServer = "server"

	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MB
	DefaultTessdata    = "/usr/share/tesseract-ocr/5/tessdata/"

	envPrefix = "PAYSTUB"
)

type Config struct {
	Mode              string
	ServerPort        int
	TesseractDataPath string
	MaxFileSize       int64
	Strategy          dto.Strategy
	OCREnabled        bool
	LogLevel          string

	DBDriver string // "sqlite", "pgx" or empty to disable history
	DBDSN    string
}

func DefaultConfig() *Config {
	return &Config{
		Mode:              ModeServer,
		ServerPort:        DefaultPort,
		TesseractDataPath: DefaultTessdata,
		MaxFileSize:       DefaultMaxFileSize,
		Strategy:          dto.StrategyAuto,
		OCREnabled:        true,
		LogLevel:          DefaultLogLevel,
	}
}

// LoadConfig reads flags from args, then PAYSTUB_* environment variables,
// falling back to defaults.
func LoadConfig(args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	fs := pflag.NewFlagSet("paystub-server", pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	setupUsageMessage(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if err := populateConfigFromViper(v, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("port", cfg.ServerPort)
	v.SetDefault("tessdata", cfg.TesseractDataPath)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("strategy", string(cfg.Strategy))
	v.SetDefault("ocr", cfg.OCREnabled)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("db.driver", cfg.DBDriver)
	v.SetDefault("db.dsn", cfg.DBDSN)
}

func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Run mode: 'server' for HTTP, 'stdio' for MCP standard I/O")
	fs.Int("port", cfg.ServerPort, "HTTP port (server mode only)")
	fs.String("tessdata", cfg.TesseractDataPath, "Tesseract tessdata directory")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum upload size in bytes")
	fs.String("strategy", string(cfg.Strategy), "Extraction strategy: auto, positional or regex")
	fs.Bool("ocr", cfg.OCREnabled, "OCR scanned pages and images")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error); debug adds per-document diagnostics and gin debug mode")
	fs.String("db.driver", cfg.DBDriver, "History store driver: sqlite or pgx (empty disables)")
	fs.String("db.dsn", cfg.DBDSN, "History store data source name")
}

func setupUsageMessage(fs *pflag.FlagSet) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPay stub extraction service\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PAYSTUB_MODE, PAYSTUB_PORT, PAYSTUB_TESSDATA, PAYSTUB_MAXFILESIZE,\n")
		fmt.Fprintf(os.Stderr, "  PAYSTUB_STRATEGY, PAYSTUB_OCR, PAYSTUB_LOGLEVEL, PAYSTUB_DB_DRIVER, PAYSTUB_DB_DSN\n")
	}
}

func populateConfigFromViper(v *viper.Viper, cfg *Config) error {
	cfg.Mode = v.GetString("mode")
	cfg.ServerPort = v.GetInt("port")
	cfg.TesseractDataPath = v.GetString("tessdata")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.OCREnabled = v.GetBool("ocr")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.DBDriver = v.GetString("db.driver")
	cfg.DBDSN = v.GetString("db.dsn")

	strategy, err := dto.ParseStrategy(v.GetString("strategy"))
	if err != nil {
		return err
	}
	cfg.Strategy = strategy
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}
	if c.Mode == ModeServer && (c.ServerPort < 1 || c.ServerPort > 65535) {
		return errors.New("port must be between 1 and 65535")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	switch c.DBDriver {
	case "":
	case "sqlite", "pgx":
		if c.DBDSN == "" {
			return fmt.Errorf("db.dsn is required for driver %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported db driver: %s", c.DBDriver)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// IsDebug reports whether per-document diagnostics and gin debug mode
// are on.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Port: %d, Strategy: %s, OCR: %t, DB: %s, MaxFileSize: %d}",
		c.Mode, c.ServerPort, c.Strategy, c.OCREnabled, c.DBDriver, c.MaxFileSize)
}
