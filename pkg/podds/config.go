package podds

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the viewer needs to start.
// Values are layered: defaults, then the YAML file, then .env and the
// environment, then command line flags (applied by the caller).
type Config struct {
	// === Dataset ===
	DataPath  string `yaml:"data"`  // csv, xlsx, sqlite file or postgres:// DSN
	Sheet     string `yaml:"sheet"` // xlsx worksheet (default: first sheet)
	TableName string `yaml:"table"` // sql table (default: predictions)

	// === HTTP ===
	ListenAddr      string        `yaml:"addr"`             // default: :8501
	Title           string        `yaml:"title"`            // page title
	CORSOrigins     []string      `yaml:"cors_origins"`     // allowed origins for /api (default: *)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // graceful shutdown budget (default: 10s)

	// === Logging ===
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogOutput string `yaml:"log_output"` // console, file or both
	LogFile   string `yaml:"log_file"`   // used by file and both
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		DataPath:        "btbs_zip_poisson_model.xlsx",
		TableName:       DefaultTableName,
		ListenAddr:      ":8501",
		Title:           "Soccer Prediction App ⚽🥅",
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogOutput:       "console",
	}
}

// LoadConfig builds a Config from the defaults, the optional YAML file at
// path and the environment. An empty path falls back to $PODDS_CONFIG.
// The result is not validated, callers apply their own overrides first
// and then call ValidateConfig.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("PODDS_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DataPath = envStr("PODDS_DATA", c.DataPath)
	c.Sheet = envStr("PODDS_SHEET", c.Sheet)
	c.TableName = envStr("PODDS_TABLE", c.TableName)
	c.ListenAddr = envStr("PODDS_ADDR", c.ListenAddr)
	c.Title = envStr("PODDS_TITLE", c.Title)
	c.LogLevel = envStr("PODDS_LOG_LEVEL", c.LogLevel)
	c.LogOutput = envStr("PODDS_LOG_OUTPUT", c.LogOutput)
	c.LogFile = envStr("PODDS_LOG_FILE", c.LogFile)
	if v := os.Getenv("PODDS_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}
	if v := os.Getenv("PODDS_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PODDS_SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ValidateConfig ensures the values are usable
func ValidateConfig(c *Config) error {
	if strings.TrimSpace(c.DataPath) == "" {
		return fmt.Errorf("data path must be set")
	}
	if sourceKind(c.DataPath) == "" {
		return fmt.Errorf("data path %s: unsupported format, want .csv, .xlsx, .db or a postgres:// DSN", c.DataPath)
	}
	if c.TableName != "" {
		if err := validTableName(c.TableName); err != nil {
			return err
		}
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must be set")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got: %s", c.ShutdownTimeout)
	}
	switch c.LogOutput {
	case "console", "file", "both":
	default:
		return fmt.Errorf("log output must be console, file or both, got: %q", c.LogOutput)
	}
	return nil
}

// LogOutputType maps LogOutput onto the logger's output selector
func (c *Config) LogOutputType() rune {
	switch c.LogOutput {
	case "file":
		return 'f'
	case "both":
		return 'b'
	default:
		return 'c'
	}
}

// LoadOptions returns the dataset options carried by the config
func (c *Config) LoadOptions() LoadOptions {
	return LoadOptions{Sheet: c.Sheet, TableName: c.TableName}
}
