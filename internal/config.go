package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "chatview"
	defaultEndpoint = "http://localhost:3000/api/chat"
	defaultTimeout  = 60 * time.Second
)

// Config is the resolved runtime configuration
type Config struct {
	Endpoint      string        `mapstructure:"endpoint"`
	TitleEndpoint string        `mapstructure:"title_endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UserID        string        `mapstructure:"user"`
	DataDir       string        `mapstructure:"data_dir"`
	Backend       string        `mapstructure:"backend"`
	TitlePrompt   string        `mapstructure:"title_prompt"`
	LogLevel      string        `mapstructure:"log_level"`

	// ConfigFile is the file the values were read from, empty if none
	ConfigFile string `mapstructure:"-"`
}

// ConfigOptions says where LoadConfig looks
type ConfigOptions struct {
	// ConfigFile overrides the default config path. An explicit file must exist.
	ConfigFile string
	// EnvFile is a dotenv file merged into the environment; ".env" when empty
	EnvFile string
	// Flags are bound over every other source when set on the command line
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"endpoint":       "endpoint",
	"title-endpoint": "title_endpoint",
	"timeout":        "timeout",
	"user":           "user",
	"data-dir":       "data_dir",
	"backend":        "backend",
	"log-level":      "log_level",
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/chatview/config.yaml
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".chatview", "config.yaml")
	}
	return filepath.Join(dir, "chatview", "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/chatview, or ~/.local/share/chatview
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "chatview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatview"
	}
	return filepath.Join(home, ".local", "share", "chatview")
}

func configDefaults() map[string]any {
	return map[string]any{
		"endpoint":       defaultEndpoint,
		"title_endpoint": "",
		"timeout":        defaultTimeout,
		"user":           "",
		"data_dir":       DefaultDataDir(),
		"backend":        BackendFile,
		"title_prompt":   DefaultTitlePrompt,
		"log_level":      "info",
	}
}

// LoadConfig resolves configuration. Lowest to highest precedence: defaults,
// config file, dotenv file, CHATVIEW_* environment, flags.
func LoadConfig(opts ConfigOptions) (*Config, error) {
	v := viper.New()
	for key, value := range configDefaults() {
		v.SetDefault(key, value)
	}

	path := opts.ConfigFile
	if path == "" {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	configFile := ""
	if err := v.ReadInConfig(); err != nil {
		if opts.ConfigFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Path: path, Err: err}
		}
		LogDebug("No config file at %s, using defaults", path)
	} else {
		configFile = path
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Path: envFile, Err: err}
		}
	} else {
		LogDebug("Loaded environment from %s", envFile)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, &ConfigError{Err: fmt.Errorf("failed to bind flag %s: %w", name, err)}
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: configFile, Err: err}
	}
	cfg.ConfigFile = configFile

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: configFile, Err: err}
	}
	return &cfg, nil
}

// Validate checks values no source can be trusted to get right
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.DataDir == "" && strings.ToLower(c.Backend) != BackendMemory {
		return errors.New("data_dir is required")
	}
	return nil
}

// TitleURL returns the endpoint used for title generation
func (c *Config) TitleURL() string {
	if c.TitleEndpoint != "" {
		return c.TitleEndpoint
	}
	return c.Endpoint
}
