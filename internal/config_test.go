package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/chatview/testutil"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("endpoint", "", "")
	fs.String("user", "", "")
	fs.String("data-dir", "", "")
	fs.String("backend", "", "")
	return fs
}

// isolate points every default location at an empty temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	// Unset rather than blank: dotenv never overrides a variable that exists,
	// and it leaves what it loads in the process environment.
	for _, key := range []string{"CHATVIEW_ENDPOINT", "CHATVIEW_USER", "CHATVIEW_BACKEND", "CHATVIEW_TIMEOUT", "CHATVIEW_DATA_DIR"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, old)
			} else {
				os.Unsetenv(key)
			}
		})
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig(ConfigOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, defaultEndpoint, cfg.Endpoint)
	assert.Equal(t, defaultEndpoint, cfg.TitleURL())
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "chatview"), cfg.DataDir)
	assert.Equal(t, DefaultTitlePrompt, cfg.TitlePrompt)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	configPath := testutil.WriteFile(t, dir, "config.yaml", `
endpoint: http://file.example/api/chat
user: from-file
backend: sqlite
timeout: 5s
title_endpoint: http://titles.example/api/chat
`)
	envPath := testutil.WriteFile(t, dir, "test.env", "CHATVIEW_USER=from-dotenv\nCHATVIEW_BACKEND=memory\n")
	t.Setenv("CHATVIEW_BACKEND", "file")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--endpoint", "http://flag.example/api/chat"}))

	cfg, err := LoadConfig(ConfigOptions{ConfigFile: configPath, EnvFile: envPath, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example/api/chat", cfg.Endpoint, "flag beats file")
	assert.Equal(t, "from-dotenv", cfg.UserID, "dotenv beats file")
	assert.Equal(t, "file", cfg.Backend, "real environment beats dotenv")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "http://titles.example/api/chat", cfg.TitleURL())
	assert.Equal(t, configPath, cfg.ConfigFile)
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := isolate(t)
	configPath := testutil.WriteFile(t, dir, "config.toml", "user = \"toml-user\"\nbackend = \"memory\"\n")

	cfg, err := LoadConfig(ConfigOptions{ConfigFile: configPath, EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, "toml-user", cfg.UserID)
	assert.Equal(t, BackendMemory, cfg.Backend)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name string
		opts ConfigOptions
	}{
		{
			name: "explicit file missing",
			opts: ConfigOptions{ConfigFile: filepath.Join(dir, "nope.yaml")},
		},
		{
			name: "invalid yaml",
			opts: ConfigOptions{ConfigFile: testutil.WriteFile(t, dir, "bad.yaml", "endpoint: [unclosed\n")},
		},
		{
			name: "unknown backend",
			opts: ConfigOptions{ConfigFile: testutil.WriteFile(t, dir, "backend.yaml", "backend: redis\n")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.EnvFile = filepath.Join(dir, "none.env")
			_, err := LoadConfig(tt.opts)
			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr), "error %v is not a ConfigError", err)
		})
	}
}
