package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Tools: ToolsConfig{
			Dir:       "/opt/mkvtoolnix",
			UsePath:   true,
			Extractor: "mkvextract",
			Editor:    "mkvpropedit",
		},
	}
}

// isolate runs the test in an empty directory with a clean environment,
// so no stray .env, YAML file or variable leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "MKVCHAPTERS_CONFIG", "MKVCHAPTERS_TOOLS_DIR", "MKVCHAPTERS_USE_PATH",
		"MKVCHAPTERS_EXTRACTOR", "MKVCHAPTERS_EDITOR", "MKVCHAPTERS_TIMEOUT", "MKVCHAPTERS_TEMP_DIR",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Tools(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ToolsConfig)
	}{
		{"missing extractor", func(c *ToolsConfig) { c.Extractor = "" }},
		{"missing editor", func(c *ToolsConfig) { c.Editor = "" }},
		{"nowhere to look", func(c *ToolsConfig) { c.Dir = ""; c.UsePath = false }},
		{"negative timeout", func(c *ToolsConfig) { c.Timeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Tools)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, rest, err := LoadConfig([]string{"show", "movie.mkv"})
	require.NoError(t, err)

	assert.Equal(t, []string{"show", "movie.mkv"}, rest)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Empty(t, cfg.App.ConfigFile)

	// Resolve symlinks so macOS /var -> /private/var does not matter.
	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(filepath.Dir(cfg.Tools.Dir)))
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, "bin", filepath.Base(cfg.Tools.Dir))

	assert.True(t, cfg.Tools.UsePath)
	assert.Equal(t, "mkvextract", cfg.Tools.Extractor)
	assert.Equal(t, "mkvpropedit", cfg.Tools.Editor)
	assert.Zero(t, cfg.Tools.Timeout)
	assert.Empty(t, cfg.Tools.TempDir)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "tools.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
env: staging
log_level: warn
tools:
  dir: /opt/from-file
  use_path: false
  extractor: file-extract
  editor: file-edit
  timeout: 1m
`), 0o644))

	t.Setenv("MKVCHAPTERS_CONFIG", yamlPath)
	t.Setenv("MKVCHAPTERS_EXTRACTOR", "env-extract")

	cfg, rest, err := LoadConfig([]string{"-editor", "flag-edit", "add", "a.mkv"})
	require.NoError(t, err)

	assert.Equal(t, []string{"add", "a.mkv"}, rest)
	assert.Equal(t, yamlPath, cfg.App.ConfigFile)
	assert.Equal(t, "staging", cfg.App.Environment)     // file
	assert.Equal(t, "warn", cfg.Logger.Level)           // file
	assert.Equal(t, "/opt/from-file", cfg.Tools.Dir)    // file
	assert.False(t, cfg.Tools.UsePath)                  // file
	assert.Equal(t, "env-extract", cfg.Tools.Extractor) // env beats file
	assert.Equal(t, "flag-edit", cfg.Tools.Editor)      // flag beats all
	assert.Equal(t, time.Minute, cfg.Tools.Timeout)     // file
}

func TestLoadConfig_DiscoversConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mkvchapters.yaml"), []byte("log_level: debug\n"), 0o644))

	cfg, _, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "./mkvchapters.yaml", cfg.App.ConfigFile)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "bad timeout",
			args:    []string{"-timeout", "soon"},
			wantMsg: "invalid tool timeout",
		},
		{
			name:    "negative timeout",
			args:    []string{"-timeout", "-5s"},
			wantMsg: "must not be negative",
		},
		{
			name:    "missing explicit config file",
			args:    []string{"-config", "/nonexistent/mkvchapters.yaml"},
			wantMsg: "failed to read config file",
		},
		{
			name:    "bad log level from env",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantMsg: "invalid log level",
		},
		{
			name:    "unknown flag",
			args:    []string{"-no-such-flag"},
			wantMsg: "no-such-flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, _, err := LoadConfig(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools: [unterminated\n"), 0o644))

	_, _, err := LoadConfig([]string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MKVCHAPTERS_EDITOR=dotenv-edit\n"), 0o644))

	cfg, _, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-edit", cfg.Tools.Editor)
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/bin", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "bin"), got)

	got, err = expandPath("/absolute/path/to/bin", "")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path/to/bin", got)

	got, err = expandPath("relative/bin", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Contains(t, got, filepath.Join("relative", "bin"))

	got, err = expandPath("", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("yes", "UNUSED", false))
	assert.False(t, getBoolConfigValue("off", "UNUSED", true))
	assert.True(t, getBoolConfigValue("", "NONEXISTENT_KEY", true))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	// Registers cleanup that restores the previous values.
	for _, key := range []string{"ENV", "LOG_LEVEL", "QUOTED_VALUE", "SINGLE_QUOTED"} {
		t.Setenv(key, "")
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))
	t.Setenv("VALID_KEY", "")

	err := loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}
