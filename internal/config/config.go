// Package config provides configuration for the chapter tools with support for command-line flags,
// environment variables, YAML config files, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Tools  ToolsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// ConfigFile is the YAML file that was loaded, empty if none.
	ConfigFile string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ToolsConfig locates and drives the external mkvtoolnix binaries.
type ToolsConfig struct {
	Dir       string        // Directory holding bundled binaries (default: third_party/bin)
	UsePath   bool          // Fall back to $PATH when a binary is not in Dir (default: true)
	Extractor string        // Extraction tool name (default: mkvextract)
	Editor    string        // Chapter editing tool name (default: mkvpropedit)
	Timeout   time.Duration // Per-invocation timeout, 0 for none (default: 0)
	TempDir   string        // Where exchange files are written (default: os.TempDir)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables (including those set from the .env file).
// 3. YAML config file.
// 4. Default values (lowest priority).
//
// It returns the positional arguments left after flag parsing.
func LoadConfig(args []string) (*Config, []string, error) {
	fs := flag.NewFlagSet("mkvchapters", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	configFile := fs.String("config", "", "Path to YAML config file")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	// Tool flags
	toolsDir := fs.String("tools-dir", "", "Directory containing mkvextract/mkvpropedit (default: third_party/bin)")
	usePath := fs.String("use-path", "", "Search $PATH when a tool is not in the tools dir (default: true)")
	extractor := fs.String("extractor", "", "Chapter extraction tool (default: mkvextract)")
	editor := fs.String("editor", "", "Chapter editing tool (default: mkvpropedit)")
	timeout := fs.String("timeout", "", "Timeout per tool invocation, 0 for none (default: 0)")
	tempDir := fs.String("temp-dir", "", "Directory for temporary chapter files (default: system temp)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	file, path, err := loadFileConfig(getConfigValue(*configFile, "MKVCHAPTERS_CONFIG", ""))
	if err != nil {
		return nil, nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", firstNonEmpty(file.Env, "development")),
			ConfigFile:  path,
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", firstNonEmpty(file.LogLevel, "info")),
		},
		Tools: ToolsConfig{
			Dir:       getConfigValue(*toolsDir, "MKVCHAPTERS_TOOLS_DIR", firstNonEmpty(file.Tools.Dir, "third_party/bin")),
			UsePath:   getBoolConfigValue(*usePath, "MKVCHAPTERS_USE_PATH", file.Tools.usePath()),
			Extractor: getConfigValue(*extractor, "MKVCHAPTERS_EXTRACTOR", firstNonEmpty(file.Tools.Extractor, "mkvextract")),
			Editor:    getConfigValue(*editor, "MKVCHAPTERS_EDITOR", firstNonEmpty(file.Tools.Editor, "mkvpropedit")),
			TempDir:   getConfigValue(*tempDir, "MKVCHAPTERS_TEMP_DIR", file.Tools.TempDir),
		},
	}

	timeoutStr := getConfigValue(*timeout, "MKVCHAPTERS_TIMEOUT", firstNonEmpty(file.Tools.Timeout, "0"))
	timeoutDuration, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid tool timeout %q: %w", timeoutStr, err)
	}
	cfg.Tools.Timeout = timeoutDuration

	if err := cfg.expandToolPaths(); err != nil {
		return nil, nil, fmt.Errorf("invalid tool path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, fs.Args(), nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Tools.Extractor == "" || c.Tools.Editor == "" {
		return errors.New("extractor and editor tool names are required")
	}

	if c.Tools.Dir == "" && !c.Tools.UsePath {
		return errors.New("tools dir is empty and $PATH lookup is disabled")
	}

	if c.Tools.Timeout < 0 {
		return fmt.Errorf("invalid tool timeout: %s (must not be negative)", c.Tools.Timeout)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandToolPaths makes the tools and temp directories absolute.
// An empty temp dir stays empty and means the system default.
func (c *Config) expandToolPaths() error {
	dir, err := expandPath(c.Tools.Dir, "")
	if err != nil {
		return err
	}
	c.Tools.Dir = dir

	tmp, err := expandPath(c.Tools.TempDir, "")
	if err != nil {
		return err
	}
	c.Tools.TempDir = tmp
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
