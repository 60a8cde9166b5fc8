package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the E2E suite configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Target      TargetConfig      `toml:"target"`
	Credentials CredentialsConfig `toml:"credentials"`
	Browser     BrowserConfig     `toml:"browser"`
	Timeouts    TimeoutsConfig    `toml:"timeouts"`
	Generation  GenerationConfig  `toml:"generation"`
	Quality     QualityConfig     `toml:"quality"`
	Output      OutputConfig      `toml:"output"`
	Logging     LoggingConfig     `toml:"logging"`
	Project     ProjectConfig     `toml:"project"`
}

// TargetConfig identifies the application under test
type TargetConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	LoginPath string `toml:"login_path"`
}

// CredentialsConfig holds the test account. Password normally comes from the
// TEST_PASSWORD environment variable rather than the config file.
type CredentialsConfig struct {
	Email    string `toml:"email" validate:"required,email"`
	Password string `toml:"password"`
}

// BrowserConfig controls the Chrome instance
type BrowserConfig struct {
	Headless          bool    `toml:"headless"`
	ViewportWidth     int     `toml:"viewport_width" validate:"gt=0"`
	ViewportHeight    int     `toml:"viewport_height" validate:"gt=0"`
	Locale            string  `toml:"locale"`
	DeviceScaleFactor float64 `toml:"device_scale_factor"`
}

// TimeoutsConfig holds the interaction timeout budgets (seconds)
type TimeoutsConfig struct {
	DefaultSeconds  int `toml:"default_seconds" validate:"gt=0"`
	LongSeconds     int `toml:"long_seconds" validate:"gt=0"`
	PageLoadSeconds int `toml:"page_load_seconds" validate:"gt=0"`
}

// GenerationConfig holds budgets for the ten-pass generation pipeline monitoring
type GenerationConfig struct {
	TotalPasses              int `toml:"total_passes" validate:"gt=0"`
	StallThresholdSeconds    int `toml:"stall_threshold_seconds" validate:"gt=0"`
	TransitionTimeoutSeconds int `toml:"transition_timeout_seconds" validate:"gt=0"`
	CompletionTimeoutSeconds int `toml:"completion_timeout_seconds" validate:"gt=0"`
}

// QualityConfig mirrors the audit thresholds used for descriptive reporting
type QualityConfig struct {
	MinAuditScore         int     `toml:"min_audit_score" json:"min_audit_score"`
	MinWordCount          int     `toml:"min_word_count" json:"min_word_count"`
	MaxWordCount          int     `toml:"max_word_count" json:"max_word_count"`
	MinSections           int     `toml:"min_sections" json:"min_sections"`
	MaxSections           int     `toml:"max_sections" json:"max_sections"`
	MinProseRatio         float64 `toml:"min_prose_ratio" json:"min_prose_ratio"`
	MaxListSectionsRatio  float64 `toml:"max_list_sections_ratio" json:"max_list_sections_ratio"`
	MaxTableSectionsRatio float64 `toml:"max_table_sections_ratio" json:"max_table_sections_ratio"`
}

// OutputConfig controls where screenshots and reports are written
type OutputConfig struct {
	ResultsBaseDir string `toml:"results_base_dir" validate:"required"`
	ScreenshotDir  string `toml:"screenshot_dir"`
}

// LoggingConfig mirrors the arbor writer configuration
type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ProjectConfig names the fixture project used by the click-path scenarios
type ProjectConfig struct {
	Name     string `toml:"name"`
	Language string `toml:"language"`
	Region   string `toml:"region"`
}

// DefaultTimeout returns the default interaction timeout
func (c *Config) DefaultTimeout() time.Duration {
	return time.Duration(c.Timeouts.DefaultSeconds) * time.Second
}

// LongTimeout returns the timeout budget for AI-backed operations
func (c *Config) LongTimeout() time.Duration {
	return time.Duration(c.Timeouts.LongSeconds) * time.Second
}

// PageLoadTimeout returns the page load timeout
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.Timeouts.PageLoadSeconds) * time.Second
}

// StallThreshold returns the silence window treated as a stall
func (c *Config) StallThreshold() time.Duration {
	return time.Duration(c.Generation.StallThresholdSeconds) * time.Second
}

// TransitionTimeout returns the pass-transition wait budget
func (c *Config) TransitionTimeout() time.Duration {
	return time.Duration(c.Generation.TransitionTimeoutSeconds) * time.Second
}

// CompletionTimeout returns the full-pipeline wait budget
func (c *Config) CompletionTimeout() time.Duration {
	return time.Duration(c.Generation.CompletionTimeoutSeconds) * time.Second
}

// LoginURL returns the absolute login URL
func (c *Config) LoginURL() string {
	return strings.TrimSuffix(c.Target.BaseURL, "/") + c.Target.LoginPath
}

// LoadFromFiles loads configuration from multiple files, later files override
// earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Credentials.Password == "" {
		return fmt.Errorf("invalid configuration: no test password (set TEST_PASSWORD or [credentials] password)")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Credentials follow the original tooling convention: TEST_EMAIL / TEST_PASSWORD.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CTC_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if baseURL := os.Getenv("CTC_BASE_URL"); baseURL != "" {
		config.Target.BaseURL = baseURL
	}
	if email := os.Getenv("TEST_EMAIL"); email != "" {
		config.Credentials.Email = email
	}
	if password := os.Getenv("TEST_PASSWORD"); password != "" {
		config.Credentials.Password = password
	}

	if headless := os.Getenv("CTC_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = h
		}
	}

	if level := os.Getenv("CTC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("CTC_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if resultsDir := os.Getenv("CTC_RESULTS_DIR"); resultsDir != "" {
		config.Output.ResultsBaseDir = resultsDir
	}
}
