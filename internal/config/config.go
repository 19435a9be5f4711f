package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ZeroAssertPolicy decides what happens to a testcase showing zero assertions
type ZeroAssertPolicy string

const (
	// ZeroAssertVisit enters the testcase and inspects nothing
	ZeroAssertVisit ZeroAssertPolicy = "visit"
	// ZeroAssertProbe enters the testcase and inspects the first position once
	ZeroAssertProbe ZeroAssertPolicy = "probe"
	// ZeroAssertSkip does not enter the testcase
	ZeroAssertSkip ZeroAssertPolicy = "skip"
)

// ParseZeroAssertPolicy validates a policy name
func ParseZeroAssertPolicy(s string) (ZeroAssertPolicy, error) {
	switch p := ZeroAssertPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ZeroAssertVisit, ZeroAssertProbe, ZeroAssertSkip:
		return p, nil
	}
	return "", fmt.Errorf("unknown zero-asserts policy %q (want visit, probe or skip)", s)
}

// Config holds all configuration for the application
type Config struct {
	// Application settings
	ProjectPath  string `validate:"required"`
	ElectronPath string
	EntryScript  string
	AppURL       string `validate:"omitempty,url"`
	DebugPort    int    `validate:"gte=0,lte=65535"`

	// Attach to an already running DevTools endpoint instead of launching
	AttachURL    string `validate:"omitempty,url"`
	TargetFilter string

	// Timing
	LaunchTimeout time.Duration `validate:"gt=0"`
	WaitTimeout   time.Duration `validate:"gt=0"`
	ActionTimeout time.Duration `validate:"gt=0"`
	RunTimeout    time.Duration `validate:"gte=0"`
	PollAttempts  int           `validate:"gte=1"`
	PollInterval  time.Duration `validate:"gt=0"`

	// Traversal
	ZeroAsserts ZeroAssertPolicy `validate:"oneof=visit probe skip"`
	Selectors   Selectors

	// Output settings
	ReportPath string
	LogLevel   string `validate:"omitempty,oneof=trace debug info warn error"`

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	ElectronPath  string
	EntryScript   string
	AppURL        string
	DebugPort     int
	AttachURL     string
	TargetFilter  string
	LaunchTimeout time.Duration
	WaitTimeout   time.Duration
	ActionTimeout time.Duration
	RunTimeout    time.Duration
	PollAttempts  int
	PollInterval  time.Duration
	ZeroAsserts   string
	NameFilter    string
	FailFast      bool
	SelectorsFile string
	ReportPath    string
	Quiet         bool
	OpenFailures  bool
	LogLevel      string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:   DefaultProjectPath,
		EntryScript:   DefaultEntryScript,
		LaunchTimeout: DefaultLaunchTimeout,
		WaitTimeout:   DefaultWaitTimeout,
		ActionTimeout: DefaultActionTimeout,
		PollAttempts:  DefaultPollAttempts,
		PollInterval:  DefaultPollInterval,
		ZeroAsserts:   ZeroAssertVisit,
		LogLevel:      DefaultLogLevel,
		Selectors:     DefaultSelectors,
	}
	// Copy default markers so callers can't mutate the package default
	cfg.Selectors.FailureMarkers = make([]string, len(DefaultSelectors.FailureMarkers))
	copy(cfg.Selectors.FailureMarkers, DefaultSelectors.FailureMarkers)
	return cfg
}

// Load creates a config from defaults, the project's .env file,
// ECR_* environment variables and finally flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, DefaultEnvFile))

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Apply(flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overrides config values with the flags that were set
func (c *Config) Apply(flags Flags) error {
	c.Flags = flags

	if flags.ProjectPath != "" {
		c.ProjectPath = flags.ProjectPath
	}
	if flags.ElectronPath != "" {
		c.ElectronPath = flags.ElectronPath
	}
	if flags.EntryScript != "" {
		c.EntryScript = flags.EntryScript
	}
	if flags.AppURL != "" {
		c.AppURL = flags.AppURL
	}
	if flags.DebugPort > 0 {
		c.DebugPort = flags.DebugPort
	}
	if flags.AttachURL != "" {
		c.AttachURL = flags.AttachURL
	}
	if flags.TargetFilter != "" {
		c.TargetFilter = flags.TargetFilter
	}
	if flags.LaunchTimeout > 0 {
		c.LaunchTimeout = flags.LaunchTimeout
	}
	if flags.WaitTimeout > 0 {
		c.WaitTimeout = flags.WaitTimeout
	}
	if flags.ActionTimeout > 0 {
		c.ActionTimeout = flags.ActionTimeout
	}
	if flags.RunTimeout > 0 {
		c.RunTimeout = flags.RunTimeout
	}
	if flags.PollAttempts > 0 {
		c.PollAttempts = flags.PollAttempts
	}
	if flags.PollInterval > 0 {
		c.PollInterval = flags.PollInterval
	}
	if flags.ZeroAsserts != "" {
		policy, err := ParseZeroAssertPolicy(flags.ZeroAsserts)
		if err != nil {
			return err
		}
		c.ZeroAsserts = policy
	}
	if flags.ReportPath != "" {
		c.ReportPath = flags.ReportPath
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.SelectorsFile != "" {
		selectors, err := LoadSelectors(c.resolve(flags.SelectorsFile), c.Selectors)
		if err != nil {
			return err
		}
		c.Selectors = selectors
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return c.Validate()
}

// applyEnv reads ECR_* variables through getenv
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("ECR_ELECTRON_PATH"); v != "" {
		c.ElectronPath = v
	}
	if v := getenv("ECR_ENTRY"); v != "" {
		c.EntryScript = v
	}
	if v := getenv("ECR_APP_URL"); v != "" {
		c.AppURL = v
	}
	if v := getenv("ECR_ATTACH_URL"); v != "" {
		c.AttachURL = v
	}
	if v := getenv("ECR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("ECR_ZERO_ASSERTS"); v != "" {
		policy, err := ParseZeroAssertPolicy(v)
		if err != nil {
			return fmt.Errorf("ECR_ZERO_ASSERTS: %w", err)
		}
		c.ZeroAsserts = policy
	}

	ints := map[string]*int{
		"ECR_DEBUG_PORT":    &c.DebugPort,
		"ECR_POLL_ATTEMPTS": &c.PollAttempts,
	}
	for key, dst := range ints {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("%s: invalid number %q", key, v)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"ECR_LAUNCH_TIMEOUT": &c.LaunchTimeout,
		"ECR_WAIT_TIMEOUT":   &c.WaitTimeout,
		"ECR_ACTION_TIMEOUT": &c.ActionTimeout,
		"ECR_RUN_TIMEOUT":    &c.RunTimeout,
		"ECR_POLL_INTERVAL":  &c.PollInterval,
	}
	for key, dst := range durations {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// resolve makes a relative path relative to the project path
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}

// GetEntryScriptPath returns the entry script path, relative to ProjectPath if not absolute
func (c *Config) GetEntryScriptPath() string {
	return c.resolve(c.EntryScript)
}

// GetReportPath returns the absolute path of the JSON report, empty when disabled
func (c *Config) GetReportPath() string {
	if c.ReportPath == "" {
		return ""
	}
	p := c.ReportPath
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetElectronCandidates returns the executable paths tried in order
func (c *Config) GetElectronCandidates() []string {
	if c.ElectronPath != "" {
		return []string{c.resolve(c.ElectronPath)}
	}
	return []string{
		filepath.Join(c.ProjectPath, "node_modules", ".bin", "electron"),
		filepath.Join(c.ProjectPath, "node_modules", "electron", "dist", "electron"),
		"electron",
	}
}

// PollBudget returns the longest time an assertion can be polled
func (c *Config) PollBudget() time.Duration {
	return time.Duration(c.PollAttempts) * c.PollInterval
}
