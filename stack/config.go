package stack

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opsforge/nightshift/internal/schedule"
)

// Default values reproduce the original stack: a python Lambda with a 60
// second timeout, triggered daily at 18:00 UTC.
const (
	DefaultFunctionID  = "Ec2AutoShutdownFunction"
	DefaultRuleID      = "DailyShutdownRule"
	DefaultRuntime     = "python3.13"
	DefaultHandler     = "handler.lambda_handler"
	DefaultTimeout     = 60
	DefaultCodeAsset   = "ec2_auto_shutdown/lambda"
	DefaultArtifactKey = "ec2-auto-shutdown.zip"
	DefaultMinute      = "0"
	DefaultHour        = "18"
)

// maxTimeout is the Lambda service limit in seconds.
const maxTimeout = 900

// Config describes the auto-shutdown stack. The zero value is not usable;
// start from DefaultConfig or Load.
type Config struct {
	Description string         `yaml:"description"`
	Function    FunctionConfig `yaml:"function"`
	Rule        RuleConfig     `yaml:"rule"`
}

// FunctionConfig configures the shutdown function declaration.
type FunctionConfig struct {
	// Name is the logical ID of the function resource. The physical
	// function name is provider-assigned.
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runtime     string     `yaml:"runtime"`
	Handler     string     `yaml:"handler"`
	Timeout     int        `yaml:"timeout"`
	Code        CodeConfig `yaml:"code"`
}

// CodeConfig locates the function's deployment artifact. Asset names a
// local directory for packaging; Bucket/Key pin an S3 location. When no
// bucket is configured the template takes the location from parameters.
type CodeConfig struct {
	Asset  string `yaml:"asset"`
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

// RuleConfig configures the daily schedule rule.
type RuleConfig struct {
	// Name is the logical ID of the rule resource.
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Minute      string `yaml:"minute"`
	Hour        string `yaml:"hour"`
	Disabled    bool   `yaml:"disabled"`
}

// DefaultConfig returns the stack exactly as originally deployed.
func DefaultConfig() Config {
	return Config{
		Function: FunctionConfig{
			Name:    DefaultFunctionID,
			Runtime: DefaultRuntime,
			Handler: DefaultHandler,
			Timeout: DefaultTimeout,
			Code: CodeConfig{
				Asset: DefaultCodeAsset,
				Key:   DefaultArtifactKey,
			},
		},
		Rule: RuleConfig{
			Name:   DefaultRuleID,
			Minute: DefaultMinute,
			Hour:   DefaultHour,
		},
	}
}

// Load reads a YAML config file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal into a zero Config so applyDefaults sees which fields the
	// file actually set; pinning a bucket must not inherit the default
	// asset directory.
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills fields the config file left empty.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Function.Name == "" {
		c.Function.Name = def.Function.Name
	}
	if c.Function.Runtime == "" {
		c.Function.Runtime = def.Function.Runtime
	}
	if c.Function.Handler == "" {
		c.Function.Handler = def.Function.Handler
	}
	if c.Function.Timeout == 0 {
		c.Function.Timeout = def.Function.Timeout
	}
	if c.Function.Code.Asset == "" && c.Function.Code.Bucket == "" {
		c.Function.Code.Asset = def.Function.Code.Asset
	}
	if c.Function.Code.Key == "" {
		c.Function.Code.Key = def.Function.Code.Key
	}
	if c.Rule.Name == "" {
		c.Rule.Name = def.Rule.Name
	}
	if c.Rule.Minute == "" {
		c.Rule.Minute = def.Rule.Minute
	}
	if c.Rule.Hour == "" {
		c.Rule.Hour = def.Rule.Hour
	}
}

// Validate rejects configurations the provider would refuse at deployment
// time.
func (c Config) Validate() error {
	if c.Function.Name == "" {
		return fmt.Errorf("function name must not be empty")
	}
	if c.Function.Runtime == "" {
		return fmt.Errorf("function runtime must not be empty")
	}
	if c.Function.Handler == "" {
		return fmt.Errorf("function handler must not be empty")
	}
	if c.Function.Timeout <= 0 || c.Function.Timeout > maxTimeout {
		return fmt.Errorf("function timeout %d out of range 1-%d seconds", c.Function.Timeout, maxTimeout)
	}
	if c.Rule.Name == "" {
		return fmt.Errorf("rule name must not be empty")
	}
	if c.Rule.Name == c.Function.Name {
		return fmt.Errorf("rule and function must not share the logical ID %s", c.Rule.Name)
	}
	if err := c.Schedule().Validate(); err != nil {
		return fmt.Errorf("rule schedule: %w", err)
	}
	return nil
}

// Schedule returns the rule's schedule expression.
func (c Config) Schedule() schedule.Expression {
	return schedule.Daily(c.Rule.Minute, c.Rule.Hour)
}
