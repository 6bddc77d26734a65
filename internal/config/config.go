package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidRoles lists the built-in capability roles an agent may be given.
var ValidRoles = []string{"watcher", "heartbeat", "echo"}

// societyNameRegex enforces lowercase names safe for Redis key namespacing.
var societyNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// WarrenConfig represents the top-level warren.yml configuration.
type WarrenConfig struct {
	Version string           `yaml:"version"`
	Society string           `yaml:"society"`
	Redis   *RedisConfig     `yaml:"redis,omitempty"` // enables cross-process signal channels
	Agents  map[string]Agent `yaml:"agents"`
}

// RedisConfig specifies the optional Redis connection for signal channels.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// Agent represents a single agent configuration.
type Agent struct {
	Role             string   `yaml:"role"`
	Subscribes       []string `yaml:"subscribes,omitempty"`        // concept class names, resolved at start
	ActivityInterval string   `yaml:"activity_interval,omitempty"` // Go duration string, default 1s
}

// Validate performs validation on a single agent configuration.
func (a *Agent) Validate(name string) error {
	if a.Role == "" {
		return fmt.Errorf("agent '%s': role is required", name)
	}

	valid := false
	for _, role := range ValidRoles {
		if a.Role == role {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("agent '%s': invalid role: %s (must be one of %v)", name, a.Role, ValidRoles)
	}

	if a.ActivityInterval != "" {
		d, err := time.ParseDuration(a.ActivityInterval)
		if err != nil {
			return fmt.Errorf("agent '%s': invalid activity_interval: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("agent '%s': activity_interval must be positive", name)
		}
	}

	return nil
}

// Interval returns the agent's activity interval, defaulting to one second.
// Call only after Validate.
func (a *Agent) Interval() time.Duration {
	if a.ActivityInterval == "" {
		return time.Second
	}
	d, err := time.ParseDuration(a.ActivityInterval)
	if err != nil {
		return time.Second
	}
	return d
}

// Validate performs strict validation on the configuration.
func (c *WarrenConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	// Required: society name, safe for key namespacing
	if c.Society == "" {
		return fmt.Errorf("society name is required")
	}
	if !societyNameRegex.MatchString(c.Society) {
		return fmt.Errorf("invalid society name: %s (lowercase letters, digits, and hyphens only)", c.Society)
	}

	// Required: at least one agent
	if len(c.Agents) == 0 {
		return fmt.Errorf("no agents defined")
	}

	for name, agent := range c.Agents {
		if err := agent.Validate(name); err != nil {
			return err
		}
	}

	if c.Redis != nil && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is configured")
	}

	return nil
}

// Load reads, parses, and validates a warren.yml file.
func Load(path string) (*WarrenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config WarrenConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
