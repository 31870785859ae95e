// Package config loads and edits the openpermit YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "openpermit.yaml"

// Transport kinds.
const (
	TransportMemory  = "memory"
	TransportRedis   = "redis"
	TransportProcess = "process"
)

// Config is the full configuration file.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Worker    WorkerConfig    `yaml:"worker" mapstructure:"worker"`
	Transport TransportConfig `yaml:"transport" mapstructure:"transport"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// WorkerConfig tunes the worker runtime.
type WorkerConfig struct {
	ValidationDelay time.Duration `yaml:"validation_delay" mapstructure:"validation_delay"`
	MaxInFlight     int           `yaml:"max_in_flight" mapstructure:"max_in_flight"`
}

// TransportConfig selects how the client reaches its worker.
type TransportConfig struct {
	Kind    string        `yaml:"kind" mapstructure:"kind"`
	Redis   RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Process ProcessConfig `yaml:"process" mapstructure:"process"`
}

// RedisConfig addresses the Redis list pair.
type RedisConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	Prefix       string        `yaml:"prefix" mapstructure:"prefix"`
	Channel      string        `yaml:"channel" mapstructure:"channel"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// ProcessConfig names the worker command of the process transport.
// An empty command re-executes this binary as "openpermit worker --stdio".
type ProcessConfig struct {
	Command string   `yaml:"command,omitempty" mapstructure:"command"`
	Args    []string `yaml:"args,omitempty" mapstructure:"args"`
	Dir     string   `yaml:"dir,omitempty" mapstructure:"dir"`
}

// ServerConfig configures the demo HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Worker: WorkerConfig{
			ValidationDelay: 10 * time.Millisecond,
			MaxInFlight:     32,
		},
		Transport: TransportConfig{
			Kind: TransportMemory,
			Redis: RedisConfig{
				Addr:         "localhost:6379",
				Prefix:       "openpermit:",
				Channel:      "default",
				PollInterval: time.Second,
			},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values no component can use.
func (c Config) Validate() error {
	switch c.Transport.Kind {
	case TransportMemory, TransportRedis, TransportProcess:
	default:
		return fmt.Errorf("transport.kind must be one of %q, %q or %q, got %q",
			TransportMemory, TransportRedis, TransportProcess, c.Transport.Kind)
	}
	if c.Worker.MaxInFlight < 1 {
		return fmt.Errorf("worker.max_in_flight must be positive")
	}
	if c.Worker.ValidationDelay <= 0 {
		return fmt.Errorf("worker.validation_delay must be positive, got %s", c.Worker.ValidationDelay)
	}
	return nil
}

// Flatten lists every setting as dotted key and value, sorted by key.
func (c Config) Flatten() ([][2]string, error) {
	tree, err := c.tree()
	if err != nil {
		return nil, err
	}
	var out [][2]string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			out = append(out, [2]string{key, fmt.Sprint(v)})
		}
	}
	walk("", tree)
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out, nil
}

// Get returns the value stored under a dotted key such as "worker.max_in_flight".
func (c Config) Get(key string) (string, error) {
	tree, err := c.tree()
	if err != nil {
		return "", err
	}
	var cur any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", fmt.Errorf("unknown config key %q", key)
		}
		if cur, ok = m[part]; !ok {
			return "", fmt.Errorf("unknown config key %q", key)
		}
	}
	if _, ok := cur.(map[string]any); ok {
		return "", fmt.Errorf("config key %q is a section", key)
	}
	return fmt.Sprint(cur), nil
}

// Set parses value into the setting under a dotted key.
func (c *Config) Set(key, value string) error {
	tree, err := c.tree()
	if err != nil {
		return err
	}
	parts := strings.Split(key, ".")
	m := tree
	for _, part := range parts[:len(parts)-1] {
		sub, ok := m[part].(map[string]any)
		if !ok {
			return fmt.Errorf("unknown config key %q", key)
		}
		m = sub
	}
	last := parts[len(parts)-1]
	if old, ok := m[last]; !ok {
		return fmt.Errorf("unknown config key %q", key)
	} else if _, isSection := old.(map[string]any); isSection {
		return fmt.Errorf("config key %q is a section", key)
	}
	m[last] = value

	next := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(tree); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// tree converts c into nested maps keyed by the mapstructure tags.
func (c Config) tree() (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(c, &out); err != nil {
		return nil, fmt.Errorf("failed to flatten config: %w", err)
	}
	return out, nil
}
