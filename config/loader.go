package config

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"
)

// Loader loads configuration from a YAML file under a confined base path.
type Loader struct {
	path     string
	safePath *safepath.SafePath
	config   *Config
	mu       sync.Mutex
	lastHash []byte
	lastLoad time.Time
	onChange []func(*Config)
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithOnChange adds a callback invoked when a Load observes changed content.
func WithOnChange(fn func(*Config)) LoaderOption {
	return func(l *Loader) {
		l.onChange = append(l.onChange, fn)
	}
}

// NewLoader creates a new config loader.
func NewLoader(basePath, configFile string, opts ...LoaderOption) (*Loader, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	l := &Loader{
		path:     configFile,
		safePath: sp,
		onChange: make([]func(*Config), 0),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Load reads and parses the configuration file. Unchanged content returns
// the cached config without re-parsing.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.safePath.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	hash := sha256.Sum256(data)
	if l.config != nil && string(hash[:]) == string(l.lastHash) {
		return l.config, nil
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	l.config = cfg
	l.lastHash = hash[:]
	l.lastLoad = time.Now()

	for _, fn := range l.onChange {
		fn(cfg)
	}

	return cfg, nil
}

// Parse decodes YAML config bytes over the defaults and validates the
// result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
