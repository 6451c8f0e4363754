// Package config loads the optional YAML configuration shared by the tkf
// tools. Command-line flags override every value loaded here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"tkfalign/internal/precision"
)

// EnvPath names the environment variable consulted when no --config flag
// is given.
const EnvPath = "TKFALIGN_CONFIG"

var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk configuration.
//
//	log:
//	  level: info        # debug | info | warn | error
//	  format: text       # text | json
//	timeout: 30s         # 0 disables
//	pretty: false
//	default_precision: high
//	batch:
//	  workers: 0         # 0 = all CPUs
//	bench:
//	  metrics_textfile: ""
type Config struct {
	Log              LogConfig     `yaml:"log"`
	Timeout          time.Duration `yaml:"timeout" validate:"gte=0"`
	Pretty           bool          `yaml:"pretty"`
	DefaultPrecision string        `yaml:"default_precision" validate:"precision"`
	Batch            BatchConfig   `yaml:"batch"`
	Bench            BenchConfig   `yaml:"bench"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type BatchConfig struct {
	Workers int `yaml:"workers" validate:"gte=0"`
}

type BenchConfig struct {
	MetricsTextfile string `yaml:"metrics_textfile"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("precision", validatePrecision)
}

// validatePrecision accepts any wire name precision.ParseMode knows.
func validatePrecision(fl validator.FieldLevel) bool {
	_, err := precision.ParseMode(fl.Field().String())
	return err == nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:              LogConfig{Level: "info", Format: "text"},
		DefaultPrecision: "high",
	}
}

// Validate checks every field of c.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Load reads the file at path, or at $TKFALIGN_CONFIG when path is empty,
// over the defaults. With neither set the defaults are returned. A named
// file that does not exist is an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
