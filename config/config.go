package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/IvanBrykalov/keepalive/filter"
	"github.com/IvanBrykalov/keepalive/keepalive"
)

// Config is the resolved cache configuration.
type Config struct {
	Include filter.Pattern
	Exclude filter.Pattern
	Max     int // 0 = unbounded
}

// envConfig mirrors the raw environment.
type envConfig struct {
	Include string `env:"KEEPALIVE_INCLUDE"`
	Exclude string `env:"KEEPALIVE_EXCLUDE"`
	Max     string `env:"KEEPALIVE_MAX"`
}

// fileConfig mirrors the YAML document.
type fileConfig struct {
	Include filter.Pattern `yaml:"include"`
	Exclude filter.Pattern `yaml:"exclude"`
	Max     maxValue       `yaml:"max"`
}

var defaultEnvLoaded sync.Once

// Load reads the configuration from the environment. With no paths, the
// default .env file is loaded once if present. Otherwise the given .env
// files are loaded first and must exist; variables already set in the
// process environment take precedence over file values.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		defaultEnvLoaded.Do(func() {
			// Ignore errors - the .env file might not exist and that's ok
			_ = godotenv.Load()
		})
	} else if err := godotenv.Load(paths...); err != nil {
		return Config{}, errors.Join(ErrReadingFile, err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return Config{
		Include: filter.Parse(raw.Include),
		Exclude: filter.Parse(raw.Exclude),
		Max:     ParseMax(raw.Max),
	}, nil
}

// LoadFile reads the configuration from a YAML file. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Join(ErrReadingFile, err)
	}
	return decode(data)
}

func decode(data []byte) (Config, error) {
	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Join(ErrReadingFile, err)
	}
	return Config{
		Include: raw.Include,
		Exclude: raw.Exclude,
		Max:     int(raw.Max),
	}, nil
}

// ParseMax converts a textual bound. Empty, non-numeric and non-positive
// input all mean unbounded (0).
func ParseMax(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Apply copies c into opt. Fields of opt not covered by Config are untouched.
func Apply[V any](c Config, opt *keepalive.Options[V]) error {
	if opt == nil {
		return ErrNilPointer
	}
	opt.Include = c.Include
	opt.Exclude = c.Exclude
	opt.Max = c.Max
	return nil
}

// maxValue accepts `max: 10` as well as `max: "10"`.
type maxValue int

func (m *maxValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*m = 0
		return nil
	}
	*m = maxValue(ParseMax(value.Value))
	return nil
}
