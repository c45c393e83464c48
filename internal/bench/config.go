package bench

import (
	"bytes"
	"io"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile       = "foo.json"
	DefaultIterations = 10000
)

// Config controls a benchmark run.
type Config struct {
	// File is the JSON document to parse. Relative paths are resolved
	// against the working directory.
	File string `yaml:"file"`
	// Iterations is the number of parses per engine.
	Iterations int `yaml:"iterations"`
	// Workers splits the iterations of each engine across goroutines.
	Workers int `yaml:"workers"`
	// Engines lists the engines to run, in order.
	Engines []string `yaml:"engines"`
}

// DefaultConfig parses foo.json ten thousand times with stackjson only.
func DefaultConfig() Config {
	return Config{
		File:       DefaultFile,
		Iterations: DefaultIterations,
		Workers:    1,
		Engines:    []string{EngineStackJSON},
	}
}

// LoadConfig reads a YAML document over the defaults. Unknown keys are
// rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding benchmark config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid benchmark config")
	}
	return cfg, nil
}

// LoadConfigBytes is LoadConfig for an in-memory document.
func LoadConfigBytes(data []byte) (Config, error) {
	return LoadConfig(bytes.NewReader(data))
}

func (c Config) Validate() error {
	if c.File == "" {
		return errors.New("file must be set")
	}
	if c.Iterations <= 0 {
		return errors.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if len(c.Engines) == 0 {
		return errors.New("at least one engine is required")
	}
	for i, name := range c.Engines {
		if _, ok := engines[name]; !ok {
			return errors.Errorf("unknown engine %q, known engines: %v", name, EngineNames())
		}
		if slices.Contains(c.Engines[:i], name) {
			return errors.Errorf("engine %q listed twice", name)
		}
	}
	return nil
}
