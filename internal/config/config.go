package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/byq630/us-census-income-analysis/pkg/dataprep"
	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

//go:embed census_encoding.yaml
var censusEncoding []byte

// Config holds the settings shared by the census commands.
type Config struct {
	TrainPath   string
	HoldoutPath string
	Dictionary  string // optional YAML dictionary; the embedded census one is used when empty
	Encoding    string // optional YAML encoder layout
	Target      string
	Threshold   float64

	LogLevel  string
	LogFormat string
}

// Load reads envFiles (a missing file is not an error) and then the
// environment. Variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	threshold, err := getEnvAsFloat("CENSUS_THRESHOLD", 0.5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TrainPath:   getEnv("CENSUS_TRAIN_PATH", "data/census_income_learn.csv"),
		HoldoutPath: getEnv("CENSUS_HOLDOUT_PATH", "data/census_income_test.csv"),
		Dictionary:  getEnv("CENSUS_DICTIONARY", ""),
		Encoding:    getEnv("CENSUS_ENCODING", ""),
		Target:      getEnv("CENSUS_TARGET", schema.Target),
		Threshold:   threshold,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return errors.New("config: target column name is required")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("config: threshold %v is outside [0, 1]", c.Threshold)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("config: log format %q is not json or text", c.LogFormat)
	}
	return nil
}

// DataDictionary returns the configured dictionary, or the embedded census one.
func (c *Config) DataDictionary() (schema.Dictionary, error) {
	if c.Dictionary == "" {
		return schema.CensusDictionary()
	}
	return schema.LoadDictionary(c.Dictionary)
}

// EncoderLayout returns the configured encoder layout, or the census default.
func (c *Config) EncoderLayout() (dataprep.EncoderConfig, error) {
	if c.Encoding == "" {
		return CensusEncoderConfig()
	}
	return LoadEncoderConfig(c.Encoding)
}

// CensusEncoderConfig returns the embedded encoder layout for the census features.
func CensusEncoderConfig() (dataprep.EncoderConfig, error) {
	return decodeEncoderConfig(censusEncoding, "census_encoding.yaml")
}

// LoadEncoderConfig reads an encoder layout from a YAML file.
func LoadEncoderConfig(path string) (dataprep.EncoderConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return dataprep.EncoderConfig{}, fmt.Errorf("config: load encoder layout: %w", err)
	}
	return decodeEncoderConfig(b, path)
}

func decodeEncoderConfig(b []byte, source string) (dataprep.EncoderConfig, error) {
	var ec dataprep.EncoderConfig
	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	if err := dec.Decode(&ec); err != nil {
		return dataprep.EncoderConfig{}, fmt.Errorf("config: decode encoder layout %s: %w", source, err)
	}
	for name, order := range ec.Ordered {
		if len(order) == 0 {
			return dataprep.EncoderConfig{}, fmt.Errorf("config: encoder layout %s: ordered.%s has no categories", source, name)
		}
	}
	return ec, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}
