package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "DIGIT_MCP"

// ConfigFileEnv names the environment variable holding an optional YAML
// config file path.
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// Default values.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultCapacity    = 100
	DefaultOCRLanguage = "eng"
)

var settings = []struct {
	key   string
	value any
}{
	{"log.level", DefaultLogLevel},
	{"log.format", DefaultLogFormat},
	{"learning.capacity", DefaultCapacity},
	{"random.seed", 0},
	{"ocr.language", DefaultOCRLanguage},
}

// Load reads configuration from the file named by DIGIT_MCP_CONFIG (if set)
// and from DIGIT_MCP_* environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile reads configuration from the YAML file at path, then applies
// environment overrides. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for _, s := range settings {
		v.SetDefault(s.key, s.value)
	}

	if path != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, s := range settings {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(s.key, ".", "_"))
		if err := v.BindEnv(s.key, env); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
