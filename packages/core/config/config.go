package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the ax configuration
type Config struct {
	// Method is used when -X is not given.
	Method string `mapstructure:"method" yaml:"method,omitempty" default:"GET"`
	// Headers are appended after the request's own headers, so they never
	// replace a header given on the command line or in a collection entry.
	Headers     []string `mapstructure:"headers" yaml:"headers,omitempty"`
	JSONRequest bool     `mapstructure:"jsonRequest" yaml:"jsonRequest,omitempty"`
	NoColor     bool     `mapstructure:"noColor" yaml:"noColor,omitempty"`
	Verbose     bool     `mapstructure:"verbose" yaml:"verbose,omitempty"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

// ConfigName is the base name searched for, with any extension viper supports
// (.ax.yaml, .ax.yml, .ax.json, .ax.toml ...).
const ConfigName = ".ax"

var envKeys = map[string]string{
	"method":      "AX_METHOD",
	"headers":     "AX_HEADERS",
	"jsonRequest": "AX_JSON_REQUEST",
	"noColor":     "AX_NO_COLOR",
	"verbose":     "AX_VERBOSE",
}

// FileError reports a config file that exists but cannot be read or decoded.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadConfig loads configuration from the specified path, or searches the
// working directory and then the home directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return load(path, nil)
	}

	dirs := []string{"."}
	if home, err := homedir.Dir(); err == nil {
		dirs = append(dirs, home)
	}
	return FindAndLoadConfig(dirs...)
}

// FindAndLoadConfig searches dirs in order for a config file. Defaults plus
// environment overrides are returned when none is found.
func FindAndLoadConfig(dirs ...string) (*Config, error) {
	return load("", dirs)
}

func load(path string, dirs []string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, &FileError{Path: path, Err: err}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &FileError{Path: v.ConfigFileUsed(), Err: err}
	}
	cfg.File = v.ConfigFileUsed()

	return cfg, nil
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// SaveConfig writes the configuration as YAML.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Clean(path), data, 0644)
}
