// Package config loads the settings shared by the web server and the command line client.
//
// Server settings come from an optional YAML file. The analysis backend URL has one documented default
// and exactly one override, the ANALYST_API_URL environment variable, which may also be set from a .env
// file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the resolved settings.
type Config struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	// StorePath enables the bolt session store when set. Sessions are kept in memory otherwise.
	StorePath string `yaml:"storePath"`

	APIBaseURL string `yaml:"-"`
}

const (
	// DefaultAPIBaseURL is used when ANALYST_API_URL is not set.
	DefaultAPIBaseURL = "http://localhost:8000/api"
	// APIBaseURLEnv is the environment variable overriding the backend URL.
	APIBaseURLEnv = "ANALYST_API_URL"

	defaultPort     = "8080"
	defaultLogLevel = "info"
	appDir          = "estateweb"
	configFileName  = "config.yaml"
)

// DefaultPath returns the location of the config file under the user's config directory.
func DefaultPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting user config dir: %w", err)
	}
	return filepath.Join(cfgDir, appDir, configFileName), nil
}

// Load reads the config file at path, if it exists, and resolves the backend URL from the environment.
// A missing file is not an error; every setting then takes its default.
func Load(path string) (Config, error) {
	if err := LoadEnv(); err != nil {
		return Config{}, err
	}

	cfg := Config{}
	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		case err != nil:
			return Config{}, fmt.Errorf("error opening config file: %w", err)
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("error decoding config file: %w", err)
			}
		}
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	cfg.APIBaseURL = APIBaseURL()

	return cfg, nil
}

// LoadEnv loads a .env file from the working directory into the environment without overriding
// variables that are already set. A missing file is ignored.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// APIBaseURL returns the analysis backend URL.
func APIBaseURL() string {
	if u := os.Getenv(APIBaseURLEnv); u != "" {
		return u
	}
	return DefaultAPIBaseURL
}
