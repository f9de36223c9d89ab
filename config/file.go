package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names searched in the project root, in order.
var FileNames = []string{".l10nconv.yaml", ".l10nconv.yml", ".l10nconv.toml"}

// EnvFileName is the optional dotenv file read from the project root.
const EnvFileName = ".env"

// Environment variables that override the config file.
const (
	EnvLanguages = "L10NCONV_LANGUAGES"
	EnvFormats   = "L10NCONV_FORMATS"
)

// Load builds the configuration for rootDir:
//
//  1. built-in defaults (Default),
//  2. the config file at path, or the first of FileNames found in rootDir
//     when path is empty,
//  3. L10NCONV_LANGUAGES / L10NCONV_FORMATS from the process environment,
//     falling back to rootDir/.env.
//
// The returned string is the config file that was used ("" if none).
// The result is validated before it is returned.
func Load(rootDir, path string) (*Config, string, error) {
	cfg := Default()

	if path == "" {
		path = findFile(rootDir)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, "", err
		}
	}

	env, err := readEnv(rootDir)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, "", err
	}

	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		return nil, "", err
	}
	return cfg, path, nil
}

func findFile(rootDir string) string {
	for _, name := range FileNames {
		p := filepath.Join(rootDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// decodeFile merges the file at path into cfg. Keys absent from the file
// keep their current values.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%s: unsupported config format (use .yaml, .yml or .toml)", path)
	}
	return nil
}

// readEnv returns the variables of rootDir/.env, or an empty map when the
// file does not exist.
func readEnv(rootDir string) (map[string]string, error) {
	path := filepath.Join(rootDir, EnvFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return env, nil
}

// lookupEnv prefers the process environment over dotenv values.
func lookupEnv(dotenv map[string]string, key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return dotenv[key]
}

func (c *Config) applyEnv(dotenv map[string]string) error {
	if v := lookupEnv(dotenv, EnvLanguages); v != "" {
		c.Languages = ParseLanguages(v)
	}
	if v := lookupEnv(dotenv, EnvFormats); v != "" {
		formats, err := ParseFormats(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFormats, err)
		}
		c.Formats = formats
	}
	return nil
}
