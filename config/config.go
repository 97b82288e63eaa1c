package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for iagitbetter.
type Config struct {
	Archive    ArchiveConfig    `yaml:"archive"`
	Collection string           `yaml:"collection"`
	Providers  []ProviderConfig `yaml:"providers"`
}

// ArchiveConfig holds the Internet Archive S3-style credentials.
type ArchiveConfig struct {
	AccessKey string `yaml:"access_key"` // Inline, ${ENV_VAR}, or file path
	SecretKey string `yaml:"secret_key"`
}

// ProviderConfig describes a single Git hosting provider instance.
type ProviderConfig struct {
	Type  string `yaml:"type"`  // "github", "gitlab", "gitea", ...
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables
// and resolving credential file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Archive.AccessKey = ResolveSecret(cfg.Archive.AccessKey)
	cfg.Archive.SecretKey = ResolveSecret(cfg.Archive.SecretKey)
	for i := range cfg.Providers {
		cfg.Providers[i].Token = ResolveSecret(cfg.Providers[i].Token)
	}

	return &cfg, nil
}

// ProviderToken returns the configured token for a provider type, or an
// empty string when none is configured.
func (c *Config) ProviderToken(providerType string) string {
	for _, p := range c.Providers {
		if strings.EqualFold(p.Type, providerType) {
			return p.Token
		}
	}
	return ""
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".iagit.yaml",
		".iagit.yml",
		"iagit.yaml",
		"iagit.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the value from the file.
func ResolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read credential file %q: %v", resolved, readErr)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}

	return resolved
}
