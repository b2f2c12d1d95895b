package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the CLI's profile store, persisted at ~/.lotwire/config.yaml.
type Config struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	path           string
}

// Profile holds everything needed to talk to one relay deployment.
type Profile struct {
	// ServerURL is the relay base URL.
	ServerURL string `yaml:"server_url"`
	// SigningSecret signs webhook payloads sent with `lotwire send`.
	SigningSecret string `yaml:"signing_secret,omitempty"`
	// Token is the admin JWT used by the dlq commands.
	Token string `yaml:"token,omitempty"`
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lotwire", "config.yaml"), nil
}

// Default returns an empty store pointing at the "default" profile.
func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
	}
}

// Load reads the store at cfgFile, or the default location when cfgFile
// is empty. A missing file yields Default rather than an error.
func Load(cfgFile string) (*Config, error) {
	var err error
	if cfgFile == "" {
		if cfgFile, err = defaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the store back to disk. Profiles carry secrets, so the
// directory is created 0700 and the file 0600.
func (c *Config) Save() error {
	var err error
	if c.path == "" {
		if c.path, err = defaultPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

// SaveProfile writes or replaces a profile, makes it current, and
// persists the store.
func (c *Config) SaveProfile(name, serverURL, signingSecret, token string) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}
	c.Profiles[name] = &Profile{
		ServerURL:     serverURL,
		SigningSecret: signingSecret,
		Token:         token,
	}
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile looks a profile up by name, falling back to the current
// profile when name is empty.
func (c *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return profile, nil
}

// RemoveProfile deletes a profile and persists the store. Removing the
// current profile leaves no profile selected.
func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return c.Save()
}
