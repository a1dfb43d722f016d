package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

const (
	DefaultProfile  = "default"
	DefaultEndpoint = "http://localhost:5000"
	DefaultTimeout  = 30
	envPrefix       = "LEADFORM"
)

// Profile is a named prediction endpoint
type Profile struct {
	Endpoint       string `json:"endpoint" mapstructure:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" mapstructure:"timeout_seconds"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file,omitempty" mapstructure:"file"`
}

type Config struct {
	Profiles      map[string]Profile `json:"profiles" mapstructure:"profiles"`
	ActiveProfile string             `json:"active_profile" mapstructure:"active_profile"`
	Log           LogConfig          `json:"log" mapstructure:"log"`

	currentProfile   *Profile
	endpointOverride string
	path             string
}

// LoadConfig reads $LEADFORM_HOME/.leadform/config.json (or the home
// directory equivalent), creating it with a default profile when missing.
// LEADFORM_ENDPOINT and LEADFORM_PROFILE override the file.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, eris.Wrap(err, "config: get path")
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the config file at configPath
func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, eris.Wrap(err, "config: create directory")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := saveConfig(defaultConfig(), configPath); err != nil {
			return nil, eris.Wrap(err, "config: write default")
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("active_profile", DefaultProfile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(filepath.Dir(configPath), "leadform.log"))

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrap(err, "config: read file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.path = configPath
	cfg.endpointOverride = v.GetString("endpoint")
	if p := v.GetString("profile"); p != "" {
		cfg.ActiveProfile = p
	}

	if err := cfg.setCurrentProfile(); err != nil {
		return nil, eris.Wrap(err, "config: set current profile")
	}

	return &cfg, nil
}

// Validate reports whether the active endpoint can be used
func (c *Config) Validate() error {
	if err := ValidateEndpoint(c.GetEndpoint()); err != nil {
		return eris.Wrapf(err, "profile %q", c.ActiveProfile)
	}
	return nil
}

// ValidateEndpoint accepts absolute http(s) URLs only
func ValidateEndpoint(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return eris.Errorf("endpoint %q must be an http(s) URL", raw)
	}
	return nil
}

// GetEndpoint returns the endpoint of the active profile, or the
// LEADFORM_ENDPOINT override when set
func (c *Config) GetEndpoint() string {
	if c.endpointOverride != "" {
		return c.endpointOverride
	}
	if c.currentProfile == nil {
		return DefaultEndpoint
	}
	return c.currentProfile.Endpoint
}

func (c *Config) GetTimeout() time.Duration {
	if c.currentProfile == nil || c.currentProfile.TimeoutSeconds <= 0 {
		return DefaultTimeout * time.Second
	}
	return time.Duration(c.currentProfile.TimeoutSeconds) * time.Second
}

// ProfileNames returns the profile names in sorted order
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Use makes name the active profile
func (c *Config) Use(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return eris.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// Remove deletes a profile. Removing the active profile activates another
// one, and removing the last profile recreates the default.
func (c *Config) Remove(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return eris.Errorf("profile '%s' does not exist", name)
	}
	delete(c.Profiles, name)

	if len(c.Profiles) == 0 {
		c.Profiles[DefaultProfile] = Profile{Endpoint: DefaultEndpoint, TimeoutSeconds: DefaultTimeout}
	}
	if c.ActiveProfile == name {
		c.ActiveProfile = c.ProfileNames()[0]
	}
	return c.setCurrentProfile()
}

func (c *Config) Path() string {
	return c.path
}

func getConfigPath() (string, error) {
	var configDir string

	// Use LEADFORM_HOME if set, otherwise use user's home directory
	if home := os.Getenv("LEADFORM_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".leadform", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func defaultConfig() *Config {
	return &Config{
		Profiles: map[string]Profile{
			DefaultProfile: {
				Endpoint:       DefaultEndpoint,
				TimeoutSeconds: DefaultTimeout,
			},
		},
		ActiveProfile: DefaultProfile,
		Log:           LogConfig{Level: "info"},
	}
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return eris.Wrap(err, "config: get path")
		}
		c.path = configPath
	}

	if err := saveConfig(c, c.path); err != nil {
		return eris.Wrap(err, "config: save")
	}
	return nil
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return eris.New("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile by name
		c.ActiveProfile = c.ProfileNames()[0]
		profile = c.Profiles[c.ActiveProfile]
	}

	c.currentProfile = &profile
	return nil
}
