package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type AppConfig struct {
	// SitesFile is the YAML site registry.
	SitesFile string `validate:"required"`

	LogLevel    string `validate:"required,oneof=debug info warn error"`
	LogEncoding string `validate:"required,oneof=json console"`
	// LogDevelopment turns on colored levels and stack traces on warnings.
	LogDevelopment bool
	// LogOutput lists the log sinks: stdout, stderr or file paths.
	LogOutput []string `validate:"min=1,dive,required"`

	// Panel size of every rendered chart, in pixels.
	PanelWidth  int `validate:"gte=200,lte=10000"`
	PanelHeight int `validate:"gte=100,lte=5000"`

	// MaxArtifacts caps recorded artifacts per site (0 = unlimited).
	MaxArtifacts int `validate:"gte=0"`
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is honoured when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		SitesFile:      getenvDefault("TCCON_SITES_FILE", "sites.yaml"),
		LogLevel:       getenvDefault("TCCON_LOG_LEVEL", "info"),
		LogEncoding:    getenvDefault("TCCON_LOG_ENCODING", "console"),
		LogDevelopment: getenvBool("TCCON_LOG_DEVELOPMENT", false),
		LogOutput:      SplitList(getenvDefault("TCCON_LOG_OUTPUT", "stderr")),
		PanelWidth:     getenvInt("TCCON_PANEL_WIDTH", 1000),
		PanelHeight:    getenvInt("TCCON_PANEL_HEIGHT", 250),
		MaxArtifacts:   getenvInt("TCCON_MAX_ARTIFACTS", 0),
	}
	return cfg, nil
}

// Validate checks field bounds after flags have been applied.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Site describes a measurement site and where its files live. Templates
// take {site} plus strftime verbs, e.g. "/data/{site}/%Y/%m/%d".
type Site struct {
	Name      string  `yaml:"name" validate:"required"`
	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude" validate:"gte=-180,lte=180"`

	DayDir     string `yaml:"day_dir"`
	TrackerLog string `yaml:"tracker_log"`
	MeteoFile  string `yaml:"meteo_file"`
}

// Sites is the site registry.
type Sites struct {
	Sites []Site `yaml:"sites" validate:"dive"`
}

// Lookup returns the named site.
func (s *Sites) Lookup(name string) (Site, bool) {
	for _, site := range s.Sites {
		if site.Name == name {
			return site, true
		}
	}
	return Site{}, false
}

// LoadSites reads and validates the YAML registry at path.
func LoadSites(path string) (*Sites, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}
	return ParseSites(b)
}

// ParseSites decodes and validates a YAML registry.
func ParseSites(b []byte) (*Sites, error) {
	var sites Sites
	if err := yaml.Unmarshal(b, &sites); err != nil {
		return nil, fmt.Errorf("decode sites: %w", err)
	}
	if err := validate.Struct(&sites); err != nil {
		return nil, fmt.Errorf("invalid sites: %w", err)
	}

	seen := make(map[string]bool, len(sites.Sites))
	for _, s := range sites.Sites {
		if seen[s.Name] {
			return nil, errors.New("duplicate site " + s.Name)
		}
		seen[s.Name] = true
	}
	return &sites, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// SplitList splits a comma separated value, dropping blank entries.
func SplitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
