package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNcbiBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultKeggBaseURL    = "https://rest.kegg.jp"
	DefaultOrganism       = "homo sapiens"
	DefaultKeggOrganism   = "hsa"
	DefaultTimeoutSeconds = 20
)

type Config struct {
	NcbiBaseURL           string `json:"ncbi_base_url" yaml:"ncbi_base_url" validate:"required,url"`
	KeggBaseURL           string `json:"kegg_base_url" yaml:"kegg_base_url" validate:"required,url"`
	NcbiApiKey            string `json:"ncbi_api_key" yaml:"ncbi_api_key"`
	Organism              string `json:"organism" yaml:"organism" validate:"required"`
	KeggOrganism          string `json:"kegg_organism" yaml:"kegg_organism" validate:"required,alpha,lowercase"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds" validate:"gte=0,lte=600"`
	UserAgent             string `json:"user_agent" yaml:"user_agent"`
	LogFile               string `json:"log_file" yaml:"log_file"`
	LogLevel              string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads the config file at path. If path is empty, looks for
// ./config.json; a missing file is not an error and yields defaults. Files
// ending in .yaml or .yml are read as YAML, everything else as JSON.
// Variables from ./.env and the process environment override file values.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = "config.json"
	}
	var c Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := decode(path, data, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	c.applyEnv()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func decode(path string, data []byte, c *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NCBI_API_KEY"); v != "" {
		c.NcbiApiKey = v
	}
	if v := os.Getenv("GENEINFO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GENEINFO_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("GENEINFO_NCBI_BASE_URL"); v != "" {
		c.NcbiBaseURL = v
	}
	if v := os.Getenv("GENEINFO_KEGG_BASE_URL"); v != "" {
		c.KeggBaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.NcbiBaseURL == "" {
		c.NcbiBaseURL = DefaultNcbiBaseURL
	}
	if c.KeggBaseURL == "" {
		c.KeggBaseURL = DefaultKeggBaseURL
	}
	if c.Organism == "" {
		c.Organism = DefaultOrganism
	}
	if c.KeggOrganism == "" {
		c.KeggOrganism = DefaultKeggOrganism
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = DefaultTimeoutSeconds
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: field %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
