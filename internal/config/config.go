package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	AppName  string `envconfig:"APP_NAME" default:"weather-dashboard"`
	Port     string `envconfig:"PORT" default:"8050" validate:"required,numeric"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// GraphInterval is the panel refresh period in milliseconds.
	GraphInterval int `envconfig:"GRAPH_INTERVAL" default:"10000" validate:"gte=100"`

	StaticDir string `envconfig:"STATIC_DIR" default:"./public"`
	ModelPath string `envconfig:"MODEL_PATH" default:"model/weathermodel.json" validate:"required"`

	// ProfileName selects the dashboard defaults; ProfilesFile may add profiles.
	ProfileName  string `envconfig:"DASHBOARD_PROFILE" default:"live" validate:"required"`
	ProfilesFile string `envconfig:"PROFILES_FILE"`

	DB   DBConfig   `envconfig:"DB"`
	MQTT MQTTConfig `envconfig:"MQTT"`

	// Profile is resolved from ProfileName after loading.
	Profile Profile `ignored:"true"`
}

// DBConfig selects the row store and bounds its connection pool.
type DBConfig struct {
	Driver          string        `envconfig:"DRIVER" default:"sqlite" validate:"oneof=sqlite mysql memory"`
	DSN             string        `envconfig:"DSN" default:"weather.db"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"4" validate:"gte=1"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"2" validate:"gte=0"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
}

// MQTTConfig configures the sensor ingestion transport.
type MQTTConfig struct {
	Broker          string        `envconfig:"BROKER" default:"tcp://test.mosquitto.org:1883" validate:"required"`
	Topic           string        `envconfig:"TOPIC" default:"weatheralytics/data" validate:"required"`
	ClientID        string        `envconfig:"CLIENT_ID" default:"weatheralytics"`
	QoS             int           `envconfig:"QOS" default:"0" validate:"gte=0,lte=2"`
	PublishInterval time.Duration `envconfig:"PUBLISH_INTERVAL" default:"2s" validate:"gt=0"`
	PublishSource   string        `envconfig:"PUBLISH_SOURCE"`
}

// Profile holds the dashboard control defaults.
type Profile struct {
	Name     string `yaml:"name" validate:"required"`
	RowCount int    `yaml:"row_count" validate:"gte=100,lte=50000"`
	ShowAll  bool   `yaml:"show_all"`
}

type profilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// builtinProfiles are the two layouts the dashboard ships with.
var builtinProfiles = []Profile{
	{Name: "live", RowCount: 5000, ShowAll: false},
	{Name: "archive", RowCount: 10000, ShowAll: true},
}

var validate = validator.New()

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	profiles := append([]Profile(nil), builtinProfiles...)
	if cfg.ProfilesFile != "" {
		extra, err := loadProfiles(cfg.ProfilesFile)
		if err != nil {
			return nil, err
		}
		profiles = mergeProfiles(profiles, extra)
	}

	p, ok := findProfile(profiles, cfg.ProfileName)
	if !ok {
		return nil, fmt.Errorf("unknown dashboard profile %q", cfg.ProfileName)
	}
	cfg.Profile = p

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Interval is the panel refresh period.
func (c *AppConfig) Interval() time.Duration {
	return time.Duration(c.GraphInterval) * time.Millisecond
}

func loadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var pf profilesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}
	return pf.Profiles, nil
}

// mergeProfiles overrides profiles by name and appends new ones.
func mergeProfiles(base, extra []Profile) []Profile {
	for _, p := range extra {
		replaced := false
		for i := range base {
			if base[i].Name == p.Name {
				base[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, p)
		}
	}
	return base
}

func findProfile(profiles []Profile, name string) (Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
