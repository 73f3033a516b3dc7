package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ShopperConfig configures the command-line client. It is loaded separately
// from Config so the client never needs server secrets.
type ShopperConfig struct {
	APIURL          string        `envconfig:"GM_API_URL" default:"http://localhost:8080"`
	StateDir        string        `envconfig:"GM_STATE_DIR"`
	Latitude        *float64      `envconfig:"GM_LATITUDE"`
	Longitude       *float64      `envconfig:"GM_LONGITUDE"`
	HTTPTimeout     time.Duration `envconfig:"GM_HTTP_TIMEOUT" default:"10s"`
	LocationTimeout time.Duration `envconfig:"GM_LOCATION_TIMEOUT" default:"5s"`
	LogLevel        string        `envconfig:"GM_LOG_LEVEL" default:"warn"`
	LogFormat       string        `envconfig:"GM_LOG_FORMAT" default:"console"`
}

func LoadShopper() (*ShopperConfig, error) {
	var cfg ShopperConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing shopper config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%s is required", EnvAPIURL)
	}
	if (cfg.Latitude == nil) != (cfg.Longitude == nil) {
		return nil, fmt.Errorf("%s and %s must be set together", EnvLatitude, EnvLongitude)
	}
	return &cfg, nil
}
