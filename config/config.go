// Package config loads the gridbot configuration from yaml and GRIDBOT_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Display struct {
	Width      int `mapstructure:"width"`
	Height     int `mapstructure:"height"`
	PanelWidth int `mapstructure:"panelWidth"`
	CellSize   int `mapstructure:"cellSize"`
}

type Config struct {
	Display Display `mapstructure:"display"`
	// Countdown is the delay in seconds between GO and the first move.
	Countdown    float64 `mapstructure:"countdown"`
	Addr         string  `mapstructure:"addr"`
	RouteFile    string  `mapstructure:"routeFile"`
	SettingsFile string  `mapstructure:"settingsFile"`
	LogLevel     string  `mapstructure:"logLevel"`
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault("display.width", 320)
	vp.SetDefault("display.height", 240)
	vp.SetDefault("display.panelWidth", 80)
	vp.SetDefault("display.cellSize", 30)
	vp.SetDefault("countdown", 3)
	vp.SetDefault("addr", ":8080")
	vp.SetDefault("routeFile", "")
	vp.SetDefault("settingsFile", "settings.yaml")
	vp.SetDefault("logLevel", "info")
}

// Load reads path if it is not empty. A missing file is not an error, the
// defaults and environment still apply.
func Load(path string) (*Config, error) {
	vp := viper.New()
	setDefaults(vp)
	vp.SetEnvPrefix("GRIDBOT")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			vp.SetConfigFile(path)
			vp.SetConfigType("yaml")
			if err = vp.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		} else {
			log.Warnf("config %s not found, using defaults", path)
		}
	}

	cfg := &Config{}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Countdown < 0 {
		cfg.Countdown = 0
	}
	return cfg, nil
}

// SetupLogging applies LogLevel to the standard logrus logger.
func (cfg *Config) SetupLogging() {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("bad logLevel %q, keeping %s", cfg.LogLevel, log.GetLevel())
		return
	}
	log.SetLevel(level)
}
