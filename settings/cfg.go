package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// fileSettings is the on-disk form; enums are stored by label.
type fileSettings struct {
	Brightness int    `yaml:"brightness"`
	Speed      string `yaml:"speed"`
	Distance   string `yaml:"distance"`
}

// Load reads settings from a yaml file. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.SetDefault("brightness", s.Brightness)
	vp.SetDefault("speed", s.Speed.Name())
	vp.SetDefault("distance", s.Distance.Name())
	if err := vp.ReadInConfig(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}

	s.SetBrightness(vp.GetInt("brightness"))
	speed, err := ParseSpeed(vp.GetString("speed"))
	if err != nil {
		return Default(), fmt.Errorf("settings %s: %w", path, err)
	}
	distance, err := ParseDistance(vp.GetString("distance"))
	if err != nil {
		return Default(), fmt.Errorf("settings %s: %w", path, err)
	}
	s.Speed = speed
	s.Distance = distance
	return s, nil
}

// Save writes s as yaml, creating the parent directory if needed.
func Save(path string, s Settings) error {
	out, err := yaml.Marshal(fileSettings{
		Brightness: s.Brightness,
		Speed:      s.Speed.Name(),
		Distance:   s.Distance.Name(),
	})
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
