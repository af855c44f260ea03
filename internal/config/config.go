// Package config loads builder settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigEnv names an explicit config file path.
const ConfigEnv = "MAKEBUILDER_CONFIG"

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	User      UserConfig      `mapstructure:"user"`
	Page      PageConfig      `mapstructure:"page"`
	Menu      MenuConfig      `mapstructure:"menu"`
	Scroll    ScrollConfig    `mapstructure:"scroll"`
	Stage     StageConfig     `mapstructure:"stage"`
	Anim      AnimConfig      `mapstructure:"anim"`
	Templates TemplatesConfig `mapstructure:"templates"`
}

// DatabaseConfig holds sqlite settings. An empty path keeps everything in memory.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UserConfig identifies whose settings are read and written.
type UserConfig struct {
	ID string `mapstructure:"id"`
}

// PageConfig identifies the page being edited.
type PageConfig struct {
	ID int `mapstructure:"id"`
}

// MenuConfig holds side panel animation speeds.
type MenuConfig struct {
	OpenSpeed  time.Duration `mapstructure:"open_speed"`
	CloseSpeed time.Duration `mapstructure:"close_speed"`
	Easing     string        `mapstructure:"easing"`
}

// ScrollConfig controls scrolling to a newly added section. Offsets are pixels.
type ScrollConfig struct {
	Duration time.Duration `mapstructure:"duration"`
	Easing   string        `mapstructure:"easing"`
	AdminBar int           `mapstructure:"admin_bar"`
	Margin   int           `mapstructure:"margin"`
}

// StageConfig maps rendered lines to pixel offsets.
type StageConfig struct {
	LineHeight int `mapstructure:"line_height"`
}

// AnimConfig controls the animation driver.
type AnimConfig struct {
	FPS     int  `mapstructure:"fps"`
	Instant bool `mapstructure:"instant"`
}

// TemplatesConfig points at an optional section template catalog.
type TemplatesConfig struct {
	Path string `mapstructure:"path"`
}

// Allowance returns the pixels subtracted from a section's offset when
// scrolling to it.
func (s ScrollConfig) Allowance() int {
	return s.AdminBar + s.Margin
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "makebuilder", "builder.db"))
	v.SetDefault("user.id", defaultUser())
	v.SetDefault("page.id", 1)
	v.SetDefault("menu.open_speed", 400*time.Millisecond)
	v.SetDefault("menu.close_speed", 400*time.Millisecond)
	v.SetDefault("menu.easing", "easeInOutQuad")
	v.SetDefault("scroll.duration", 800*time.Millisecond)
	v.SetDefault("scroll.easing", "easeOutQuad")
	v.SetDefault("scroll.admin_bar", 32)
	v.SetDefault("scroll.margin", 9)
	v.SetDefault("stage.line_height", 16)
	v.SetDefault("anim.fps", 60)
	v.SetDefault("anim.instant", false)
	v.SetDefault("templates.path", "")
}

// Load reads configuration from file and env. Env var overrides use prefix MAKEBUILDER_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv(ConfigEnv); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "makebuilder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MAKEBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the builder cannot work with.
func (c Config) Validate() error {
	if c.User.ID == "" {
		return fmt.Errorf("config: user.id is required")
	}
	if c.Menu.OpenSpeed < 0 || c.Menu.CloseSpeed < 0 || c.Scroll.Duration < 0 {
		return fmt.Errorf("config: animation durations must not be negative")
	}
	if c.Stage.LineHeight <= 0 {
		return fmt.Errorf("config: stage.line_height must be positive, got %d", c.Stage.LineHeight)
	}
	return nil
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
