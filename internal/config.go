package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type LiteScanConfig struct {
	AppName string `mapstructure:"app_name"`

	Reader struct {
		PageCacheSize int  `mapstructure:"page_cache_size"`
		SkipBadRows   bool `mapstructure:"skip_bad_rows"`
	} `mapstructure:"reader"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Shell struct {
		HistoryFile string `mapstructure:"history_file"`
		HistoryMax  int    `mapstructure:"history_max"`
	} `mapstructure:"shell"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "litescan")
	v.SetDefault("reader.page_cache_size", 128)
	v.SetDefault("reader.skip_bad_rows", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("shell.history_file", "~/.litescan_history")
	v.SetDefault("shell.history_max", 2000)
}

// LoadConfig reads path when it exists and layers LITESCAN_* environment
// variables on top, e.g. LITESCAN_READER_SKIP_BAD_ROWS=true. An empty or
// missing path yields the defaults.
func LoadConfig(path string) (*LiteScanConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LITESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			slog.Debug("config: file not found, using defaults", "path", path)
		} else {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg LiteScanConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Shell.HistoryFile = expandHome(cfg.Shell.HistoryFile)

	return &cfg, nil
}

// SlogLevel maps the configured level name; unknown names mean info.
func (c *LiteScanConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/")
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
