package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshuapare/nthive/hive"
)

// config mirrors the keys accepted in hivenav.yaml and HIVENAV_* variables.
type config struct {
	CaseInsensitive bool   `mapstructure:"case_insensitive"`
	PathCacheSize   int    `mapstructure:"path_cache_size"`
	MaxCellSize     int    `mapstructure:"max_cell_size"`
	NoMmap          bool   `mapstructure:"no_mmap"`
	LogLevel        string `mapstructure:"log_level"`
	LogJSON         bool   `mapstructure:"log_json"`
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"ignore-case":   "case_insensitive",
	"path-cache":    "path_cache_size",
	"max-cell-size": "max_cell_size",
	"no-mmap":       "no_mmap",
	"log-level":     "log_level",
	"log-json":      "log_json",
}

// loadConfig layers defaults, the config file, HIVENAV_* environment
// variables and explicitly set flags, in increasing precedence.
func loadConfig(flags *pflag.FlagSet, file string) (config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("hivenav")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.hivenav")
		v.AddConfigPath("/etc/hivenav")
	}

	v.SetDefault("case_insensitive", false)
	v.SetDefault("path_cache_size", hive.DefaultPathCacheSize)
	v.SetDefault("max_cell_size", 0)
	v.SetDefault("no_mmap", false)
	v.SetDefault("log_level", "")
	v.SetDefault("log_json", false)

	v.SetEnvPrefix("HIVENAV")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c config
	if err := v.Unmarshal(&c); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// hiveOptions turns the resolved config into library options.
func (c config) hiveOptions() (hive.Options, error) {
	logger, err := c.logger(os.Stderr)
	if err != nil {
		return hive.Options{}, err
	}
	return hive.Options{
		CaseInsensitive: c.CaseInsensitive,
		PathCacheSize:   c.PathCacheSize,
		MaxCellSize:     c.MaxCellSize,
		StreamFile:      c.NoMmap,
		Logger:          logger,
	}, nil
}

// logger builds the diagnostics logger. An empty level discards everything.
func (c config) logger(w io.Writer) (*slog.Logger, error) {
	if c.LogLevel == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openHive opens path with the resolved configuration.
func openHive(path string) (*hive.Hive, error) {
	opts, err := cfg.hiveOptions()
	if err != nil {
		return nil, err
	}
	printVerbose("Opening hive: %s\n", path)
	h, err := hive.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open hive: %w", err)
	}
	return h, nil
}

// openKey opens the hive and resolves keyPath from its root.
func openKey(hivePath, keyPath string) (*hive.Hive, *hive.Key, error) {
	h, err := openHive(hivePath)
	if err != nil {
		return nil, nil, err
	}
	k, err := h.Find(keyPath)
	if err != nil {
		h.Close()
		return nil, nil, fmt.Errorf("key %q: %w", keyPath, err)
	}
	return h, k, nil
}
