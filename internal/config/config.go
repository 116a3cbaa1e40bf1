// Package config loads application settings from a YAML file and the
// PLOTFORGE_ environment, with sane defaults for every knob.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string
	Port            int
	CORSOrigins     []string
	RateLimit       int // requests per minute per IP, 0 disables
	ShutdownTimeout time.Duration
}

// AuthConfig holds token settings. An empty secret disables auth.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// ClassifyConfig tunes the column role classifier.
type ClassifyConfig struct {
	WeakIDUnique   float64
	TextUnique     float64
	HierarchyRatio float64
}

// CacheConfig bounds the spec store and result cache.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// QueryConfig bounds query execution.
type QueryConfig struct {
	RowCap     int
	SampleRows int
}

// SourcesConfig points at the source manifest.
type SourcesConfig struct {
	Manifest string
}

// RecommendConfig tunes the pattern selector.
type RecommendConfig struct {
	MaxAlternatives int
}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Classify  ClassifyConfig
	Cache     CacheConfig
	Query     QueryConfig
	Sources   SourcesConfig
	Recommend RecommendConfig
}

// Load reads configuration from the given file (or the default search
// path when empty), layered under PLOTFORGE_ environment variables.
// A missing config file is not an error; defaults apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("plotforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.plotforge")
	}

	v.SetEnvPrefix("PLOTFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", "24h")

	v.SetDefault("classify.weak_id_unique", 0.5)
	v.SetDefault("classify.text_unique", 0.85)
	v.SetDefault("classify.hierarchy_ratio", 2.0)

	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("cache.max_entries", 1000)

	v.SetDefault("query.row_cap", 10000)
	v.SetDefault("query.sample_rows", 1000)

	v.SetDefault("sources.manifest", "")

	v.SetDefault("recommend.max_alternatives", 3)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
			RateLimit:       v.GetInt("server.rate_limit"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("auth.secret"),
			TokenTTL: v.GetDuration("auth.token_ttl"),
		},
		Classify: ClassifyConfig{
			WeakIDUnique:   v.GetFloat64("classify.weak_id_unique"),
			TextUnique:     v.GetFloat64("classify.text_unique"),
			HierarchyRatio: v.GetFloat64("classify.hierarchy_ratio"),
		},
		Cache: CacheConfig{
			TTL:        v.GetDuration("cache.ttl"),
			MaxEntries: v.GetInt("cache.max_entries"),
		},
		Query: QueryConfig{
			RowCap:     v.GetInt("query.row_cap"),
			SampleRows: v.GetInt("query.sample_rows"),
		},
		Sources: SourcesConfig{
			Manifest: v.GetString("sources.manifest"),
		},
		Recommend: RecommendConfig{
			MaxAlternatives: v.GetInt("recommend.max_alternatives"),
		},
	}
}
