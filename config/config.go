// Package config loads toolkit settings from an optional config file and
// TOOLKIT_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/on-the-ground/toolkit_go/aws/s3data"
	"github.com/on-the-ground/toolkit_go/configkeys"
	"github.com/on-the-ground/toolkit_go/db/postgres"
	"github.com/on-the-ground/toolkit_go/parallel"
	"github.com/on-the-ground/toolkit_go/purefn"
	"github.com/on-the-ground/toolkit_go/shared/log"
)

const EnvPrefix = "TOOLKIT"

type Config struct {
	Log      log.Config
	Parallel ParallelConfig
	Cache    purefn.Config
	Postgres postgres.Config
	S3       s3data.SessionConfig
}

type ParallelConfig struct {
	Workers int
}

func defaults(v *viper.Viper) {
	v.SetDefault(configkeys.LogLevel, string(log.LogInfo))
	v.SetDefault(configkeys.LogEncoding, "console")

	v.SetDefault(configkeys.ParallelWorkers, parallel.DefaultWorkers)

	v.SetDefault(configkeys.CacheNumCounters, int64(1e5))
	v.SetDefault(configkeys.CacheMaxCost, int64(1e4))
	v.SetDefault(configkeys.CacheBufferItems, 64)

	v.SetDefault(configkeys.PostgresHost, "localhost")
	v.SetDefault(configkeys.PostgresPort, 5432)
	v.SetDefault(configkeys.PostgresUser, "")
	v.SetDefault(configkeys.PostgresPassword, "")
	v.SetDefault(configkeys.PostgresDBName, "")
	v.SetDefault(configkeys.PostgresSSLMode, "")
	v.SetDefault(configkeys.PostgresMinPoolSize, postgres.DefaultMinPoolSize)
	v.SetDefault(configkeys.PostgresMaxPoolSize, postgres.DefaultMaxPoolSize)
	v.SetDefault(configkeys.PostgresConnectAttempts, postgres.DefaultConnectAttempts)

	v.SetDefault(configkeys.S3Region, "")
	v.SetDefault(configkeys.S3Profile, "")
	v.SetDefault(configkeys.S3Endpoint, "")
	v.SetDefault(configkeys.S3ForcePathStyle, false)
}

// New returns a viper instance with defaults and environment binding set up.
// Environment variables are the upper-cased keys with dots replaced by
// underscores, prefixed with TOOLKIT_: TOOLKIT_POSTGRES_HOST.
func New() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, if given, on top of the defaults. The file type follows
// the extension (yaml, toml, json). Environment variables win over the file.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading configuration file '%s': %w", path, err)
		}
	}
	return FromViper(v), nil
}

func FromViper(v *viper.Viper) Config {
	return Config{
		Log: log.Config{
			Level:    log.LogLevel(v.GetString(configkeys.LogLevel)),
			Encoding: v.GetString(configkeys.LogEncoding),
		},
		Parallel: ParallelConfig{
			Workers: v.GetInt(configkeys.ParallelWorkers),
		},
		Cache: purefn.Config{
			NumCounters: v.GetInt64(configkeys.CacheNumCounters),
			MaxCost:     v.GetInt64(configkeys.CacheMaxCost),
			BufferItems: v.GetInt64(configkeys.CacheBufferItems),
		},
		Postgres: postgres.Config{
			Host:            v.GetString(configkeys.PostgresHost),
			Port:            v.GetInt(configkeys.PostgresPort),
			User:            v.GetString(configkeys.PostgresUser),
			Password:        v.GetString(configkeys.PostgresPassword),
			DBName:          v.GetString(configkeys.PostgresDBName),
			SSLMode:         v.GetString(configkeys.PostgresSSLMode),
			MinPoolSize:     v.GetInt(configkeys.PostgresMinPoolSize),
			MaxPoolSize:     v.GetInt(configkeys.PostgresMaxPoolSize),
			ConnectAttempts: v.GetInt(configkeys.PostgresConnectAttempts),
		},
		S3: s3data.SessionConfig{
			Region:         v.GetString(configkeys.S3Region),
			Profile:        v.GetString(configkeys.S3Profile),
			Endpoint:       v.GetString(configkeys.S3Endpoint),
			ForcePathStyle: v.GetBool(configkeys.S3ForcePathStyle),
		},
	}
}
