package postgres

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultMinPoolSize     = 1
	DefaultMaxPoolSize     = 8
	DefaultConnectAttempts = 3
)

// Config holds the login parameters and pool bounds of a Helper.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MinPoolSize     int
	MaxPoolSize     int
	ConnectAttempts int
}

func (c Config) withDefaults() Config {
	if c.MinPoolSize <= 0 {
		c.MinPoolSize = DefaultMinPoolSize
	}
	if c.MaxPoolSize <= 0 {
		c.MaxPoolSize = DefaultMaxPoolSize
	}
	if c.MaxPoolSize < c.MinPoolSize {
		c.MaxPoolSize = c.MinPoolSize
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = DefaultConnectAttempts
	}
	return c
}

// DSN renders the keyword/value connection string understood by lib/pq.
// Empty parameters are left out so libpq defaults and PG* variables apply.
func (c Config) DSN() string {
	params := map[string]string{
		"host":     c.Host,
		"user":     c.User,
		"password": c.Password,
		"dbname":   c.DBName,
		"sslmode":  c.SSLMode,
	}
	if c.Port > 0 {
		params["port"] = fmt.Sprint(c.Port)
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + quoteDSNValue(params[k])
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
