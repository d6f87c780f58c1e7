// Package config reads runtime settings from the environment. A .env file in
// the working directory, if present, is loaded first; variables already set
// in the process environment win.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names shared by the API server and catalogctl.
const (
	EnvPort           = "CATALOG_PORT"
	EnvEnvironment    = "CATALOG_ENV"
	EnvDBDriver       = "CATALOG_DB_DRIVER"
	EnvDBDSN          = "CATALOG_DB_DSN"
	EnvJWTSecret      = "CATALOG_JWT_SECRET"
	EnvJWTTTL         = "CATALOG_JWT_TTL"
	EnvLimiterRPS     = "CATALOG_LIMITER_RPS"
	EnvLimiterBurst   = "CATALOG_LIMITER_BURST"
	EnvLimiterEnabled = "CATALOG_LIMITER_ENABLED"
	EnvBcryptCost     = "CATALOG_BCRYPT_COST"
)

// LoadEnv loads .env files into the process environment. A missing file is
// not an error.
func LoadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// String returns the value of key, or def when it is unset or empty.
func String(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Int returns key parsed as an int, or def when it is unset or unparsable.
func Int(key string, def int) int {
	i, err := strconv.Atoi(String(key, ""))
	if err != nil {
		return def
	}
	return i
}

// Float returns key parsed as a float64, or def.
func Float(key string, def float64) float64 {
	f, err := strconv.ParseFloat(String(key, ""), 64)
	if err != nil {
		return def
	}
	return f
}

// Bool returns key parsed by strconv.ParseBool, or def.
func Bool(key string, def bool) bool {
	b, err := strconv.ParseBool(String(key, ""))
	if err != nil {
		return def
	}
	return b
}

// Duration returns key parsed by time.ParseDuration, or def.
func Duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(String(key, ""))
	if err != nil {
		return def
	}
	return d
}
