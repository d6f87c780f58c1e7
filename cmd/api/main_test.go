package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlagsEnvironmentDefaults(t *testing.T) {
	t.Setenv("CATALOG_PORT", "8081")
	t.Setenv("CATALOG_DB_DRIVER", "sqlite3")
	t.Setenv("CATALOG_JWT_TTL", "2h")
	t.Setenv("CATALOG_LIMITER_ENABLED", "false")

	settings := parseFlags(flag.NewFlagSet("api", flag.ContinueOnError), []string{"-limiter-burst", "9"})

	assert.Equal(t, 8081, settings.port)
	assert.Equal(t, "sqlite3", settings.db.driver)
	assert.Equal(t, 2*time.Hour, settings.jwt.ttl)
	assert.False(t, settings.limiter.enabled)
	assert.Equal(t, 9, settings.limiter.burst)
}
