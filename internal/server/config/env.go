package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/staybook/internal/timex"
)

// Environment variable names. The JWT_* names are the ones existing
// deployments already set.
const (
	envPort            = "PORT"
	envGRPCAddr        = "GRPC_ADDR"
	envEnvironment     = "APP_ENV"
	envStorage         = "STORAGE"
	envDatabaseDSN     = "DATABASE_DSN"
	envAccessSecret    = "JWT_SECRET"
	envRefreshSecret   = "JWT_REFRESH_SECRET"
	envAccessValidity  = "JWT_EXPIRE"
	envRefreshValidity = "JWT_REFRESH_EXPIRE"
	envBcryptCost      = "BCRYPT_COST"
)

// parseEnv overlays set, non-empty environment variables onto config.
// PORT is a bare port number and becomes ":<port>". Unparsable durations or
// numbers panic, as with a malformed JSON file.
func parseEnv(config *Config) {
	if v, ok := lookup(envPort); ok {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := lookup(envGRPCAddr); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := lookup(envEnvironment); ok {
		config.Environment = v
	}
	if v, ok := lookup(envStorage); ok {
		config.Storage = v
	}
	if v, ok := lookup(envDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := lookup(envAccessSecret); ok {
		config.AccessTokenSecret = v
	}
	if v, ok := lookup(envRefreshSecret); ok {
		config.RefreshTokenSecret = v
	}
	if v, ok := lookup(envAccessValidity); ok {
		config.AccessTokenValidityDuration = mustDuration(envAccessValidity, v)
	}
	if v, ok := lookup(envRefreshValidity); ok {
		config.RefreshTokenValidityDuration = mustDuration(envRefreshValidity, v)
	}
	if v, ok := lookup(envBcryptCost); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", envBcryptCost, err))
		}
		config.BcryptCost = n
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func mustDuration(key, v string) time.Duration {
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	return d
}
