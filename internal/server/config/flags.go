package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/staybook/internal/flagx"
	"github.com/dmitrijs2005/staybook/internal/timex"
)

// serverFlags lists the short flags parseFlags owns.
var serverFlags = []string{"-a", "-g", "-e", "-m", "-d", "-s", "-r", "-t", "-x", "-b"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-g string   gRPC health bind address; "" disables it
//	-e string   environment ("development", "production")
//	-m string   storage backend ("postgres", "memory")
//	-d string   PostgreSQL DSN
//	-s string   access token secret
//	-r string   refresh token secret
//	-t duration access token validity ("7d", "15m", "3600")
//	-x duration refresh token validity
//	-b int      bcrypt cost
//
// Only these flags are taken from os.Args; everything else is left for other
// components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.Storage, "m", config.Storage, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "r", config.RefreshTokenSecret, "refresh token secret")
	fs.Func("t", "access token validity", durationSetter(&config.AccessTokenValidityDuration))
	fs.Func("x", "refresh token validity", durationSetter(&config.RefreshTokenValidityDuration))
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

func durationSetter(dst *time.Duration) func(string) error {
	return func(s string) error {
		d, err := timex.ParseDuration(s)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
