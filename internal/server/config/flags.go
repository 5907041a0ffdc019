package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-s", "-rs", "-t", "-r", "-u", "-p", "-b", "-g", "-e",
	"-storage", "-sessions", "-redis", "-redis-password", "-redis-db",
	"-api-url", "-client-url", "-hasher", "-bcrypt-cost", "-require-activation",
	"-notifier", "-resend-key", "-mail-from", "-mail-prefix", "-log-level",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        gRPC bind address (e.g., ":50051")
//	-d string        PostgreSQL DSN
//	-s string        access token HMAC secret
//	-rs string       refresh token HMAC secret
//	-t int           access token validity, minutes
//	-r int           refresh token validity, minutes
//	-u/-p string     S3 root user / password
//	-b/-g/-e string  S3 bucket / region / base endpoint
//	-storage         account storage backend
//	-sessions        session storage backend
//	-redis, -redis-password, -redis-db
//	-api-url, -client-url
//	-hasher, -bcrypt-cost
//	-require-activation=bool
//	-notifier, -resend-key, -mail-from, -mail-prefix
//	-log-level
//
// os.Args is first filtered with flagx.FilterArgs so flags owned by the
// config file loaders do not collide. Boolean flags need the -flag=value
// form to take an explicit value.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessSecret, "s", config.AccessSecret, "access token secret")
	fs.StringVar(&config.RefreshSecret, "rs", config.RefreshSecret, "refresh token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 mail drop bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "account storage: postgres|memory")
	fs.StringVar(&config.SessionBackend, "sessions", config.SessionBackend, "session storage: postgres|redis|memory")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "redis-password", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "redis-db", config.RedisDB, "redis database")
	fs.StringVar(&config.APIURL, "api-url", config.APIURL, "public API base URL")
	fs.StringVar(&config.ClientURL, "client-url", config.ClientURL, "client URL to redirect to after activation")
	fs.StringVar(&config.Hasher, "hasher", config.Hasher, "password hasher: bcrypt|argon2")
	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt cost")
	fs.BoolVar(&config.RequireActivation, "require-activation", config.RequireActivation, "refuse login before activation")
	fs.StringVar(&config.Notifier, "notifier", config.Notifier, "activation delivery: log|resend|s3")
	fs.StringVar(&config.ResendAPIKey, "resend-key", config.ResendAPIKey, "Resend API key")
	fs.StringVar(&config.MailFrom, "mail-from", config.MailFrom, "activation email sender")
	fs.StringVar(&config.MailDropPrefix, "mail-prefix", config.MailDropPrefix, "S3 mail drop key prefix")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
