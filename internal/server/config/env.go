package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

const envPrefix = "GOPHAUTH_"

// parseEnv overlays GOPHAUTH_* variables. They come from the .env file
// named by -env (or ./.env when present) and from the process
// environment, which wins over the file. Invalid values panic, as the
// other layers do.
func parseEnv(config *Config) {
	vars := map[string]string{}

	path, optional := flagx.ConfigFileFlags().Env, false
	if path == "" {
		path, optional = ".env", true
	}

	fileVars, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range fileVars {
			vars[k] = v
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		panic(err)
	}

	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, envPrefix) {
			vars[k] = v
		}
	}

	applyEnv(config, vars)
}

func applyEnv(config *Config, vars map[string]string) {
	str := func(name string, dst *string) {
		if v, ok := vars[envPrefix+name]; ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := vars[envPrefix+name]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(err)
			}
			*dst = n
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := vars[envPrefix+name]; ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("ENDPOINT_ADDR_GRPC", &config.EndpointAddrGRPC)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("STORAGE_BACKEND", &config.StorageBackend)
	str("SESSION_BACKEND", &config.SessionBackend)
	str("REDIS_ADDR", &config.RedisAddr)
	str("REDIS_PASSWORD", &config.RedisPassword)
	num("REDIS_DB", &config.RedisDB)
	str("ACCESS_SECRET", &config.AccessSecret)
	str("REFRESH_SECRET", &config.RefreshSecret)
	dur("ACCESS_TOKEN_VALIDITY_DURATION", &config.AccessTokenValidityDuration)
	dur("REFRESH_TOKEN_VALIDITY_DURATION", &config.RefreshTokenValidityDuration)
	str("API_URL", &config.APIURL)
	str("CLIENT_URL", &config.ClientURL)
	str("HASHER", &config.Hasher)
	num("BCRYPT_COST", &config.BcryptCost)
	if v, ok := vars[envPrefix+"REQUIRE_ACTIVATION"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.RequireActivation = b
	}
	str("NOTIFIER", &config.Notifier)
	str("RESEND_API_KEY", &config.ResendAPIKey)
	str("MAIL_FROM", &config.MailFrom)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("MAIL_DROP_PREFIX", &config.MailDropPrefix)
	str("LOG_LEVEL", &config.LogLevel)
}
