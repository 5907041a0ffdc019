package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Duration fields
// use timex.Duration, so both "30m" and integer nanoseconds are accepted.
// Pointers distinguish "absent" from "zero" for booleans and numbers.
type JsonConfig struct {
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string          `json:"database_dsn"`
	StorageBackend               string          `json:"storage_backend"`
	SessionBackend               string          `json:"session_backend"`
	RedisAddr                    string          `json:"redis_addr"`
	RedisPassword                string          `json:"redis_password"`
	RedisDB                      *int            `json:"redis_db"`
	AccessSecret                 string          `json:"access_secret"`
	RefreshSecret                string          `json:"refresh_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	APIURL                       string          `json:"api_url"`
	ClientURL                    string          `json:"client_url"`
	Hasher                       string          `json:"hasher"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	RequireActivation            *bool           `json:"require_activation"`
	Notifier                     string          `json:"notifier"`
	ResendAPIKey                 string          `json:"resend_api_key"`
	MailFrom                     string          `json:"mail_from"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	MailDropPrefix               string          `json:"mail_drop_prefix"`
	LogLevel                     string          `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Without the flag nothing is loaded. Keys missing from the file keep
// their current value. An unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFileFlags().JSON

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.StorageBackend, c.StorageBackend)
	set(&config.SessionBackend, c.SessionBackend)
	set(&config.RedisAddr, c.RedisAddr)
	set(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	set(&config.AccessSecret, c.AccessSecret)
	set(&config.RefreshSecret, c.RefreshSecret)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	set(&config.APIURL, c.APIURL)
	set(&config.ClientURL, c.ClientURL)
	set(&config.Hasher, c.Hasher)
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RequireActivation != nil {
		config.RequireActivation = *c.RequireActivation
	}
	set(&config.Notifier, c.Notifier)
	set(&config.ResendAPIKey, c.ResendAPIKey)
	set(&config.MailFrom, c.MailFrom)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.MailDropPrefix, c.MailDropPrefix)
	set(&config.LogLevel, c.LogLevel)
}
