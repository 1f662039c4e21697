// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables, and an
// optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the gateway's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the connection string for the persisted store.
	DatabaseDSN string

	// AuthURL is the base URL of the identity provider's REST API.
	AuthURL string

	// AuthAPIKey is the public API key sent with identity provider requests.
	AuthAPIKey string

	// SiteURL is the public origin of the storefront UI; password-reset
	// links redirect back to it.
	SiteURL string

	// RefreshToken, when set, is used to restore a prior session at startup.
	RefreshToken string

	// TLSCert and TLSKey, when both set, switch the gateway to HTTPS.
	TLSCert string
	TLSKey  string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run gateway on ip:port")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.AuthURL, "auth", "", "identity provider base URL")
	flag.StringVar(&options.SiteURL, "site", "http://localhost:5173", "storefront UI origin")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. A .env file in the working directory is loaded first
// if present. It returns a pointer to the Options struct containing the
// parsed configuration values.
func Parse() *Options {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if authURL := os.Getenv("AUTH_URL"); authURL != "" {
		options.AuthURL = authURL
	}
	if key := os.Getenv("AUTH_API_KEY"); key != "" {
		options.AuthAPIKey = key
	}
	if site := os.Getenv("SITE_URL"); site != "" {
		options.SiteURL = site
	}
	if token := os.Getenv("REFRESH_TOKEN"); token != "" {
		options.RefreshToken = token
	}
	if cert := os.Getenv("TLS_CERT"); cert != "" {
		options.TLSCert = cert
	}
	if key := os.Getenv("TLS_KEY"); key != "" {
		options.TLSKey = key
	}

	return options
}
