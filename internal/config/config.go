// Package config provides functionality for managing configuration options
// for the client using command-line flags, a JSON config file, and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the client.
type Options struct {
	// ServerURL is the base URL of the reddit backend.
	ServerURL string

	// StoragePath is the path of the local state file holding the cached
	// user record and the bearer credential.
	StoragePath string

	// TimeoutSeconds is the per-request timeout. Zero leaves the
	// transport default in place.
	TimeoutSeconds int

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.ServerURL, "s", "http://localhost:12000", "server base URL")
	flag.StringVar(&options.StoragePath, "f", "reddish.json", "path to local state file")
	flag.IntVar(&options.TimeoutSeconds, "t", 0, "request timeout in seconds (0 = no timeout)")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the config file, and environment
// variables to set configuration values. Precedence, lowest to highest:
// flag defaults, config file, environment. It returns a pointer to the
// Options struct containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	applyConfigFile(options)
	applyEnv(options)

	return options
}

// applyConfigFile overlays values from the JSON config file, if it exists.
func applyConfigFile(opts *Options) {
	if opts.Config == "" {
		return
	}
	if _, err := os.Stat(opts.Config); err != nil {
		return
	}
	data, err := os.ReadFile(opts.Config)
	if err != nil {
		log.Fatalf("error while reading config file: %v", err)
	}
	if err := json.Unmarshal(data, opts); err != nil {
		log.Fatalf("error while parsing config file: %v", err)
	}
}

// applyEnv overlays values from environment variables.
func applyEnv(opts *Options) {
	if serverURL := os.Getenv("SERVER_URL"); serverURL != "" {
		opts.ServerURL = serverURL
	}
	if storagePath := os.Getenv("STORAGE_PATH"); storagePath != "" {
		opts.StoragePath = storagePath
	}
}
