// Package config defines the stellar-save configuration.
//
// Configuration is layered by confloader: Default, then the YAML file
// (~/.stellar-save/config.yaml unless --config is given), then STELLAR_
// environment variables, then command-line flags.
package config
