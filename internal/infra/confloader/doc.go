// Package confloader loads layered configuration with koanf.
//
// Sources, later overriding earlier:
//
//  1. Defaults supplied by the caller
//  2. A YAML configuration file
//  3. STELLAR_ environment variables
//  4. Command-line flags, passed in as a map
//
// A Watcher reports changes to the configuration file so long-running
// commands can pick up a new log level without restarting.
package confloader
