// Package command defines the stellar-save commands with urfave/cli/v2.
//
// Every command shares one setup step (see App) that loads the layered
// configuration, builds the logger, the metrics registry and the
// SaveSystem, and picks the output formatter. Commands then call the
// SaveSystem and hand the result to the formatter.
package command
