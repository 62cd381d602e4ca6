package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/stellar-save/internal/cli/config"
	"github.com/yndnr/stellar-save/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "path",
				Usage: "Show the configuration file location",
				Action: func(c *cli.Context) error {
					r := getRuntime(c)
					path := r.configPath
					if path == "" {
						path = config.DefaultPath()
					}
					_, err := fmt.Fprintln(r.out, path)
					return err
				},
			},
		},
	}
}

func configShow(c *cli.Context) error {
	r := getRuntime(c)
	if r.format != output.FormatTable {
		return r.print(r.cfg)
	}

	// Tables show the dotted keys used by files, env and flags.
	generic, err := output.ToGeneric(r.cfg)
	if err != nil {
		return err
	}
	flat := make(map[string]any)
	flatten("", generic, flat)
	return r.print(flat)
}

func flatten(prefix string, v any, out map[string]any) {
	m, ok := v.(map[string]any)
	if !ok {
		out[prefix] = v
		return
	}
	for k, child := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		flatten(key, child, out)
	}
}
