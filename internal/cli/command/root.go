package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/stellar-save/internal/cli/config"
	"github.com/yndnr/stellar-save/internal/cli/output"
	"github.com/yndnr/stellar-save/internal/core/service"
	"github.com/yndnr/stellar-save/internal/infra/buildinfo"
	"github.com/yndnr/stellar-save/internal/telemetry/logger"
	"github.com/yndnr/stellar-save/internal/telemetry/metric"
)

const runtimeKey = "runtime"

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
	metrics    *metric.Registry
	saves      *service.SaveSystem
	format     output.Format
	wide       bool
	out        io.Writer
}

// formatter returns the formatter chosen with --output.
func (r *runtime) formatter() output.Formatter {
	return output.NewFormatter(r.format, r.wide)
}

// print formats data on the command output.
func (r *runtime) print(data any) error {
	return r.formatter().Format(r.out, data)
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "stellar-save",
		Usage:   "Inspect and manage chunked simulation save files",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SaveCommand(),
			LoadCommand(),
			ListCommand(),
			InfoCommand(),
			DeleteCommand(),
			VerifyCommand(),
			BackupCommand(),
			WatchCommand(),
			ConfigCommand(),
		},
		Before:   setup,
		After:    finish,
		Metadata: map[string]any{},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "configuration file (default ~/.stellar-save/config.yaml)",
			EnvVars: []string{"STELLAR_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "save directory",
		},
		&cli.IntFlag{
			Name:  "backups",
			Usage: "number of backups kept per slot",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "show more columns",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "write Prometheus metrics to this file after the command",
		},
	}
}

// flagOverrides maps the global flags the user set to configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("dir") {
		m["save.dir"] = c.String("dir")
	}
	if c.IsSet("backups") {
		m["save.backup_count"] = c.Int("backups")
	}
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	if c.IsSet("metrics-textfile") {
		m["metrics.textfile"] = c.String("metrics-textfile")
	}
	return m
}

// setup loads the configuration and builds the shared runtime.
func setup(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg, err := config.Load(c.String("config"), flagOverrides(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), 2)
	}

	logCfg := cfg.Logger()
	logCfg.Output = c.App.ErrWriter
	if logCfg.Output == nil {
		logCfg.Output = os.Stderr
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	metrics := metric.NewRegistry()
	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}

	c.App.Metadata[runtimeKey] = &runtime{
		configPath: c.String("config"),
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		saves:      service.NewSaveSystem(cfg.Service(), service.WithMetrics(metrics)),
		format:     format,
		wide:       c.Bool("wide"),
		out:        out,
	}
	return nil
}

// finish exports metrics when a textfile is configured.
func finish(c *cli.Context) error {
	r, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok || r.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		r.log.Warn("failed to write metrics textfile", logger.Path(r.cfg.Metrics.Textfile), logger.Err(err))
	}
	return nil
}

func getRuntime(c *cli.Context) *runtime {
	return c.App.Metadata[runtimeKey].(*runtime)
}

// commandContext returns the context commands pass to the SaveSystem.
func commandContext(c *cli.Context, r *runtime) context.Context {
	return logger.WithLogger(c.Context, r.log)
}

// requireArgs checks the positional argument count. Flags must come before
// positional arguments, so a trailing flag is reported as misplaced.
func requireArgs(c *cli.Context, n int) error {
	for _, arg := range c.Args().Slice() {
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			return cli.Exit(fmt.Sprintf("flag %s must come before %s", arg, c.Command.ArgsUsage), 2)
		}
	}
	if c.NArg() != n {
		usage := c.Command.UsageText
		if usage == "" {
			usage = fmt.Sprintf("%s %s %s", c.App.Name, c.Command.FullName(), c.Command.ArgsUsage)
		}
		return cli.Exit("usage: "+usage, 2)
	}
	return nil
}
