package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/stellar-save/internal/infra/confloader"
	"github.com/yndnr/stellar-save/internal/infra/shutdown"
	"github.com/yndnr/stellar-save/internal/storage/fsys"
	"github.com/yndnr/stellar-save/internal/storage/savewatch"
	"github.com/yndnr/stellar-save/internal/telemetry/logger"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Verify saves as they are written until interrupted",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "backups",
				Usage: "also verify backup files",
			},
			&cli.DurationFlag{
				Name:  "settle",
				Usage: "quiet period before a changed file is verified",
				Value: savewatch.DefaultSettle,
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "time allowed for cleanup on exit",
				Value: 5 * time.Second,
			},
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	r := getRuntime(c)
	dir := r.cfg.Save.Dir

	if err := (fsys.OS{}).MkdirAll(dir); err != nil {
		return err
	}

	mon, err := savewatch.New(dir, fsys.OS{},
		savewatch.WithLogger(r.log),
		savewatch.WithMetrics(r.metrics),
		savewatch.WithSettle(c.Duration("settle")),
		savewatch.WithBackups(c.Bool("backups")),
	)
	if err != nil {
		return err
	}
	mon.OnEvent(func(ev savewatch.Event) {
		if ev.Err != nil {
			fmt.Fprintf(r.out, "FAIL  %s  %v\n", ev.Path, ev.Err)
			return
		}
		fmt.Fprintf(r.out, "OK    %s  tick %d\n", ev.Path, ev.Metadata.Tick)
	})

	handler := shutdown.NewHandler(c.Duration("shutdown-timeout"))
	handler.OnShutdown(func(context.Context) error { return mon.Stop() })

	if path := r.configPath; path != "" {
		cw, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.log))
		if err != nil {
			return err
		}
		if err := cw.Watch(path); err != nil {
			cw.Stop()
			return err
		}
		cw.OnChange(func(string) { reloadLogLevel(r) })
		cw.StartAsync()
		handler.OnShutdown(func(context.Context) error { return cw.Stop() })
	}

	mon.StartAsync()
	r.log.Info("watching save directory", "dir", dir)
	return handler.WaitContext(c.Context)
}

// reloadLogLevel applies the log level from a changed configuration file.
func reloadLogLevel(r *runtime) {
	loader := confloader.NewLoader(confloader.WithConfigFile(r.configPath))
	var cfg struct {
		Log struct {
			Level string `koanf:"level"`
		} `koanf:"log"`
	}
	if err := loader.Load(&cfg); err != nil {
		r.log.Warn("config reload failed", logger.Err(err))
		return
	}
	if cfg.Log.Level != "" && cfg.Log.Level != logger.GetLevel() {
		logger.SetLevel(cfg.Log.Level)
		r.log.Info("log level changed", "level", cfg.Log.Level)
	}
}
