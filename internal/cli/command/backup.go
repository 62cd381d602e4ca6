package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/stellar-save/internal/cli/output"
	"github.com/yndnr/stellar-save/internal/core/domain"
)

// BackupCommand returns the backup subcommand group.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:    "backup",
		Aliases: []string{"bak"},
		Usage:   "Inspect and restore backups",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List the backups of a slot",
				ArgsUsage: "SLOT",
				Action:    backupList,
			},
			{
				Name:      "restore",
				Usage:     "Make a backup the current save (the current save becomes backup 1)",
				ArgsUsage: "SLOT INDEX",
				Action:    backupRestore,
			},
		},
	}
}

// backupRow is one line of the backup list.
type backupRow struct {
	Index int    `json:"index"`
	Tick  uint64 `json:"tick"`
	Saved string `json:"saved"`
	Size  int64  `json:"size" table:"bytes"`
	State string `json:"state"`
	Path  string `json:"path" table:"wide"`
}

func backupList(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	r := getRuntime(c)

	backups, err := r.saves.Backups(commandContext(c, r), c.Args().First())
	if err != nil {
		return err
	}
	rows := make([]backupRow, 0, len(backups))
	for _, b := range backups {
		row := backupRow{Index: b.Index, Size: b.Size, Path: b.Path, State: "ok", Saved: "-"}
		if b.Err != nil {
			row.State = domain.GetErrorCode(b.Err)
		} else {
			row.Tick = b.Metadata.Tick
			row.Saved = output.Age(b.Metadata.SavedAt)
		}
		rows = append(rows, row)
	}
	return r.print(rows)
}

func backupRestore(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	r := getRuntime(c)

	index, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return cli.Exit(fmt.Sprintf("index %q: not a number", c.Args().Get(1)), 2)
	}
	md, err := r.saves.RestoreBackup(commandContext(c, r), c.Args().First(), index)
	if err != nil {
		return err
	}
	return r.print(md)
}
