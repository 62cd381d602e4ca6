package command

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/stellar-save/internal/cli/output"
	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/core/service"
)

// ============================================================================
// save / load
// ============================================================================

// SaveCommand returns the save command.
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Write a snapshot file into a slot",
		UsageText: "stellar-save save --from FILE [--description TEXT] [-p KEY=VALUE]... SLOT",
		ArgsUsage: "SLOT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Aliases:  []string{"f"},
				Usage:    "snapshot file (.json, .yaml)",
				Required: true,
			},
			&cli.StringFlag{Name: "assets", Usage: "file with the opaque assets payload"},
			&cli.StringFlag{Name: "collections", Usage: "file with the opaque collections payload"},
			&cli.StringFlag{Name: "description", Usage: "free-text description"},
			&cli.StringSliceFlag{Name: "property", Aliases: []string{"p"}, Usage: "KEY=VALUE property (repeatable)"},
		},
		Action: saveAction,
	}
}

func saveAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	r := getRuntime(c)

	snap, err := readSnapshot(c.String("from"))
	if err != nil {
		return err
	}
	for flag, dst := range map[string]*[]byte{"assets": &snap.Assets, "collections": &snap.Collections} {
		if path := c.String(flag); path != "" {
			if *dst, err = os.ReadFile(path); err != nil {
				return err
			}
		}
	}

	var opts []service.SaveOption
	if c.IsSet("description") {
		opts = append(opts, service.WithDescription(c.String("description")))
	}
	for _, p := range c.StringSlice("property") {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return cli.Exit(fmt.Sprintf("property %q: want KEY=VALUE", p), 2)
		}
		opts = append(opts, service.WithProperty(k, v))
	}

	md, err := r.saves.Save(commandContext(c, r), c.Args().First(), snap, opts...)
	if err != nil {
		return err
	}
	return r.print(md)
}

// LoadCommand returns the load command.
func LoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load a slot, falling back to backups, and optionally export it",
		UsageText: "stellar-save load [--to FILE] SLOT",
		ArgsUsage: "SLOT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "write the snapshot to this file (.json, .yaml)",
			},
		},
		Action: loadAction,
	}
}

// loadView summarizes a load.
type loadView struct {
	Slot     string   `json:"slot"`
	Source   string   `json:"source"`
	Path     string   `json:"path"`
	Tick     uint64   `json:"tick"`
	Planets  int      `json:"planets"`
	Ships    int      `json:"ships"`
	Factions int      `json:"factions"`
	Degraded bool     `json:"degraded"`
	Skipped  []string `json:"skipped,omitempty" table:"wide"`
}

func loadAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	r := getRuntime(c)
	slot := c.Args().First()

	res, err := r.saves.LoadDetailed(commandContext(c, r), slot)
	if err != nil {
		return err
	}
	if path := c.String("to"); path != "" {
		if err := writeSnapshot(path, res.Snapshot); err != nil {
			return err
		}
	}

	view := loadView{
		Slot:     slot,
		Source:   res.Source.String(),
		Path:     res.Path,
		Tick:     res.Snapshot.Tick,
		Planets:  len(res.Snapshot.Planets),
		Ships:    len(res.Snapshot.Ships),
		Factions: len(res.Snapshot.Factions),
		Degraded: res.Metadata.Degraded,
	}
	for _, a := range res.Attempts {
		view.Skipped = append(view.Skipped, fmt.Sprintf("%s: %v", a.Source, a.Err))
	}
	return r.print(view)
}

// ============================================================================
// list / info
// ============================================================================

// saveRow is one line of the list table.
type saveRow struct {
	Slot        string        `json:"slot"`
	Tick        uint64        `json:"tick"`
	Planets     uint32        `json:"planets"`
	Ships       uint32        `json:"ships"`
	Factions    uint32        `json:"factions"`
	PlayTime    time.Duration `json:"play_time"`
	Saved       string        `json:"saved"`
	Size        int64         `json:"size" table:"bytes"`
	Version     uint32        `json:"version" table:"wide"`
	Description string        `json:"description" table:"wide"`
}

func newSaveRow(md domain.SaveMetadata) saveRow {
	return saveRow{
		Slot:        md.Slot,
		Tick:        md.Tick,
		Planets:     md.PlanetCount,
		Ships:       md.ShipCount,
		Factions:    md.FactionCount,
		PlayTime:    md.PlayTime,
		Saved:       output.Age(md.SavedAt),
		Size:        md.Size,
		Version:     md.FormatVersion,
		Description: md.Description,
	}
}

// ListCommand returns the list command.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List saves, newest first",
		Action:  listAction,
	}
}

func listAction(c *cli.Context) error {
	r := getRuntime(c)
	saves, err := r.saves.ListSaves(commandContext(c, r))
	if err != nil {
		return err
	}
	if r.format != output.FormatTable {
		return r.print(saves)
	}
	rows := make([]saveRow, 0, len(saves))
	for _, md := range saves {
		rows = append(rows, newSaveRow(md))
	}
	return r.print(rows)
}

// InfoCommand returns the info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show the metadata of a slot",
		ArgsUsage: "SLOT",
		Action:    infoAction,
	}
}

func infoAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	r := getRuntime(c)
	slot := c.Args().First()
	if err := domain.ValidateSlotName(slot); err != nil {
		return err
	}

	md := r.saves.GetSaveInfo(commandContext(c, r), slot)
	if md == nil {
		return domain.ErrSaveNotFound.WithDetails(slot)
	}
	return r.print(md)
}

// ============================================================================
// delete / verify
// ============================================================================

// DeleteCommand returns the delete command.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a slot and its backups",
		ArgsUsage: "SLOT",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			r := getRuntime(c)
			if err := r.saves.Delete(commandContext(c, r), c.Args().First()); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "deleted %s\n", c.Args().First())
			return nil
		},
	}
}

// VerifyCommand returns the verify command.
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Decode every file of a slot and report its state",
		ArgsUsage: "SLOT",
		Action:    verifyAction,
	}
}

// verifyRow is one file of a verify report.
type verifyRow struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Tick   uint64 `json:"tick"`
	Path   string `json:"path" table:"wide"`
	Error  string `json:"error,omitempty"`
}

func verifyAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	r := getRuntime(c)

	report, err := r.saves.Verify(commandContext(c, r), c.Args().First())
	if err != nil {
		return err
	}

	rows := make([]verifyRow, 0, len(report))
	ok := false
	for _, st := range report {
		row := verifyRow{Source: st.Source.String(), Path: st.Path}
		switch {
		case !st.Exists:
			row.Status = "missing"
		case st.Err != nil:
			row.Status = domain.GetErrorCode(st.Err)
			row.Error = st.Err.Error()
		default:
			row.Status = "ok"
			row.Tick = st.Metadata.Tick
			ok = true
		}
		rows = append(rows, row)
	}
	if err := r.print(rows); err != nil {
		return err
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("%s: no readable file", c.Args().First()), 1)
	}
	return nil
}
