package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yndnr/stellar-save/internal/cli/command"
	"github.com/yndnr/stellar-save/internal/core/domain"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps argument errors to 2 and everything else to 1.
func exitCode(err error) int {
	if errors.Is(err, domain.ErrSlotNameInvalid) || errors.Is(err, domain.ErrSnapshotInvalid) {
		return 2
	}
	return 1
}
