// Package backup names the files of a save slot and rotates its backups.
package backup

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yndnr/stellar-save/internal/storage/fsys"
)

// File name extensions of a slot.
const (
	SaveExt   = ".sav"
	TempExt   = ".tmp"
	BackupExt = ".bak"
)

// Files names every file that belongs to one slot in one directory.
type Files struct {
	Dir  string
	Slot string
}

// For returns the files of slot in dir.
func For(dir, slot string) Files { return Files{Dir: dir, Slot: slot} }

// Primary returns the path of the current save.
func (f Files) Primary() string { return filepath.Join(f.Dir, f.Slot+SaveExt) }

// Temp returns the path used for in-flight writes.
func (f Files) Temp() string { return filepath.Join(f.Dir, f.Slot+TempExt) }

// Backup returns the path of backup i. Backup 1 is the most recent.
func (f Files) Backup(i int) string {
	return filepath.Join(f.Dir, f.Slot+BackupExt+strconv.Itoa(i))
}

// Kind classifies a file name found in a save directory.
type Kind int

const (
	KindOther Kind = iota
	KindSave
	KindTemp
	KindBackup
	// KindCopy is the temporary file of an interrupted backup copy.
	KindCopy
)

// Parse splits a base file name into its slot, kind and backup index.
// Index is zero unless kind is KindBackup or KindCopy.
func Parse(name string) (slot string, kind Kind, index int) {
	if base, ok := strings.CutSuffix(name, fsys.CopySuffix); ok {
		if slot, kind, index := Parse(base); kind == KindBackup {
			return slot, KindCopy, index
		}
		return "", KindOther, 0
	}

	switch {
	case strings.HasSuffix(name, SaveExt):
		return strings.TrimSuffix(name, SaveExt), KindSave, 0
	case strings.HasSuffix(name, TempExt):
		return strings.TrimSuffix(name, TempExt), KindTemp, 0
	}

	i := strings.LastIndex(name, BackupExt)
	if i <= 0 {
		return "", KindOther, 0
	}
	n, err := strconv.Atoi(name[i+len(BackupExt):])
	if err != nil || n < 1 || strconv.Itoa(n) != name[i+len(BackupExt):] {
		return "", KindOther, 0
	}
	return name[:i], KindBackup, n
}
