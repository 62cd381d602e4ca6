package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/yndnr/stellar-save/internal/storage/fsys"
)

// MaxCount bounds the configurable number of backups.
const MaxCount = 32

// Entry is one existing backup file.
type Entry struct {
	Index   int
	Path    string
	Size    int64
	ModTime int64 // unix seconds
}

// Rotator keeps at most Count numbered backups per slot.
type Rotator struct {
	fs    fsys.FS
	count int

	// OnStep, if set, is called for every file operation of a rotation.
	OnStep func(op, from, to string)
}

// NewRotator creates a rotator keeping count backups. A count of zero
// disables rotation.
func NewRotator(filesystem fsys.FS, count int) *Rotator {
	if count < 0 {
		count = 0
	}
	return &Rotator{fs: filesystem, count: count}
}

// Rotate shifts the backups of f down by one and copies the current save
// into backup 1. It is a no-op when the slot has no save yet.
//
// Rotation runs before the new save is written, so a crash at any point
// leaves the previous save either at its primary path or in backup 1.
func (r *Rotator) Rotate(f Files) error {
	if r.count == 0 {
		return nil
	}
	exists, err := fsys.Exists(r.fs, f.Primary())
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.Primary(), err)
	}
	if !exists {
		return nil
	}

	oldest := f.Backup(r.count)
	removed, err := fsys.RemoveIfExists(r.fs, oldest)
	if err != nil {
		return fmt.Errorf("remove %s: %w", oldest, err)
	}
	if removed {
		r.step("remove", oldest, "")
	}

	for i := r.count - 1; i >= 1; i-- {
		from, to := f.Backup(i), f.Backup(i+1)
		err := r.fs.Rename(from, to)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("shift %s: %w", from, err)
		}
		r.step("shift", from, to)
	}

	if err := r.prune(f); err != nil {
		return err
	}

	if err := fsys.Copy(r.fs, f.Primary(), f.Backup(1)); err != nil {
		return fmt.Errorf("copy %s: %w", f.Primary(), err)
	}
	r.step("copy", f.Primary(), f.Backup(1))
	return nil
}

// prune removes backups numbered above the configured count, left behind
// when the count was lowered.
func (r *Rotator) prune(f Files) error {
	entries, err := r.List(f)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Index <= r.count {
			continue
		}
		removed, err := fsys.RemoveIfExists(r.fs, e.Path)
		if err != nil {
			return fmt.Errorf("remove %s: %w", e.Path, err)
		}
		if removed {
			r.step("prune", e.Path, "")
		}
	}
	return nil
}

// List returns the existing backups of f ordered by index, including any
// numbered beyond the configured count.
func (r *Rotator) List(f Files) ([]Entry, error) {
	return r.scan(f, KindBackup)
}

// Leftovers returns the temporary files of backup copies of f that were
// interrupted before their rename.
func (r *Rotator) Leftovers(f Files) ([]Entry, error) {
	return r.scan(f, KindCopy)
}

// scan returns the files of f of the given kind ordered by index.
func (r *Rotator) scan(f Files, kind Kind) ([]Entry, error) {
	dirEntries, err := r.fs.ReadDir(f.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Dir, err)
	}

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		slot, k, idx := Parse(de.Name())
		if k != kind || slot != f.Slot {
			continue
		}
		e := Entry{Index: idx, Path: filepath.Join(f.Dir, de.Name())}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime().Unix()
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// Candidates returns the paths to try when loading f: the primary save,
// then backups 1..Count.
func (r *Rotator) Candidates(f Files) []string {
	paths := make([]string, 0, r.count+1)
	paths = append(paths, f.Primary())
	for i := 1; i <= r.count; i++ {
		paths = append(paths, f.Backup(i))
	}
	return paths
}

func (r *Rotator) step(op, from, to string) {
	if r.OnStep != nil {
		r.OnStep(op, from, to)
	}
}
