package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/stellar-save/internal/storage/fsys"
)

func writeSave(t *testing.T, f Files, content string) {
	t.Helper()
	if err := os.WriteFile(f.Primary(), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(b)
}

func TestRotate_NoPrimary(t *testing.T) {
	f := For(t.TempDir(), "alpha")
	r := NewRotator(fsys.OS{}, 3)

	if err := r.Rotate(f); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	entries, _ := r.List(f)
	if len(entries) != 0 {
		t.Errorf("len(List()) = %d, want 0", len(entries))
	}
}

func TestRotate_Chain(t *testing.T) {
	f := For(t.TempDir(), "alpha")
	r := NewRotator(fsys.OS{}, 3)

	for i := 1; i <= 8; i++ {
		if err := r.Rotate(f); err != nil {
			t.Fatalf("Rotate() #%d error = %v", i, err)
		}
		writeSave(t, f, fmt.Sprintf("save-%d", i))
	}

	entries, err := r.List(f)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(entries))
	}
	for i, want := range []string{"save-7", "save-6", "save-5"} {
		if got := readFile(t, f.Backup(i+1)); got != want {
			t.Errorf("backup %d = %q, want %q", i+1, got, want)
		}
	}
	if got := readFile(t, f.Primary()); got != "save-8" {
		t.Errorf("primary = %q, want save-8", got)
	}
}

func TestRotate_Disabled(t *testing.T) {
	f := For(t.TempDir(), "alpha")
	r := NewRotator(fsys.OS{}, 0)
	writeSave(t, f, "one")

	if err := r.Rotate(f); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if ok, _ := fsys.Exists(fsys.OS{}, f.Backup(1)); ok {
		t.Error("backup 1 should not exist when rotation is disabled")
	}
	if got := r.Candidates(f); len(got) != 1 || got[0] != f.Primary() {
		t.Errorf("Candidates() = %v, want primary only", got)
	}
}

func TestRotate_PrunesBeyondCount(t *testing.T) {
	f := For(t.TempDir(), "alpha")
	writeSave(t, f, "current")
	for i := 1; i <= 5; i++ {
		os.WriteFile(f.Backup(i), []byte(fmt.Sprintf("old-%d", i)), 0644)
	}

	r := NewRotator(fsys.OS{}, 2)
	if err := r.Rotate(f); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	entries, _ := r.List(f)
	if len(entries) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(entries))
	}
	if got := readFile(t, f.Backup(1)); got != "current" {
		t.Errorf("backup 1 = %q, want current", got)
	}
	if got := readFile(t, f.Backup(2)); got != "old-1" {
		t.Errorf("backup 2 = %q, want old-1", got)
	}
}

func TestRotate_OtherSlotsUntouched(t *testing.T) {
	dir := t.TempDir()
	alpha, beta := For(dir, "alpha"), For(dir, "beta")
	writeSave(t, alpha, "a")
	writeSave(t, beta, "b")
	os.WriteFile(beta.Backup(1), []byte("b-old"), 0644)

	r := NewRotator(fsys.OS{}, 2)
	if err := r.Rotate(alpha); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if got := readFile(t, beta.Backup(1)); got != "b-old" {
		t.Errorf("beta backup 1 = %q, want b-old", got)
	}
	if ok, _ := fsys.Exists(fsys.OS{}, beta.Backup(2)); ok {
		t.Error("beta backup 2 should not exist")
	}
}

func TestRotate_Steps(t *testing.T) {
	tests := []struct {
		name    string
		backups []int
		want    []string
	}{
		{"first rotation", nil, []string{"copy"}},
		{"chain not full", []int{1}, []string{"shift", "copy"}},
		{"chain full", []int{1, 2}, []string{"remove", "shift", "copy"}},
		{"beyond count", []int{1, 2, 4}, []string{"remove", "shift", "prune", "copy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := For(t.TempDir(), "alpha")
			writeSave(t, f, "x")
			for _, i := range tt.backups {
				os.WriteFile(f.Backup(i), []byte("y"), 0644)
			}

			r := NewRotator(fsys.OS{}, 2)
			var ops []string
			r.OnStep = func(op, from, to string) { ops = append(ops, op) }

			if err := r.Rotate(f); err != nil {
				t.Fatalf("Rotate() error = %v", err)
			}
			if fmt.Sprint(ops) != fmt.Sprint(tt.want) {
				t.Errorf("steps = %v, want %v", ops, tt.want)
			}
		})
	}
}

func TestRotate_CopyFailureLeavesNoLeftover(t *testing.T) {
	f := For(t.TempDir(), "alpha")
	writeSave(t, f, "current")
	ffs := &fsys.FaultFS{FS: fsys.OS{}, WriteHook: func(string) error { return fsys.ErrInjected }}

	r := NewRotator(ffs, 2)
	if err := r.Rotate(f); err == nil {
		t.Fatal("Rotate() should fail when the backup copy fails")
	}
	left, err := r.Leftovers(f)
	if err != nil {
		t.Fatalf("Leftovers() error = %v", err)
	}
	if len(left) != 0 {
		t.Errorf("Leftovers() = %v, want none", left)
	}
	if got := readFile(t, f.Primary()); got != "current" {
		t.Errorf("primary = %q, want current", got)
	}
}

func TestLeftovers(t *testing.T) {
	dir := t.TempDir()
	f := For(dir, "alpha")
	for _, name := range []string{"alpha.bak1.copy", "alpha.bak3.copy", "beta.bak1.copy", "alpha.sav.copy", "alpha.bak1"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
	}

	left, err := NewRotator(fsys.OS{}, 3).Leftovers(f)
	if err != nil {
		t.Fatalf("Leftovers() error = %v", err)
	}
	if len(left) != 2 || left[0].Index != 1 || left[1].Index != 3 {
		t.Errorf("Leftovers() = %+v, want alpha.bak1.copy and alpha.bak3.copy", left)
	}
}

func TestCandidates(t *testing.T) {
	f := For("d", "alpha")
	got := NewRotator(fsys.OS{}, 2).Candidates(f)
	want := []string{f.Primary(), f.Backup(1), f.Backup(2)}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}
