package buildinfo

import (
	"runtime"
	"strings"
	"testing"

	"github.com/yndnr/stellar-save/internal/storage/savefile"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.FormatVersion != savefile.FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", info.FormatVersion, savefile.FormatVersion)
	}
}

func TestGet_Ldflags(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })
	Version, Commit = "v1.2.3", "abc123"

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" {
		t.Errorf("Get() = %+v", info)
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{Version, "save format v2"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
