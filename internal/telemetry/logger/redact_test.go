package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestMaskPlayerID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acct_7f3a9c21", "acct_****9c21"},
		{"acct_12345", "acct_****2345"},
		{"acct_1234", "acct_****"},
		{"acct_", "acct_****"},
		{"7f3a9c21", "acct_****9c21"},
	}
	for _, tt := range tests {
		if got := MaskPlayerID(tt.in); got != tt.want {
			t.Errorf("MaskPlayerID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskPlayerIDs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no accounts here", "no accounts here"},
		{"acct_alice-main", "acct_****main"},
		{"owner acct_7f3a9c21 vs acct_0000beef.", "owner acct_****9c21 vs acct_****beef."},
		{"saves/acct_7f3a9c21/alpha.sav", "saves/acct_****9c21/alpha.sav"},
		{`{"player_id":"acct_7f3a9c21"}`, `{"player_id":"acct_****9c21"}`},
	}
	for _, tt := range tests {
		if got := MaskPlayerIDs(tt.in); got != tt.want {
			t.Errorf("MaskPlayerIDs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"player key", Player("acct_7f3a9c21"), "acct_****9c21"},
		{"player key without prefix", Player("guest42abc"), "acct_****2abc"},
		{"empty player", Player(""), ""},
		{"embedded in path", Path("/home/acct_7f3a9c21/alpha.sav"), "/home/acct_****9c21/alpha.sav"},
		{"message", slog.String(slog.MessageKey, "saving for acct_7f3a9c21"), "saving for acct_****9c21"},
		{"error value", Err(fmt.Errorf("slot alpha: owner acct_7f3a9c21: %w", errors.New("mismatch"))), "slot alpha: owner acct_****9c21: mismatch"},
		{"secret key", slog.String("cloud_token", "abc"), redactedValue},
		{"password key", slog.String("Password", "hunter2"), redactedValue},
		{"plain", Slot("alpha"), "alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redact(tt.attr)
			if got.Key != tt.attr.Key {
				t.Errorf("key = %q, want %q", got.Key, tt.attr.Key)
			}
			if s := got.Value.String(); s != tt.want {
				t.Errorf("value = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestRedact_ErrorWithoutAccountUnchanged(t *testing.T) {
	err := errors.New("chunk corrupt")
	got := redact(Err(err))
	if got.Value.Kind() != slog.KindAny || got.Value.Any() != err {
		t.Errorf("redact() rewrote an error with nothing to mask: %v", got.Value)
	}
}

func TestRedact_Group(t *testing.T) {
	g := slog.Group("metadata", Player("acct_7f3a9c21"), Slot("alpha"))
	got := redact(g).Value.Group()
	if got[0].Value.String() != "acct_****9c21" {
		t.Errorf("grouped player = %q", got[0].Value.String())
	}
	if got[1].Value.String() != "alpha" {
		t.Errorf("grouped slot = %q", got[1].Value.String())
	}
}

func TestLogger_MasksAccounts(t *testing.T) {
	l, buf := newJSON(t, "info")

	l.Info("save finished for acct_7f3a9c21",
		Player("acct_7f3a9c21"),
		Err(errors.New("previous owner acct_0000beef")),
		slog.Group("metadata", slog.String("description", "acct_1111aaaa campaign")),
	)

	out := buf.String()
	for _, raw := range []string{"acct_7f3a9c21", "acct_0000beef", "acct_1111aaaa"} {
		if strings.Contains(out, raw) {
			t.Errorf("output contains %s:\n%s", raw, out)
		}
	}
	for _, masked := range []string{"acct_****9c21", "acct_****beef", "acct_****aaaa"} {
		if !strings.Contains(out, masked) {
			t.Errorf("output missing %s:\n%s", masked, out)
		}
	}
}
