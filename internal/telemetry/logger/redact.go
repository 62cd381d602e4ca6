package logger

import (
	"log/slog"
	"regexp"
	"strings"
)

// PlayerIDPrefix starts every player account identifier.
const PlayerIDPrefix = "acct_"

// playerIDPattern matches a player account identifier anywhere in a string:
// the prefix followed by letters, digits, '-' or '_'.
var playerIDPattern = regexp.MustCompile(PlayerIDPrefix + `[A-Za-z0-9_-]+`)

// secretKeys are key fragments whose values are replaced entirely.
var secretKeys = []string{"password", "secret", "token", "credential"}

const redactedValue = "***REDACTED***"

// keepTail is how many trailing characters of an account survive masking.
const keepTail = 4

// MaskPlayerID masks a player account identifier, keeping the prefix and
// the last four characters: acct_7f3a9c21 becomes acct_****9c21. Bodies of
// four characters or fewer are masked completely.
func MaskPlayerID(id string) string {
	body := strings.TrimPrefix(id, PlayerIDPrefix)
	if len(body) <= keepTail {
		return PlayerIDPrefix + "****"
	}
	return PlayerIDPrefix + "****" + body[len(body)-keepTail:]
}

// MaskPlayerIDs masks every player account identifier embedded in s.
func MaskPlayerIDs(s string) string {
	if !strings.Contains(s, PlayerIDPrefix) {
		return s
	}
	return playerIDPattern.ReplaceAllStringFunc(s, MaskPlayerID)
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range secretKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

// redact rewrites one attribute before it is written.
func redact(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}

	case slog.KindString:
		v := a.Value.String()
		switch {
		case v == "":
			return a
		case isSecretKey(a.Key):
			return slog.String(a.Key, redactedValue)
		case a.Key == KeyPlayer:
			return slog.String(a.Key, MaskPlayerID(v))
		}
		if masked := MaskPlayerIDs(v); masked != v {
			return slog.String(a.Key, masked)
		}

	case slog.KindAny:
		// Errors often quote the metadata they failed on.
		if err, ok := a.Value.Any().(error); ok && err != nil {
			msg := err.Error()
			if masked := MaskPlayerIDs(msg); masked != msg {
				return slog.String(a.Key, masked)
			}
		}
	}
	return a
}
