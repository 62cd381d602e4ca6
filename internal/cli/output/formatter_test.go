package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Slot     string            `json:"slot"`
	Tick     uint64            `json:"tick"`
	Size     int64             `json:"size" table:"bytes"`
	Hidden   string            `json:"-"`
	Props    map[string]string `json:"props,omitempty" table:"wide"`
	internal int
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q, error %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("json format should give a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("yaml format should give a YAMLFormatter")
	}
	if f, ok := NewFormatter(FormatTable, true).(*TableFormatter); !ok || !f.Wide {
		t.Error("table format should give a wide TableFormatter")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample{Slot: "alpha", Tick: 42, Hidden: "x"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["slot"] != "alpha" || got["tick"] != float64(42) {
		t.Errorf("output = %v", got)
	}
	if _, ok := got["Hidden"]; ok {
		t.Error("json:\"-\" field was written")
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	data := []sample{{Slot: "alpha", Tick: 42, Props: map[string]string{"mod": "core"}}}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "slot: alpha") || !strings.Contains(out, "tick: 42") {
		t.Errorf("output = %q", out)
	}

	var back []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(back) != 1 || back[0]["props"].(map[string]any)["mod"] != "core" {
		t.Errorf("decoded = %v", back)
	}
}
