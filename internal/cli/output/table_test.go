package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, f *TableFormatter, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return buf.String()
}

func TestTableFormatter_Slice(t *testing.T) {
	data := []sample{
		{Slot: "alpha", Tick: 1, Size: 2048, Props: map[string]string{"a": "b"}},
		{Slot: "beta", Tick: 2},
	}

	out := render(t, &TableFormatter{}, data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), out)
	}
	if fields := strings.Fields(lines[0]); !reflect.DeepEqual(fields, []string{"SLOT", "TICK", "SIZE"}) {
		t.Errorf("headers = %v", fields)
	}
	if !strings.Contains(lines[1], "2.0 KiB") {
		t.Errorf("size not humanized: %q", lines[1])
	}

	wide := render(t, &TableFormatter{Wide: true}, data)
	if !strings.Contains(wide, "PROPS") || !strings.Contains(wide, "a=b") {
		t.Errorf("wide output missing props:\n%s", wide)
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	out := render(t, &TableFormatter{NoHeaders: true}, []sample{{Slot: "alpha"}})
	if strings.Contains(out, "SLOT") {
		t.Errorf("headers printed:\n%s", out)
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	out := render(t, &TableFormatter{}, &sample{Slot: "alpha", Tick: 1234})
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "slot") || !strings.Contains(out, "alpha") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTableFormatter_Map(t *testing.T) {
	out := render(t, &TableFormatter{}, map[string]any{"b": 2, "a": "x"})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "a") {
		t.Errorf("map rows not sorted:\n%s", out)
	}
}

func TestTableFormatter_Table(t *testing.T) {
	tbl := &Table{Headers: []string{"A", "B"}}
	tbl.AddRow("1", "2")
	out := render(t, &TableFormatter{}, tbl)
	if !strings.Contains(out, "A  B") || !strings.Contains(out, "1  2") {
		t.Errorf("output:\n%q", out)
	}
}

func TestTableFormatter_FallbackToJSON(t *testing.T) {
	out := render(t, &TableFormatter{}, 42)
	if strings.TrimSpace(out) != "42" {
		t.Errorf("output = %q, want 42", out)
	}
}

func TestFormatValue(t *testing.T) {
	var nilPtr *int
	tests := []struct {
		in    any
		bytes bool
		want  string
	}{
		{"", false, "-"},
		{"x", false, "x"},
		{int64(1234567), false, "1,234,567"},
		{int64(1536), true, "1.5 KiB"},
		{uint32(7), false, "7"},
		{true, false, "yes"},
		{3 * time.Second, false, "3s"},
		{time.Time{}, false, "-"},
		{[]int{}, false, "-"},
		{[]int{1, 2}, false, "[2 items]"},
		{nilPtr, false, "-"},
	}
	for _, tt := range tests {
		if got := formatValue(reflect.ValueOf(tt.in), tt.bytes); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAgeBytes(t *testing.T) {
	if Age(time.Time{}) != "-" {
		t.Error("Age(zero) should be -")
	}
	if got := Age(time.Now().Add(-2 * time.Hour)); !strings.Contains(got, "hours ago") {
		t.Errorf("Age() = %q", got)
	}
	if got := Bytes(-5); got != "0 B" {
		t.Errorf("Bytes(-5) = %q, want 0 B", got)
	}
}
