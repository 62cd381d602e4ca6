package savefile

import (
	"strings"
	"testing"

	"github.com/yndnr/stellar-save/internal/storage/chunk"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
)

func testHeader() FormatHeader {
	h := FormatHeader{
		FormatVersion: FormatVersion,
		SchemaVersion: SchemaVersion,
		CreationTime:  1700000000,
		Tick:          42,
		ChunkCount:    3,
		TotalSize:     500,
		Features:      FeatureAssets,
	}
	copy(h.Magic[:], Magic)
	return h
}

func TestHeader_RoundTrip(t *testing.T) {
	h := testHeader()
	b := h.Encode()
	if len(b) != HeaderSize {
		t.Fatalf("len(Encode()) = %d, want %d", len(b), HeaderSize)
	}
	got, err := DecodeHeader(b)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	if got != h {
		t.Errorf("DecodeHeader() = %+v, want %+v", got, h)
	}
}

func TestDecodeHeader_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *FormatHeader)
		want   string
	}{
		{"bad magic", func(h *FormatHeader) { h.Magic[0] = 'X'; h.FormatVersion = 99 }, "magic"},
		{"future version", func(h *FormatHeader) { h.FormatVersion = 3; h.ChunkCount = 0 }, "version"},
		{"zero version", func(h *FormatHeader) { h.FormatVersion = 0 }, "version"},
		{"zero chunks", func(h *FormatHeader) { h.ChunkCount = 0 }, "chunk count"},
		{"compressed", func(h *FormatHeader) { h.Compression = chunk.CompressionZstd }, "compression"},
		{"differential", func(h *FormatHeader) { h.Features |= FeatureDifferentialSaves }, "differential"},
		{"unknown feature", func(h *FormatHeader) { h.Features |= 1 << 20 }, "unknown feature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHeader()
			tt.mutate(&h)
			_, err := DecodeHeader(h.Encode())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DecodeHeader() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Error("DecodeHeader(short) should fail")
	}
}

func TestFeatures(t *testing.T) {
	f := Features(0).With(FeatureAssets).With(FeatureCollections)
	if !f.HasAssets() || !f.HasCollections() {
		t.Errorf("flags = %v", f)
	}
	if f.HasMegastructures() || f.HasUniquePersonnel() || f.ChunkCompression() || f.DifferentialSaves() {
		t.Errorf("unexpected flags in %v", f)
	}
	if got := f.String(); got != "assets,collections" {
		t.Errorf("String() = %q", got)
	}
	if got := Features(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	if got := Features(1 << 10).String(); got != "0x400" {
		t.Errorf("String() = %q, want 0x400", got)
	}
}

func preamble(version, count uint32) []byte {
	w := bytecodec.NewWriter(PreambleSize)
	encodePreamble(w, Preamble{Version: version, Count: count})
	return w.Bytes()
}

func TestReadPreamble(t *testing.T) {
	p, err := ReadPreamble(preamble(2, 4))
	if err != nil || p.Version != 2 || p.Count != 4 {
		t.Errorf("ReadPreamble() = %+v, %v", p, err)
	}
	if p, err := ReadPreamble(preamble(1, 0)); err != nil || p.Version != 1 {
		t.Errorf("ReadPreamble(v1 empty) = %+v, %v", p, err)
	}

	bad := [][]byte{
		[]byte("STELLAR2"),
		append([]byte("STELLAR1"), preamble(2, 1)[8:]...),
		preamble(3, 1),
		preamble(0, 1),
		preamble(2, 0),
	}
	for i, b := range bad {
		if _, err := ReadPreamble(b); err == nil {
			t.Errorf("case %d: ReadPreamble() should fail", i)
		}
	}
}
