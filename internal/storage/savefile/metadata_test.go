package savefile

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
)

func fullMetadata() domain.SaveMetadata {
	victory := domain.VictoryMilitary
	return domain.SaveMetadata{
		SaveID:       "save-01hqz0000000000000000000aa",
		Slot:         "alpha",
		Description:  "before the siege",
		PlayerID:     "acct_1234",
		Difficulty:   domain.DifficultyHard,
		GalaxySize:   domain.GalaxyMedium,
		PlanetCount:  3,
		ShipCount:    5,
		FactionCount: 2,
		Tick:         42,
		SavedAt:      time.Unix(1700000000, 0).UTC(),
		PlayTime:     4200 * time.Millisecond,
		Victory:      &victory,
		Properties:   map[string]string{"mod": "none", "seed": "7"},
	}
}

func TestMetadata_RoundTrip(t *testing.T) {
	for _, md := range []domain.SaveMetadata{
		fullMetadata(),
		{Slot: "bare", SavedAt: time.Unix(0, 0).UTC()},
	} {
		got, err := DecodeMetadata(EncodeMetadata(md))
		if err != nil {
			t.Fatalf("DecodeMetadata() error = %v", err)
		}
		if !reflect.DeepEqual(got, md) {
			t.Errorf("DecodeMetadata() = %+v, want %+v", got, md)
		}
	}
}

func TestMetadata_PropertyOrder(t *testing.T) {
	a := fullMetadata()
	b := fullMetadata()
	b.Properties = map[string]string{"seed": "7", "mod": "none"}
	if string(EncodeMetadata(a)) != string(EncodeMetadata(b)) {
		t.Error("EncodeMetadata() should not depend on map order")
	}
}

func TestMetadata_Truncated(t *testing.T) {
	full := EncodeMetadata(fullMetadata())
	for n := 0; n < len(full); n++ {
		if _, err := DecodeMetadata(full[:n]); err == nil {
			t.Fatalf("DecodeMetadata(%d of %d bytes) should fail", n, len(full))
		}
	}
}

func TestMetadata_Invalid(t *testing.T) {
	b := EncodeMetadata(fullMetadata())
	b[0] = 9
	if _, err := DecodeMetadata(b); err == nil {
		t.Error("DecodeMetadata(bad layout) should fail")
	}

	trailing := append(EncodeMetadata(fullMetadata()), 0)
	if _, err := DecodeMetadata(trailing); err == nil {
		t.Error("DecodeMetadata(trailing bytes) should fail")
	}

	w := bytecodec.NewWriter(16)
	w.PutUint8(metadataLayout)
	w.PutUint32(2)
	w.PutRaw([]byte{0xff, 0xfe})
	if _, err := DecodeMetadata(w.Bytes()); !errors.Is(err, bytecodec.ErrInvalidUTF8) {
		t.Errorf("DecodeMetadata(bad utf8) error = %v, want ErrInvalidUTF8", err)
	}
}
