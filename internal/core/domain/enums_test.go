package domain

import "testing"

func TestEnumText(t *testing.T) {
	var g GalaxySize
	if err := g.UnmarshalText([]byte("Medium")); err != nil || g != GalaxyMedium {
		t.Errorf("UnmarshalText(Medium) = %v, %v", g, err)
	}
	if err := g.UnmarshalText([]byte("Huge")); err == nil {
		t.Error("UnmarshalText(Huge) should fail")
	}

	if _, err := Difficulty(9).MarshalText(); err == nil {
		t.Error("MarshalText of invalid difficulty should fail")
	}
	if got := VictoryTimeout.String(); got != "Timeout" {
		t.Errorf("String() = %q, want Timeout", got)
	}
	if got := ShipClass(42).String(); got != "Unknown(42)" {
		t.Errorf("String() = %q, want Unknown(42)", got)
	}

	var b BuildingType
	if err := b.UnmarshalText([]byte("DefensePlatform")); err != nil || b != BuildingDefensePlatform {
		t.Errorf("UnmarshalText(DefensePlatform) = %v, %v", b, err)
	}
}
