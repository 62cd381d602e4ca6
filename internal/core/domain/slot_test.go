package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSlotName(t *testing.T) {
	valid := []string{"alpha", "slot-1", "my_save_2", "Campaign 3", "quicksave", "übersave"}
	for _, name := range valid {
		if err := ValidateSlotName(name); err != nil {
			t.Errorf("ValidateSlotName(%q) error = %v", name, err)
		}
	}

	invalid := []string{
		"",
		".",
		"..",
		"a/b",
		`a\b`,
		"c:drive",
		"star*",
		"what?",
		`quote"d`,
		"<tag>",
		"pipe|line",
		"tab\there",
		strings.Repeat("x", MaxSlotNameLength+1),
	}
	for _, name := range invalid {
		err := ValidateSlotName(name)
		if !errors.Is(err, ErrSlotNameInvalid) {
			t.Errorf("ValidateSlotName(%q) error = %v, want ErrSlotNameInvalid", name, err)
		}
	}
}
