package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxSlotNameLength bounds slot names so <slot>.bakN stays a valid file name.
const MaxSlotNameLength = 200

// QuickSaveSlot is the slot used when none is given.
const QuickSaveSlot = "quicksave"

// slotForbidden lists characters that are unsafe in a file name on any
// supported platform.
const slotForbidden = `/\:*?"<>|`

// ValidateSlotName checks that name can be used as a save slot.
func ValidateSlotName(name string) error {
	switch {
	case name == "":
		return ErrSlotNameInvalid.WithDetails("slot name is empty")
	case len(name) > MaxSlotNameLength:
		return ErrSlotNameInvalid.WithDetails(fmt.Sprintf("slot name longer than %d bytes", MaxSlotNameLength))
	case name == "." || name == "..":
		return ErrSlotNameInvalid.WithDetails(fmt.Sprintf("slot name %q", name))
	}

	if i := strings.IndexAny(name, slotForbidden); i >= 0 {
		return ErrSlotNameInvalid.WithDetails(fmt.Sprintf("slot name %q contains %q", name, name[i]))
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ErrSlotNameInvalid.WithDetails(fmt.Sprintf("slot name %q contains a control character", name))
		}
	}
	return nil
}
