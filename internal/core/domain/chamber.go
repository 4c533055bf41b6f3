package domain

import (
	"fmt"
	"strings"
)

// Chamber identifies one of the two legislative houses.
type Chamber string

const (
	// ChamberCommons is the lower house.
	ChamberCommons Chamber = "Commons"
	// ChamberLords is the upper house.
	ChamberLords Chamber = "Lords"
	// ChamberAny means no chamber was specified.
	ChamberAny Chamber = ""
)

// Chambers lists every chamber in comparison order.
var Chambers = []Chamber{ChamberCommons, ChamberLords}

// ParseChamber converts user input into a Chamber. Empty input yields ChamberAny.
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ChamberAny, nil
	case "commons", "c":
		return ChamberCommons, nil
	case "lords", "l":
		return ChamberLords, nil
	default:
		return ChamberAny, fmt.Errorf("%w: %q", ErrInvalidChamber, s)
	}
}

// String returns the chamber name, or "any" when unset.
func (c Chamber) String() string {
	if c == ChamberAny {
		return "any"
	}
	return string(c)
}
