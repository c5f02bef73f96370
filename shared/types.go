package shared

import (
	"fmt"
	"strings"
)

type Denomination string

const (
	Platinum Denomination = "platinum"
	Gold     Denomination = "gold"
	Silver   Denomination = "silver"
	Copper   Denomination = "copper"
)

// Base-unit (copper) value of each coin.
const (
	CopperValue   int64 = 1
	SilverValue   int64 = 10
	GoldValue     int64 = 100
	PlatinumValue int64 = 1000
)

// Denominations lists every coin from highest to lowest value.
var Denominations = []Denomination{Platinum, Gold, Silver, Copper}

// Value returns how many copper one coin of d is worth, or 0 for an unknown denomination.
func (d Denomination) Value() int64 {
	switch d {
	case Platinum:
		return PlatinumValue
	case Gold:
		return GoldValue
	case Silver:
		return SilverValue
	case Copper:
		return CopperValue
	}
	return 0
}

func (d Denomination) Label() string {
	switch d {
	case Platinum:
		return "Platinum"
	case Gold:
		return "Gold"
	case Silver:
		return "Silver"
	case Copper:
		return "Copper"
	}
	return string(d)
}

func (d Denomination) IsValid() bool {
	return d.Value() != 0
}

// ParseDenomination accepts full names, plurals and the short forms p/plat, g, s, c.
func ParseDenomination(s string) (Denomination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "platinum", "platinums", "plat", "p":
		return Platinum, nil
	case "gold", "golds", "g":
		return Gold, nil
	case "silver", "silvers", "s":
		return Silver, nil
	case "copper", "coppers", "c":
		return Copper, nil
	}
	return "", fmt.Errorf("unknown denomination %q: use platinum, gold, silver or copper", s)
}

// Target names which amount of a calculator session an edit applies to.
type Target string

const (
	TargetPurse   Target = "purse"
	TargetOperand Target = "operand"
)

func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetPurse, TargetOperand:
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q: use purse or operand", s)
}

// Mode is the panel a calculator session is showing.
type Mode string

const (
	ModeDivide   Mode = "divide"
	ModeAdd      Mode = "add"
	ModeSubtract Mode = "subtract"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "divide", "split":
		return ModeDivide, nil
	case "add":
		return ModeAdd, nil
	case "subtract", "remove":
		return ModeSubtract, nil
	}
	return "", fmt.Errorf("unknown mode %q: use divide, add or subtract", s)
}

func (m Mode) IsValid() bool {
	return m == ModeDivide || m == ModeAdd || m == ModeSubtract
}
