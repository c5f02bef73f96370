package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gold-splitter/shared"
)

// Amount is a pile of coins. Fields are stored as given and are not normalized;
// use Disperse to get the fewest-coin form.
type Amount struct {
	Platinum int64 `json:"platinum"`
	Gold     int64 `json:"gold"`
	Silver   int64 `json:"silver"`
	Copper   int64 `json:"copper"`
}

func NewAmount(platinum, gold, silver, copper int64) Amount {
	return Amount{Platinum: platinum, Gold: gold, Silver: silver, Copper: copper}
}

// FromBaseUnits returns copper dispersed into the fewest coins.
func FromBaseUnits(copper int64) Amount {
	return NewAmount(0, 0, 0, copper).Disperse()
}

// TotalBaseUnits is the value of every coin expressed in copper.
func (a Amount) TotalBaseUnits() int64 {
	return a.Platinum*shared.PlatinumValue +
		a.Gold*shared.GoldValue +
		a.Silver*shared.SilverValue +
		a.Copper*shared.CopperValue
}

// TotalInExact is the total value expressed in coins of unit, fractions included.
func (a Amount) TotalInExact(unit shared.Denomination) (decimal.Decimal, error) {
	if !unit.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownDenomination, unit)
	}
	return decimal.NewFromInt(a.TotalBaseUnits()).Div(decimal.NewFromInt(unit.Value())), nil
}

func (a Amount) TotalIn(unit shared.Denomination) (float64, error) {
	total, err := a.TotalInExact(unit)
	if err != nil {
		return 0, err
	}
	f, _ := total.Float64()
	return f, nil
}

// Totals holds the total value of an amount in each denomination.
type Totals struct {
	Platinum decimal.Decimal `json:"platinum"`
	Gold     decimal.Decimal `json:"gold"`
	Silver   decimal.Decimal `json:"silver"`
	Copper   decimal.Decimal `json:"copper"`
}

func (a Amount) Totals() Totals {
	total := decimal.NewFromInt(a.TotalBaseUnits())
	return Totals{
		Platinum: total.Div(decimal.NewFromInt(shared.PlatinumValue)),
		Gold:     total.Div(decimal.NewFromInt(shared.GoldValue)),
		Silver:   total.Div(decimal.NewFromInt(shared.SilverValue)),
		Copper:   total,
	}
}

// Disperse converts the total into as few coins as possible, largest first.
// Each step truncates toward zero, so a negative total yields fields that all
// carry the total's sign.
func (a Amount) Disperse() Amount {
	remaining := a.TotalBaseUnits()
	platinum := remaining / shared.PlatinumValue
	remaining -= platinum * shared.PlatinumValue
	gold := remaining / shared.GoldValue
	remaining -= gold * shared.GoldValue
	silver := remaining / shared.SilverValue
	remaining -= silver * shared.SilverValue
	return NewAmount(platinum, gold, silver, remaining)
}

// Divide splits the amount into divisor equal shares, dropping any leftover copper.
func (a Amount) Divide(divisor int64) (Amount, error) {
	if divisor == 0 {
		return Amount{}, ErrDivisionByZero
	}
	return FromBaseUnits(a.TotalBaseUnits() / divisor), nil
}

// DivideWithRemainder is Divide that also reports the leftover copper.
// share.TotalBaseUnits()*divisor + remainder always equals a.TotalBaseUnits().
func (a Amount) DivideWithRemainder(divisor int64) (share Amount, remainder int64, err error) {
	share, err = a.Divide(divisor)
	if err != nil {
		return Amount{}, 0, err
	}
	remainder = a.TotalBaseUnits() - share.TotalBaseUnits()*divisor
	return share, remainder, nil
}

func (a Amount) Add(other Amount) Amount {
	return NewAmount(
		a.Platinum+other.Platinum,
		a.Gold+other.Gold,
		a.Silver+other.Silver,
		a.Copper+other.Copper,
	)
}

func (a Amount) Subtract(other Amount) Amount {
	return NewAmount(
		a.Platinum-other.Platinum,
		a.Gold-other.Gold,
		a.Silver-other.Silver,
		a.Copper-other.Copper,
	)
}

// AddCopper adds n to the copper field only.
func (a Amount) AddCopper(n int64) Amount {
	return NewAmount(a.Platinum, a.Gold, a.Silver, a.Copper+n)
}

// SubtractCopper removes n from the copper field only.
func (a Amount) SubtractCopper(n int64) Amount {
	return NewAmount(a.Platinum, a.Gold, a.Silver, a.Copper-n)
}

func (a Amount) Multiply(times int64) Amount {
	return NewAmount(a.Platinum*times, a.Gold*times, a.Silver*times, a.Copper*times)
}

// Count returns the number of coins of d held, or 0 for an unknown denomination.
func (a Amount) Count(d shared.Denomination) int64 {
	switch d {
	case shared.Platinum:
		return a.Platinum
	case shared.Gold:
		return a.Gold
	case shared.Silver:
		return a.Silver
	case shared.Copper:
		return a.Copper
	}
	return 0
}

// WithCount returns a copy of the amount holding count coins of d.
func (a Amount) WithCount(d shared.Denomination, count int64) (Amount, error) {
	switch d {
	case shared.Platinum:
		a.Platinum = count
	case shared.Gold:
		a.Gold = count
	case shared.Silver:
		a.Silver = count
	case shared.Copper:
		a.Copper = count
	default:
		return Amount{}, fmt.Errorf("%w: %q", ErrUnknownDenomination, d)
	}
	return a, nil
}

func (a Amount) IsZero() bool {
	return a == Amount{}
}

func (a Amount) Equal(other Amount) bool {
	return a == other
}

// String lists the nonzero platinum, gold and silver counts followed by copper,
// which is always shown, e.g. "2 Gold, 5 Copper".
func (a Amount) String() string {
	parts := make([]string, 0, len(shared.Denominations))
	for _, d := range shared.Denominations {
		n := a.Count(d)
		if n == 0 && d != shared.Copper {
			continue
		}
		parts = append(parts, strconv.FormatInt(n, 10)+" "+d.Label())
	}
	return strings.Join(parts, ", ")
}
