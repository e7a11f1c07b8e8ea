package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// floatDigits is the number of significant digits beyond which a numeric cell
// is treated as a binary float artifact and re-rendered in its shortest form.
const floatDigits = 15

// groupedAmount matches amounts written with comma thousands separators,
// such as "1,234.50". Any other comma placement is rejected.
var groupedAmount = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Money is an exact decimal currency amount. All monetary arithmetic and
// threshold comparisons go through Money; Float64 exists only for export.
//
// The zero value is an exact zero.
type Money struct {
	d decimal.Decimal
}

// ZeroMoney returns an exact zero amount.
func ZeroMoney() Money {
	return Money{d: decimal.Zero}
}

// ParseMoney parses a decimal string such as "4500.00" without passing
// through float64. Surrounding spaces and well placed thousands separators
// are accepted; "1,50" is an error.
func ParseMoney(s string) (Money, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return Money{}, fmt.Errorf("parse money: empty value")
	}
	if strings.Contains(clean, ",") {
		if !groupedAmount.MatchString(clean) {
			return Money{}, fmt.Errorf("parse money %q: misplaced thousands separator", s)
		}
		clean = strings.ReplaceAll(clean, ",", "")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// MustParseMoney is like ParseMoney but panics on error. Intended for
// constants and tests.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoneyCell parses a raw spreadsheet cell. Text cells go through
// ParseMoney unchanged. Numeric cells hold a binary double and may carry
// float noise such as "1234.5599999999999"; those are reduced to the
// shortest representation that round-trips, which is what the spreadsheet
// application displays.
func ParseMoneyCell(raw string, numeric bool) (Money, error) {
	m, err := ParseMoney(raw)
	if err != nil || !numeric {
		return m, err
	}
	if significantDigits(m.d) <= floatDigits {
		return m, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return m, nil
	}
	return ParseMoney(strconv.FormatFloat(f, 'f', -1, 64))
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// Equal reports whether both amounts have the same value regardless of scale.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// Decimal exposes the underlying exact value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Float64 converts to binary floating point. Export boundaries only.
func (m Money) Float64() float64 {
	return m.d.InexactFloat64()
}

// String renders the amount keeping the scale it was parsed with, so
// "4500.00" and "0.10" come back digit for digit.
func (m Money) String() string {
	scale := -m.d.Exponent()
	if scale < 0 {
		scale = 0
	}
	return m.d.StringFixed(scale)
}

// StringFixed renders the amount rounded to the given number of places.
func (m Money) StringFixed(places int32) string {
	return m.d.StringFixed(places)
}

// MarshalText implements encoding.TextMarshaler.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func significantDigits(d decimal.Decimal) int {
	digits := strings.TrimLeft(d.Coefficient().String(), "-0")
	return len(digits)
}
