// Package money holds GBP amounts as integer pence.
//
// Amounts are summed as int64 pence and only turned into "12.34" strings at the
// edges (JSON, CSV, templates). Rate arithmetic goes through shopspring/decimal
// so that divisions round half-up to the nearest penny.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in pence.
type Amount int64

// Zero is the empty sum.
const Zero Amount = 0

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrTooManyDigits  = errors.New("amount has more than 2 fraction digits")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

var hundred = decimal.NewFromInt(100)

// Parse reads a decimal string such as "20", "20.5" or "1,234.56" into pence.
// More than two fraction digits is rejected rather than silently rounded.
func Parse(s string) (Amount, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "£")
	clean = strings.ReplaceAll(clean, ",", "")

	if clean == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("%w: %q", ErrTooManyDigits, s)
	}

	return FromDecimal(d), nil
}

// ParseNonNegative is Parse plus a sign check, used for fees and expense amounts.
func ParseNonNegative(s string) (Amount, error) {
	a, err := Parse(s)
	if err != nil {
		return 0, err
	}

	if a < 0 {
		return 0, ErrNegativeAmount
	}

	return a, nil
}

// FromDecimal converts pounds to pence, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(hundred).Round(0).IntPart())
}

// Decimal returns the amount in pounds.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats the amount with exactly two fraction digits, e.g. "0.00" or "-12.50".
func (a Amount) String() string {
	sign := ""
	n := int64(a)

	if n < 0 {
		sign = "-"
		n = -n
	}

	return fmt.Sprintf("%s%d.%02d", sign, n/100, n%100)
}

// Pounds renders the amount with a currency symbol for display.
func (a Amount) Pounds() string {
	if a < 0 {
		return "-£" + (-a).String()
	}

	return "£" + a.String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}

	v, err := Parse(s)
	if err != nil {
		return err
	}

	*a = v

	return nil
}

// UnmarshalText lets envconfig and form decoders read amounts.
func (a *Amount) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*a = v

	return nil
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Sum adds amounts in pence.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}

	return total
}

// PerWeek pro-rates a total over days and scales it to seven days: total / days * 7.
// It returns zero when days is not positive.
func PerWeek(total Amount, days int) Amount {
	if days <= 0 {
		return Zero
	}

	per := total.Decimal().Mul(decimal.NewFromInt(7)).Div(decimal.NewFromInt(int64(days)))

	return FromDecimal(per)
}

// Percent returns a * rate, where rate is a fraction such as 0.20.
func (a Amount) Percent(rate decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(rate))
}

// PercentOf reports a as a percentage of ref, fixed to two places. A zero
// reference yields "0.00".
func PercentOf(a, ref Amount) string {
	if ref == 0 {
		return "0.00"
	}

	return decimal.NewFromInt(int64(a)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(ref))).
		StringFixed(2)
}
