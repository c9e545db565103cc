package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is a fixed-point stock quantity with 4 decimal places (scale = 1e4).
//
// Persisted as NUMERIC(18,4); values travel to and from the driver as decimal strings
// so no float rounding happens on the way.
type Quantity int64

const QuantityScale int64 = 10_000

func NewQuantityFromFloat64(v float64) Quantity {
	return Quantity(math.Round(v * float64(QuantityScale)))
}

// NewQuantity builds a whole-unit quantity.
func NewQuantity(units int64) Quantity { return Quantity(units * QuantityScale) }

// MustQuantity parses s and panics on error. Use only for constants and tests.
func MustQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Float64() float64 { return float64(q) / float64(QuantityScale) }

// Decimal converts to a decimal for money arithmetic.
func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), -4) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// Clamp bounds q to [lo, hi].
func (q Quantity) Clamp(lo, hi Quantity) Quantity {
	if q < lo {
		return lo
	}
	if q > hi {
		return hi
	}
	return q
}

// String returns a decimal string with 4 fractional digits.
func (q Quantity) String() string {
	neg := q < 0
	v := q
	if neg {
		v = -v
	}
	intPart := int64(v) / QuantityScale
	frac := int64(v) % QuantityScale
	if neg {
		return fmt.Sprintf("-%d.%04d", intPart, frac)
	}
	return fmt.Sprintf("%d.%04d", intPart, frac)
}

// MarshalJSON encodes Quantity as JSON number (not string), preserving 4 digits.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts either a JSON number or string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Value implements driver.Valuer.
func (q Quantity) Value() (driver.Value, error) {
	return q.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (q *Quantity) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*q = 0
		return nil
	case string:
		parsed, err := ParseQuantity(v)
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	case []byte:
		parsed, err := ParseQuantity(string(v))
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	case int64:
		*q = NewQuantity(v)
		return nil
	case float64:
		*q = NewQuantityFromFloat64(v)
		return nil
	default:
		return fmt.Errorf("scan quantity: unsupported type %T", src)
	}
}

// MaxQuantity is the largest magnitude a NUMERIC(18,4) column holds.
const MaxQuantity Quantity = 1_000_000_000_000_000_000 - 1

var maxQuantityDecimal = decimal.New(int64(MaxQuantity), -4)

// ParseQuantity parses a decimal string. Digits beyond the 4th fractional place are truncated.
// Values outside ±MaxQuantity are rejected.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	if !strings.ContainsAny(s, "eE") && !isPlainDecimal(s) {
		return 0, fmt.Errorf("parse quantity: invalid syntax %q", s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity: %w", err)
	}
	if d.Abs().GreaterThan(maxQuantityDecimal) {
		return 0, fmt.Errorf("quantity %s out of range", s)
	}
	return Quantity(d.Shift(4).Truncate(0).IntPart()), nil
}

// isPlainDecimal reports whether s is an optional sign, digits and at most
// one decimal point, with at least one digit.
func isPlainDecimal(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	digits, dot := 0, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}
