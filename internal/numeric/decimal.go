package numeric

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// DefaultDigits is the default significant-digit precision of a Decimal
// backend.
const DefaultDigits = 28

// Decimal is the arbitrary-precision decimal backend. Results are rounded
// to the configured number of significant digits.
type Decimal struct {
	ctx *apd.Context
}

// NewDecimal returns a decimal backend with the given significant digits.
// Zero selects DefaultDigits.
func NewDecimal(digits uint32) *Decimal {
	if digits == 0 {
		digits = DefaultDigits
	}
	ctx := apd.BaseContext.WithPrecision(digits)
	// Overflow and underflow surface as Infinity/zero results instead of errors.
	ctx.Traps = 0
	return &Decimal{ctx: ctx}
}

func (d *Decimal) Name() string {
	return fmt.Sprintf("decimal(%d)", d.ctx.Precision)
}

func (d *Decimal) Mode() Mode { return DecimalMode }

// Digits reports the significant digits of the context.
func (d *Decimal) Digits() uint32 { return d.ctx.Precision }

func (d *Decimal) Parse(s string) (*apd.Decimal, error) {
	v, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if v.Form != apd.Finite {
		return nil, ErrNotFinite
	}
	return v, nil
}

// FromFloat goes through the shortest decimal string that round-trips v.
func (d *Decimal) FromFloat(v float64) (*apd.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrNotFinite
	}
	return d.Parse(strconv.FormatFloat(v, 'g', -1, 64))
}

func (d *Decimal) Add(a, b *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	d.check(d.ctx.Add(r, a, b))
	return r
}

func (d *Decimal) Sub(a, b *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	d.check(d.ctx.Sub(r, a, b))
	return r
}

func (d *Decimal) Mul(a, b *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	d.check(d.ctx.Mul(r, a, b))
	return r
}

func (d *Decimal) Neg(a *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Neg(a)
}

func (d *Decimal) Cmp(a, b *apd.Decimal) int {
	if isNaN(a) || isNaN(b) {
		return -1
	}
	return a.Cmp(b)
}

func isNaN(a *apd.Decimal) bool { return a.Form == apd.NaN || a.Form == apd.NaNSignaling }

// Float64 returns the nearest float64, or ±Inf when out of range.
func (d *Decimal) Float64(a *apd.Decimal) float64 {
	f, err := a.Float64()
	if err != nil {
		if a.Negative {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return f
}

func (d *Decimal) Format(a *apd.Decimal) string { return a.String() }

// With traps disabled the context only reports errors for a broken
// configuration, which NewDecimal never produces.
func (d *Decimal) check(_ apd.Condition, err error) {
	if err != nil {
		panic(fmt.Sprintf("numeric: decimal: %v", err))
	}
}
