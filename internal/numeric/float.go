package numeric

import (
	"math"
	"strconv"
)

// Float is the machine float64 backend.
type Float struct{}

func NewFloat() Float { return Float{} }

func (Float) Name() string { return "float64" }
func (Float) Mode() Mode   { return FloatMode }

func (Float) Parse(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

func (Float) FromFloat(v float64) (float64, error) { return v, nil }

// The explicit conversions keep each operation rounded on its own so that
// results do not depend on whether the target fuses multiply-add.
func (Float) Add(a, b float64) float64 { return float64(a + b) }
func (Float) Sub(a, b float64) float64 { return float64(a - b) }
func (Float) Mul(a, b float64) float64 { return float64(a * b) }
func (Float) Neg(a float64) float64    { return -a }

func (Float) Cmp(a, b float64) int {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (Float) Float64(a float64) float64 { return a }

func (Float) Format(a float64) string { return strconv.FormatFloat(a, 'g', -1, 64) }
