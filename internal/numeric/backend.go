package numeric

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported indicates a value that cannot be converted into a backend number.
	ErrUnsupported = errors.New("numeric: unsupported value type")

	// ErrNotFinite indicates a NaN or infinite input.
	ErrNotFinite = errors.New("numeric: value is not finite")
)

// Backend supplies the number type N and the operations the engine needs.
// Implementations never mutate their operands.
type Backend[N any] interface {
	Name() string
	Mode() Mode
	Parse(s string) (N, error)
	FromFloat(v float64) (N, error)
	Add(a, b N) N
	Sub(a, b N) N
	Mul(a, b N) N
	Neg(a N) N
	// Cmp orders a and b. A NaN operand is unordered and compares as -1
	// either way round, so no a >= b test passes on it.
	Cmp(a, b N) int
	Float64(a N) float64
	Format(a N) string
}

// Mode selects the arithmetic backend of a run.
type Mode int

const (
	FloatMode Mode = iota
	DecimalMode
)

func (m Mode) String() string {
	switch m {
	case FloatMode:
		return "float"
	case DecimalMode:
		return "decimal"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts "float" and "decimal"; "fixed" is an alias for decimal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float", "float64", "floating":
		return FloatMode, nil
	case "decimal", "fixed":
		return DecimalMode, nil
	}
	return 0, fmt.Errorf("unknown precision mode: %s", s)
}
