// Package numeric provides the arithmetic backends used by the SIR engine.
//
// Every quantity the engine touches (time, population counts, rates and
// derivatives) is a value of a backend-chosen type N. Two backends exist:
//
//   - [Float]: machine float64, subject to binary representation error
//   - [Decimal]: arbitrary-precision decimal arithmetic built on
//     github.com/cockroachdb/apd/v3
//
// Decimal values are always built from a canonical decimal string, never
// from the bits of a binary float, so 0.1 stays exactly one tenth.
//
// # Example
//
//	b := numeric.NewDecimal(numeric.DefaultDigits)
//	dt, _ := numeric.Convert[*apd.Decimal](b, 0.1)
//	xs, _ := numeric.ConvertSlice[*apd.Decimal](b, []int{299, 1, 0})
//
// The backend is picked once, when an engine is constructed, and never
// changes for the lifetime of that engine.
package numeric
