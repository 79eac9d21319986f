package numeric

import (
	"fmt"
	"strconv"
)

// Convert maps a plain number into the backend representation. A value that
// already is an N is returned unchanged.
func Convert[N any](b Backend[N], v any) (N, error) {
	var zero N
	switch x := v.(type) {
	case N:
		return x, nil
	case float64:
		return b.FromFloat(x)
	case float32:
		return b.Parse(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case int:
		return b.Parse(strconv.Itoa(x))
	case int64:
		return b.Parse(strconv.FormatInt(x, 10))
	case string:
		return b.Parse(x)
	}
	return zero, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// ConvertSlice converts every element of a slice. A []N is returned as is.
func ConvertSlice[N any](b Backend[N], v any) ([]N, error) {
	switch xs := v.(type) {
	case []N:
		return xs, nil
	case []float64:
		return convertEach(b, xs)
	case []float32:
		return convertEach(b, xs)
	case []int:
		return convertEach(b, xs)
	case []int64:
		return convertEach(b, xs)
	case []string:
		return convertEach(b, xs)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func convertEach[N any, E any](b Backend[N], xs []E) ([]N, error) {
	out := make([]N, len(xs))
	for i, x := range xs {
		n, err := Convert(b, any(x))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
