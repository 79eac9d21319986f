package plot

import (
	"fmt"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

func column(s sim.Series, name string) ([]float64, error) {
	switch name {
	case "S":
		return s.S, nil
	case "I":
		return s.I, nil
	case "R":
		return s.R, nil
	case "dSdt":
		return tail(s.DS), nil
	case "dIdt":
		return tail(s.DI), nil
	case "dRdt":
		return tail(s.DR), nil
	}
	return nil, fmt.Errorf("unknown column %q", name)
}

func tail(xs []float64) []float64 {
	if len(xs) == 0 {
		return xs
	}
	return xs[1:]
}
