package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/MBP16/SIR-Modeling/internal/experiment"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// Objective scores a finished run; lower is better.
type Objective func(out *experiment.Outcome) float64

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Score  float64
	Err    error
}

var ErrNoCandidate = errors.New("optim: no grid point produced a score")

var setters = map[string]func(*sim.Params, float64){
	"lambda": func(p *sim.Params, v float64) { p.Lambda = v },
	"gamma":  func(p *sim.Params, v float64) { p.Gamma = v },
	"dt":     func(p *sim.Params, v float64) { p.Dt = v },
	"s0":     func(p *sim.Params, v float64) { p.S0 = v },
	"i0":     func(p *sim.Params, v float64) { p.I0 = v },
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for k, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("optim: unknown parameter %q", name)
		}
		if len(ranges[k]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %q", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search evaluates every grid point on top of base, concurrently through
// the experiment's sweep, and returns the best candidate and all of them
// in grid order.
func (g *GridSearch) Search(ctx context.Context, exp *experiment.Experiment, base sim.Params, objective Objective) (Candidate, []Candidate, error) {
	var points []map[string]float64
	g.enumerate(0, make(map[string]float64), &points)

	ps := make([]sim.Params, len(points))
	for k, point := range points {
		ps[k] = base
		for name, v := range point {
			setters[name](&ps[k], v)
		}
	}

	outs, errs := exp.Sweep(ctx, ps)

	all := make([]Candidate, len(points))
	best := Candidate{Score: math.Inf(1)}
	found := false
	for k := range points {
		all[k] = Candidate{Params: points[k], Score: math.NaN(), Err: errs[k]}
		if errs[k] != nil || outs[k] == nil {
			continue
		}
		score := objective(outs[k])
		all[k].Score = score
		if !math.IsNaN(score) && score < best.Score {
			best = all[k]
			found = true
		}
	}

	if err := ctx.Err(); err != nil {
		return best, all, err
	}
	if !found {
		return best, all, ErrNoCandidate
	}
	return best, all, nil
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, paramName)
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// PeakObjective scores the distance of the run's infected peak from target.
func PeakObjective(target float64) Objective {
	return func(out *experiment.Outcome) float64 {
		return math.Abs(out.Summary.PeakInfected - target)
	}
}

// SeriesObjective scores the root-mean-square difference of I against an
// observed trajectory, entry by entry over the shared prefix.
func SeriesObjective(observed sim.Trajectory) Objective {
	want := observed.Series().I
	return func(out *experiment.Outcome) float64 {
		got := out.Trajectory.Series().I
		n := min(len(got), len(want))
		if n == 0 {
			return math.NaN()
		}
		return floats.Distance(got[:n], want[:n], 2) / math.Sqrt(float64(n))
	}
}
