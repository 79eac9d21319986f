package sim_test

import (
	"context"
	"errors"
	"math"

	"github.com/MBP16/SIR-Modeling/internal/integrators"
	"github.com/MBP16/SIR-Modeling/internal/models"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
	"github.com/cockroachdb/apd/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newFloatEngine(p sim.Params) (*sim.Engine[float64], error) {
	b := numeric.NewFloat()
	dyn, err := models.NewSIR[float64](b, p.Lambda, p.Gamma)
	if err != nil {
		return nil, err
	}
	return sim.New[float64](b, p, dyn, integrators.NewEuler[float64](b))
}

func newDecimalEngine(p sim.Params) (*sim.Engine[*apd.Decimal], error) {
	p.Mode = numeric.DecimalMode
	b := numeric.NewDecimal(p.DecimalDigits)
	dyn, err := models.NewSIR[*apd.Decimal](b, p.Lambda, p.Gamma)
	if err != nil {
		return nil, err
	}
	return sim.New[*apd.Decimal](b, p, dyn, integrators.NewEuler[*apd.Decimal](b))
}

func runFloat(p sim.Params) *sim.Result[float64] {
	eng, err := newFloatEngine(p)
	Expect(err).NotTo(HaveOccurred())
	res, err := eng.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("Engine", func() {
	var p sim.Params

	BeforeEach(func() {
		p = sim.DefaultParams()
	})

	Describe("construction", func() {
		It("rejects invalid parameters before any step", func() {
			p.Dt = 0
			_, err := newFloatEngine(p)
			Expect(errors.Is(err, sim.ErrInvalidParameter)).To(BeTrue())

			var pe *sim.ParamError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Name).To(Equal("dt"))
		})

		It("rejects dynamics whose rates differ from the parameters", func() {
			b := numeric.NewFloat()
			dyn, err := models.NewSIR[float64](b, 0.06, p.Gamma)
			Expect(err).NotTo(HaveOccurred())

			_, err = sim.New[float64](b, p, dyn, integrators.NewEuler[float64](b))
			var pe *sim.ParamError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Name).To(Equal("lambda"))

			dyn, err = models.NewSIR[float64](b, p.Lambda, 0.25)
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.New[float64](b, p, dyn, integrators.NewEuler[float64](b))
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Name).To(Equal("gamma"))
		})

		It("rejects a backend that does not match the precision mode", func() {
			p.Mode = numeric.DecimalMode
			_, err := newFloatEngine(p)
			Expect(err).To(MatchError(sim.ErrInvalidParameter))
		})
	})

	Describe("first step", func() {
		It("reproduces the reference values", func() {
			p.EndTime = 0.1
			res := runFloat(p)
			h := res.History

			Expect(h.Len()).To(Equal(2))
			_, ok := h.Derivative(0)
			Expect(ok).To(BeFalse())

			d, ok := h.Derivative(1)
			Expect(ok).To(BeTrue())
			Expect(d.DS).To(BeNumerically("~", -8.97, 1e-9))
			Expect(d.DI).To(BeNumerically("~", 8.47, 1e-9))
			Expect(d.DR).To(BeNumerically("~", 0.5, 1e-9))

			x := h.State(1)
			Expect(x.T).To(BeNumerically("~", 0.1, 1e-12))
			Expect(x.S).To(BeNumerically("~", 298.103, 1e-9))
			Expect(x.I).To(BeNumerically("~", 1.847, 1e-9))
			Expect(x.R).To(BeNumerically("~", 0.05, 1e-9))
		})
	})

	Describe("fixed horizon", func() {
		It("stops after 200 steps for end 20 and dt 0.1", func() {
			res := runFloat(p)
			Expect(res.Reason).To(Equal(sim.ReasonHorizon))
			Expect(res.Steps).To(Equal(200))
			Expect(res.History.Len()).To(Equal(201))
			Expect(res.History.Last().T).To(BeNumerically(">=", 20.0))
		})

		It("stops when dt does not divide the horizon", func() {
			p.Dt = 0.15
			res := runFloat(p)
			Expect(res.Reason).To(Equal(sim.ReasonHorizon))
			Expect(res.Steps).To(Equal(134))
			last := res.History.Last().T
			Expect(last).To(BeNumerically(">=", 20.0))
			Expect(last - p.Dt).To(BeNumerically("<", 20.0))
		})

		It("takes a single step when the horizon is already behind t0", func() {
			p.T0 = 30
			res := runFloat(p)
			Expect(res.Steps).To(Equal(1))
		})

		It("honours convergence first when converge early is set", func() {
			p.EndTime = 1000
			p.ConvergeEarly = true
			res := runFloat(p)
			Expect(res.Reason).To(Equal(sim.ReasonConverged))
			Expect(res.History.Last().T).To(BeNumerically("<", 1000.0))
		})
	})

	Describe("convergence", func() {
		BeforeEach(func() {
			p.EndTime = 0
			p.Dt = 0.01
		})

		It("runs until R reaches the population minus epsilon", func() {
			res := runFloat(p)
			Expect(res.Reason).To(Equal(sim.ReasonConverged))
			Expect(res.History.Last().R).To(BeNumerically(">=", p.Total()-p.Tolerance))

			for k := 1; k < res.History.Len(); k++ {
				prev, cur := res.History.State(k-1), res.History.State(k)
				Expect(cur.R).To(BeNumerically(">=", prev.R), "R decreased at step %d", k)
				Expect(cur.S).To(BeNumerically("<=", prev.S), "S increased at step %d", k)
			}
		})

		It("stops no later than the first state that satisfies the rule", func() {
			res := runFloat(p)
			threshold := p.Total() - p.Tolerance
			for k := 0; k < res.History.Len()-1; k++ {
				Expect(res.History.State(k).R).To(BeNumerically("<", threshold))
			}
		})

		It("stops sooner with the looser 1e-4 tolerance", func() {
			strict := runFloat(p)
			p.Tolerance = 1e-4
			loose := runFloat(p)
			Expect(loose.Steps).To(BeNumerically("<", strict.Steps))
		})

		It("converges without transmission once nobody is susceptible", func() {
			p.Lambda = 0
			p.S0 = 0
			res := runFloat(p)
			Expect(res.Reason).To(Equal(sim.ReasonConverged))
		})
	})

	Describe("conservation", func() {
		It("keeps S+I+R within rounding of the initial total on floats", func() {
			p.EndTime = 0
			res := runFloat(p)
			for _, x := range res.History.All() {
				Expect(x.S + x.I + x.R).To(BeNumerically("~", 300.0, 1e-9))
			}
			for k := 1; k < res.History.Len(); k++ {
				d, _ := res.History.Derivative(k)
				Expect(d.DS + d.DI + d.DR).To(BeNumerically("~", 0.0, 1e-9))
			}
		})

		It("keeps S+I+R exact on decimals while the context holds every digit", func() {
			p.EndTime = 0.5
			p.DecimalDigits = 200
			eng, err := newDecimalEngine(p)
			Expect(err).NotTo(HaveOccurred())
			res, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(5))

			b := eng.Backend()
			zero, _ := b.Parse("0")
			for k, x := range res.History.All() {
				sum := b.Add(b.Add(x.S, x.I), x.R)
				Expect(b.Cmp(sum, eng.Total())).To(Equal(0), "total drifted at step %d: %s", k, sum)
				if d, ok := res.History.Derivative(k); ok {
					Expect(b.Cmp(b.Add(b.Add(d.DS, d.DI), d.DR), zero)).To(Equal(0))
				}
			}
		})

		It("bounds decimal drift by the context precision", func() {
			p.EndTime = 2
			eng, err := newDecimalEngine(p)
			Expect(err).NotTo(HaveOccurred())
			res, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(20))

			b := eng.Backend()
			for _, x := range res.History.All() {
				drift := b.Float64(b.Sub(b.Add(b.Add(x.S, x.I), x.R), eng.Total()))
				Expect(math.Abs(drift)).To(BeNumerically("<", 1e-20))
			}
		})
	})

	Describe("precision modes", func() {
		It("agree for short runs with exact decimal parameters", func() {
			p.Dt = 0.125
			p.EndTime = 2.5
			fr := runFloat(p)

			eng, err := newDecimalEngine(p)
			Expect(err).NotTo(HaveOccurred())
			dr, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(fr.Steps).To(Equal(20))
			Expect(dr.History.Len()).To(Equal(fr.History.Len()))
			fs, ds := fr.History.Series(), dr.History.Series()
			for k := range fs.T {
				Expect(ds.S[k]).To(BeNumerically("~", fs.S[k], 1e-9))
				Expect(ds.I[k]).To(BeNumerically("~", fs.I[k], 1e-9))
				Expect(ds.R[k]).To(BeNumerically("~", fs.R[k], 1e-9))
			}
		})

		It("reports exact first-step decimals", func() {
			p.EndTime = 0.1
			eng, err := newDecimalEngine(p)
			Expect(err).NotTo(HaveOccurred())
			res, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			row := res.History.Row(1)
			Expect(row.S).To(Equal("298.103"))
			Expect(row.I).To(Equal("1.847"))
			Expect(row.DS).To(Equal("-8.97"))
			Expect(res.History.Row(0).HasDerivative).To(BeFalse())
		})
	})

	Describe("iteration ceiling", func() {
		It("fails with DidNotConverge when nothing can recover", func() {
			p.Lambda = 0
			p.I0 = 0
			p.EndTime = 0
			p.MaxSteps = 500

			eng, err := newFloatEngine(p)
			Expect(err).NotTo(HaveOccurred())
			res, err := eng.Run(context.Background())
			Expect(errors.Is(err, sim.ErrDidNotConverge)).To(BeTrue())

			var se *sim.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(500))
			Expect(res.History.Len()).To(Equal(501))
			Expect(res.Reason).To(Equal(sim.ReasonNone))
		})

		It("also bounds fixed-horizon runs", func() {
			p.MaxSteps = 10
			eng, err := newFloatEngine(p)
			Expect(err).NotTo(HaveOccurred())
			_, err = eng.Run(context.Background())
			Expect(err).To(MatchError(sim.ErrDidNotConverge))
		})
	})

	Describe("negative compartments", func() {
		It("are reproduced without error for a coarse step", func() {
			p.Dt = 0.5
			p.EndTime = 5
			res := runFloat(p)
			Expect(res.Steps).To(Equal(10))

			negative := false
			for _, x := range res.History.All() {
				if x.S < 0 || x.I < 0 {
					negative = true
				}
			}
			Expect(negative).To(BeTrue())
		})
	})

	Describe("cancellation", func() {
		It("stops with the context error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			eng, err := newFloatEngine(p)
			Expect(err).NotTo(HaveOccurred())
			res, err := eng.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.History.Len()).To(Equal(1))
		})
	})

	Describe("independence", func() {
		It("runs engines concurrently without sharing history", func() {
			var engines []*sim.Engine[float64]
			for _, dt := range []float64{0.1, 0.05, 0.01} {
				q := p
				q.Dt = dt
				eng, err := newFloatEngine(q)
				Expect(err).NotTo(HaveOccurred())
				engines = append(engines, eng)
			}

			results, errs := sim.NewEnsemble(engines...).Run(context.Background())
			for _, err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(results[0].Steps).To(Equal(200))
			Expect(results[1].Steps).To(BeNumerically(">=", 400))
			Expect(results[2].Steps).To(BeNumerically(">=", 2000))
			Expect(math.IsNaN(results[2].History.Series().DS[0])).To(BeTrue())
		})

		It("gives identical results for repeated runs of one engine", func() {
			eng, err := newFloatEngine(p)
			Expect(err).NotTo(HaveOccurred())
			a, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			b, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(a.History.States()).To(Equal(b.History.States()))
		})
	})
})
