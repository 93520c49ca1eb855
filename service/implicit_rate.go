package service

import "math"

// ImplicitRateSolution is the outcome of the implicit-rate search.
type ImplicitRateSolution struct {
	MonthlyRate float64
	Iterations  int
	Converged   bool
}

// annuityPV is the present value of n end-of-period payments at monthly
// rate r, with its derivative with respect to r.
func annuityPV(payment, r float64, n int) (pv, dpv float64) {
	nf := float64(n)
	if math.Abs(r) < 1e-12 {
		return payment * nf, -payment * nf * (nf + 1) / 2
	}
	v := math.Pow(1+r, -nf)
	pv = payment * (1 - v) / r
	dpv = payment * (nf*math.Pow(1+r, -nf-1)/r - (1-v)/(r*r))
	return pv, dpv
}

// SolveImplicitMonthlyRate finds the monthly rate at which n payments are
// worth fairValue today, by Newton-Raphson. It stops once a step moves the
// rate by less than ImplicitRateTolerance and the payments are worth the fair
// value within ImplicitRatePVTolerance. It never runs more than
// ImplicitRateMaxIterations steps.
func SolveImplicitMonthlyRate(fairValue, payment float64, n int) ImplicitRateSolution {
	r := ImplicitRateInitialGuess
	if fairValue <= 0 || payment <= 0 || n < 1 {
		return ImplicitRateSolution{MonthlyRate: r}
	}

	for i := 1; i <= ImplicitRateMaxIterations; i++ {
		pv, dpv := annuityPV(payment, r, n)
		if dpv == 0 || math.IsNaN(dpv) || math.IsInf(dpv, 0) {
			return ImplicitRateSolution{MonthlyRate: r, Iterations: i}
		}

		next := r - (pv-fairValue)/dpv
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return ImplicitRateSolution{MonthlyRate: r, Iterations: i}
		}

		if math.Abs(next-r) < ImplicitRateTolerance {
			// los plazos largos amplifican el error residual en valor presente
			if check, _ := annuityPV(payment, next, n); math.Abs(check-fairValue) <= ImplicitRatePVTolerance {
				return ImplicitRateSolution{MonthlyRate: next, Iterations: i, Converged: true}
			}
		}
		r = next
	}

	return ImplicitRateSolution{MonthlyRate: r, Iterations: ImplicitRateMaxIterations}
}
