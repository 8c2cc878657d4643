package sbg

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ltv-sbg/pkg/models"
)

// DERL is the discounted expected residual lifetime of a customer standing at
// the start of contract period `period` (1 for a just-acquired customer),
// per Fader & Hardie (2010):
//
//	DERL = (beta+n-1)/(alpha+beta+n-1) * 2F1(1, beta+n; alpha+beta+n; 1/(1+d))
//
// The discount rate must be strictly positive; at d=0 the defining series
// diverges for alpha <= 1.
func DERL(alpha, beta, discount float64, period int) (float64, error) {
	if alpha <= 0 || beta <= 0 {
		return 0, fmt.Errorf("alpha and beta must be positive, got alpha=%g beta=%g", alpha, beta)
	}
	if discount <= 0 {
		return 0, fmt.Errorf("discount rate must be positive, got %g", discount)
	}
	if period < 1 {
		return 0, fmt.Errorf("contract period must be >= 1, got %d", period)
	}
	n := float64(period)
	z := 1 / (1 + discount)
	return (beta + n - 1) / (alpha + beta + n - 1) * hyp2f1(1, beta+n, alpha+beta+n, z), nil
}

// hyp2f1 evaluates the Gauss hypergeometric function 2F1(a, b; c; z) by its
// defining series. For the DERL arguments (a, b, c > 0 and 0 < z < 1) every
// term is positive and the series converges geometrically at rate z, so the
// straight summation is numerically stable.
func hyp2f1(a, b, c, z float64) float64 {
	const epsilon = 1e-14
	sum, term := 1.0, 1.0
	for k := 0.0; k < 100000; k++ {
		term *= (a + k) * (b + k) / ((c + k) * (1 + k)) * z
		sum += term
		if math.Abs(term) < epsilon*math.Abs(sum) {
			break
		}
	}
	return sum
}

// Summarize reduces a sampled distribution to its median and central 95%
// credible interval.
func Summarize(values []float64) (models.Summary, error) {
	if len(values) == 0 {
		return models.Summary{}, fmt.Errorf("cannot summarize an empty sample")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return models.Summary{
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Lower:  stat.Quantile(0.025, stat.Empirical, sorted, nil),
		Upper:  stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}, nil
}

// ProjectLifetimeValue maps every posterior sample to a monetary lifetime
// value (valuePerPeriod * DERL at period 1) and summarizes the resulting
// distribution.
func ProjectLifetimeValue(trace []models.PosteriorSample, discount, valuePerPeriod float64) (models.Summary, error) {
	if len(trace) == 0 {
		return models.Summary{}, fmt.Errorf("empty posterior trace")
	}
	ltvs := make([]float64, len(trace))
	for i, s := range trace {
		d, err := DERL(s.Alpha, s.Beta, discount, 1)
		if err != nil {
			return models.Summary{}, fmt.Errorf("sample %d: %w", i, err)
		}
		ltvs[i] = valuePerPeriod * d
	}
	sum, err := Summarize(ltvs)
	if err != nil {
		return models.Summary{}, err
	}
	if math.IsNaN(sum.Median) {
		return models.Summary{}, fmt.Errorf("lifetime value projection produced NaN")
	}
	return sum, nil
}
