package sbg

import (
	"fmt"
	"math"
)

// LogLikelihood scores the observed cohort decay under the sBG model:
// every member lost at period t contributes log P(T=t), every member still
// active at the final period contributes log S(N) (right-censored).
//
// Returns -Inf when a probability required by a positive count is <= 0 or
// NaN; the sampler treats that as a rejected parameter region, not an error.
// An error is returned only for a cohort/curve length mismatch.
func LogLikelihood(c Cohort, rc RetentionCurve) (float64, error) {
	n := c.Periods()
	if rc.Periods() != n {
		return 0, fmt.Errorf("cohort has %d periods but curve has %d", n, rc.Periods())
	}
	ll := 0.0
	for t := 1; t < n; t++ {
		if c.Lost[t] == 0 {
			continue
		}
		p := rc.Churn[t]
		if p <= 0 || math.IsNaN(p) {
			return math.Inf(-1), nil
		}
		ll += float64(c.Lost[t]) * math.Log(p)
	}
	if c.Active[n-1] > 0 {
		s := rc.Survival[n-1]
		if s <= 0 || math.IsNaN(s) {
			return math.Inf(-1), nil
		}
		ll += float64(c.Active[n-1]) * math.Log(s)
	}
	return ll, nil
}
