package sbg

import "fmt"

// RetentionCurve holds the per-period churn and survival probabilities implied
// by (alpha, beta). Both slices are 0-indexed over observation periods:
// index 0 is the sentinel first period (no churn opportunity yet), so
// Churn[0] = 0 and Survival[0] = 1. Churn[t] is the probability mass of
// churning exactly at period t+1, Survival[t] the probability of still being
// active at period t+1.
type RetentionCurve struct {
	Churn    []float64
	Survival []float64
}

// Periods returns the curve length.
func (rc RetentionCurve) Periods() int { return len(rc.Churn) }

// ComputeRetention evaluates the sBG churn/survival recursion of
// Fader & Hardie (2007) for the given heterogeneity parameters:
//
//	P(T=1) = alpha / (alpha + beta)
//	P(T=t) = ((beta + t - 2) / (alpha + beta + t - 1)) * P(T=t-1)
//	S(t)   = S(t-1) - P(T=t)
//
// where T counts renewal opportunities; the first observed period offers none,
// so P(T=u) lands at slice index u.
func ComputeRetention(alpha, beta float64, periods int) (RetentionCurve, error) {
	if alpha <= 0 || beta <= 0 {
		return RetentionCurve{}, fmt.Errorf("alpha and beta must be positive, got alpha=%g beta=%g", alpha, beta)
	}
	if periods < 2 {
		return RetentionCurve{}, fmt.Errorf("need at least 2 periods, got %d", periods)
	}
	churn := make([]float64, periods)
	surv := make([]float64, periods)
	surv[0] = 1
	churn[1] = alpha / (alpha + beta)
	surv[1] = 1 - churn[1]
	for t := 2; t < periods; t++ {
		// index t carries P(T=t): coefficient (beta+t-2)/(alpha+beta+t-1)
		churn[t] = (beta + float64(t) - 2) / (alpha + beta + float64(t) - 1) * churn[t-1]
		surv[t] = surv[t-1] - churn[t]
	}
	return RetentionCurve{Churn: churn, Survival: surv}, nil
}
