package sbg

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimulateCohort generates a synthetic decay trajectory from known
// heterogeneity parameters: each of `size` individuals draws a constant churn
// probability theta from Beta(alpha, beta) and then survives each period with
// probability 1-theta. Useful for parameter-recovery experiments.
func SimulateCohort(alpha, beta float64, size, periods int, seed uint64) (Cohort, error) {
	if alpha <= 0 || beta <= 0 {
		return Cohort{}, fmt.Errorf("alpha and beta must be positive, got alpha=%g beta=%g", alpha, beta)
	}
	if size < 1 {
		return Cohort{}, fmt.Errorf("cohort size must be positive, got %d", size)
	}
	if periods < 2 {
		return Cohort{}, fmt.Errorf("need at least 2 periods, got %d", periods)
	}

	src := rand.NewSource(seed)
	rng := rand.New(src)
	hazard := distuv.Beta{Alpha: alpha, Beta: beta, Src: src}

	active := make([]int, periods)
	active[0] = size
	for i := 0; i < size; i++ {
		theta := hazard.Rand()
		for t := 1; t < periods; t++ {
			if rng.Float64() < theta {
				break
			}
			active[t]++
		}
	}
	return NewCohort(active)
}
