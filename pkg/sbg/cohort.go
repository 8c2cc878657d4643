// Package sbg fits the shifted-Beta-Geometric survival model to aggregate
// cohort persistency counts and projects discounted lifetime value from the
// posterior of its (alpha, beta) heterogeneity parameters.
package sbg

import "fmt"

// Cohort is an observed decay trajectory: Active[t] members still retained at
// period t (0-indexed; Active[0] is the initial cohort size) and the derived
// Lost[t] = Active[t-1] - Active[t] (Lost[0] is unused and left at zero).
type Cohort struct {
	Active []int
	Lost   []int
}

// LostSequence derives the number lost per period from a non-increasing
// active-count sequence. The first element of the output is unused (zero).
func LostSequence(active []int) ([]int, error) {
	if len(active) < 2 {
		return nil, fmt.Errorf("need at least 2 periods, got %d", len(active))
	}
	lost := make([]int, len(active))
	for t, n := range active {
		if n < 0 {
			return nil, fmt.Errorf("active count at period %d is negative (%d)", t+1, n)
		}
		if t == 0 {
			continue
		}
		if n > active[t-1] {
			return nil, fmt.Errorf("active counts must be non-increasing: period %d has %d > %d", t+1, n, active[t-1])
		}
		lost[t] = active[t-1] - n
	}
	return lost, nil
}

// NewCohort validates the active counts and derives the lost-per-period sequence.
func NewCohort(active []int) (Cohort, error) {
	lost, err := LostSequence(active)
	if err != nil {
		return Cohort{}, err
	}
	return Cohort{Active: active, Lost: lost}, nil
}

// Periods returns the number of observed periods.
func (c Cohort) Periods() int { return len(c.Active) }
