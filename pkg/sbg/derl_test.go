package sbg

import (
	"math"
	"testing"

	"ltv-sbg/pkg/models"
)

func TestDERL_ReferenceValues(t *testing.T) {
	cases := []struct {
		alpha, beta, discount float64
		period                int
		want                  float64
	}{
		{0.668, 3.806, 0.1, 1, 5.414856048369182},
		{0.7, 1.4, 0.1, 1, 3.2800361913999216},
		{1, 1, 0.1, 1, 1.8014532800843202},
		{0.668, 3.806, 0.1, 3, 6.2942606167873185},
	}
	for _, c := range cases {
		got, err := DERL(c.alpha, c.beta, c.discount, c.period)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", c, err)
		}
		if math.Abs(got-c.want) > 1e-6*c.want {
			t.Fatalf("DERL(%g, %g, %g, %d) = %.9f, want %.9f", c.alpha, c.beta, c.discount, c.period, got, c.want)
		}
	}
}

func TestDERL_MatchesDiscountedSurvivalSeries(t *testing.T) {
	// For a just-acquired customer, DERL = sum over t>=2 of S(t) z^(t-2)
	// (0-indexed curve: survival at slice index u is S after u renewal
	// opportunities), with z = 1/(1+d). The closed form and the truncated
	// series must agree.
	for _, p := range [][2]float64{{0.668, 3.806}, {0.7, 1.4}, {2, 5}} {
		alpha, beta := p[0], p[1]
		const horizon = 2000
		rc, err := ComputeRetention(alpha, beta, horizon)
		if err != nil {
			t.Fatalf("retention: %v", err)
		}
		d := 0.1
		z := 1 / (1 + d)
		series := 0.0
		w := 1.0
		for u := 1; u < horizon; u++ {
			series += rc.Survival[u] * w
			w *= z
		}
		closed, err := DERL(alpha, beta, d, 1)
		if err != nil {
			t.Fatalf("derl: %v", err)
		}
		if math.Abs(closed-series) > 1e-6 {
			t.Fatalf("(%g, %g): closed form %.9f vs series %.9f", alpha, beta, closed, series)
		}
	}
}

func TestDERL_DecreasesWithDiscount(t *testing.T) {
	prev := math.Inf(1)
	for _, d := range []float64{0.05, 0.1, 0.2, 0.5, 1} {
		v, err := DERL(0.668, 3.806, d, 1)
		if err != nil {
			t.Fatalf("unexpected error at d=%g: %v", d, err)
		}
		if v <= 0 || v >= prev {
			t.Fatalf("DERL not decreasing in discount: %g at d=%g (prev %g)", v, d, prev)
		}
		prev = v
	}
}

func TestDERL_RejectsInvalid(t *testing.T) {
	if _, err := DERL(0, 1, 0.1, 1); err == nil {
		t.Fatal("expected error for alpha=0, got nil")
	}
	if _, err := DERL(1, 1, 0, 1); err == nil {
		t.Fatal("expected error for zero discount, got nil")
	}
	if _, err := DERL(1, 1, 0.1, 0); err == nil {
		t.Fatal("expected error for period=0, got nil")
	}
}

func TestSummarize(t *testing.T) {
	values := make([]float64, 0, 999)
	for i := 1; i <= 999; i++ {
		values = append(values, float64(i))
	}
	s, err := Summarize(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Median < 499 || s.Median > 501 {
		t.Fatalf("median %g not near 500", s.Median)
	}
	if s.Lower > s.Median || s.Median > s.Upper {
		t.Fatalf("quantiles out of order: %+v", s)
	}
	if s.Lower > 30 || s.Upper < 970 {
		t.Fatalf("interval too narrow: %+v", s)
	}
	if _, err := Summarize(nil); err == nil {
		t.Fatal("expected error for empty sample, got nil")
	}
}

func TestProjectLifetimeValue(t *testing.T) {
	// A trace of identical samples has a degenerate LTV distribution
	trace := make([]models.PosteriorSample, 50)
	for i := range trace {
		trace[i] = models.PosteriorSample{Alpha: 0.668, Beta: 3.806}
	}
	sum, err := ProjectLifetimeValue(trace, 0.1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 10 * 5.414856048369182
	if math.Abs(sum.Median-want) > 1e-6 {
		t.Fatalf("median %g, want %g", sum.Median, want)
	}
	if math.Abs(sum.Lower-want) > 1e-6 || math.Abs(sum.Upper-want) > 1e-6 {
		t.Fatalf("degenerate trace should collapse the interval: %+v", sum)
	}

	if _, err := ProjectLifetimeValue(nil, 0.1, 10); err == nil {
		t.Fatal("expected error for empty trace, got nil")
	}
}
