package sbg

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"ltv-sbg/pkg/models"
)

const (
	defaultPriorLow  = 1e-5
	defaultPriorHigh = 1000
	defaultInitStep  = 0.1

	// step adaptation runs during burn-in only, so the retained chain has a
	// fixed transition kernel
	adaptWindow   = 100
	adaptShrink   = 0.9
	adaptGrow     = 1.1
	adaptLowRate  = 0.2
	adaptHighRate = 0.5
	minStep       = 1e-4
	maxStep       = 10
)

// SamplerConfig controls one MCMC run. Zero values for PriorLow, PriorHigh,
// InitAlpha, InitBeta and Step fall back to defaults; Iterations, BurnIn and
// Thin must be set explicitly.
type SamplerConfig struct {
	Iterations int
	BurnIn     int
	Thin       int
	Seed       uint64

	PriorLow  float64 // uniform prior lower bound on both parameters
	PriorHigh float64 // uniform prior upper bound
	InitAlpha float64 // chain start, must lie inside the prior support
	InitBeta  float64
	Step      float64 // initial proposal standard deviation

	// Progress, when set, is called after every iteration.
	Progress func(done, total int)
}

// Sampler is a random-walk Metropolis chain over (alpha, beta). Its state is
// the current position plus the RNG; each Step is one in-place transition.
type Sampler struct {
	cohort Cohort
	cfg    SamplerConfig

	rng   *rand.Rand
	unit  distuv.Normal // standard normal, scaled by step on proposal
	prior distuv.Uniform

	alpha, beta float64
	logPost     float64
	step        float64

	steps        int
	accepted     int
	windowAccept int
}

// NewSampler validates the configuration and positions the chain at its start.
func NewSampler(c Cohort, cfg SamplerConfig) (*Sampler, error) {
	if cfg.PriorLow == 0 {
		cfg.PriorLow = defaultPriorLow
	}
	if cfg.PriorHigh == 0 {
		cfg.PriorHigh = defaultPriorHigh
	}
	if cfg.InitAlpha == 0 {
		cfg.InitAlpha = 1
	}
	if cfg.InitBeta == 0 {
		cfg.InitBeta = 1
	}
	if cfg.Step == 0 {
		cfg.Step = defaultInitStep
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.BurnIn < 0 || cfg.BurnIn >= cfg.Iterations {
		return nil, fmt.Errorf("burn-in must be in [0, iterations), got %d", cfg.BurnIn)
	}
	if cfg.Thin < 1 {
		return nil, fmt.Errorf("thinning interval must be >= 1, got %d", cfg.Thin)
	}
	if cfg.PriorLow <= 0 || cfg.PriorLow >= cfg.PriorHigh {
		return nil, fmt.Errorf("prior bounds must satisfy 0 < low < high, got [%g, %g]", cfg.PriorLow, cfg.PriorHigh)
	}
	if cfg.InitAlpha <= cfg.PriorLow || cfg.InitAlpha >= cfg.PriorHigh ||
		cfg.InitBeta <= cfg.PriorLow || cfg.InitBeta >= cfg.PriorHigh {
		return nil, fmt.Errorf("initial position (%g, %g) outside prior support [%g, %g]",
			cfg.InitAlpha, cfg.InitBeta, cfg.PriorLow, cfg.PriorHigh)
	}

	src := rand.NewSource(cfg.Seed)
	s := &Sampler{
		cohort: c,
		cfg:    cfg,
		rng:    rand.New(src),
		unit:   distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		prior:  distuv.Uniform{Min: cfg.PriorLow, Max: cfg.PriorHigh},
		alpha:  cfg.InitAlpha,
		beta:   cfg.InitBeta,
		step:   cfg.Step,
	}
	s.logPost = s.logPosterior(s.alpha, s.beta)
	if math.IsInf(s.logPost, -1) {
		return nil, fmt.Errorf("initial position (%g, %g) has zero posterior density", cfg.InitAlpha, cfg.InitBeta)
	}
	return s, nil
}

// logPosterior is log prior + log likelihood; -Inf outside the prior support
// or wherever the likelihood is undefined. The likelihood is skipped entirely
// for out-of-support candidates.
func (s *Sampler) logPosterior(alpha, beta float64) float64 {
	lp := s.prior.LogProb(alpha) + s.prior.LogProb(beta)
	if math.IsInf(lp, -1) {
		return math.Inf(-1)
	}
	curve, err := ComputeRetention(alpha, beta, s.cohort.Periods())
	if err != nil {
		return math.Inf(-1)
	}
	ll, err := LogLikelihood(s.cohort, curve)
	if err != nil {
		return math.Inf(-1)
	}
	return lp + ll
}

// Step performs one Metropolis transition and reports whether the proposal
// was accepted.
func (s *Sampler) Step() bool {
	na := s.alpha + s.unit.Rand()*s.step
	nb := s.beta + s.unit.Rand()*s.step
	s.steps++
	lp := s.logPosterior(na, nb)
	if !math.IsInf(lp, -1) {
		if delta := lp - s.logPost; delta >= 0 || math.Log(s.rng.Float64()) < delta {
			s.alpha, s.beta, s.logPost = na, nb, lp
			s.accepted++
			s.windowAccept++
			return true
		}
	}
	return false
}

// adapt retunes the proposal scale from the last window's acceptance rate.
// Called only while the chain is still in burn-in.
func (s *Sampler) adapt() {
	rate := float64(s.windowAccept) / float64(adaptWindow)
	if rate < adaptLowRate {
		s.step = math.Max(minStep, s.step*adaptShrink)
	} else if rate > adaptHighRate {
		s.step = math.Min(maxStep, s.step*adaptGrow)
	}
	s.windowAccept = 0
}

// Run drives the full chain: BurnIn iterations are discarded, then every
// Thin-th position is retained. The returned trace is owned by the caller.
func (s *Sampler) Run() ([]models.PosteriorSample, error) {
	cfg := s.cfg
	trace := make([]models.PosteriorSample, 0, (cfg.Iterations-cfg.BurnIn)/cfg.Thin+1)
	for i := 1; i <= cfg.Iterations; i++ {
		s.Step()
		if i <= cfg.BurnIn && i%adaptWindow == 0 {
			s.adapt()
		}
		if i > cfg.BurnIn && (i-cfg.BurnIn)%cfg.Thin == 0 {
			trace = append(trace, models.PosteriorSample{Alpha: s.alpha, Beta: s.beta})
		}
		if cfg.Progress != nil {
			cfg.Progress(i, cfg.Iterations)
		}
	}
	return trace, nil
}

// AcceptanceRate is the fraction of accepted proposals since the chain started.
// Rates outside roughly 10%-70% usually indicate a poorly tuned or poorly
// mixing chain; diagnosing that is the caller's responsibility.
func (s *Sampler) AcceptanceRate() float64 {
	if s.steps == 0 {
		return 0
	}
	return float64(s.accepted) / float64(s.steps)
}
