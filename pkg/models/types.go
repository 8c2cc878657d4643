package models

/*
SAMPLE → posterior draws and their summaries.
*/

// PosteriorSample is one retained (alpha, beta) draw from the MCMC trace.
type PosteriorSample struct {
	Alpha float64
	Beta  float64
}

// Summary describes a sampled distribution by its median and 95% credible interval.
type Summary struct {
	Median float64
	Lower  float64 // 2.5% quantile
	Upper  float64 // 97.5% quantile
}

/*
CONFIG → global parameters.
*/

// Config holds the configuration passed to the run function.
type Config struct {
	Active      []int  // "still active" counts per period; empty means load from DB
	CohortMonth string // "MMYYYY", cohort month for DB loading
	Periods     int    // number of observed periods for DB loading

	Iterations int     // total MCMC iterations
	BurnIn     int     // iterations discarded before retaining samples
	Thin       int     // keep every Thin-th post-burn-in iteration
	Seed       uint64  // RNG seed; a fixed seed reproduces the trace exactly
	PriorLow   float64 // lower bound of the uniform prior on alpha and beta
	PriorHigh  float64 // upper bound of the uniform prior

	DiscountRate   float64 // per-period discount rate for DERL (ex: 0.1)
	ValuePerPeriod float64 // monetary value of one retained period (ex: 10)

	Verbose bool // detailed [INFO] logging
}

/*
COMPUTE → result structure exported per run.
*/

// Result contains the posterior and lifetime-value summaries of one run.
type Result struct {
	Alpha          Summary           // posterior of alpha
	Beta           Summary           // posterior of beta
	LTV            Summary           // posterior of the discounted lifetime value
	AcceptanceRate float64           // fraction of accepted proposals over the whole chain
	Trace          []PosteriorSample // retained samples, in chain order
}
