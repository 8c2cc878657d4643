package calculator

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ltv-sbg/pkg/database"
	"ltv-sbg/pkg/models"
	"ltv-sbg/pkg/sbg"

	"github.com/schollz/progressbar/v3"
)

const tableName = "CustomerEventData"

// Run executes the full pipeline: resolve the active counts (direct input or
// DB load), sample the sBG posterior, and summarize parameters and lifetime
// value. db may be nil when cfg.Active is provided.
func Run(ctx context.Context, db *sql.DB, cfg models.Config) (*models.Result, error) {
	active := cfg.Active
	if len(active) == 0 {
		if db == nil {
			return nil, fmt.Errorf("no active counts given and no database connection")
		}
		start, err := parseMonth(cfg.CohortMonth)
		if err != nil {
			return nil, fmt.Errorf("cohort_month: %w", err)
		}
		active, err = database.LoadActiveCounts(ctx, db, tableName, start, cfg.Periods)
		if err != nil {
			return nil, fmt.Errorf("load cohort %s: %w", formatMonth(start), err)
		}
		if cfg.Verbose {
			log.Printf("[INFO] cohort %s -> active=%v", formatMonth(start), active)
		}
	}

	cohort, err := sbg.NewCohort(active)
	if err != nil {
		return nil, fmt.Errorf("cohort: %w", err)
	}

	bar := progressbar.Default(int64(cfg.Iterations))
	sampler, err := sbg.NewSampler(cohort, sbg.SamplerConfig{
		Iterations: cfg.Iterations,
		BurnIn:     cfg.BurnIn,
		Thin:       cfg.Thin,
		Seed:       cfg.Seed,
		PriorLow:   cfg.PriorLow,
		PriorHigh:  cfg.PriorHigh,
		Progress:   func(done, total int) { _ = bar.Add(1) },
	})
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}

	trace, err := sampler.Run()
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}

	rate := sampler.AcceptanceRate()
	if rate < 0.10 || rate > 0.70 {
		log.Printf("[WARN] acceptance rate %.1f%% outside healthy band (10%%-70%%); inspect the trace before trusting the fit", rate*100)
	}

	alphas := make([]float64, len(trace))
	betas := make([]float64, len(trace))
	for i, s := range trace {
		alphas[i] = s.Alpha
		betas[i] = s.Beta
	}
	alphaSum, err := sbg.Summarize(alphas)
	if err != nil {
		return nil, fmt.Errorf("summarize alpha: %w", err)
	}
	betaSum, err := sbg.Summarize(betas)
	if err != nil {
		return nil, fmt.Errorf("summarize beta: %w", err)
	}
	ltv, err := sbg.ProjectLifetimeValue(trace, cfg.DiscountRate, cfg.ValuePerPeriod)
	if err != nil {
		return nil, fmt.Errorf("lifetime value: %w", err)
	}

	if cfg.Verbose {
		log.Printf("[INFO] samples=%d acceptance=%.1f%% | alpha=%.4f beta=%.4f | ltv=%.4f",
			len(trace), rate*100, alphaSum.Median, betaSum.Median, ltv.Median)
	}

	return &models.Result{
		Alpha:          alphaSum,
		Beta:           betaSum,
		LTV:            ltv,
		AcceptanceRate: rate,
		Trace:          trace,
	}, nil
}

// ParseActiveList parses a comma-separated list of active counts ("1000,869,743").
func ParseActiveList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	active := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid count %q: %w", p, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("count must be non-negative, got %d", n)
		}
		active = append(active, n)
	}
	if len(active) < 2 {
		return nil, fmt.Errorf("need at least 2 counts, got %d", len(active))
	}
	return active, nil
}

// parseMonth("MMYYYY") -> first day of the month, UTC
func parseMonth(mmyyyy string) (time.Time, error) {
	if len(mmyyyy) != 6 {
		return time.Time{}, fmt.Errorf("expected MMYYYY format (ex: 012025)")
	}
	for _, c := range mmyyyy {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("expected MMYYYY format (ex: 012025)")
		}
	}
	month := int(mmyyyy[0]-'0')*10 + int(mmyyyy[1]-'0')
	year := int(mmyyyy[2]-'0')*1000 + int(mmyyyy[3]-'0')*100 + int(mmyyyy[4]-'0')*10 + int(mmyyyy[5]-'0')
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month")
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func formatMonth(t time.Time) string {
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}
