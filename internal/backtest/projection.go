// Package backtest implements the C8 backtest evaluators: per-week
// projection calibration and historical opponent-tendency analysis.
package backtest

import (
	"fmt"
	"math"
	"sort"

	"github.com/jstittsworth/ffdecision/internal/alpha"
)

// RealizedWeek is one player's blended projection paired with the
// points they actually scored, plus whether the projection passed the
// as-of snapshot guard.
type RealizedWeek struct {
	PlayerID        string
	Week            int
	Projection      alpha.Projection
	RealizedPoints  float64
	ResolvedAsOfOK  bool // false when the as-of snapshot guard excluded it
}

// ReliabilityBucket is one decile of predicted confidence bucketed
// against its observed hit rate.
type ReliabilityBucket struct {
	ConfidenceLow, ConfidenceHigh float64
	N                             int
	HitRate                       float64
}

// ProjectionBacktestResult is the aggregate calibration report for one
// backtest run.
type ProjectionBacktestResult struct {
	WeeksEvaluated         int
	MAE                    float64
	BrierScore             float64
	Reliability            []ReliabilityBucket
	FutureLeakageExcluded  int
	Warnings               []string
}

// RunProjectionBacktest computes per-week MAE between projection mean
// and realized points, a pseudo-win Brier score, and a confidence
// reliability table — grounded on `run_backtest`'s Brier construction,
// generalized from a single-week lineup comparison to a multi-week,
// per-player MAE/reliability evaluation per SPEC_FULL's as-of guard
// requirement. Any RealizedWeek whose ResolvedAsOfOK is false is
// excluded with a future_leakage_excluded warning rather than used.
func RunProjectionBacktest(weeks []RealizedWeek) ProjectionBacktestResult {
	var warnings []string
	usable := make([]RealizedWeek, 0, len(weeks))
	excluded := 0
	for _, w := range weeks {
		if !w.ResolvedAsOfOK {
			excluded++
			continue
		}
		usable = append(usable, w)
	}
	if excluded > 0 {
		warnings = append(warnings, fmt.Sprintf("future_leakage_excluded: %d projection(s) excluded for requiring future data", excluded))
	}

	if len(usable) == 0 {
		return ProjectionBacktestResult{FutureLeakageExcluded: excluded, Warnings: warnings}
	}

	var absErrSum float64
	var brierSum float64
	for _, w := range usable {
		absErrSum += math.Abs(w.Projection.WeeklyMean - w.RealizedPoints)

		denom := math.Max(1.0, w.Projection.WeeklyMean+w.RealizedPoints)
		pWin := w.Projection.WeeklyMean / denom
		pseudoOutcome := 0.0
		if w.RealizedPoints >= w.Projection.WeeklyMean {
			pseudoOutcome = 1.0
		}
		brierSum += (pWin - pseudoOutcome) * (pWin - pseudoOutcome)
	}

	return ProjectionBacktestResult{
		WeeksEvaluated:        len(usable),
		MAE:                   absErrSum / float64(len(usable)),
		BrierScore:            brierSum / float64(len(usable)),
		Reliability:           reliabilityTable(usable),
		FutureLeakageExcluded: excluded,
		Warnings:              warnings,
	}
}

// reliabilityTable buckets projections into confidence deciles and
// reports the fraction of each bucket whose realized points fell
// within the projection's confidence band — the model's calibration
// check: a well-calibrated decile's hit rate should track its
// confidence.
func reliabilityTable(weeks []RealizedWeek) []ReliabilityBucket {
	sorted := append([]RealizedWeek{}, weeks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Projection.Confidence < sorted[j].Projection.Confidence })

	const deciles = 10
	n := len(sorted)
	buckets := make([]ReliabilityBucket, 0, deciles)

	for d := 0; d < deciles; d++ {
		start := d * n / deciles
		end := (d + 1) * n / deciles
		if start >= end {
			continue
		}
		slice := sorted[start:end]

		var hits int
		var lowConf, highConf float64
		for i, w := range slice {
			band := w.Projection.Band()
			if w.RealizedPoints >= band.Low && w.RealizedPoints <= band.High {
				hits++
			}
			if i == 0 {
				lowConf = w.Projection.Confidence
			}
			highConf = w.Projection.Confidence
		}

		buckets = append(buckets, ReliabilityBucket{
			ConfidenceLow:  lowConf,
			ConfidenceHigh: highConf,
			N:              len(slice),
			HitRate:        float64(hits) / float64(len(slice)),
		})
	}

	return buckets
}
