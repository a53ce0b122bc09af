package signals

import (
	"context"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/sirupsen/logrus"
)

// Evaluator is the interface Provider, NullProvider and SafeEvaluator
// satisfy, so a caller can swap in NullProvider when no feeds are
// configured without a nil-check at every call site.
type Evaluator interface {
	Evaluate(ctx context.Context, league models.LeagueContext, week int) (Result, error)
}

// NullProvider returns empty results for every evaluation, used when a
// caller wants baseline-only projections with no external signal input.
type NullProvider struct{}

func (NullProvider) Evaluate(ctx context.Context, league models.LeagueContext, week int) (Result, error) {
	return Result{
		PlayerAdjustments: map[string]PlayerAdjustment{},
		InjuryOverrides:   map[string]string{},
		MatchupOverrides:  map[string]float64{},
	}, nil
}

// SafeEvaluator wraps any Evaluator and converts a panic or error into
// an empty result rather than letting a misbehaving signal provider
// take down a simulation run.
type SafeEvaluator struct {
	Inner Evaluator
}

func NewSafeEvaluator(inner Evaluator) *SafeEvaluator {
	return &SafeEvaluator{Inner: inner}
}

func (s *SafeEvaluator) Evaluate(ctx context.Context, league models.LeagueContext, week int) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Warn("signal provider panicked, degrading to empty result")
			result = Result{
				PlayerAdjustments: map[string]PlayerAdjustment{},
				InjuryOverrides:   map[string]string{},
				MatchupOverrides:  map[string]float64{},
			}
			err = nil
		}
	}()
	res, evalErr := s.Inner.Evaluate(ctx, league, week)
	if evalErr != nil {
		logrus.WithError(evalErr).Warn("signal provider failed, degrading to empty result")
		return Result{
			PlayerAdjustments: map[string]PlayerAdjustment{},
			InjuryOverrides:   map[string]string{},
			MatchupOverrides:  map[string]float64{},
		}, nil
	}
	return res, nil
}
