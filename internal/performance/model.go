// Package performance implements the player performance model (C1): a
// low-order Gaussian mixture fit to a player's weekly scoring history,
// used to classify the player's current form as cold, normal, or hot and
// to sample realistic weekly outcomes for the Monte Carlo engine.
package performance

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// State is a player's classified scoring form.
type State string

const (
	StateCold   State = "cold"
	StateNormal State = "normal"
	StateHot    State = "hot"
)

// Component is one Gaussian in the mixture.
type Component struct {
	Weight float64
	Mean   float64
	Std    float64
	State  State
}

// Model is a trained mixture for a single player, plus the metadata
// needed to decide cache freshness and current-form classification.
type Model struct {
	PlayerID   string
	Components []Component
	SeasonMean float64
	SeasonStd  float64
	SampleSize int
	TrainedAt  time.Time
}

const emMaxIterations = 100
const emConvergenceTol = 1e-6

// TrainModel fits a Gaussian mixture to a player's weekly scores. The
// component count is min(3, len(scores)/2), floored at 1: with fewer
// than 4 samples there isn't enough signal to separate more than one
// state, so the "mixture" degenerates to the season's mean/std.
func TrainModel(playerID string, scores []float64) (*Model, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("train model for player %s: no scores", playerID)
	}

	k := len(scores) / 2
	if k > 3 {
		k = 3
	}
	if k < 1 {
		k = 1
	}

	seasonMean, seasonVar := stat.MeanVariance(scores, nil)
	seasonStd := math.Sqrt(seasonVar)
	if len(scores) < 2 || math.IsNaN(seasonStd) {
		seasonStd = math.Max(2.0, math.Abs(seasonMean)*0.2)
	}

	var components []Component
	if k == 1 {
		components = []Component{{Weight: 1, Mean: seasonMean, Std: seasonStd, State: StateNormal}}
	} else {
		components = fitEM(scores, k)
	}

	sort.Slice(components, func(i, j int) bool { return components[i].Mean < components[j].Mean })
	labelStates(components)

	return &Model{
		PlayerID:   playerID,
		Components: components,
		SeasonMean: seasonMean,
		SeasonStd:  seasonStd,
		SampleSize: len(scores),
		TrainedAt:  time.Now().UTC(),
	}, nil
}

func labelStates(components []Component) {
	switch len(components) {
	case 1:
		components[0].State = StateNormal
	case 2:
		components[0].State = StateCold
		components[1].State = StateHot
	default:
		components[0].State = StateCold
		components[len(components)-1].State = StateHot
		for i := 1; i < len(components)-1; i++ {
			components[i].State = StateNormal
		}
	}
}

// fitEM runs expectation-maximization for a k-component 1D Gaussian
// mixture. Components are seeded from an even split of the sorted
// scores so the initial means are already spread across the range,
// which keeps the EM loop from collapsing components on small samples.
func fitEM(scores []float64, k int) []Component {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	n := len(sorted)
	components := make([]Component, k)
	chunk := n / k
	for i := 0; i < k; i++ {
		start := i * chunk
		end := start + chunk
		if i == k-1 {
			end = n
		}
		segment := sorted[start:end]
		mean, variance := stat.MeanVariance(segment, nil)
		std := math.Sqrt(variance)
		if len(segment) < 2 || math.IsNaN(std) || std == 0 {
			std = math.Max(1.0, math.Abs(mean)*0.2)
		}
		components[i] = Component{Weight: 1.0 / float64(k), Mean: mean, Std: std}
	}

	resp := make([][]float64, n)
	for i := range resp {
		resp[i] = make([]float64, k)
	}

	prevLogLikelihood := math.Inf(-1)
	for iter := 0; iter < emMaxIterations; iter++ {
		// E-step
		logLikelihood := 0.0
		for i, x := range scores {
			total := 0.0
			for c := range components {
				resp[i][c] = components[c].Weight * gaussianPDF(x, components[c].Mean, components[c].Std)
				total += resp[i][c]
			}
			if total <= 0 {
				total = 1e-12
			}
			for c := range components {
				resp[i][c] /= total
			}
			logLikelihood += math.Log(total)
		}

		// M-step
		for c := range components {
			var sumResp, sumMean float64
			for i, x := range scores {
				sumResp += resp[i][c]
				sumMean += resp[i][c] * x
			}
			if sumResp < 1e-9 {
				continue
			}
			mean := sumMean / sumResp
			var sumVar float64
			for i, x := range scores {
				d := x - mean
				sumVar += resp[i][c] * d * d
			}
			variance := sumVar / sumResp
			std := math.Sqrt(variance)
			if std < 0.5 {
				std = 0.5
			}
			components[c].Mean = mean
			components[c].Std = std
			components[c].Weight = sumResp / float64(n)
		}

		if math.Abs(logLikelihood-prevLogLikelihood) < emConvergenceTol {
			break
		}
		prevLogLikelihood = logLikelihood
	}

	return components
}

func gaussianPDF(x, mean, std float64) float64 {
	if std <= 0 {
		std = 1e-6
	}
	z := (x - mean) / std
	return math.Exp(-0.5*z*z) / (std * math.Sqrt(2*math.Pi))
}

// CurrentState classifies a player's present form by comparing a
// recent-weeks average against the season mean +/- half a standard
// deviation.
func (m *Model) CurrentState(recentAvg float64) State {
	if recentAvg > m.SeasonMean+0.5*m.SeasonStd {
		return StateHot
	}
	if recentAvg < m.SeasonMean-0.5*m.SeasonStd {
		return StateCold
	}
	return StateNormal
}

// Variance returns the mixture's overall variance (law of total
// variance across components), used by callers that need a single
// dispersion figure rather than a full predictive sample.
func (m *Model) Variance() float64 {
	var meanOfMeans float64
	for _, c := range m.Components {
		meanOfMeans += c.Weight * c.Mean
	}
	var variance float64
	for _, c := range m.Components {
		d := c.Mean - meanOfMeans
		variance += c.Weight * (c.Std*c.Std + d*d)
	}
	return variance
}

// Predict draws a single weekly-score sample from the mixture. When
// useStateBias is set, the draw favors components matching the player's
// current state 70% of the time (and the remaining mixture 30% of the
// time) rather than drawing from the raw trained weights — this lets
// simulations lean into a player's hot or cold streak without assuming
// it will persist with certainty. With fewer than 5 historical scores
// the mixture is considered too thin to trust and a plain
// Normal(mean, 0.25*mean) fallback is used instead.
func (m *Model) Predict(rng *rand.Rand, currentState State, useStateBias bool) float64 {
	if m.SampleSize < 5 {
		mean := m.SeasonMean
		std := math.Max(1.0, math.Abs(mean)*0.25)
		return mean + rng.NormFloat64()*std
	}

	comp := m.pickComponent(rng, currentState, useStateBias)
	return comp.Mean + rng.NormFloat64()*comp.Std
}

func (m *Model) pickComponent(rng *rand.Rand, currentState State, useStateBias bool) Component {
	if useStateBias {
		if rng.Float64() < 0.70 {
			var matching []Component
			for _, c := range m.Components {
				if c.State == currentState {
					matching = append(matching, c)
				}
			}
			if len(matching) > 0 {
				return weightedPick(rng, matching)
			}
		}
	}
	return weightedPick(rng, m.Components)
}

func weightedPick(rng *rand.Rand, components []Component) Component {
	total := 0.0
	for _, c := range components {
		total += c.Weight
	}
	if total <= 0 {
		return components[0]
	}
	r := rng.Float64() * total
	cum := 0.0
	for _, c := range components {
		cum += c.Weight
		if r <= cum {
			return c
		}
	}
	return components[len(components)-1]
}

// BulkTrain fits models for every player concurrently, bounded to
// runtime.NumCPU() in flight at once since each fit is independent.
func BulkTrain(playerScores map[string][]float64) map[string]*Model {
	results := make(map[string]*Model, len(playerScores))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for playerID, scores := range playerScores {
		if len(scores) == 0 {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(playerID string, scores []float64) {
			defer wg.Done()
			defer func() { <-sem }()
			model, err := TrainModel(playerID, scores)
			if err != nil {
				return
			}
			mu.Lock()
			results[playerID] = model
			mu.Unlock()
		}(playerID, scores)
	}
	wg.Wait()
	return results
}
