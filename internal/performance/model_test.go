package performance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainModel_ComponentCount(t *testing.T) {
	cases := []struct {
		name       string
		scores     []float64
		wantComps  int
	}{
		{"single score", []float64{10}, 1},
		{"three scores", []float64{10, 12, 8}, 1},
		{"six scores", []float64{10, 12, 8, 20, 22, 18}, 3},
		{"ten scores", []float64{10, 12, 8, 20, 22, 18, 9, 11, 21, 19}, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model, err := TrainModel("p1", tc.scores)
			require.NoError(t, err)
			assert.Len(t, model.Components, tc.wantComps)
		})
	}
}

func TestTrainModel_StatesSortedByMean(t *testing.T) {
	scores := []float64{5, 6, 5.5, 25, 26, 24.5}
	model, err := TrainModel("p1", scores)
	require.NoError(t, err)

	require.Len(t, model.Components, 3)
	for i := 1; i < len(model.Components); i++ {
		assert.LessOrEqual(t, model.Components[i-1].Mean, model.Components[i].Mean)
	}
	assert.Equal(t, StateCold, model.Components[0].State)
	assert.Equal(t, StateHot, model.Components[len(model.Components)-1].State)
}

func TestTrainModel_NoScoresErrors(t *testing.T) {
	_, err := TrainModel("p1", nil)
	assert.Error(t, err)
}

func TestCurrentState(t *testing.T) {
	model := &Model{SeasonMean: 10, SeasonStd: 2}
	assert.Equal(t, StateHot, model.CurrentState(13))
	assert.Equal(t, StateCold, model.CurrentState(7))
	assert.Equal(t, StateNormal, model.CurrentState(10))
}

func TestPredict_ThinSampleFallsBackToNormalApprox(t *testing.T) {
	model := &Model{
		SeasonMean: 10,
		SeasonStd:  3,
		SampleSize: 3,
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		v := model.Predict(rng, StateNormal, true)
		assert.True(t, v > -50 && v < 70, "sample should be in a sane range, got %f", v)
	}
}

func TestPredict_StateBiasFavorsMatchingComponent(t *testing.T) {
	model := &Model{
		SampleSize: 50,
		Components: []Component{
			{Weight: 0.5, Mean: 5, Std: 1, State: StateCold},
			{Weight: 0.5, Mean: 25, Std: 1, State: StateHot},
		},
	}
	rng := rand.New(rand.NewSource(7))
	var hotCount int
	const trials = 2000
	for i := 0; i < trials; i++ {
		v := model.Predict(rng, StateHot, true)
		if v > 15 {
			hotCount++
		}
	}
	// Biased draws favor the hot component ~70% of the time plus half of
	// the remaining 30% unbiased draws, so we expect well above 50%.
	assert.Greater(t, hotCount, trials/2)
}

func TestBulkTrain_SkipsEmptyAndReturnsAllNonEmpty(t *testing.T) {
	input := map[string][]float64{
		"a": {10, 11, 12, 13, 14, 15},
		"b": {},
		"c": {7},
	}
	results := BulkTrain(input)
	assert.Len(t, results, 2)
	assert.Contains(t, results, "a")
	assert.Contains(t, results, "c")
	assert.NotContains(t, results, "b")
}
