package rf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// stumpOnHour is a single-node-split tree: hour <= 12 goes to a leaf with 25%
// positives, otherwise 75%.
func stumpOnHour() Tree {
	return Tree{
		Feature:   []int{1, -2, -2},
		Threshold: []float64{12, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value:     [][]float64{nil, {3, 1}, {1, 3}},
	}
}

func testArtifact(trees ...Tree) Artifact {
	return Artifact{
		Version:  1,
		Features: scheduler.FeatureNames,
		Trees:    trees,
	}
}

func marshalArtifact(t *testing.T, a Artifact) []byte {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	return data
}

func TestParseAndScoreStump(t *testing.T) {
	model, err := Parse(marshalArtifact(t, testArtifact(stumpOnHour())))
	require.NoError(t, err)
	assert.Equal(t, 1, model.TreeCount())

	morning, err := model.Score(scheduler.FeatureVector{Hour: 9})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, morning, 1e-9)

	afternoon, err := model.Score(scheduler.FeatureVector{Hour: 16})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, afternoon, 1e-9)
}

func TestScoreAveragesTrees(t *testing.T) {
	// Second tree always predicts 50%.
	constant := Tree{
		Feature:   []int{-2},
		Threshold: []float64{0},
		Left:      []int{-1},
		Right:     []int{-1},
		Value:     [][]float64{{2, 2}},
	}

	model, err := Parse(marshalArtifact(t, testArtifact(stumpOnHour(), constant)))
	require.NoError(t, err)

	score, err := model.Score(scheduler.FeatureVector{Hour: 9})
	require.NoError(t, err)
	assert.InDelta(t, (0.25+0.5)/2, score, 1e-9)
}

func TestScoreIsDeterministic(t *testing.T) {
	model, err := Parse(marshalArtifact(t, testArtifact(stumpOnHour())))
	require.NoError(t, err)

	fv := scheduler.FeatureVector{Weekday: 2, Hour: 11, PriorityNumeric: 4, Age: 28}
	first, err := model.Score(fv)
	require.NoError(t, err)
	second, err := model.Score(fv)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseRejectsFeatureMismatch(t *testing.T) {
	a := testArtifact(stumpOnHour())
	a.Features = []string{"hour", "weekday"}

	_, err := Parse(marshalArtifact(t, a))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature order")
}

func TestParseRejectsEmptyForest(t *testing.T) {
	_, err := Parse(marshalArtifact(t, testArtifact()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trees")
}

func TestParseRejectsMalformedTree(t *testing.T) {
	broken := stumpOnHour()
	broken.Threshold = broken.Threshold[:1]

	_, err := Parse(marshalArtifact(t, testArtifact(broken)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tree 0")
}

func TestParseRejectsBadJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.json")
	require.NoError(t, os.WriteFile(path, marshalArtifact(t, testArtifact(stumpOnHour())), 0644))

	model, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, model.TreeCount())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
