// Package rf evaluates a pre-trained random-forest classifier exported as a
// JSON artifact. Only inference lives here; training and calibration happen
// offline and the resulting artifact is treated as opaque input.
package rf

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// Tree is one decision tree in the flattened array layout the export script
// produces: node i tests Feature[i] <= Threshold[i] and descends to Left[i]
// or Right[i]; Left[i] == -1 marks a leaf whose Value[i] holds the class
// counts [negative, positive].
type Tree struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Value     [][]float64 `json:"value"`
}

// Artifact is the on-disk shape of an exported forest.
type Artifact struct {
	Version  int      `json:"version"`
	Features []string `json:"features"`
	Trees    []Tree   `json:"trees"`
}

// Model scores feature vectors by averaging the positive-class probability
// across all trees.
type Model struct {
	trees    []Tree
	features []string
}

// Load reads and validates a forest artifact from disk. The artifact's
// declared feature order must match the engine's feature vector exactly; a
// mismatch means the model was trained against a different input shape and
// every score it produced would be garbage.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return Parse(data)
}

// Parse builds a Model from raw artifact bytes.
func Parse(data []byte) (*Model, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if !slices.Equal(artifact.Features, scheduler.FeatureNames) {
		return nil, fmt.Errorf(
			"model artifact feature order %v does not match expected %v",
			artifact.Features, scheduler.FeatureNames,
		)
	}
	if len(artifact.Trees) == 0 {
		return nil, fmt.Errorf("model artifact contains no trees")
	}

	for i, tree := range artifact.Trees {
		if err := validateTree(tree, len(artifact.Features)); err != nil {
			return nil, fmt.Errorf("invalid tree %d: %w", i, err)
		}
	}

	return &Model{trees: artifact.Trees, features: artifact.Features}, nil
}

func validateTree(t Tree, featureCount int) error {
	n := len(t.Feature)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return fmt.Errorf("node array lengths disagree")
	}
	for i := 0; i < n; i++ {
		if t.Left[i] == -1 {
			if len(t.Value[i]) != 2 {
				return fmt.Errorf("leaf %d: want two class counts, got %d", i, len(t.Value[i]))
			}
			continue
		}
		if t.Feature[i] < 0 || t.Feature[i] >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, t.Feature[i])
		}
		if t.Left[i] < 0 || t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// TreeCount returns the number of trees in the forest.
func (m *Model) TreeCount() int {
	return len(m.trees)
}

// Score implements scheduler.Scorer: the mean positive-class probability over
// all trees for the given feature vector.
func (m *Model) Score(fv scheduler.FeatureVector) (float64, error) {
	x := fv.Values()
	sum := 0.0
	for i := range m.trees {
		p, err := m.trees[i].predict(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += p
	}
	return sum / float64(len(m.trees)), nil
}

// predict walks the tree to a leaf and returns its positive-class fraction.
func (t Tree) predict(x []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Feature); steps++ {
		if t.Left[node] == -1 {
			neg, pos := t.Value[node][0], t.Value[node][1]
			total := neg + pos
			if total <= 0 {
				return 0, fmt.Errorf("leaf %d has no samples", node)
			}
			return pos / total, nil
		}
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return 0, fmt.Errorf("traversal exceeded node count, tree is cyclic")
}
