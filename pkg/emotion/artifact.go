package emotion

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

// artifactVersion is the current weight bundle format version.
const artifactVersion = 1

// ArtifactPath computes the on-disk location of a model artifact:
// <modelPath>/<modelType>_model.bin.
func ArtifactPath(modelPath, modelType string) string {
	return filepath.Join(modelPath, modelType+"_model.bin")
}

// artifact is the msgpack-encoded weight bundle written to disk.
// Layer weights are stored row-major, one row per output unit.
type artifact struct {
	Version   int             `msgpack:"version"`
	ModelType string          `msgpack:"model_type"`
	Layers    []artifactLayer `msgpack:"layers"`
}

type artifactLayer struct {
	Inputs  int       `msgpack:"inputs"`
	Outputs int       `msgpack:"outputs"`
	Weights []float64 `msgpack:"weights"`
	Bias    []float64 `msgpack:"bias"`
}

// LoadArtifact deserializes a weight bundle into a Network scoring the
// given labels. The bundle must accept FeatureSize inputs and end in one
// output unit per label.
func LoadArtifact(path string, labels []string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var a artifact
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", a.Version)
	}
	if len(a.Layers) == 0 {
		return nil, fmt.Errorf("artifact has no layers")
	}
	if in := a.Layers[0].Inputs; in != FeatureSize {
		return nil, fmt.Errorf("artifact expects %d inputs, want %d", in, FeatureSize)
	}
	if out := a.Layers[len(a.Layers)-1].Outputs; out != len(labels) {
		return nil, fmt.Errorf("artifact has %d outputs, config has %d labels", out, len(labels))
	}

	layers := make([]layer, 0, len(a.Layers))
	prev := FeatureSize
	for i, al := range a.Layers {
		if al.Inputs != prev {
			return nil, fmt.Errorf("layer %d expects %d inputs, previous layer emits %d", i, al.Inputs, prev)
		}
		if len(al.Weights) != al.Inputs*al.Outputs {
			return nil, fmt.Errorf("layer %d has %d weights, want %d", i, len(al.Weights), al.Inputs*al.Outputs)
		}
		if len(al.Bias) != al.Outputs {
			return nil, fmt.Errorf("layer %d has %d biases, want %d", i, len(al.Bias), al.Outputs)
		}
		layers = append(layers, layer{
			weights: mat.NewDense(al.Outputs, al.Inputs, append([]float64(nil), al.Weights...)),
			bias:    mat.NewVecDense(al.Outputs, append([]float64(nil), al.Bias...)),
		})
		prev = al.Outputs
	}

	return &Network{
		labels: append([]string(nil), labels...),
		layers: layers,
		origin: OriginArtifact,
	}, nil
}

// SaveArtifact serializes the network's weights to path so it can be
// installed where Manager.Initialize looks for loaded models. The worker
// never trains; this exists for weight bundles produced elsewhere.
func (n *Network) SaveArtifact(path string, modelType string) error {
	a := artifact{Version: artifactVersion, ModelType: modelType}
	for _, l := range n.layers {
		rows, cols := l.weights.Dims()
		al := artifactLayer{
			Inputs:  cols,
			Outputs: rows,
			Weights: make([]float64, 0, rows*cols),
			Bias:    append([]float64(nil), l.bias.RawVector().Data...),
		}
		for r := 0; r < rows; r++ {
			al.Weights = append(al.Weights, l.weights.RawRowView(r)...)
		}
		a.Layers = append(a.Layers, al)
	}

	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
