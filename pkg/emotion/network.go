package emotion

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Origin records how a Network came to be.
type Origin int

const (
	// OriginArtifact marks a network deserialized from a weight artifact.
	OriginArtifact Origin = iota

	// OriginFallback marks an untrained network built in-process.
	OriginFallback
)

func (o Origin) String() string {
	switch o {
	case OriginArtifact:
		return "artifact"
	case OriginFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// fallbackSeed fixes the weight initialization of fallback networks.
// Untrained output is uninformative either way; a fixed seed keeps
// repeated predictions on the same classifier bit-identical.
const fallbackSeed = 0x40fea7

// layer is one dense layer: y = activation(W·x + b).
type layer struct {
	weights *mat.Dense    // out × in
	bias    *mat.VecDense // out
}

// Network is a feed-forward classifier over FeatureSize-length feature
// vectors with a softmax output, one unit per label. It implements
// Classifier for both the artifact-loaded and fallback variants.
type Network struct {
	labels []string
	layers []layer
	origin Origin
}

// fallbackHidden returns the hidden layer sizes for a model type:
// a lightweight net for "fast", a deeper one for everything else.
func fallbackHidden(modelType string) []int {
	if modelType == ModelTypeFast {
		return []int{64, 32}
	}
	return []int{128, 64, 32}
}

// NewFallback builds an untrained network sized to the label set.
// Weights are Glorot-style random draws from a fixed seed; the network
// produces a well-formed but non-informative distribution.
func NewFallback(modelType string, labels []string) *Network {
	dims := append([]int{FeatureSize}, fallbackHidden(modelType)...)
	dims = append(dims, len(labels))

	rng := rand.New(rand.NewSource(fallbackSeed))
	layers := make([]layer, 0, len(dims)-1)
	for i := 1; i < len(dims); i++ {
		in, out := dims[i-1], dims[i]
		scale := math.Sqrt(2.0 / float64(in+out))
		w := mat.NewDense(out, in, nil)
		for r := 0; r < out; r++ {
			for c := 0; c < in; c++ {
				w.Set(r, c, rng.NormFloat64()*scale)
			}
		}
		layers = append(layers, layer{weights: w, bias: mat.NewVecDense(out, nil)})
	}

	return &Network{
		labels: append([]string(nil), labels...),
		layers: layers,
		origin: OriginFallback,
	}
}

// Labels returns the ordered label set.
func (n *Network) Labels() []string { return n.labels }

// Origin reports whether the network was loaded or built as a fallback.
func (n *Network) Origin() Origin { return n.origin }

// Predict runs a forward pass and selects the argmax label. Any internal
// failure degrades to the safe neutral prediction.
func (n *Network) Predict(features []float64) Prediction {
	probs, err := n.forward(features)
	if err != nil {
		slog.Warn("prediction failed, returning neutral", "error", err)
		return safeNeutral(n.labels)
	}

	scores := make(Scores, len(n.labels))
	best := 0
	for i, label := range n.labels {
		scores[label] = probs[i]
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Prediction{
		Emotion:    n.labels[best],
		Confidence: probs[best],
		Scores:     scores,
	}
}

// forward computes softmax(W_k·relu(...relu(W_1·x + b_1)...) + b_k).
func (n *Network) forward(features []float64) ([]float64, error) {
	if len(features) != FeatureSize {
		return nil, fmt.Errorf("feature vector has %d values, want %d", len(features), FeatureSize)
	}
	if len(n.layers) == 0 {
		return nil, fmt.Errorf("network has no layers")
	}
	if in := n.layers[0].weights.RawMatrix().Cols; in != FeatureSize {
		return nil, fmt.Errorf("input layer expects %d values, want %d", in, FeatureSize)
	}

	x := mat.NewVecDense(FeatureSize, append([]float64(nil), features...))
	for i, l := range n.layers {
		rows, _ := l.weights.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(l.weights, x)
		y.AddVec(y, l.bias)
		if i < len(n.layers)-1 {
			relu(y)
		}
		x = y
	}

	if x.Len() != len(n.labels) {
		return nil, fmt.Errorf("output has %d units, want %d labels", x.Len(), len(n.labels))
	}

	probs := softmax(x.RawVector().Data)
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("non-finite probability in output")
		}
	}
	return probs, nil
}

func relu(v *mat.VecDense) {
	data := v.RawVector().Data
	for i, x := range data {
		if x < 0 {
			data[i] = 0
		}
	}
}

// softmax normalizes logits into a probability distribution, shifted by
// the max logit for numeric stability.
func softmax(logits []float64) []float64 {
	max := math.Inf(-1)
	for _, x := range logits {
		if x > max {
			max = x
		}
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, x := range logits {
		out[i] = math.Exp(x - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
