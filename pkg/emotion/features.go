package emotion

import (
	"fmt"
	"log/slog"

	"github.com/emokit/emotiond/pkg/audio/mfcc"
	"github.com/emokit/emotiond/pkg/audio/resampler"
	"github.com/emokit/emotiond/pkg/audio/wav"
)

const (
	// analysisRate is the fixed sample rate all clips are resampled to.
	analysisRate = 48000

	// analysisWindow bounds analysis to the first seconds of a clip.
	analysisWindow = 3 * analysisRate
)

// Extractor turns an audio file into a fixed-length feature vector:
// 13 MFCC means, 13 MFCC standard deviations, mean spectral centroid,
// mean zero-crossing rate and mean RMS energy, zero-padded to
// FeatureSize values.
//
// Extract never fails: any decode or analysis problem degrades to the
// all-zero feature set so a clip always flows through classification.
type Extractor struct {
	mfcc *mfcc.Extractor
	log  *slog.Logger
}

// NewExtractor creates an Extractor with the standard 48 kHz front-end.
func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{mfcc: mfcc.New(mfcc.DefaultConfig()), log: log}
}

// Extract computes the feature set for the audio file at path.
func (e *Extractor) Extract(path string) Features {
	f, err := e.extract(path)
	if err != nil {
		e.log.Warn("feature extraction failed, using zero features",
			"path", path, "error", err)
		return zeroFeatures()
	}
	return f
}

func (e *Extractor) extract(path string) (Features, error) {
	clip, err := wav.DecodeFile(path)
	if err != nil {
		return Features{}, err
	}

	samples, err := resampler.Resample(clip.Samples, clip.SampleRate, analysisRate)
	if err != nil {
		return Features{}, err
	}
	if len(samples) > analysisWindow {
		samples = samples[:analysisWindow]
	}

	frames := e.mfcc.Coefficients(samples)
	if len(frames) == 0 {
		return Features{}, fmt.Errorf("clip too short: %d samples", len(samples))
	}
	mean, std := mfcc.MeanStd(frames, NumCoeffs)
	sum := e.mfcc.Summarize(samples)

	// [13 means, 13 std-devs, centroid, zcr, energy] = 29 raw values,
	// padded with trailing zeros to the fixed classifier input width.
	vec := make([]float64, 0, FeatureSize)
	vec = append(vec, mean...)
	vec = append(vec, std...)
	vec = append(vec, sum.SpectralCentroid, sum.ZeroCrossingRate, sum.Energy)
	if len(vec) > FeatureSize {
		vec = vec[:FeatureSize]
	}
	for len(vec) < FeatureSize {
		vec = append(vec, 0)
	}

	return Features{
		Vector:           vec,
		MFCC:             mean,
		SpectralCentroid: sum.SpectralCentroid,
		ZeroCrossingRate: sum.ZeroCrossingRate,
		Energy:           sum.Energy,
	}, nil
}

// zeroFeatures is the defined degraded feature set: a neutral signal of
// the correct shape.
func zeroFeatures() Features {
	return Features{
		Vector: make([]float64, FeatureSize),
		MFCC:   make([]float64, NumCoeffs),
	}
}
