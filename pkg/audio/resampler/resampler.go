// Package resampler converts mono audio between sample rates.
//
// It wraps the pure-Go github.com/tphakala/go-audio-resampling library
// (no CGO/FFI dependencies) behind a whole-clip API: decoded clips are
// short and bounded, so there is no need for a streaming interface.
package resampler

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts normalized mono samples from srcRate to dstRate.
// The input is returned unchanged when the rates already match.
//
// The underlying resampler is stateful and holds back a filter-length
// tail; a zero pad is pushed through after the clip so the output covers
// the full input, then the result is trimmed to the expected length.
func Resample(samples []float64, srcRate, dstRate int) ([]float64, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("resampler: invalid rates %d -> %d", srcRate, dstRate)
	}
	if srcRate == dstRate || len(samples) == 0 {
		return samples, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}

	want := int(math.Round(float64(len(samples)) * float64(dstRate) / float64(srcRate)))

	out, err := rs.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}
	result := append([]float64(nil), out...)

	// Drain the internal filter delay with silence until the expected
	// number of output samples is available.
	pad := make([]float64, srcRate/10+1)
	for len(result) < want {
		out, err = rs.Process(pad)
		if err != nil {
			return nil, fmt.Errorf("resampler: drain: %w", err)
		}
		if len(out) == 0 {
			break
		}
		result = append(result, out...)
	}

	if len(result) > want {
		result = result[:want]
	}
	return result, nil
}
