// Package mfcc computes mel-frequency cepstral coefficients and related
// spectral summary statistics from normalized mono audio samples.
//
// The front-end follows the usual speech-analysis convention: overlapping
// frames, pre-emphasis, Hamming window, power spectrum via FFT, triangular
// mel filterbank, log compression, then a DCT-II to decorrelate the mel
// energies into cepstral coefficients.
//
// Default parameters target 48 kHz input:
//
//	SampleRate:  48000
//	FrameLength: 1200 (25 ms)
//	FrameShift:  480 (10 ms)
//	NumMels:     40
//	NumCoeffs:   13
//	LowFreq:     20
//	HighFreq:    24000 (Nyquist)
//	PreEmphasis: 0.97
package mfcc

import "math"

// Config controls feature extraction parameters.
type Config struct {
	SampleRate  int     // audio sample rate in Hz
	FrameLength int     // frame length in samples
	FrameShift  int     // hop length in samples
	NumMels     int     // number of mel filterbank channels
	NumCoeffs   int     // number of cepstral coefficients to keep
	LowFreq     float64 // lowest mel filter frequency in Hz
	HighFreq    float64 // highest mel filter frequency in Hz (0 = Nyquist)
	PreEmphasis float64 // pre-emphasis coefficient (0 disables)
}

// DefaultConfig returns the standard config for 48 kHz mono input.
func DefaultConfig() Config {
	return Config{
		SampleRate:  48000,
		FrameLength: 1200,
		FrameShift:  480,
		NumMels:     40,
		NumCoeffs:   13,
		LowFreq:     20,
		PreEmphasis: 0.97,
	}
}

// Extractor computes MFCCs from normalized mono samples.
// An Extractor is deterministic: identical input always produces
// identical output.
type Extractor struct {
	cfg     Config
	fftSize int
	window  []float64
	melBank [][]float64
	dct     [][]float64
}

// New creates an Extractor with the given config.
func New(cfg Config) *Extractor {
	if cfg.HighFreq <= 0 {
		cfg.HighFreq = float64(cfg.SampleRate) / 2
	}
	e := &Extractor{cfg: cfg, fftSize: nextPow2(cfg.FrameLength)}
	e.window = hammingWindow(cfg.FrameLength)
	e.melBank = melFilterBank(cfg.NumMels, e.fftSize, cfg.SampleRate, cfg.LowFreq, cfg.HighFreq)
	e.dct = dctMatrix(cfg.NumCoeffs, cfg.NumMels)
	return e
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config { return e.cfg }

// NumFrames returns how many analysis frames n samples yield.
func (e *Extractor) NumFrames(n int) int {
	if n < e.cfg.FrameLength {
		return 0
	}
	return (n-e.cfg.FrameLength)/e.cfg.FrameShift + 1
}

// Coefficients computes per-frame cepstral coefficients.
// Input: normalized mono samples in [-1, 1].
// Output: [T][NumCoeffs], or nil when the input is shorter than one frame.
func (e *Extractor) Coefficients(samples []float64) [][]float64 {
	cfg := e.cfg
	numFrames := e.NumFrames(len(samples))
	if numFrames == 0 {
		return nil
	}

	halfFFT := e.fftSize/2 + 1
	out := make([][]float64, numFrames)
	buf := make([]complex128, e.fftSize)
	power := make([]float64, halfFFT)
	logMel := make([]float64, cfg.NumMels)

	for t := 0; t < numFrames; t++ {
		start := t * cfg.FrameShift

		// Pre-emphasis + windowing, zero-padded to FFT size.
		for i := range buf {
			buf[i] = 0
		}
		for i := 0; i < cfg.FrameLength; i++ {
			s := samples[start+i]
			if i+start > 0 && cfg.PreEmphasis > 0 {
				s -= cfg.PreEmphasis * samples[start+i-1]
			}
			buf[i] = complex(s*e.window[i], 0)
		}

		fft(buf)

		// Power spectrum
		for i := 0; i < halfFFT; i++ {
			power[i] = real(buf[i])*real(buf[i]) + imag(buf[i])*imag(buf[i])
		}

		// Log mel energies, floored to avoid -inf.
		for m := 0; m < cfg.NumMels; m++ {
			sum := 0.0
			for k, w := range e.melBank[m] {
				sum += w * power[k]
			}
			if sum < 1e-10 {
				sum = 1e-10
			}
			logMel[m] = math.Log(sum)
		}

		// DCT-II → cepstral coefficients.
		coeffs := make([]float64, cfg.NumCoeffs)
		for c := 0; c < cfg.NumCoeffs; c++ {
			sum := 0.0
			for k, w := range e.dct[c] {
				sum += w * logMel[k]
			}
			coeffs[c] = sum
		}
		out[t] = coeffs
	}

	return out
}

// MeanStd reduces per-frame coefficients to a per-coefficient mean and
// (population) standard deviation. Returns zero vectors when frames is empty.
func MeanStd(frames [][]float64, numCoeffs int) (mean, std []float64) {
	mean = make([]float64, numCoeffs)
	std = make([]float64, numCoeffs)
	if len(frames) == 0 {
		return mean, std
	}
	n := float64(len(frames))
	for _, f := range frames {
		for c := 0; c < numCoeffs && c < len(f); c++ {
			mean[c] += f[c]
		}
	}
	for c := range mean {
		mean[c] /= n
	}
	for _, f := range frames {
		for c := 0; c < numCoeffs && c < len(f); c++ {
			d := f[c] - mean[c]
			std[c] += d * d
		}
	}
	for c := range std {
		std[c] = math.Sqrt(std[c] / n)
	}
	return mean, std
}
