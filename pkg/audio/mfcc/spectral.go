package mfcc

import "math"

// Summary holds whole-window spectral statistics, each averaged across
// analysis frames.
type Summary struct {
	SpectralCentroid float64 // center of spectral mass in Hz
	ZeroCrossingRate float64 // fraction of sign changes per frame
	Energy           float64 // root-mean-square amplitude
}

// Summarize computes mean spectral centroid, zero-crossing rate and RMS
// energy over the input. Returns the zero Summary when the input is
// shorter than one frame.
func (e *Extractor) Summarize(samples []float64) Summary {
	cfg := e.cfg
	numFrames := e.NumFrames(len(samples))
	if numFrames == 0 {
		return Summary{}
	}

	halfFFT := e.fftSize/2 + 1
	binHz := float64(cfg.SampleRate) / float64(e.fftSize)
	buf := make([]complex128, e.fftSize)

	var centroidSum, zcrSum, rmsSum float64
	for t := 0; t < numFrames; t++ {
		start := t * cfg.FrameShift
		frame := samples[start : start+cfg.FrameLength]

		// Magnitude spectrum of the windowed frame.
		for i := range buf {
			buf[i] = 0
		}
		for i, s := range frame {
			buf[i] = complex(s*e.window[i], 0)
		}
		fft(buf)

		var num, den float64
		for k := 0; k < halfFFT; k++ {
			mag := math.Hypot(real(buf[k]), imag(buf[k]))
			num += float64(k) * binHz * mag
			den += mag
		}
		if den > 0 {
			centroidSum += num / den
		}

		// Zero crossings over the raw (unwindowed) frame.
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if (frame[i-1] >= 0) != (frame[i] >= 0) {
				crossings++
			}
		}
		zcrSum += float64(crossings) / float64(len(frame))

		// RMS amplitude.
		sq := 0.0
		for _, s := range frame {
			sq += s * s
		}
		rmsSum += math.Sqrt(sq / float64(len(frame)))
	}

	n := float64(numFrames)
	return Summary{
		SpectralCentroid: centroidSum / n,
		ZeroCrossingRate: zcrSum / n,
		Energy:           rmsSum / n,
	}
}
