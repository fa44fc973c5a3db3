// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - wav: RIFF/WAVE decoding into normalized mono samples
//   - resampler: sample-rate conversion to the fixed analysis rate
//   - mfcc: mel-frequency cepstral coefficients and spectral statistics
//
// Example usage:
//
//	clip, err := wav.DecodeFile("clip.wav")
//	samples, err := resampler.Resample(clip.Samples, clip.SampleRate, 48000)
//	frames := mfcc.New(mfcc.DefaultConfig()).Coefficients(samples)
package audio
