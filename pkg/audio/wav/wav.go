// Package wav decodes RIFF/WAVE audio files into normalized mono samples.
//
// Only the formats that show up in practice for short recorded clips are
// supported: PCM integer (8/16/24/32 bit) and IEEE float32, any channel
// count. Multi-channel audio is downmixed to mono by averaging.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Format codes from the fmt chunk.
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

var (
	// ErrNotWave is returned when the input does not start with a
	// RIFF/WAVE header.
	ErrNotWave = errors.New("wav: not a RIFF/WAVE stream")

	// ErrNoData is returned when the stream has a valid header but no
	// data chunk.
	ErrNoData = errors.New("wav: missing data chunk")
)

// Audio is a decoded clip: normalized mono samples in [-1, 1].
type Audio struct {
	SampleRate int
	Samples    []float64
}

// Duration returns the clip length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// DecodeFile decodes the WAV file at path.
func DecodeFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a RIFF/WAVE stream. The whole data chunk is read into
// memory; callers analyzing a bounded window should truncate afterwards.
func Decode(r io.Reader) (*Audio, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, ErrNotWave
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, ErrNotWave
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		haveFmt    bool
	)

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrNoData
			}
			return nil, fmt.Errorf("wav: read chunk header: %w", err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return nil, fmt.Errorf("wav: fmt chunk too short (%d bytes)", len(body))
			}
			format = binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(body[14:16]))
			if format == formatExtensible && len(body) >= 26 {
				// Actual format lives in the extension sub-format GUID.
				format = binary.LittleEndian.Uint16(body[24:26])
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("wav: data chunk before fmt chunk")
			}
			if channels <= 0 || sampleRate <= 0 {
				return nil, fmt.Errorf("wav: invalid fmt (channels=%d rate=%d)", channels, sampleRate)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wav: read data chunk: %w", err)
			}
			samples, err := decodeSamples(body, format, bitDepth, channels)
			if err != nil {
				return nil, err
			}
			return &Audio{SampleRate: sampleRate, Samples: samples}, nil

		default:
			// Skip unknown chunks (LIST, fact, cue, ...). Chunks are
			// word-aligned; odd sizes carry a pad byte.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, ErrNoData
			}
		}
	}
}

// decodeSamples converts interleaved raw sample data to normalized mono.
func decodeSamples(data []byte, format uint16, bitDepth, channels int) ([]float64, error) {
	var bytesPer int
	switch {
	case format == formatPCM && bitDepth == 8:
		bytesPer = 1
	case format == formatPCM && bitDepth == 16:
		bytesPer = 2
	case format == formatPCM && bitDepth == 24:
		bytesPer = 3
	case format == formatPCM && bitDepth == 32:
		bytesPer = 4
	case format == formatIEEEFloat && bitDepth == 32:
		bytesPer = 4
	default:
		return nil, fmt.Errorf("wav: unsupported format %d / %d bit", format, bitDepth)
	}

	frameBytes := bytesPer * channels
	if frameBytes == 0 || len(data) < frameBytes {
		return nil, nil
	}
	frames := len(data) / frameBytes

	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			off := i*frameBytes + c*bytesPer
			sum += decodeOne(data[off:off+bytesPer], format, bitDepth)
		}
		out[i] = sum / float64(channels)
	}
	return out, nil
}

func decodeOne(b []byte, format uint16, bitDepth int) float64 {
	if format == formatIEEEFloat {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	switch bitDepth {
	case 8:
		// 8-bit PCM is unsigned.
		return (float64(b[0]) - 128) / 128
	case 16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v -= 0x1000000
		}
		return float64(v) / 8388608
	case 32:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	}
	return 0
}
