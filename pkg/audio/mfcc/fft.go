package mfcc

import "math"

// fft performs an in-place radix-2 Cooley-Tukey FFT.
// The buffer length must be a power of 2.
func fft(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation
	j := 0
	for i := 0; i < n-1; i++ {
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
		k := n >> 1
		for k <= j {
			j -= k
			k >>= 1
		}
		j += k
	}

	// Cooley-Tukey butterfly
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		angle := -2.0 * math.Pi / float64(size)
		w := complex(math.Cos(angle), math.Sin(angle))

		for start := 0; start < n; start += size {
			t := complex(1, 0)
			for k := 0; k < half; k++ {
				u := start + k
				v := u + half

				tmp := t * buf[v]
				buf[v] = buf[u] - tmp
				buf[u] += tmp

				t *= w
			}
		}
	}
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
