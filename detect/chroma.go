package detect

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Chroma extraction parameters. 4096 samples at 44100 Hz gives roughly
// 10.8 Hz of frequency resolution, enough to separate semitones from
// E2 upward.
const (
	chromaWindowSize = 4096
	chromaHopSize    = 2048
	tuningFreq       = 440.0
	chromaMinFreq    = 80.0
	chromaMaxFreq    = 5000.0
)

// meanChroma computes the average 12-bin chroma profile of a mono
// signal: Hann-windowed STFT frames, magnitude-squared energy folded
// onto pitch-class bins across octaves.
func meanChroma(samples []float64, sampleRate int) [12]float64 {
	var acc [12]float64
	if len(samples) < chromaWindowSize {
		return acc
	}

	window := hannWindow(chromaWindowSize)
	frame := make([]float64, chromaWindowSize)
	freqResolution := float64(sampleRate) / float64(chromaWindowSize)
	frames := 0

	for start := 0; start+chromaWindowSize <= len(samples); start += chromaHopSize {
		for i := range frame {
			frame[i] = samples[start+i] * window[i]
		}

		// mjibson/go-dsp handles all sizes, including non-power-of-2
		spectrum := fft.FFTReal(frame)

		for bin := 1; bin < chromaWindowSize/2; bin++ {
			freq := float64(bin) * freqResolution
			if freq < chromaMinFreq || freq > chromaMaxFreq {
				continue
			}
			mag := cmplx.Abs(spectrum[bin])
			acc[pitchClass(freq)] += mag * mag
		}
		frames++
	}

	if frames > 0 {
		for i := range acc {
			acc[i] /= float64(frames)
		}
	}
	return acc
}

// pitchClass folds a frequency onto one of the 12 semitone bins with
// C=0, using the A4=440 Hz reference.
func pitchClass(freq float64) int {
	midi := 69.0 + 12.0*math.Log2(freq/tuningFreq)
	pc := int(math.Round(midi)) % 12
	return (pc + 12) % 12
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}
