package detect

import (
	"context"

	"gonum.org/v1/gonum/stat"
)

// noteNames spells the 12 pitch classes in raw detector vocabulary
// (sharps and naturals); the harness normalizes these downstream.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ChromaDetector is the built-in reference detector. It correlates the
// track's mean chroma profile against all 24 rotations of the selected
// profile's major and minor templates and reports the best match.
type ChromaDetector struct {
	sampleRate int
}

// NewChromaDetector creates a reference detector for audio at the given
// sample rate. A zero sample rate defaults to 44100.
func NewChromaDetector(sampleRate int) *ChromaDetector {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &ChromaDetector{sampleRate: sampleRate}
}

// DetectKey implements Detector. Strength is the best Pearson
// correlation clamped to [0,1].
func (d *ChromaDetector) DetectKey(ctx context.Context, samples []float64, profileID string) (Detection, error) {
	profile, err := Lookup(profileID)
	if err != nil {
		return Detection{}, err
	}
	if err := ctx.Err(); err != nil {
		return Detection{}, err
	}

	chroma := meanChroma(samples, d.sampleRate)
	key, mode, corr := bestMatch(chroma, profile)

	strength := corr
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	return Detection{Root: noteNames[key], Mode: mode, Strength: strength}, nil
}

// bestMatch searches all 24 keys for the profile rotation that best
// correlates with the observed chroma.
func bestMatch(chroma [12]float64, profile Profile) (key int, mode string, corr float64) {
	corr = -2.0
	mode = "major"
	for k := 0; k < 12; k++ {
		if c := correlateProfile(chroma, profile.Major, k); c > corr {
			key, mode, corr = k, "major", c
		}
		if c := correlateProfile(chroma, profile.Minor, k); c > corr {
			key, mode, corr = k, "minor", c
		}
	}
	return key, mode, corr
}

// correlateProfile computes the Pearson correlation between a chroma
// vector and a profile template rotated so its tonic sits on the given
// key.
func correlateProfile(chroma [12]float64, template [12]float64, key int) float64 {
	rotated := make([]float64, 12)
	for i := range rotated {
		rotated[i] = template[((i-key)%12+12)%12]
	}
	return stat.Correlation(chroma[:], rotated, nil)
}
