package detect

import "context"

// Detector is the one capability the evaluation harness needs from a
// key detection algorithm: hand it decoded mono audio at 44100 Hz and a
// profile identifier, get back a raw (root, mode, strength) triple. Any
// implementation with this signature can be substituted.
type Detector interface {
	DetectKey(ctx context.Context, samples []float64, profile string) (Detection, error)
}

// Detection is a raw detector answer, before key normalization.
type Detection struct {
	Root     string  // pitch-class spelling, sharp or flat notation
	Mode     string  // "major" or "minor"
	Strength float64 // detector confidence in [0,1]
}
