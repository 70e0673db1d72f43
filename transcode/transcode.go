package transcode

import "time"

// AudioData is decoded audio ready for analysis.
type AudioData struct {
	PCM        []float64
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Loader turns an audio file path into decoded samples. The evaluation
// driver depends on this one capability only, so tests can substitute
// an in-memory implementation.
type Loader interface {
	Load(path string) (*AudioData, error)
}
