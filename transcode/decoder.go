package transcode

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"keybench/logging"
)

// DecoderConfig holds decoder configuration.
type DecoderConfig struct {
	TargetSampleRate int
	FFmpegPath       string
	Timeout          time.Duration
}

// DefaultDecoderConfig returns the configuration the harness expects:
// mono audio at 44100 Hz, ffmpeg resolved from PATH.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		FFmpegPath:       "ffmpeg",
		Timeout:          30 * time.Second,
	}
}

// Decoder loads audio files as mono float64 PCM. WAV files are parsed
// natively; anything else is piped through ffmpeg.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a decoder with the given configuration, or
// defaults when config is nil.
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// Load implements Loader. The result is always mono at the target
// sample rate.
func (d *Decoder) Load(path string) (*AudioData, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		audio, err := readWAV(path)
		if err != nil {
			return nil, err
		}
		audio.PCM = resampleLinear(audio.PCM, audio.SampleRate, d.config.TargetSampleRate)
		audio.SampleRate = d.config.TargetSampleRate
		audio.Duration = time.Duration(float64(len(audio.PCM)) / float64(audio.SampleRate) * float64(time.Second))
		return audio, nil
	}
	return d.loadWithFFmpeg(path)
}

// loadWithFFmpeg decodes any ffmpeg-supported format to raw f64le mono
// at the target sample rate.
func (d *Decoder) loadWithFFmpeg(path string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"path":      path,
	})

	args := []string{
		"-i", path,
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
		"-v", "error",
		"pipe:1",
	}

	ctx := context.Background()
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)

	logger.Debug("running ffmpeg", logging.Fields{"args": strings.Join(args, " ")})

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			logger.Error(err, "ffmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
		}
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", path)
	}

	return &AudioData{
		PCM:        samples,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
		Duration:   time.Duration(float64(len(samples)) / float64(d.config.TargetSampleRate) * float64(time.Second)),
	}, nil
}

// bytesToFloat64 reinterprets ffmpeg's raw f64le output stream.
func bytesToFloat64(data []byte) []float64 {
	n := len(data) / 8
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8 : i*8+8]))
	}
	return samples
}

// resampleLinear converts between sample rates with linear
// interpolation. Accuracy scoring tolerates this; the chroma fold is
// far coarser than interpolation error.
func resampleLinear(samples []float64, from, to int) []float64 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}
	ratio := float64(from) / float64(to)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx+1 >= len(samples) {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
