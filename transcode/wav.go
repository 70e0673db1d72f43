package transcode

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// readWAV parses a RIFF/WAVE file into mono float64 PCM at the file's
// native sample rate. Supported encodings: 16/24/32-bit integer PCM and
// 32/64-bit float. Multi-channel audio is averaged down to mono.
func readWAV(path string) (*AudioData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%s: not a RIFF/WAVE file", path)
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		pcmBytes   []byte
		haveFmt    bool
	)

	// Walk the chunk list. Chunks are word-aligned.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("%s: malformed fmt chunk", path)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcmBytes = data[body : body+chunkSize]
		}

		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || pcmBytes == nil {
		return nil, fmt.Errorf("%s: missing fmt or data chunk", path)
	}
	if channels < 1 || sampleRate <= 0 {
		return nil, fmt.Errorf("%s: invalid wav header", path)
	}

	interleaved, err := decodeWAVSamples(pcmBytes, format, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mono := mixToMono(interleaved, channels)

	return &AudioData{
		PCM:        mono,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   time.Duration(float64(len(mono)) / float64(sampleRate) * float64(time.Second)),
	}, nil
}

// decodeWAVSamples converts raw sample bytes to float64 in [-1, 1].
func decodeWAVSamples(raw []byte, format uint16, bitDepth int) ([]float64, error) {
	switch {
	case format == wavFormatPCM && bitDepth == 16:
		n := len(raw) / 2
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
			samples[i] = float64(v) / 32768.0
		}
		return samples, nil

	case format == wavFormatPCM && bitDepth == 24:
		n := len(raw) / 3
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			b := raw[i*3 : i*3+3]
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xffffff) // sign extend
			}
			samples[i] = float64(v) / 8388608.0
		}
		return samples, nil

	case format == wavFormatPCM && bitDepth == 32:
		n := len(raw) / 4
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
			samples[i] = float64(v) / 2147483648.0
		}
		return samples, nil

	case format == wavFormatFloat && bitDepth == 32:
		n := len(raw) / 4
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4 : i*4+4])))
		}
		return samples, nil

	case format == wavFormatFloat && bitDepth == 64:
		n := len(raw) / 8
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8 : i*8+8]))
		}
		return samples, nil
	}
	return nil, fmt.Errorf("unsupported wav encoding: format=%d bits=%d", format, bitDepth)
}

// mixToMono averages interleaved channels into one.
func mixToMono(interleaved []float64, channels int) []float64 {
	if channels == 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
