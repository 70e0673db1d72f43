package eval

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keybench/dataset"
	"keybench/detect"
	"keybench/transcode"
)

// fakeLoader hands out one-sample PCM buffers whose value identifies
// the track, so a fake detector can answer per-track even when calls
// run concurrently.
type fakeLoader struct {
	pcm map[string][]float64
}

func (l fakeLoader) Load(path string) (*transcode.AudioData, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	samples, ok := l.pcm[base]
	if !ok {
		return nil, fmt.Errorf("no fake audio for %s", base)
	}
	return &transcode.AudioData{PCM: samples, SampleRate: 44100, Channels: 1}, nil
}

// fakeDetector answers from a table keyed by the track index embedded
// in the PCM by fakeLoader.
type fakeDetector struct {
	answers map[int]detect.Detection
	failOn  map[int]bool
	delay   func(idx int) time.Duration
}

func (d fakeDetector) DetectKey(ctx context.Context, samples []float64, profile string) (detect.Detection, error) {
	idx := int(samples[0])
	if d.delay != nil {
		select {
		case <-time.After(d.delay(idx)):
		case <-ctx.Done():
			return detect.Detection{}, ctx.Err()
		}
	}
	if d.failOn[idx] {
		return detect.Detection{}, errors.New("synthetic detector failure")
	}
	return d.answers[idx], nil
}

// newFixture creates an audio dir with empty .wav files for the given
// track IDs and wires a loader that tags each track with its index.
func newFixture(t *testing.T, tracks []dataset.Track, present map[string]bool) (string, fakeLoader) {
	t.Helper()
	audioDir := t.TempDir()
	pcm := make(map[string][]float64, len(tracks))
	for i, tr := range tracks {
		pcm[tr.ID] = []float64{float64(i)}
		if present == nil || present[tr.ID] {
			path := filepath.Join(audioDir, tr.ID+".wav")
			if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
				t.Fatalf("write stub audio: %v", err)
			}
		}
	}
	return audioDir, fakeLoader{pcm: pcm}
}

func TestEvaluateProfileScenarios(t *testing.T) {
	tracks := []dataset.Track{
		{ID: "track01", RawKey: "C# major"},
		{ID: "track02", RawKey: "A minor"},
		{ID: "track03", RawKey: "C major"},
		{ID: "track04", RawKey: "C major"},
	}
	audioDir, loader := newFixture(t, tracks, nil)

	det := fakeDetector{answers: map[int]detect.Detection{
		0: {Root: "Db", Mode: "major", Strength: 0.87},
		1: {Root: "C", Mode: "major", Strength: 0.5},
		2: {Root: "G", Mode: "major", Strength: 0.6},
		3: {Root: "F#", Mode: "minor", Strength: 0.4},
	}}

	var out bytes.Buffer
	r := &Runner{
		Tracks:   tracks,
		Detector: det,
		Loader:   loader,
		AudioDir: audioDir,
		Out:      &out,
	}
	tally := r.EvaluateProfile(context.Background(), "edma")

	if tally.Total != 4 {
		t.Fatalf("total = %d, want 4", tally.Total)
	}
	if tally.Exact != 1 || tally.Relative != 1 || tally.Fifth != 1 || tally.Wrong != 1 {
		t.Errorf("tally = %+v, want one of each verdict", tally)
	}
	if tally.Correct() != 2 {
		t.Errorf("correct = %d, want 2", tally.Correct())
	}
	if len(tally.WrongDetections) != 1 || !strings.Contains(tally.WrongDetections[0], "track04: expected [C maj] got [Gb min]") {
		t.Errorf("wrong detections = %v", tally.WrongDetections)
	}

	output := out.String()
	if strings.Contains(output, "track01") {
		t.Error("exact-match line should be suppressed without verbose")
	}
	for _, want := range []string{"[~] track02", "[5] track03", "[X] track04", "strength: 0.500"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestEvaluateProfileVerbose(t *testing.T) {
	tracks := []dataset.Track{{ID: "track01", RawKey: "C# major"}}
	audioDir, loader := newFixture(t, tracks, nil)
	det := fakeDetector{answers: map[int]detect.Detection{
		0: {Root: "Db", Mode: "major", Strength: 0.87},
	}}

	var out bytes.Buffer
	r := &Runner{Tracks: tracks, Detector: det, Loader: loader, AudioDir: audioDir, Verbose: true, Out: &out}
	r.EvaluateProfile(context.Background(), "edma")

	if !strings.Contains(out.String(), "[=] track01") {
		t.Errorf("verbose output missing exact line:\n%s", out.String())
	}
}

func TestEvaluateProfileSkipsMissingAudio(t *testing.T) {
	tracks := []dataset.Track{
		{ID: "present", RawKey: "C major"},
		{ID: "absent", RawKey: "D major"},
	}
	audioDir, loader := newFixture(t, tracks, map[string]bool{"present": true})
	det := fakeDetector{answers: map[int]detect.Detection{
		0: {Root: "C", Mode: "major", Strength: 0.9},
	}}

	var out bytes.Buffer
	r := &Runner{Tracks: tracks, Detector: det, Loader: loader, AudioDir: audioDir, Out: &out}
	tally := r.EvaluateProfile(context.Background(), "edma")

	if tally.Total != 1 || tally.Skipped != 1 {
		t.Errorf("tally = %+v, want total 1 skipped 1", tally)
	}
	if !strings.Contains(out.String(), "SKIP absent") {
		t.Errorf("output missing skip notice:\n%s", out.String())
	}
}

func TestEvaluateProfileContainsDetectorFailure(t *testing.T) {
	tracks := []dataset.Track{
		{ID: "track01", RawKey: "C major"},
		{ID: "track02", RawKey: "D major"},
	}
	audioDir, loader := newFixture(t, tracks, nil)
	det := fakeDetector{
		answers: map[int]detect.Detection{1: {Root: "D", Mode: "major", Strength: 0.8}},
		failOn:  map[int]bool{0: true},
	}

	var out bytes.Buffer
	r := &Runner{Tracks: tracks, Detector: det, Loader: loader, AudioDir: audioDir, Out: &out}
	tally := r.EvaluateProfile(context.Background(), "edma")

	if tally.Errors != 1 {
		t.Errorf("errors = %d, want 1", tally.Errors)
	}
	if tally.Total != 1 || tally.Exact != 1 {
		t.Errorf("remaining track not evaluated: %+v", tally)
	}
	if !strings.Contains(out.String(), "ERROR track01") {
		t.Errorf("output missing error notice:\n%s", out.String())
	}
}

func TestEvaluateProfileTimeout(t *testing.T) {
	tracks := []dataset.Track{{ID: "slow", RawKey: "C major"}}
	audioDir, loader := newFixture(t, tracks, nil)
	det := fakeDetector{
		answers: map[int]detect.Detection{0: {Root: "C", Mode: "major", Strength: 0.9}},
		delay:   func(int) time.Duration { return time.Second },
	}

	var out bytes.Buffer
	r := &Runner{Tracks: tracks, Detector: det, Loader: loader, AudioDir: audioDir, Timeout: 10 * time.Millisecond, Out: &out}
	tally := r.EvaluateProfile(context.Background(), "edma")

	if tally.Errors != 1 || tally.Total != 0 {
		t.Errorf("tally = %+v, want timeout recorded as error", tally)
	}
}

func TestEvaluateProfileWorkerOrdering(t *testing.T) {
	const n = 12
	tracks := make([]dataset.Track, n)
	answers := make(map[int]detect.Detection, n)
	for i := range tracks {
		tracks[i] = dataset.Track{ID: fmt.Sprintf("track%02d", i), RawKey: "C major"}
		answers[i] = detect.Detection{Root: "C", Mode: "major", Strength: 0.9}
	}
	audioDir, loader := newFixture(t, tracks, nil)

	// Later tracks finish first so the reorder buffer actually works.
	det := fakeDetector{
		answers: answers,
		delay:   func(idx int) time.Duration { return time.Duration(n-idx) * time.Millisecond },
	}

	var out bytes.Buffer
	r := &Runner{
		Tracks:   tracks,
		Detector: det,
		Loader:   loader,
		AudioDir: audioDir,
		Verbose:  true,
		Workers:  4,
		Out:      &out,
	}
	tally := r.EvaluateProfile(context.Background(), "edma")
	if tally.Total != n {
		t.Fatalf("total = %d, want %d", tally.Total, n)
	}

	var seen []string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "[=] ") {
			seen = append(seen, strings.Fields(line)[1])
		}
	}
	if len(seen) != n {
		t.Fatalf("got %d per-track lines, want %d", len(seen), n)
	}
	for i, id := range seen {
		if want := tracks[i].ID; id != want {
			t.Fatalf("line %d is %s, want %s (output must follow manifest order)", i, id, want)
		}
	}
}

func TestRunMultipleProfiles(t *testing.T) {
	tracks := []dataset.Track{{ID: "track01", RawKey: "C major"}}
	audioDir, loader := newFixture(t, tracks, nil)
	det := fakeDetector{answers: map[int]detect.Detection{
		0: {Root: "C", Mode: "major", Strength: 0.9},
	}}

	var out bytes.Buffer
	r := &Runner{Tracks: tracks, Detector: det, Loader: loader, AudioDir: audioDir, Out: &out}
	results, err := r.Run(context.Background(), []string{"edma", "bgate"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d tallies, want 2", len(results))
	}
	for _, profile := range []string{"edma", "bgate"} {
		if results[profile].Exact != 1 {
			t.Errorf("profile %s tally = %+v", profile, results[profile])
		}
	}
	for _, want := range []string{"Testing profile: edma", "Testing profile: bgate", "SUMMARY"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	tracks := []dataset.Track{{ID: "track01", RawKey: "C major"}}
	audioDir, loader := newFixture(t, tracks, nil)
	det := fakeDetector{answers: map[int]detect.Detection{
		0: {Root: "C", Mode: "major", Strength: 0.9},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := &Runner{Tracks: tracks, Detector: det, Loader: loader, AudioDir: audioDir, Out: &out}
	if _, err := r.Run(ctx, []string{"edma"}); err == nil {
		t.Fatal("expected context error")
	}
}
