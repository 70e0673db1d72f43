package eval

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"keybench/dataset"
	"keybench/detect"
	"keybench/musickey"
	"keybench/transcode"
)

// Runner drives one evaluation pass per configured profile. The track
// list is shared read-only across all passes; each pass owns its Tally.
type Runner struct {
	Tracks   []dataset.Track
	Detector detect.Detector
	Loader   transcode.Loader
	AudioDir string
	AudioExt string // defaults to ".wav"
	Verbose  bool   // print exact-match lines too

	// Workers > 1 parallelizes detection across tracks. Output and
	// tally order still follow the manifest.
	Workers int

	// Timeout bounds each detector call; zero means no limit.
	Timeout time.Duration

	Out io.Writer
}

// trackOutcome is one track's result inside a profile pass.
type trackOutcome struct {
	skipped  bool
	failed   bool
	err      error
	expected musickey.Key
	detected musickey.Key
	strength float64
	verdict  musickey.Verdict
}

// Run evaluates every profile in order, streaming per-track lines and
// per-profile reports to Out, and returns the tallies keyed by profile.
func (r *Runner) Run(ctx context.Context, profiles []string) (map[string]Tally, error) {
	results := make(map[string]Tally, len(profiles))
	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fmt.Fprintf(r.out(), "\n============================================================\n")
		fmt.Fprintf(r.out(), "Testing profile: %s\n", profile)
		fmt.Fprintf(r.out(), "============================================================\n")

		tally := r.EvaluateProfile(ctx, profile)
		WriteProfileReport(r.out(), profile, tally)
		results[profile] = tally
	}
	WriteSummary(r.out(), profiles, results)
	return results, nil
}

// EvaluateProfile runs one profile over every track in manifest order
// and returns the finalized tally. Per-track lines are emitted as soon
// as all earlier tracks have been emitted, so output order is
// deterministic even with a worker pool.
func (r *Runner) EvaluateProfile(ctx context.Context, profile string) Tally {
	var tally Tally

	workers := r.Workers
	if workers <= 1 {
		for _, track := range r.Tracks {
			r.emit(&tally, track, r.evaluateTrack(ctx, track, profile))
		}
		return tally
	}

	type indexed struct {
		i       int
		outcome trackOutcome
	}

	jobs := make(chan int)
	results := make(chan indexed, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- indexed{i: i, outcome: r.evaluateTrack(ctx, r.Tracks[i], profile)}
			}
		}()
	}
	go func() {
		for i := range r.Tracks {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Re-order the stream: emit each outcome once every earlier track
	// has been emitted.
	pending := make(map[int]trackOutcome, workers)
	next := 0
	for res := range results {
		pending[res.i] = res.outcome
		for {
			outcome, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			r.emit(&tally, r.Tracks[next], outcome)
			next++
		}
	}
	return tally
}

// evaluateTrack resolves the track's audio, runs the detector, and
// classifies the result. Missing audio and detector failures are
// contained here; neither aborts the profile pass.
func (r *Runner) evaluateTrack(ctx context.Context, track dataset.Track, profile string) trackOutcome {
	path := filepath.Join(r.AudioDir, track.ID+r.audioExt())
	if _, err := os.Stat(path); err != nil {
		return trackOutcome{skipped: true}
	}

	audio, err := r.Loader.Load(path)
	if err != nil {
		return trackOutcome{failed: true, err: err}
	}

	expected := musickey.ParseAnnotation(track.RawKey)

	dctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	result, err := r.Detector.DetectKey(dctx, audio.PCM, profile)
	if err != nil {
		return trackOutcome{failed: true, err: err}
	}

	detected := musickey.Normalize(result.Root, result.Mode)
	return trackOutcome{
		expected: expected,
		detected: detected,
		strength: result.Strength,
		verdict:  musickey.Classify(detected, expected),
	}
}

// emit applies one outcome to the tally and prints its per-track line.
// Exact matches are suppressed unless Verbose is set; skips, errors,
// and non-exact verdicts always print.
func (r *Runner) emit(tally *Tally, track dataset.Track, outcome trackOutcome) {
	switch {
	case outcome.skipped:
		fmt.Fprintf(r.out(), "  SKIP %s\n", track.ID)
		tally.Skipped++
	case outcome.failed:
		fmt.Fprintf(r.out(), "  ERROR %s: %v\n", track.ID, outcome.err)
		tally.Errors++
	default:
		tally.count(outcome.verdict)
		if outcome.verdict == musickey.VerdictWrong {
			tally.WrongDetections = append(tally.WrongDetections,
				fmt.Sprintf("  %s: expected [%s] got [%s]", track.ID, outcome.expected, outcome.detected))
		}
		if outcome.verdict != musickey.VerdictExact || r.Verbose {
			fmt.Fprintf(r.out(), "[%s] %-20s expected: %-8s  detected: %-8s  strength: %.3f\n",
				outcome.verdict.Marker(), track.ID, outcome.expected, outcome.detected, outcome.strength)
		}
	}
}

func (r *Runner) audioExt() string {
	if r.AudioExt == "" {
		return ".wav"
	}
	return r.AudioExt
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}
