package eval

import "keybench/musickey"

// Tally accumulates one profile's outcomes. It is owned by a single
// evaluation pass and read-only once that pass returns.
type Tally struct {
	Total    int
	Exact    int
	Relative int
	Fifth    int
	Wrong    int

	// Tracks excluded from Total
	Skipped int
	Errors  int

	// Formatted mismatch lines collected for the report
	WrongDetections []string
}

// Correct is the combined exact + relative count.
func (t Tally) Correct() int {
	return t.Exact + t.Relative
}

func (t *Tally) count(v musickey.Verdict) {
	t.Total++
	switch v {
	case musickey.VerdictExact:
		t.Exact++
	case musickey.VerdictRelative:
		t.Relative++
	case musickey.VerdictFifth:
		t.Fifth++
	default:
		t.Wrong++
	}
}
