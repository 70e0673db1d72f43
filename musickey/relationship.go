package musickey

// Verdict classifies a detected key against the expected key.
type Verdict int

const (
	VerdictExact Verdict = iota
	VerdictRelative
	VerdictFifth
	VerdictWrong
)

func (v Verdict) String() string {
	switch v {
	case VerdictExact:
		return "exact"
	case VerdictRelative:
		return "relative"
	case VerdictFifth:
		return "fifth"
	default:
		return "wrong"
	}
}

// Marker returns the one-character status marker used in per-track
// report lines.
func (v Verdict) Marker() string {
	switch v {
	case VerdictExact:
		return "="
	case VerdictRelative:
		return "~"
	case VerdictFifth:
		return "5"
	default:
		return "X"
	}
}

// relativePairs hardcodes the 12 relative major/minor pairs in the
// flat-preferred spelling, one pair per major key. Kept as literal data
// rather than derived from interval arithmetic so the enharmonic
// spellings in reports stay stable.
var relativePairs = [12][2]Key{
	{{"C", ModeMajor}, {"A", ModeMinor}},
	{{"Db", ModeMajor}, {"Bb", ModeMinor}},
	{{"D", ModeMajor}, {"B", ModeMinor}},
	{{"Eb", ModeMajor}, {"C", ModeMinor}},
	{{"E", ModeMajor}, {"Db", ModeMinor}},
	{{"F", ModeMajor}, {"D", ModeMinor}},
	{{"Gb", ModeMajor}, {"Eb", ModeMinor}},
	{{"G", ModeMajor}, {"E", ModeMinor}},
	{{"Ab", ModeMajor}, {"F", ModeMinor}},
	{{"A", ModeMajor}, {"Gb", ModeMinor}},
	{{"Bb", ModeMajor}, {"G", ModeMinor}},
	{{"B", ModeMajor}, {"Ab", ModeMinor}},
}

// semitone maps canonical root spellings to pitch-class indices.
var semitone = map[string]int{
	"C": 0, "Db": 1, "D": 2, "Eb": 3, "E": 4, "F": 5,
	"Gb": 6, "G": 7, "Ab": 8, "A": 9, "Bb": 10, "B": 11,
}

// IsExact reports whether the two canonical forms are identical.
func IsExact(a, b Key) bool {
	return a == b
}

// IsRelative reports whether a and b form a relative major/minor pair.
// The lookup is symmetric in its arguments.
func IsRelative(a, b Key) bool {
	for _, p := range relativePairs {
		if (a == p[0] && b == p[1]) || (a == p[1] && b == p[0]) {
			return true
		}
	}
	return false
}

// IsFifthRelated reports whether b sits a perfect fifth above or below
// a on the circle of fifths. Both keys must share a mode; keys with
// unrecognized roots are never fifth-related.
func IsFifthRelated(a, b Key) bool {
	if a.Mode != b.Mode {
		return false
	}
	sa, ok := semitone[a.Root]
	if !ok {
		return false
	}
	sb, ok := semitone[b.Root]
	if !ok {
		return false
	}
	diff := ((sb-sa)%12 + 12) % 12
	return diff == 7 || diff == 5
}

// Classify scores one detection against the ground truth with the
// precedence exact, then relative, then fifth-related, otherwise wrong.
func Classify(detected, expected Key) Verdict {
	switch {
	case IsExact(detected, expected):
		return VerdictExact
	case IsRelative(detected, expected):
		return VerdictRelative
	case IsFifthRelated(detected, expected):
		return VerdictFifth
	default:
		return VerdictWrong
	}
}
