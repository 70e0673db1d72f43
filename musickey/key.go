package musickey

import "strings"

// Mode codes used in the canonical key rendering
const (
	ModeMajor = "maj"
	ModeMinor = "min"
)

// enharmonic maps every recognized root spelling to its flat-preferred
// canonical form. Sharps collapse to their flat equivalent; flats and
// naturals map to themselves.
var enharmonic = map[string]string{
	"C#": "Db", "D#": "Eb", "F#": "Gb", "G#": "Ab", "A#": "Bb",
	"Db": "Db", "Eb": "Eb", "Gb": "Gb", "Ab": "Ab", "Bb": "Bb",
	"C": "C", "D": "D", "E": "E", "F": "F", "G": "G", "A": "A", "B": "B",
}

// Key is a canonical (root, mode) pair. Two Keys are equal iff they
// denote the same pitch class and mode, regardless of the spelling or
// mode vocabulary they were normalized from.
type Key struct {
	Root string
	Mode string
}

// Normalize canonicalizes a root spelling and a mode word into a Key.
// Unrecognized roots pass through unchanged so one malformed entry
// surfaces downstream as a wrong detection instead of aborting a long
// batch run. Any mode word other than "major" is treated as minor.
func Normalize(root, modeWord string) Key {
	if canon, ok := enharmonic[root]; ok {
		root = canon
	}
	mode := ModeMinor
	if modeWord == "major" {
		mode = ModeMajor
	}
	return Key{Root: root, Mode: mode}
}

// ParseAnnotation parses a ground-truth annotation of the form
// "<Root> <major|minor>", e.g. "C# major" or "Db minor".
func ParseAnnotation(raw string) Key {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		return Key{}
	}
	modeWord := ""
	if len(parts) > 1 {
		modeWord = parts[1]
	}
	return Normalize(parts[0], modeWord)
}

// String renders the canonical "<root> <mode>" form, e.g. "Db min".
func (k Key) String() string {
	return k.Root + " " + k.Mode
}
