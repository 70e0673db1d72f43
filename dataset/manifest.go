package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Track pairs an audio identifier with its raw ground-truth key
// annotation as read from the manifest. The annotation stays unparsed
// until evaluation time.
type Track struct {
	ID     string
	RawKey string
}

// Load reads a manifest file line by line. A line is a data line iff it
// contains a '|' separator: the part before it is the identifier, the
// rest is the expected key annotation. Blank lines and comments lack
// the separator and are skipped. Only failing to open or read the file
// is an error; malformed annotations are caught downstream.
func Load(path string) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var tracks []Track
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		id, raw, found := strings.Cut(line, "|")
		if !found {
			continue
		}
		tracks = append(tracks, Track{ID: id, RawKey: raw})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return tracks, nil
}
