package detect

import "fmt"

// Profile holds the 12-bin major and minor pitch-class templates for
// one detector configuration. Index 0 is the tonic; the reference
// detector rotates the template across all 12 keys.
type Profile struct {
	ID          string
	Description string
	Major       [12]float64
	Minor       [12]float64
}

// DefaultProfiles lists the configurations evaluated by default, in
// report order.
var DefaultProfiles = []string{"edma", "edmm", "krumhansl", "temperley", "shaath", "bgate"}

var profiles = map[string]Profile{
	"krumhansl": {
		ID:          "krumhansl",
		Description: "Krumhansl-Schmuckler empirical profiles from listener ratings",
		Major:       [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88},
		Minor:       [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17},
	},
	"temperley": {
		ID:          "temperley",
		Description: "Temperley statistical profiles from musical corpora",
		Major:       [12]float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		Minor:       [12]float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
	},
	"shaath": {
		ID:          "shaath",
		Description: "Shaath profiles tuned for electronic dance music",
		Major:       [12]float64{6.6, 2.0, 3.5, 2.3, 4.6, 4.0, 2.5, 5.2, 2.4, 3.7, 2.3, 3.4},
		Minor:       [12]float64{6.5, 2.7, 3.5, 5.4, 2.6, 3.5, 2.5, 4.7, 4.0, 2.7, 3.4, 3.2},
	},
	"edma": {
		ID:          "edma",
		Description: "Electronic dance music analysis profiles",
		Major:       [12]float64{17.7661, 0.145624, 14.9265, 0.160186, 19.8049, 11.3587, 0.291248, 22.062, 0.145624, 8.15494, 0.232998, 4.95122},
		Minor:       [12]float64{18.2648, 0.737619, 14.0499, 16.8599, 0.702494, 14.4362, 0.702494, 18.6161, 4.56621, 1.93186, 7.37619, 1.75623},
	},
	"edmm": {
		ID:          "edmm",
		Description: "EDMA variant with a minor-biased minor template",
		Major:       [12]float64{17.7661, 0.145624, 14.9265, 0.160186, 19.8049, 11.3587, 0.291248, 22.062, 0.145624, 8.15494, 0.232998, 4.95122},
		Minor:       [12]float64{19.7382, 0.452354, 13.8261, 18.7613, 0.532478, 14.8045, 0.454854, 18.6161, 5.21621, 1.50286, 8.45718, 1.21323},
	},
	"bgate": {
		ID:          "bgate",
		Description: "Balanced gate profiles for modern music",
		Major:       [12]float64{16.8, 0.86, 12.95, 1.41, 13.49, 11.93, 1.25, 20.28, 1.80, 8.04, 0.62, 10.57},
		Minor:       [12]float64{18.16, 0.69, 12.99, 13.34, 1.07, 11.15, 1.38, 21.07, 7.49, 1.53, 6.24, 1.61},
	},
}

// Lookup returns the profile template registered under id.
func Lookup(id string) (Profile, error) {
	p, ok := profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("unknown key profile %q", id)
	}
	return p, nil
}
