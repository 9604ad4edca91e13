package profile

import "github.com/mbenoukaiss/shrink/internal/encoder"

// Profile is a named set of encoding defaults.
type Profile struct {
	Name          string
	Quality       int  // AVIF quality 0-100
	PreferQuality bool // slowest speed preset instead of the fast one
	MaxWidth      int  // downscale wider sources; 0 keeps original size
}

// DefaultName is used when no profile is requested.
const DefaultName = "web"

// Built-in profiles.
var profiles = map[string]Profile{
	"web": {
		Name:    "web",
		Quality: 60,
	},
	"archive": {
		Name:          "archive",
		Quality:       90,
		PreferQuality: true,
	},
	"thumbnail": {
		Name:     "thumbnail",
		Quality:  50,
		MaxWidth: 320,
	},
}

// Get returns a profile by name. Falls back to web if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names lists built-in profiles in a stable order.
func Names() []string {
	return []string{"web", "archive", "thumbnail"}
}

// Params resolves the profile to encoder parameters.
func (p Profile) Params() encoder.Params {
	return encoder.ParamsFor(p.Quality, p.PreferQuality)
}

// Speed names the profile's speed preset.
func (p Profile) Speed() string {
	return p.Params().Speed.String()
}
