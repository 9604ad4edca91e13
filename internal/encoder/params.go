package encoder

import (
	"fmt"
	"strings"
)

// Speed is an avifenc speed value: 0 is the slowest, most thorough search,
// 10 the fastest.
type Speed int

// Only two presets are exposed.
const (
	SpeedBest Speed = 0
	SpeedFast Speed = 6
)

func (s Speed) String() string {
	switch s {
	case SpeedBest:
		return "best"
	case SpeedFast:
		return "fast"
	default:
		return fmt.Sprintf("speed(%d)", int(s))
	}
}

// ParseSpeed maps a preset name to its Speed. An empty name yields ok=false
// so callers can keep their own default.
func ParseSpeed(name string) (s Speed, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return 0, false, nil
	case "best", "quality", "slow":
		return SpeedBest, true, nil
	case "fast":
		return SpeedFast, true, nil
	default:
		return 0, false, fmt.Errorf("unknown speed preset %q (want best or fast)", name)
	}
}

const (
	MinQuality = 0
	MaxQuality = 100

	// DefaultAlphaQuality is used for every encode, with or without alpha.
	DefaultAlphaQuality = 50

	// DefaultThreads pins each encode to one thread. Parallelism comes from
	// running independent encodes side by side.
	DefaultThreads = 1
)

// Params are the avifenc settings for one encode.
type Params struct {
	Quality      int // 0–100, 100 is lossless
	AlphaQuality int
	Speed        Speed
	Threads      int
}

// ParamsFor applies the fixed encoding policy to the two caller inputs.
func ParamsFor(quality int, preferQuality bool) Params {
	speed := SpeedFast
	if preferQuality {
		speed = SpeedBest
	}
	return Params{
		Quality:      ClampQuality(quality),
		AlphaQuality: DefaultAlphaQuality,
		Speed:        speed,
		Threads:      DefaultThreads,
	}
}

// ClampQuality forces q into [MinQuality, MaxQuality].
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

func (p Params) validate() error {
	if p.Quality < MinQuality || p.Quality > MaxQuality {
		return fmt.Errorf("quality %d out of range", p.Quality)
	}
	if p.AlphaQuality < MinQuality || p.AlphaQuality > MaxQuality {
		return fmt.Errorf("alpha quality %d out of range", p.AlphaQuality)
	}
	if p.Speed < 0 || p.Speed > 10 {
		return fmt.Errorf("speed %d out of range", p.Speed)
	}
	if p.Threads != DefaultThreads {
		return fmt.Errorf("thread budget %d unsupported, encodes are single-threaded", p.Threads)
	}
	return nil
}
