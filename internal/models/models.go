// package models defines the data model for the world record changelist
package models

import (
	"fmt"
	"strings"
)

// Mode is one of the leaderboard game modes tracked by the bot.
type Mode int

const (
	Sprint Mode = iota + 1
	Challenge
	Stunt
)

// Modes lists every tracked mode in catalog order.
var Modes = []Mode{Sprint, Challenge, Stunt}

// String returns the mode label, which doubles as its workshop tag.
func (m Mode) String() string {
	switch m {
	case Sprint:
		return "Sprint"
	case Challenge:
		return "Challenge"
	case Stunt:
		return "Stunt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of [Modes].
func (m Mode) Valid() bool {
	return m == Sprint || m == Challenge || m == Stunt
}

// TimeBased reports whether lower scores are better in this mode.
func (m Mode) TimeBased() bool {
	return m == Sprint || m == Challenge
}

// Better reports whether score a strictly beats score b.
//
// Sprint and Challenge record elapsed time so lower wins; Stunt records points so higher wins.
// Equal scores are never better.
func (m Mode) Better(a, b int32) bool {
	if m.TimeBased() {
		return a < b
	}
	return a > b
}

// ParseMode converts a mode label (case-insensitive) into a [Mode].
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText encodes the mode as its label.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot encode %v", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode label.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ModesFromTags returns the tracked modes named in tags, in [Modes] order and without repeats.
func ModesFromTags(tags []string) []Mode {
	var modes []Mode
	for _, m := range Modes {
		for _, tag := range tags {
			if tag == m.String() {
				modes = append(modes, m)
				break
			}
		}
	}
	return modes
}
