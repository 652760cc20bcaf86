package ephemeris

import "strings"

// Body identifies a celestial body known to the oracle. The zero value is
// the Earth placeholder.
type Body int

const (
	Earth Body = iota
	Sun
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var bodyKeys = map[string]Body{
	"ea": Earth,
	"su": Sun,
	"mo": Moon,
	"me": Mercury,
	"ve": Venus,
	"ma": Mars,
	"ju": Jupiter,
	"sa": Saturn,
	"ur": Uranus,
	"ne": Neptune,
	"pl": Pluto,
}

var bodyNames = [...]string{"earth", "sun", "moon", "mercury", "venus", "mars", "jupiter", "saturn", "uranus", "neptune", "pluto"}

// BodyFromKey maps a two-letter key to a Body. Unknown keys resolve to the
// Earth placeholder rather than an error.
func BodyFromKey(key string) Body {
	if b, ok := bodyKeys[strings.ToLower(strings.TrimSpace(key))]; ok {
		return b
	}
	return Earth
}

// BodyFromName accepts either a two-letter key or the full English name.
func BodyFromName(name string) Body {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, bn := range bodyNames {
		if bn == n {
			return Body(i)
		}
	}
	return BodyFromKey(n)
}

// Key returns the body's two-letter key.
func (b Body) Key() string {
	for k, v := range bodyKeys {
		if v == b {
			return k
		}
	}
	return "ea"
}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return bodyNames[0]
	}
	return bodyNames[b]
}

// HasDisc reports whether rise/set for the body accounts for its disc.
func (b Body) HasDisc() bool {
	return b == Sun || b == Moon
}

// Fast reports whether the body moves fast enough that linear extrapolation
// of its position over a day is not good enough.
func (b Body) Fast() bool {
	return b == Moon
}

// Bodies lists every body with a real position, Sun first.
func Bodies() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}
