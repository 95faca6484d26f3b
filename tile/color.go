package tile

import (
	"fmt"
	"strings"
)

// Color identifies a player.
type Color int

// NoColor marks an unowned tile, such as the start tile.
const NoColor Color = -1

const (
	Red Color = iota
	Blue
	Green
	Yellow
	Purple
)

// Colors lists every player color in turn order.
var Colors = []Color{Red, Blue, Green, Yellow, Purple}

var colorNames = map[Color]string{
	NoColor: "NONE",
	Red:     "RED",
	Blue:    "BLUE",
	Green:   "GREEN",
	Yellow:  "YELLOW",
	Purple:  "PURPLE",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// ParseColor accepts a color name in any case.
func ParseColor(s string) (Color, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
