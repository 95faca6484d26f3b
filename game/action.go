package game

import "neolithic/gameerr"

// Action is the next step the game expects.
type Action int

const (
	StartGame Action = iota
	PlaceTile
	OccupyTile
	RetakePawn
	EndGame
)

var actionNames = map[Action]string{
	StartGame:  "START_GAME",
	PlaceTile:  "PLACE_TILE",
	OccupyTile: "OCCUPY_TILE",
	RetakePawn: "RETAKE_PAWN",
	EndGame:    "END_GAME",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	for action, name := range actionNames {
		if name == string(text) {
			*a = action
			return nil
		}
	}
	return gameerr.Decodef("unknown action %q", text)
}
