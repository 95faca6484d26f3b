package server

import (
	"strings"

	"neolithic/codec"
	"neolithic/game"
	"neolithic/scoring"
	"neolithic/tile"
)

type summaryView struct {
	ID         string      `json:"id"`
	Players    []string    `json:"players"`
	NextAction game.Action `json:"next_action"`
}

type tileView struct {
	ID       int      `json:"id"`
	Pos      tile.Pos `json:"pos"`
	Rotation string   `json:"rotation"`
	Placer   string   `json:"placer,omitempty"`
}

type occupantView struct {
	Owner string `json:"owner"`
	Kind  string `json:"kind"`
	Zone  int    `json:"zone"`
}

type gameView struct {
	ID            string         `json:"id"`
	Locale        string         `json:"locale"`
	Players       []string       `json:"players"`
	CurrentPlayer string         `json:"current_player,omitempty"`
	NextAction    game.Action    `json:"next_action"`
	TileToPlace   *int           `json:"tile_to_place,omitempty"`
	NormalLeft    int            `json:"normal_tiles_left"`
	MenhirLeft    int            `json:"menhir_tiles_left"`
	Tiles         []tileView     `json:"tiles"`
	Occupants     []occupantView `json:"occupants"`
	Points        map[string]int `json:"points"`
	Winners       []string       `json:"winners,omitempty"`
	LegalActions  []string       `json:"legal_actions"`
}

type messagesView struct {
	Next     int               `json:"next"` // Index to ask for the following messages
	Messages []scoring.Message `json:"messages"`
}

func names(colors []tile.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.String()
	}
	return out
}

func colorNames(colors []tile.Color) string {
	return strings.Join(names(colors), " ")
}

func newSummaryView(id string, gs *game.GameState) summaryView {
	return summaryView{ID: id, Players: names(gs.Players), NextAction: gs.NextAction}
}

func newGameView(id, locale string, gs *game.GameState) gameView {
	v := gameView{
		ID:           id,
		Locale:       locale,
		Players:      names(gs.Players),
		NextAction:   gs.NextAction,
		NormalLeft:   gs.Decks.Size(tile.Normal),
		MenhirLeft:   gs.Decks.Size(tile.Menhir),
		Tiles:        []tileView{},
		Occupants:    []occupantView{},
		Points:       make(map[string]int),
		LegalActions: []string{},
	}
	if c := gs.CurrentPlayer(); c != tile.NoColor {
		v.CurrentPlayer = c.String()
	}
	if gs.TileToPlace != nil {
		id := gs.TileToPlace.ID
		v.TileToPlace = &id
	}
	for _, pt := range gs.Board.PlacedTiles() {
		tv := tileView{ID: pt.ID(), Pos: pt.Pos, Rotation: pt.Rotation.String()}
		if pt.Placer != tile.NoColor {
			tv.Placer = pt.Placer.String()
		}
		v.Tiles = append(v.Tiles, tv)
		if pt.Occupant != nil {
			v.Occupants = append(v.Occupants, occupantView{
				Owner: pt.Placer.String(),
				Kind:  pt.Occupant.Kind.String(),
				Zone:  pt.Occupant.ZoneID,
			})
		}
	}
	for c, p := range gs.Points() {
		v.Points[c.String()] = p
	}
	if gs.IsOver() {
		winners, _ := gs.Winners()
		v.Winners = names(winners)
	}
	if gs.NextAction != game.StartGame {
		for _, m := range gs.LegalMoves() {
			if code, err := codec.Encode(gs, m); err == nil {
				v.LegalActions = append(v.LegalActions, code)
			}
		}
	}
	return v
}

func newMessagesView(messages []scoring.Message, since int) messagesView {
	since = min(since, len(messages))
	out := messages[since:]
	if out == nil {
		out = []scoring.Message{}
	}
	return messagesView{Next: len(messages), Messages: out}
}
