// Package codec converts remote actions to and from short strings. A code is
// relative to the state it is decoded against: placements are encoded as the
// rank of their position among the board's insertion positions.
package codec

import (
	"strings"

	"neolithic/game"
	"neolithic/gameerr"
	"neolithic/tile"
)

const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

const (
	symbolBits = 5
	none       = 1<<symbolBits - 1
	kindShift  = 4
)

func symbol(v int) byte { return Alphabet[v] }

func value(c byte) (int, bool) {
	i := strings.IndexByte(Alphabet, c)
	return i, i >= 0
}

func decodeBits(code string) (int, error) {
	v := 0
	for i := 0; i < len(code); i++ {
		s, ok := value(code[i])
		if !ok {
			return 0, gameerr.Decodef("invalid symbol %q in %q", code[i], code)
		}
		v = v<<symbolBits | s
	}
	return v, nil
}

func encodeBits(v, symbols int) string {
	out := make([]byte, symbols)
	for i := symbols - 1; i >= 0; i-- {
		out[i] = symbol(v & none)
		v >>= symbolBits
	}
	return string(out)
}

// Decode turns a code into the move it stands for in gs.
func Decode(gs *game.GameState, code string) (game.Move, error) {
	switch gs.NextAction {
	case game.PlaceTile:
		return decodePlacement(gs, code)
	case game.OccupyTile:
		return decodeOccupant(gs, code)
	case game.RetakePawn:
		return decodeRemoval(gs, code)
	}
	return game.Move{}, gameerr.Decodef("no remote action expected while next action is %s", gs.NextAction)
}

func decodePlacement(gs *game.GameState, code string) (game.Move, error) {
	if len(code) != 2 {
		return game.Move{}, gameerr.Decodef("placement %q must have 2 symbols", code)
	}
	v, err := decodeBits(code)
	if err != nil {
		return game.Move{}, err
	}
	positions := gs.Board.InsertionPositions()
	rank := v >> 2
	if rank >= len(positions) {
		return game.Move{}, gameerr.Decodef("placement %q: position rank %d out of %d", code, rank, len(positions))
	}
	return game.Move{Action: game.PlaceTile, Pos: positions[rank], Rotation: tile.Rotation(v & 3)}, nil
}

func decodeOccupant(gs *game.GameState, code string) (game.Move, error) {
	v, err := decodeSingle(code)
	if err != nil {
		return game.Move{}, err
	}
	if v == none {
		return game.Move{Action: game.OccupyTile, Skip: true}, nil
	}
	last, ok := gs.Board.LastPlacedTile()
	if !ok {
		return game.Move{}, gameerr.Decodef("occupant %q: board is empty", code)
	}
	kind := tile.OccupantKind(v >> kindShift)
	local := v & (1<<kindShift - 1)
	if local > 9 {
		return game.Move{}, gameerr.Decodef("occupant %q: local zone %d out of range", code, local)
	}
	occ := tile.Occupant{Kind: kind, ZoneID: tile.ZoneID(last.ID(), local)}
	return game.Move{Action: game.OccupyTile, Occupant: occ}, nil
}

func decodeRemoval(gs *game.GameState, code string) (game.Move, error) {
	v, err := decodeSingle(code)
	if err != nil {
		return game.Move{}, err
	}
	if v == none {
		return game.Move{Action: game.RetakePawn, Skip: true}, nil
	}
	pawns := placedPawns(gs)
	if v >= len(pawns) {
		return game.Move{}, gameerr.Decodef("removal %q: pawn rank %d out of %d", code, v, len(pawns))
	}
	return game.Move{Action: game.RetakePawn, Occupant: pawns[v]}, nil
}

func decodeSingle(code string) (int, error) {
	if len(code) != 1 {
		return 0, gameerr.Decodef("code %q must have 1 symbol", code)
	}
	return decodeBits(code)
}

// placedPawns returns every pawn on the board sorted by zone id.
func placedPawns(gs *game.GameState) []tile.Occupant {
	var pawns []tile.Occupant
	for _, occ := range gs.Board.Occupants() {
		if occ.Kind == tile.Pawn {
			pawns = append(pawns, occ)
		}
	}
	return pawns
}

// Encode returns the code of a move in gs.
func Encode(gs *game.GameState, m game.Move) (string, error) {
	switch m.Action {
	case game.PlaceTile:
		positions := gs.Board.InsertionPositions()
		for rank, pos := range positions {
			if pos == m.Pos {
				return encodeBits(rank<<2|int(m.Rotation), 2), nil
			}
		}
		return "", gameerr.Preconditionf("cannot encode %s: not an insertion position", m)
	case game.OccupyTile:
		if m.Skip {
			return encodeBits(none, 1), nil
		}
		local := m.Occupant.ZoneID % 10
		return encodeBits(int(m.Occupant.Kind)<<kindShift|local, 1), nil
	case game.RetakePawn:
		if m.Skip {
			return encodeBits(none, 1), nil
		}
		for rank, occ := range placedPawns(gs) {
			if occ == m.Occupant {
				return encodeBits(rank, 1), nil
			}
		}
		return "", gameerr.Preconditionf("cannot encode %s: pawn not on the board", m)
	}
	return "", gameerr.Preconditionf("cannot encode %s: not a remote action", m)
}

// DecodeAndApply decodes a code against gs and plays it. On failure gs is
// returned unchanged with the error.
func DecodeAndApply(gs *game.GameState, code string) (*game.GameState, game.Move, error) {
	m, err := Decode(gs, code)
	if err != nil {
		return gs, m, err
	}
	next, err := gs.Play(m)
	if err != nil {
		return gs, m, err
	}
	return next, m, nil
}
