package game

import (
	"golang.org/x/exp/rand"

	"neolithic/gameerr"
	"neolithic/tile"
)

// TileDecks holds the three piles, top first. Piles are never modified in
// place so decks can be shared between game states.
type TileDecks struct {
	Start  []*tile.Tile
	Normal []*tile.Tile
	Menhir []*tile.Tile
}

// NewDecks builds the piles of a catalog and shuffles the normal and menhir
// piles with the given seed.
func NewDecks(c *tile.Catalog, seed uint64) TileDecks {
	rng := rand.New(rand.NewSource(seed))
	decks := TileDecks{
		Start:  c.ByKind(tile.Start),
		Normal: c.ByKind(tile.Normal),
		Menhir: c.ByKind(tile.Menhir),
	}
	shuffle(rng, decks.Normal)
	shuffle(rng, decks.Menhir)
	return decks
}

func shuffle(rng *rand.Rand, pile []*tile.Tile) {
	rng.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
}

func (d TileDecks) pile(kind tile.Kind) []*tile.Tile {
	switch kind {
	case tile.Start:
		return d.Start
	case tile.Normal:
		return d.Normal
	case tile.Menhir:
		return d.Menhir
	}
	gameerr.Invariantf("unknown pile %d", kind)
	return nil
}

func (d TileDecks) withPile(kind tile.Kind, pile []*tile.Tile) TileDecks {
	switch kind {
	case tile.Start:
		d.Start = pile
	case tile.Normal:
		d.Normal = pile
	case tile.Menhir:
		d.Menhir = pile
	}
	return d
}

func (d TileDecks) Size(kind tile.Kind) int {
	return len(d.pile(kind))
}

// Top returns the top tile of a pile.
func (d TileDecks) Top(kind tile.Kind) (*tile.Tile, bool) {
	pile := d.pile(kind)
	if len(pile) == 0 {
		return nil, false
	}
	return pile[0], true
}

// WithTopTileDrawn removes the top tile of a pile.
func (d TileDecks) WithTopTileDrawn(kind tile.Kind) (TileDecks, error) {
	pile := d.pile(kind)
	if len(pile) == 0 {
		return d, gameerr.Preconditionf("cannot draw: %s pile is empty", kind)
	}
	return d.withPile(kind, pile[1:]), nil
}

// WithTopTileDrawnUntil discards tiles from a pile until its top satisfies
// keep or the pile is empty.
func (d TileDecks) WithTopTileDrawnUntil(kind tile.Kind, keep func(*tile.Tile) bool) TileDecks {
	pile := d.pile(kind)
	for len(pile) > 0 && !keep(pile[0]) {
		pile = pile[1:]
	}
	return d.withPile(kind, pile)
}

// Shuffled returns the decks with their normal and menhir piles reordered.
func (d TileDecks) Shuffled(seed uint64) TileDecks {
	rng := rand.New(rand.NewSource(seed))
	normal := append([]*tile.Tile(nil), d.Normal...)
	menhir := append([]*tile.Tile(nil), d.Menhir...)
	shuffle(rng, normal)
	shuffle(rng, menhir)
	d.Normal, d.Menhir = normal, menhir
	return d
}
