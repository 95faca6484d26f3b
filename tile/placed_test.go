package tile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"neolithic/gameerr"
)

func startTile(t *testing.T) *Tile {
	t.Helper()
	tl, ok := DefaultCatalog().Tile(56)
	require.True(t, ok)
	return tl
}

func TestPlacedTileSide(t *testing.T) {
	tl := startTile(t)

	t.Run("no rotation", func(t *testing.T) {
		pt := PlacedTile{Tile: tl, Placer: NoColor}
		for _, d := range Directions {
			require.Equal(t, tl.Side(d), pt.Side(d), "Side %s should be unchanged", d)
		}
	})

	t.Run("quarter turn right", func(t *testing.T) {
		pt := PlacedTile{Tile: tl, Placer: NoColor, Rotation: Right}
		require.Equal(t, tl.W, pt.Side(North), "West side should now face north")
		require.Equal(t, tl.N, pt.Side(East), "North side should now face east")
		require.Equal(t, tl.E, pt.Side(South))
		require.Equal(t, tl.S, pt.Side(West))
	})

	t.Run("half turn", func(t *testing.T) {
		pt := PlacedTile{Tile: tl, Placer: NoColor, Rotation: HalfTurn}
		require.Equal(t, tl.S, pt.Side(North))
		require.Equal(t, tl.W, pt.Side(East))
	})
}

func TestPlacedTileZones(t *testing.T) {
	tl := startTile(t)
	pt := PlacedTile{Tile: tl, Placer: Red}

	z, err := pt.Zone(568)
	require.NoError(t, err)
	require.IsType(t, &Lake{}, z)

	_, err = pt.Zone(569)
	require.True(t, errors.Is(err, gameerr.ErrNotFound), "Unknown zone should be not found")

	_, ok := pt.SpecialPowerZone()
	require.False(t, ok, "Start tile has no special power")

	shaman, ok := DefaultCatalog().Tile(60)
	require.True(t, ok)
	p, ok := PlacedTile{Tile: shaman, Placer: Red}.SpecialPowerZone()
	require.True(t, ok)
	require.Equal(t, Shaman, p.SpecialPower())
}

func TestPotentialOccupants(t *testing.T) {
	tl := startTile(t)

	t.Run("unowned tile", func(t *testing.T) {
		pt := PlacedTile{Tile: tl, Placer: NoColor}
		require.Empty(t, pt.PotentialOccupants(), "Unowned tile should offer no occupant")
	})

	t.Run("river into lake", func(t *testing.T) {
		pt := PlacedTile{Tile: tl, Placer: Blue}
		require.Equal(t, []Occupant{
			{Kind: Pawn, ZoneID: 560},
			{Kind: Pawn, ZoneID: 561},
			{Kind: Pawn, ZoneID: 562},
			{Kind: Pawn, ZoneID: 563},
			{Kind: Hut, ZoneID: 568},
		}, pt.PotentialOccupants(), "A river with a lake should offer its hut on the lake")
	})

	t.Run("river without lake", func(t *testing.T) {
		river, ok := DefaultCatalog().Tile(17)
		require.True(t, ok)
		pt := PlacedTile{Tile: river, Placer: Blue}
		require.Contains(t, pt.PotentialOccupants(), Occupant{Kind: Hut, ZoneID: 171})
		require.Contains(t, pt.PotentialOccupants(), Occupant{Kind: Pawn, ZoneID: 171})
	})

	t.Run("occupant helpers", func(t *testing.T) {
		pt := PlacedTile{Tile: tl, Placer: Blue}
		occupied := pt.WithOccupant(Occupant{Kind: Hut, ZoneID: 568})
		require.Nil(t, pt.Occupant, "Original value should not change")
		require.Equal(t, 568, occupied.OccupiedZoneID(Hut))
		require.Equal(t, -1, occupied.OccupiedZoneID(Pawn))
		require.Nil(t, occupied.WithNoOccupant().Occupant)
	})
}

func TestRotationAndDirection(t *testing.T) {
	require.Equal(t, South, North.Opposite())
	require.Equal(t, West, North.Rotated(Left))
	require.Equal(t, Left, Right.Negated())
	require.Equal(t, NoRotation, Left.Add(Right))
	require.Equal(t, Pos{X: 0, Y: -1}, Origin.Neighbor(North))
	require.Negative(t, ComparePos(Pos{X: -1, Y: 5}, Pos{X: 0, Y: -5}))
}

func TestColor(t *testing.T) {
	c, err := ParseColor("green")
	require.NoError(t, err)
	require.Equal(t, Green, c)

	_, err = ParseColor("black")
	require.Error(t, err)

	text, err := Purple.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "PURPLE", string(text))
}
