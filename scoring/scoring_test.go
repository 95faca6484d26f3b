package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"neolithic/area"
	"neolithic/tile"
)

type plainText struct{}

func (plainText) PlayerClosedForestWithMenhir(p tile.Color) string { return fmt.Sprintf("menhir %s", p) }
func (plainText) PlayersScoredForest(s []tile.Color, pts, m, n int) string {
	return fmt.Sprintf("forest %v %d", s, pts)
}
func (plainText) PlayersScoredRiver(s []tile.Color, pts, f, n int) string {
	return fmt.Sprintf("river %v %d", s, pts)
}
func (plainText) PlayerScoredHuntingTrap(s tile.Color, pts int, a map[tile.AnimalKind]int) string {
	return fmt.Sprintf("hunting trap %s %d", s, pts)
}
func (plainText) PlayerScoredLogboat(s tile.Color, pts, l int) string {
	return fmt.Sprintf("logboat %s %d", s, pts)
}
func (plainText) PlayersScoredMeadow(s []tile.Color, pts int, a map[tile.AnimalKind]int) string {
	return fmt.Sprintf("meadow %v %d", s, pts)
}
func (plainText) PlayersScoredRiverSystem(s []tile.Color, pts, f int) string {
	return fmt.Sprintf("river system %v %d", s, pts)
}
func (plainText) PlayersScoredPitTrap(s []tile.Color, pts int, a map[tile.AnimalKind]int) string {
	return fmt.Sprintf("pit trap %v %d", s, pts)
}
func (plainText) PlayersScoredRaft(s []tile.Color, pts, l int) string {
	return fmt.Sprintf("raft %v %d", s, pts)
}
func (plainText) PlayersWon(w []tile.Color, pts int) string { return fmt.Sprintf("won %v %d", w, pts) }

func TestPoints(t *testing.T) {
	require.Equal(t, 4, ForClosedForest(2, 0))
	require.Equal(t, 9, ForClosedForest(3, 1))
	require.Equal(t, 5, ForClosedRiver(2, 3))
	require.Equal(t, 3+2*2+1, ForMeadow(map[tile.AnimalKind]int{tile.Mammoth: 1, tile.Aurochs: 2, tile.Deer: 1, tile.Tiger: 4}))
	require.Equal(t, 4, ForRiverSystem(4))
	require.Equal(t, 6, ForLogboat(3))
	require.Equal(t, 3, ForRaft(3))
}

func forestArea(occupants []tile.Color, kinds ...tile.ForestKind) area.Area[*tile.Forest] {
	var zones []*tile.Forest
	for i, k := range kinds {
		zones = append(zones, tile.NewForest(tile.ZoneID(i+1, 0), k))
	}
	return area.New(zones, occupants, 0)
}

func TestMessageBoardForest(t *testing.T) {
	mb := NewMessageBoard(plainText{})

	t.Run("occupied forest", func(t *testing.T) {
		got := mb.WithScoredForest(forestArea([]tile.Color{tile.Red}, tile.Plain, tile.Plain))
		require.Equal(t, []Message{{
			Text:    "forest [RED] 4",
			Points:  4,
			Scorers: []tile.Color{tile.Red},
			TileIDs: []int{1, 2},
		}}, got.Messages())
		require.Zero(t, mb.Len(), "Receiver should not change")
	})

	t.Run("unoccupied forest", func(t *testing.T) {
		got := mb.WithScoredForest(forestArea(nil, tile.Plain, tile.WithMushrooms))
		require.Zero(t, got.Len(), "Unoccupied areas should not produce a message")
	})

	t.Run("majority only", func(t *testing.T) {
		got := mb.WithScoredForest(forestArea([]tile.Color{tile.Blue, tile.Red, tile.Blue}, tile.WithMushrooms, tile.Plain, tile.WithMushrooms))
		require.Equal(t, map[tile.Color]int{tile.Blue: 12}, got.Points())
	})

	t.Run("menhir", func(t *testing.T) {
		got := mb.WithClosedForestWithMenhir(tile.Green, forestArea(nil, tile.WithMenhir))
		require.Equal(t, 1, got.Len())
		require.Zero(t, got.Messages()[0].Points)
		require.Equal(t, []tile.Color{tile.Green}, got.Messages()[0].Scorers)
	})
}

func TestMessageBoardRiverAndWater(t *testing.T) {
	mb := NewMessageBoard(plainText{})
	lake := tile.NewLake(18, 2, tile.Raft)
	r1 := tile.NewRiver(11, 1, lake)
	r2 := tile.NewRiver(21, 3, nil)

	t.Run("river", func(t *testing.T) {
		got := mb.WithScoredRiver(area.New([]*tile.River{r1, r2}, []tile.Color{tile.Yellow, tile.Purple}, 0))
		require.Equal(t, map[tile.Color]int{tile.Yellow: 8, tile.Purple: 8}, got.Points(),
			"Two tiles, four river fish and two lake fish should be shared by tied players")
	})

	water := area.New([]tile.WaterZone{r1, lake, r2}, []tile.Color{tile.Red}, 0)

	t.Run("river system", func(t *testing.T) {
		got := mb.WithScoredRiverSystem(water)
		require.Equal(t, map[tile.Color]int{tile.Red: 6}, got.Points())
	})

	t.Run("raft", func(t *testing.T) {
		got := mb.WithScoredRaft(water)
		require.Equal(t, map[tile.Color]int{tile.Red: 1}, got.Points())
	})

	t.Run("logboat scores for its placer", func(t *testing.T) {
		got := mb.WithScoredLogboat(tile.Blue, water)
		require.Equal(t, map[tile.Color]int{tile.Blue: 2}, got.Points())
	})

	t.Run("empty water system", func(t *testing.T) {
		dry := area.New([]tile.WaterZone{tile.NewRiver(31, 0, nil)}, []tile.Color{tile.Red}, 0)
		require.Zero(t, mb.WithScoredRiverSystem(dry).Len(), "Zero points should not produce a message")
		require.Zero(t, mb.WithScoredLogboat(tile.Red, dry).Len())
	})
}

func TestMessageBoardMeadow(t *testing.T) {
	mb := NewMessageBoard(plainText{})
	m := tile.NewMeadow(10, []tile.Animal{
		{ID: 1000, Kind: tile.Mammoth},
		{ID: 1001, Kind: tile.Deer},
		{ID: 1002, Kind: tile.Tiger},
	}, tile.NoPower)
	meadow := area.New([]*tile.Meadow{m}, []tile.Color{tile.Green}, 0)

	t.Run("meadow", func(t *testing.T) {
		got := mb.WithScoredMeadow(meadow, nil)
		require.Equal(t, map[tile.Color]int{tile.Green: 4}, got.Points())
		got = mb.WithScoredMeadow(meadow, map[int]bool{1001: true})
		require.Equal(t, map[tile.Color]int{tile.Green: 3}, got.Points(), "Cancelled animals should not count")
	})

	t.Run("hunting trap scores for its placer", func(t *testing.T) {
		got := mb.WithScoredHuntingTrap(tile.Purple, meadow, nil)
		require.Equal(t, map[tile.Color]int{tile.Purple: 4}, got.Points())
		require.Equal(t, "hunting trap PURPLE 4", got.Messages()[0].Text)
	})

	t.Run("pit trap", func(t *testing.T) {
		got := mb.WithScoredPitTrap(meadow, map[int]bool{1000: true})
		require.Equal(t, map[tile.Color]int{tile.Green: 1}, got.Points())
	})

	t.Run("winners", func(t *testing.T) {
		got := mb.WithScoredMeadow(meadow, nil).WithWinners([]tile.Color{tile.Green}, 4)
		require.Equal(t, 2, got.Len())
		require.Equal(t, map[tile.Color]int{tile.Green: 4}, got.Points(), "The winners message is worth no points")
	})
}
