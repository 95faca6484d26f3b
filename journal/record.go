package journal

import (
	"context"
	"fmt"

	"neolithic/codec"
	"neolithic/game"
	"neolithic/tile"
)

// RecordMove appends move, played on prev, and the messages it added to
// next. code is the remote action it was decoded from, if any.
func (j *Journal) RecordMove(ctx context.Context, gameID string, step int, code string, move game.Move, prev, next *game.GameState) error {
	player := ""
	if c := prev.CurrentPlayer(); c != tile.NoColor {
		player = c.String()
	}
	firstSeq := prev.Messages.Len()
	messages := next.Messages.Messages()[firstSeq:]
	a := Action{
		GameID: gameID,
		Step:   step,
		Player: player,
		Action: move.Action.String(),
		Code:   code,
		Move:   move.String(),
	}
	return j.RecordAction(ctx, a, firstSeq, messages)
}

// Observer records every move of a self-played game, then its winners.
// Its signature matches engine.Observer.
func (j *Journal) Observer(ctx context.Context, gameID string, initial *game.GameState) func(int, game.Move, *game.GameState) error {
	prev := initial
	return func(step int, move game.Move, next *game.GameState) error {
		code := ""
		if move.Action != game.StartGame {
			var err error
			if code, err = codec.Encode(prev, move); err != nil {
				return fmt.Errorf("encode step %d: %w", step, err)
			}
		}
		if err := j.RecordMove(ctx, gameID, step, code, move, prev, next); err != nil {
			return err
		}
		prev = next
		if next.IsOver() {
			winners, points := next.Winners()
			return j.FinishGame(ctx, gameID, winners, points)
		}
		return nil
	}
}
