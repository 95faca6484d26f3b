package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(CSquared, 0)
		}, "Should panic when N is 0")
	})

	t.Run("no exploration with a single visit", func(t *testing.T) {
		policy := newUCT(CSquared, 1)
		require.Equal(t, 0.5, policy.evaluate(1, 2), "ln(1) should cancel the exploration term")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(CSquared, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + math.Sqrt(CSquared*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001, "Should compute q/n + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := newUCT(CSquared, 100).evaluate(5, 10)
		score2 := newUCT(CSquared, 1000).evaluate(5, 10)

		require.Greater(t, score2, score1, "More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Greater(t, policy.evaluate(5, 10), policy.evaluate(5, 20),
			"More child visits should decrease exploration term")
	})

	t.Run("virtual losses lower the value", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Greater(t, policy.evaluate(3, 5), policy.evaluate(3+LOSS, 6),
			"A pending visit counted as a loss should make the child less attractive")
	})
}
