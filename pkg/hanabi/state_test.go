package hanabi

import "testing"

func TestSingletonEliminationFromDiscardsAndKnownCards(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	gs.Discards[Identity{Suit: 0, Rank: 1}] = 2

	gs.HandleDraw(0, 100, UnknownSuit, -1)
	gs.HandleDraw(1, 10, 0, 1) // third and final copy of (0,1)

	info, ok := gs.Slots[100]
	if !ok {
		t.Fatal("missing slot for order 100")
	}
	if info.Candidates.Has(Identity{Suit: 0, Rank: 1}) {
		t.Errorf("expected (0,1) eliminated from own unknown candidates, got %v", info.Candidates.Items())
	}
}

func TestDoubletonPigeonhole(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0"}, 0)
	// Three of the observer's own slots, two of which are narrowed (by a
	// prior clue, simulated directly) to exactly {(0,1),(1,1)}; the suit-0
	// rank-1 and suit-1 rank-1 multiplicities are each 3, with 2 already
	// visible as discards each, leaving exactly 2 unaccounted copies
	// combined — matching the 2 slots that claim this pair.
	gs.HandleDraw(0, 1, UnknownSuit, -1)
	gs.HandleDraw(0, 2, UnknownSuit, -1)
	gs.HandleDraw(0, 3, UnknownSuit, -1)
	gs.Discards[Identity{Suit: 0, Rank: 1}] = 2
	gs.Discards[Identity{Suit: 1, Rank: 1}] = 2

	pair := idSet(Identity{Suit: 0, Rank: 1}, Identity{Suit: 1, Rank: 1})
	for _, o := range []int{1, 2} {
		info := gs.Slots[o]
		info.Candidates = pair
		info.Possibilities = pair
		gs.Slots[o] = info
	}
	gs.runElimination()

	third := gs.Slots[3]
	if third.Candidates.Has(Identity{Suit: 0, Rank: 1}) || third.Candidates.Has(Identity{Suit: 1, Rank: 1}) {
		t.Errorf("expected pigeonhole to exclude the pair from order 3, got %v", third.Candidates.Items())
	}
}

func TestApplyTouchPositiveAndNegative(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	gs.HandleDraw(1, 5, 2, 3)

	touched, err := TouchedBy("No Variant", ColorClue, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := gs.ApplyTouch(5, ColorClue, 2, true); err != nil {
		t.Fatal(err)
	}
	info := gs.Slots[5]
	if !info.Candidates.Subset(touched) {
		t.Errorf("expected candidates narrowed to touched set, got %v", info.Candidates.Items())
	}
}

func TestPlayAdvancesStackAndRemovesCard(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	gs.HandleDraw(1, 7, 0, 1)
	gs.HandlePlay(1, 7, 0, 1)

	if gs.Stacks[0] != 1 {
		t.Errorf("expected stack 0 to advance to 1, got %d", gs.Stacks[0])
	}
	if gs.Hands[1].IndexOfOrder(7) != -1 {
		t.Errorf("expected order 7 removed from hand")
	}
	if _, ok := gs.Slots[7]; ok {
		t.Errorf("expected slot 7 cleared after play")
	}
}

func TestDiscardRefundsClue(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	gs.Clues = 6
	gs.HandleDraw(1, 9, 0, 3)
	gs.HandleDiscard(1, 9, 0, 3, false)
	if gs.Clues != 7 {
		t.Errorf("expected clue refund to 7, got %d", gs.Clues)
	}
}
