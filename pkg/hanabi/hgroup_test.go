package hanabi

import "testing"

// buildHand draws count cards for player starting at firstOrder, suit/rank
// given per card, returning the next free order.
func buildHand(gs *GameState, player, firstOrder int, ids []Identity) int {
	order := firstOrder
	for _, id := range ids {
		gs.HandleDraw(player, order, id.Suit, id.Rank)
		order++
	}
	return order
}

func TestChopIsOldestUntouched(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1", "p2"}, 0)
	h := NewHGroupState(gs)
	buildHand(gs, 1, 0, []Identity{{0, 1}, {1, 2}, {2, 3}})

	order, ok := h.Chop(1)
	if !ok || order != 0 {
		t.Fatalf("expected chop order 0, got %d ok=%v", order, ok)
	}

	if err := gs.ApplyTouch(0, RankClue, 1, true); err != nil {
		t.Fatal(err)
	}
	order, ok = h.Chop(1)
	if !ok || order != 1 {
		t.Fatalf("expected chop order 1 after touching order 0, got %d ok=%v", order, ok)
	}
}

func TestFocusOfCluePrefersChop(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	h := NewHGroupState(gs)
	buildHand(gs, 1, 0, []Identity{{0, 1}, {1, 2}, {2, 3}})

	focus, ok := h.FocusOfClue(1, []int{0, 2})
	if !ok || focus != 0 {
		t.Fatalf("expected focus on chop (order 0), got %d ok=%v", focus, ok)
	}
}

func TestFocusOfClueFallsBackToNewestTouched(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	h := NewHGroupState(gs)
	buildHand(gs, 1, 0, []Identity{{0, 1}, {1, 2}, {2, 3}})

	focus, ok := h.FocusOfClue(1, []int{1, 2})
	if !ok || focus != 2 {
		t.Fatalf("expected focus on newest touched (order 2), got %d ok=%v", focus, ok)
	}
}

func TestNarrowFocusedCardRankClue(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1"}, 0)
	h := NewHGroupState(gs)
	gs.HandleDraw(1, 0, UnknownSuit, -1)
	gs.Slots[0] = SlotInfo{Possibilities: gs.allIdentities(), Candidates: gs.allIdentities()}

	if err := h.NarrowFocusedCard(0, RankClue, 3); err != nil {
		t.Fatal(err)
	}
	playable := Playables(gs.Stacks)
	crit, _ := Criticals(gs.Variant, gs.Stacks, gs.Discards)
	want := playable.Union(crit)
	if gs.Slots[0].Candidates != want {
		t.Errorf("got %v want %v", gs.Slots[0].Candidates.Items(), want.Items())
	}
}

func TestResolvePromptFinesseFindsCluedConnector(t *testing.T) {
	gs := NewGameState("No Variant", []string{"p0", "p1", "p2"}, 0)
	h := NewHGroupState(gs)
	// p1 holds the rank-1 of suit 0, already clued (so it is a prompt, not
	// a finesse target); p2's focused card resolves to (0, 2).
	gs.HandleDraw(1, 0, 0, 1)
	if err := gs.ApplyTouch(0, RankClue, 1, true); err != nil {
		t.Fatal(err)
	}
	// Give the prompt candidate set a helping hand: narrow it so its
	// candidates actually contain (0,1).
	info := gs.Slots[0]
	info.Candidates = idSet(Identity{Suit: 0, Rank: 1})
	gs.Slots[0] = info

	sim, err := h.ResolvePromptFinesse(2, 0, 2)
	if err != nil {
		t.Fatalf("expected chain to resolve via prompt, got %v", err)
	}
	if !sim.alreadyPlayedOrders[0] {
		t.Errorf("expected order 0 consumed by the simulated chain")
	}
}
