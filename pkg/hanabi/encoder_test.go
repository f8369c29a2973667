package hanabi

import "testing"

func TestComputeMRejectsUnsupportedPlayerCounts(t *testing.T) {
	for _, n := range []int{2, 3, 7} {
		if _, err := computeM(n); err == nil {
			t.Errorf("expected unimplemented error for %d players", n)
		}
	}
	for n, want := range map[int]int{4: 12, 5: 16, 6: 20} {
		m, err := computeM(n)
		if err != nil {
			t.Fatalf("%d players: %v", n, err)
		}
		if m != want {
			t.Errorf("%d players: got M=%d want %d", n, m, want)
		}
	}
}

func TestBuildResidueTableRejectsThreeSuits(t *testing.T) {
	if _, err := buildResidueTable("White & Null (3 Suits)", 4, 0); err == nil {
		t.Fatal("expected unimplemented error for a 3-suit variant")
	}
}

func TestResidueToIdentitiesCoversTrashAtZero(t *testing.T) {
	table, err := buildResidueTable("No Variant", 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	stacks := []int{2, 2, 2, 2, 2}
	discards := map[Identity]int{}
	r2i, err := residueToIdentities(table, "No Variant", stacks, discards)
	if err != nil {
		t.Fatal(err)
	}
	for suit := 0; suit < 5; suit++ {
		for r := 1; r <= 2; r++ {
			if !r2i[0].Has(Identity{Suit: suit, Rank: r}) {
				t.Errorf("expected played identity (%d,%d) folded into trash residue", suit, r)
			}
		}
	}
}

func TestEncoderDecodeClueDoesNotPanic(t *testing.T) {
	names := []string{"p0", "p1", "p2", "p3", "p4"}
	gs := NewGameState("No Variant", names, 0)
	es := NewEncoderState(gs)

	order := 0
	for p := 0; p < 5; p++ {
		for i := 0; i < 5; i++ {
			suit, rank := 0, 1
			if p == es.gs.ObserverIdx {
				suit, rank = UnknownSuit, -1
			}
			if err := es.OnEvent(GameEvent{Type: EventDraw, PlayerIndex: p, Order: order, Suit: suit, Rank: rank}); err != nil {
				t.Fatalf("draw: %v", err)
			}
			order++
		}
	}
	err := es.OnEvent(GameEvent{
		Type: EventClue, Giver: 1, Target: 2, ClueKind: RankClue, ClueValue: 2,
		TouchedOrders: nil,
	})
	if err != nil {
		t.Fatalf("clue decode: %v", err)
	}
}

func TestBuildResidueTableMatchesLiteralEntries(t *testing.T) {
	table, err := buildResidueTable("No Variant", 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[int][]ModEntry{
		0:  {{-1, 1}},
		4:  {{-5, 1}},
		5:  {{0, 2}, {2, 2}},
		15: {{0, 4}, {4, 5}},
	}
	for residue, want := range cases {
		got := table[residue]
		if len(got) != len(want) {
			t.Fatalf("residue %d: got %v want %v", residue, got, want)
		}
		for i, e := range want {
			if got[i] != e {
				t.Errorf("residue %d entry %d: got %v want %v", residue, i, got[i], e)
			}
		}
	}

	table1, err := buildResidueTable("No Variant", 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(table1[0]) != 0 {
		t.Errorf("num1sPlayed=1: residue 0 should carry no entry (the (0,0) trash marker is dropped), got %v", table1[0])
	}
}

func TestBuildResidueTableRejectsSixPlayers(t *testing.T) {
	if _, err := buildResidueTable("No Variant", 6, 0); err == nil {
		t.Fatal("expected unimplemented error: the literal table has no M=20 row")
	}
}

func TestBuildResidueTableRejectsTwoDarkSuitsInSixSuitVariant(t *testing.T) {
	RegisterVariant(Variant{Name: "Test Double Dark (6 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Black", "Gray"}})
	if _, err := buildResidueTable("Test Double Dark (6 Suits)", 5, 0); err == nil {
		t.Fatal("expected unimplemented error for a 6-suit variant with two dark suits")
	}
}

func TestResidueToIdentitiesKeepsFirstGoodOneAtZero(t *testing.T) {
	table, err := buildResidueTable("No Variant", 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	stacks := []int{0, 0, 0, 0, 0}
	r2i, err := residueToIdentities(table, "No Variant", stacks, map[Identity]int{})
	if err != nil {
		t.Fatal(err)
	}
	if !r2i[0].Has(Identity{Suit: 0, Rank: 1}) {
		t.Errorf("expected the first not-yet-started suit's rank 1 at residue 0, got %v", r2i[0].Items())
	}
}

func TestEvaluateClueScoreIsProductOfSizes(t *testing.T) {
	names := []string{"p0", "p1"}
	gs := NewGameState("Omni (5 Suits)", names, 0)
	es := NewEncoderState(gs)
	gs.Stacks = []int{2, 1, 1, 0, 0}
	gs.HandleDraw(1, 0, 1, 2)
	gs.HandleDraw(1, 1, 0, 1)

	// Order 0 is (1,2), touched by the rank-2 clue, so its candidates stay
	// {(1,2)} (size 1); order 1 is (0,1), already trash, so it is skipped.
	// The product is 1.
	score, err := es.EvaluateClueScore(RankClue, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if score != 1 {
		t.Errorf("expected score 1, got %d", score)
	}
}
