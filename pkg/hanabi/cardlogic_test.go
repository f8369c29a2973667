package hanabi

import "testing"

func TestPlayables(t *testing.T) {
	stacks := []int{2, 1, 1, 0, 0}
	got := Playables(stacks)
	want := idSet(Identity{0, 3}, Identity{1, 2}, Identity{2, 2}, Identity{3, 1}, Identity{4, 1})
	if got != want {
		t.Errorf("got %v want %v", got.Items(), want.Items())
	}
}

func TestCriticalsBlackSixSuits(t *testing.T) {
	stacks := []int{0, 0, 2, 0, 2, 0}
	discards := map[Identity]int{
		{2, 1}: 2, {2, 4}: 1, {1, 2}: 1, {3, 1}: 2, {4, 5}: 1,
	}
	got, err := NonFiveCriticals("Black (6 Suits)", stacks, discards)
	if err != nil {
		t.Fatal(err)
	}
	want := idSet(
		Identity{1, 2}, Identity{2, 4}, Identity{3, 1},
		Identity{5, 1}, Identity{5, 2}, Identity{5, 3}, Identity{5, 4},
	)
	if got != want {
		t.Errorf("got %v want %v", got.Items(), want.Items())
	}
}

func TestStartingPace(t *testing.T) {
	cases := []struct {
		variant    string
		numPlayers int
		want       int
	}{
		{"No Variant", 5, 15 - 5},      // one suit fewer than 6
		{"No Variant", 4, 18 - 5},      // one suit fewer than 6
		{"Black (6 Suits)", 3, 18 - 5}, // one dark suit
		{"6 Suits", 4, 18},
	}
	for _, c := range cases {
		got, err := StartingPace(c.variant, c.numPlayers)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("%s/%d: got %d want %d", c.variant, c.numPlayers, got, c.want)
		}
	}
}

func TestMultiplicityDarkSuit(t *testing.T) {
	for r := 1; r <= MaxRank; r++ {
		got, err := Multiplicity("Black (6 Suits)", Identity{Suit: 5, Rank: r})
		if err != nil {
			t.Fatal(err)
		}
		if got != 1 {
			t.Errorf("rank %d: got multiplicity %d want 1", r, got)
		}
	}
	got, err := Multiplicity("No Variant", Identity{Suit: 0, Rank: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("rank 1: got %d want 3", got)
	}
}

func TestDeckRemaining(t *testing.T) {
	// No Variant: 5 suits * (3+2+2+2+1) = 50 cards total.
	got, err := DeckRemaining("No Variant", 10, 2, []int{1, 0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := 50 - 10 - 2 - 1; got != want {
		t.Errorf("got %d want %d", got, want)
	}
}
