package hanabi

import (
	"reflect"
	"testing"
)

func idSet(ids ...Identity) IdentitySet { return NewIdentitySet(ids...) }

func allRanks(suit int) []Identity {
	var out []Identity
	for r := 1; r <= MaxRank; r++ {
		out = append(out, Identity{Suit: suit, Rank: r})
	}
	return out
}

func TestAvailableColorClues(t *testing.T) {
	cases := []struct {
		variant string
		want    []string
	}{
		{"No Variant", []string{"Red", "Yellow", "Green", "Blue", "Purple"}},
		{"Black & Pink (5 Suits)", []string{"Red", "Green", "Blue", "Black", "Pink"}},
		{"Omni (5 Suits)", []string{"Red", "Yellow", "Green", "Blue"}},
		{"Rainbow & Omni (5 Suits)", []string{"Red", "Green", "Blue"}},
		{"White & Null (3 Suits)", []string{"Red"}},
	}
	for _, c := range cases {
		got, err := AvailableColorClues(c.variant)
		if err != nil {
			t.Fatalf("%s: %v", c.variant, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %v want %v", c.variant, got, c.want)
		}
	}
}

func TestTouchedByRainbowAndPink(t *testing.T) {
	// Rainbow (4 Suits): [Red, Yellow, Green, Rainbow]. Color clue 2
	// ("Green") touches Green fully plus Rainbow fully.
	got, err := TouchedBy("Rainbow (4 Suits)", ColorClue, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := idSet(append(allRanks(2), allRanks(3)...)...)
	if got != want {
		t.Errorf("Rainbow color clue 2: got %v want %v", got.Items(), want.Items())
	}

	// Pink (4 Suits): [Red, Yellow, Green, Pink]. Rank clue 2 touches every
	// suit's rank-2 plus all of Pink (pink-like).
	got, err = TouchedBy("Pink (4 Suits)", RankClue, 2)
	if err != nil {
		t.Fatal(err)
	}
	want = idSet(
		Identity{0, 2}, Identity{1, 2}, Identity{2, 2},
		Identity{3, 1}, Identity{3, 2}, Identity{3, 3}, Identity{3, 4}, Identity{3, 5},
	)
	if got != want {
		t.Errorf("Pink rank clue 2: got %v want %v", got.Items(), want.Items())
	}
}

func TestTouchedByWhiteAndBrown(t *testing.T) {
	// White (4 Suits): color clue 2 touches only Green (White is never
	// color-touched); rank clue 2 touches White normally.
	got, err := TouchedBy("White (4 Suits)", ColorClue, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != idSet(allRanks(2)...) {
		t.Errorf("White color clue 2: got %v", got.Items())
	}
	got, err = TouchedBy("White (4 Suits)", RankClue, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := idSet(Identity{0, 2}, Identity{1, 2}, Identity{2, 2}, Identity{3, 2})
	if got != want {
		t.Errorf("White rank clue 2: got %v want %v", got.Items(), want.Items())
	}

	// Brown (4 Suits): rank clue 2 excludes Brown entirely (brown-like).
	got, err = TouchedBy("Brown (4 Suits)", RankClue, 2)
	if err != nil {
		t.Fatal(err)
	}
	want = idSet(Identity{0, 2}, Identity{1, 2}, Identity{2, 2})
	if got != want {
		t.Errorf("Brown rank clue 2: got %v want %v", got.Items(), want.Items())
	}
}

func TestPrismRanksForColor(t *testing.T) {
	// Null & Prism (5 Suits): 3 cluable colors. Color 0 touches Prism at
	// ranks 1 and 4; color 1 at 2 and 5; color 2 at 3 only.
	cases := []struct {
		ci   int
		want []int
	}{
		{0, []int{1, 4}},
		{1, []int{2, 5}},
		{2, []int{3}},
	}
	for _, c := range cases {
		got := prismRanksForColor(3, c.ci)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("prismRanksForColor(3,%d): got %v want %v", c.ci, got, c.want)
		}
	}
}

func TestTouchedByUnknownVariant(t *testing.T) {
	if _, err := TouchedBy("Not A Real Variant", ColorClue, 0); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}
