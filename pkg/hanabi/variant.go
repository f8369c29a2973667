package hanabi

import "fmt"

// Variant describes one named Hanabi ruleset: its ordered suit list plus the
// suit-property classification the rest of the catalog's functions derive
// from. It is read-only after construction, looked up by name from the
// package-level catalog built in variant_data.go: a struct built once from a
// literal table and queried by name, never mutated.
type Variant struct {
	Name  string
	Suits []string
}

// colorClueWhitelist is the ordered set of suit names that can be the target
// of a single color clue. Suits outside this list (Rainbow, Omni, White,
// Null, Prism and their dark/light/muddy/cocoa/gray variants) can only be
// touched as a side effect of another suit's clue.
var colorClueWhitelist = []string{
	"Red", "Yellow", "Green", "Blue", "Purple", "Teal",
	"Black", "Pink", "Dark Pink", "Brown", "Dark Brown",
}

var rainbowLikeSuits = map[string]bool{
	"Rainbow": true, "Dark Rainbow": true, "Muddy Rainbow": true,
	"Cocoa Rainbow": true, "Omni": true, "Dark Omni": true,
}

var brownLikeSuits = map[string]bool{
	"Brown": true, "Dark Brown": true, "Muddy Rainbow": true,
	"Cocoa Rainbow": true, "Null": true, "Dark Null": true,
}

var pinkLikeSuits = map[string]bool{
	"Pink": true, "Dark Pink": true, "Light Pink": true,
	"Gray Pink": true, "Omni": true, "Dark Omni": true,
}

var prismLikeSuits = map[string]bool{
	"Prism": true, "Dark Prism": true,
}

// darkSuits have exactly one copy per identity instead of the standard
// multiplicity table.
var darkSuits = map[string]bool{
	"Black": true, "Gray": true, "Dark Rainbow": true, "Dark Prism": true,
	"Dark Pink": true, "Dark Brown": true, "Dark Omni": true,
	"Gray Pink": true, "Cocoa Rainbow": true, "Dark Null": true,
}

// onesDroppingSuits name suits whose presence removes rank 1 from the set of
// legal rank clues.
var onesDroppingSuits = map[string]bool{
	"Pink-Ones": true, "Omni-Ones": true, "Light-Pink-Ones": true,
	"Brown-Ones": true, "Muddy-Rainbow-Ones": true, "Null-Ones": true,
	"Deceptive-Ones": true,
}

func isRainbowLike(suit string) bool { return rainbowLikeSuits[suit] }
func isBrownLike(suit string) bool   { return brownLikeSuits[suit] }
func isPinkLike(suit string) bool    { return pinkLikeSuits[suit] }
func isPrismLike(suit string) bool   { return prismLikeSuits[suit] }

// IsDarkSuit reports whether suit has multiplicity 1 for every rank.
func IsDarkSuit(suit string) bool { return darkSuits[suit] }

// lookupVariant resolves a variant by name from the package catalog.
func lookupVariant(name string) (*Variant, error) {
	v, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown variant %q", ErrUnimplementedVariant, name)
	}
	return v, nil
}

// Suits returns the ordered suit list for variant name.
func Suits(name string) ([]string, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return nil, err
	}
	return v.Suits, nil
}

// AvailableColorClues returns the ordered list of color names that may be
// legally given as a color clue in variant name.
func AvailableColorClues(name string) ([]string, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return nil, err
	}
	suitSet := make(map[string]bool, len(v.Suits))
	for _, s := range v.Suits {
		suitSet[s] = true
	}
	var out []string
	for _, c := range colorClueWhitelist {
		if suitSet[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

// AvailableRankClues returns the subset of {1..5} (or, for Odds and Evens,
// the {1,2} parity-selector pair) that may be legally given as a rank clue.
func AvailableRankClues(name string) ([]int, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return nil, err
	}
	if v.Name == "Odds and Evens" {
		return []int{1, 2}, nil
	}
	ranks := []int{1, 2, 3, 4, 5}
	dropOnes, dropFives := false, false
	for _, s := range v.Suits {
		if onesDroppingSuits[s] {
			dropOnes = true
		}
		if len(s) > 6 && s[len(s)-6:] == "-Fives" {
			dropFives = true
		}
	}
	var out []int
	for _, r := range ranks {
		if r == 1 && dropOnes {
			continue
		}
		if r == 5 && dropFives {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// IsBrownishPinkish reports whether some rank clue in variant name touches a
// number of identities different from the suit count (i.e. some suit is
// brown-like (excluded) or pink-like (always included)).
func IsBrownishPinkish(name string) (bool, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return false, err
	}
	for _, s := range v.Suits {
		if isBrownLike(s) || isPinkLike(s) {
			return true, nil
		}
	}
	return false, nil
}

// IsWhiteishRainbowy reports whether some identity in variant name is
// touched by zero or more than one single color clue.
func IsWhiteishRainbowy(name string) (bool, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return false, err
	}
	for _, s := range v.Suits {
		if isRainbowLike(s) || isPrismLike(s) {
			return true, nil
		}
		found := false
		for _, c := range colorClueWhitelist {
			if c == s {
				found = true
				break
			}
		}
		if !found {
			return true, nil
		}
	}
	return false, nil
}

// prismRanksForColor returns the ranks Prism/Dark Prism is touched at when
// color clue index ci (0-based within the variant's available color clues,
// numColors long) is given. The source's rule is
// zip(colors*5, [1,2,3,4,5])[k] == colors[k % numColors] for k in 0..4.
func prismRanksForColor(numColors, ci int) []int {
	var ranks []int
	for k := 0; k < MaxRank; k++ {
		if k%numColors == ci {
			ranks = append(ranks, k+1)
		}
	}
	return ranks
}

// TouchedBy returns the set of identities touched by a clue of the given
// kind and value in variant name. This is the single source of truth for
// clue semantics; every convention builds on it.
func TouchedBy(name string, kind ClueKind, value int) (IdentitySet, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return EmptySet, err
	}
	colors, err := AvailableColorClues(name)
	if err != nil {
		return EmptySet, err
	}
	oddsEvens := v.Name == "Odds and Evens"

	var touched IdentitySet
	switch kind {
	case ColorClue:
		if value < 0 || value >= len(colors) {
			return EmptySet, fmt.Errorf("%w: color clue value %d out of range for %q", ErrProtocolViolation, value, name)
		}
		namedColor := colors[value]
		for si, s := range v.Suits {
			switch {
			case s == namedColor:
				for r := 1; r <= MaxRank; r++ {
					touched = touched.Add(Identity{Suit: si, Rank: r})
				}
			case isRainbowLike(s):
				for r := 1; r <= MaxRank; r++ {
					touched = touched.Add(Identity{Suit: si, Rank: r})
				}
			case isPrismLike(s):
				for _, r := range prismRanksForColor(len(colors), value) {
					touched = touched.Add(Identity{Suit: si, Rank: r})
				}
			}
		}
	case RankClue:
		for si, s := range v.Suits {
			if isBrownLike(s) {
				continue
			}
			if isPinkLike(s) {
				for r := 1; r <= MaxRank; r++ {
					touched = touched.Add(Identity{Suit: si, Rank: r})
				}
				continue
			}
			if oddsEvens {
				var ranks []int
				if value == 1 {
					ranks = []int{1, 3, 5}
				} else {
					ranks = []int{2, 4}
				}
				for _, r := range ranks {
					touched = touched.Add(Identity{Suit: si, Rank: r})
				}
				continue
			}
			if value >= 1 && value <= MaxRank {
				touched = touched.Add(Identity{Suit: si, Rank: value})
			}
		}
	default:
		return EmptySet, fmt.Errorf("%w: unknown clue kind %v", ErrProtocolViolation, kind)
	}
	return touched, nil
}

// ClueKind distinguishes color from rank clues, per the wire protocol's
// numeric clue.type field (COLOR_CLUE=0, RANK_CLUE=1 inbound).
type ClueKind int

const (
	ColorClue ClueKind = 0
	RankClue  ClueKind = 1
)

func (k ClueKind) String() string {
	if k == ColorClue {
		return "color"
	}
	return "rank"
}
