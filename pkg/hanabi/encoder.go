package hanabi

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// ModEntry is one residue-table entry: either a literal (suit, rank) pair,
// or — when Suit is negative — the symbolic "i-th not-yet-started suit"
// form used for the rank-1 ("good ones") row: the (-Suit)-th suit (1-based,
// ascending suit index) whose play stack is still empty.
type ModEntry struct {
	Suit int
	Rank int
}

func computeM(numPlayers int) (int, error) {
	switch numPlayers {
	case 4:
		return 12, nil
	case 5:
		return 16, nil
	case 6:
		return 20, nil
	default:
		return 0, ErrUnimplementedVariant
	}
}

// residueTableKey identifies one cached residue table: built once per
// (player count, variant, num_1s_played) triple, precomputed and cached the
// same way a distance matrix would be memoized behind a sync.Once.
type residueTableKey struct {
	NumPlayers  int
	Variant     string
	Num1sPlayed int
}

var residueTableCache = struct {
	mu sync.Mutex
	m  map[residueTableKey]map[int][]ModEntry
}{m: make(map[residueTableKey]map[int][]ModEntry)}

func getResidueTable(key residueTableKey) (map[int][]ModEntry, error) {
	residueTableCache.mu.Lock()
	defer residueTableCache.mu.Unlock()
	if t, ok := residueTableCache.m[key]; ok {
		return t, nil
	}
	t, err := buildResidueTable(key.Variant, key.NumPlayers, key.Num1sPlayed)
	if err != nil {
		return nil, err
	}
	residueTableCache.m[key] = t
	return t, nil
}

// buildResidueTable looks up the literal mod_table row for (suit count,
// preferred modulus, num1sPlayed), transcribed from game_state.py's
// get_non_playful_mod_table: once at least one suit has started, residue 0
// carries no table entry (its literal (0,0) trash marker is dropped here and
// folded in by residueToIdentities instead); before any suit has started,
// residue 0 is a genuine symbolic "first good one" entry. The source table
// only covers 4, 5 (at M=12 or M=16), and 6 suits with fewer than two dark
// suits — any other combination, including every 6-player table (M=20), is
// unimplemented there too and returns ErrUnimplementedVariant here rather
// than miscompute.
func buildResidueTable(variant string, numPlayers, num1sPlayed int) (map[int][]ModEntry, error) {
	M, err := computeM(numPlayers)
	if err != nil {
		return nil, err
	}
	suits, err := Suits(variant)
	if err != nil {
		return nil, err
	}
	if len(suits) == 6 {
		darkCount := 0
		for _, s := range suits {
			if IsDarkSuit(s) {
				darkCount++
			}
		}
		if darkCount >= 2 {
			return nil, ErrUnimplementedVariant
		}
	}
	bySuits, ok := nonPlayfulModTables[len(suits)]
	if !ok {
		return nil, ErrUnimplementedVariant
	}
	byModulus, ok := bySuits[M]
	if !ok {
		return nil, ErrUnimplementedVariant
	}
	row, ok := byModulus[num1sPlayed]
	if !ok {
		return nil, ErrUnimplementedVariant
	}
	return row, nil
}

// nonPlayfulModTables is the literal transcription of
// get_non_playful_mod_table, keyed by suit count then preferred modulus then
// num_1s_played. Residue 0 carries no entry once at least one suit has
// started (the source's (0,0) trash marker there is omitted — trash is
// folded in by residueToIdentities instead); for num_1s_played 0, residue 0
// is a genuine symbolic "first good one" entry and is kept as-is.
var nonPlayfulModTables = map[int]map[int]map[int]map[int][]ModEntry{
	4: {12: {
		0: {0: {{-1, 1}}, 1: {{-2, 1}}, 2: {{-3, 1}}, 3: {{-4, 1}},
			4: {{0, 2}, {1, 2}}, 5: {{2, 2}, {0, 3}}, 6: {{3, 2}, {1, 3}}, 7: {{2, 3}, {0, 4}},
			8: {{3, 3}, {1, 4}}, 9: {{2, 4}, {0, 5}}, 10: {{3, 4}, {1, 5}}, 11: {{2, 5}, {3, 5}}},
		1: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}},
			4: {{0, 2}, {1, 2}}, 5: {{2, 2}, {0, 3}}, 6: {{3, 2}, {1, 3}}, 7: {{2, 3}, {0, 4}},
			8: {{3, 3}, {1, 4}}, 9: {{2, 4}, {0, 5}}, 10: {{3, 4}, {1, 5}}, 11: {{2, 5}, {3, 5}}},
		2: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{0, 2}, {1, 2}},
			4: {{2, 2}, {0, 3}}, 5: {{3, 2}, {1, 3}}, 6: {{2, 3}}, 7: {{3, 3}},
			8: {{0, 4}, {1, 5}}, 9: {{1, 4}, {2, 5}}, 10: {{2, 4}, {3, 5}}, 11: {{3, 4}, {0, 5}}},
		3: {1: {{-1, 1}}, 2: {{0, 2}, {1, 2}}, 3: {{2, 2}, {0, 3}},
			4: {{3, 2}, {1, 3}}, 5: {{2, 3}}, 6: {{3, 3}}, 7: {{0, 4}},
			8: {{1, 4}, {2, 5}}, 9: {{2, 4}, {3, 5}}, 10: {{3, 4}, {0, 5}}, 11: {{1, 5}}},
		4: {1: {{0, 2}, {1, 3}}, 2: {{1, 2}, {2, 3}}, 3: {{2, 2}, {3, 3}},
			4: {{3, 2}, {0, 3}}, 5: {{0, 4}}, 6: {{1, 4}}, 7: {{2, 4}},
			8: {{3, 4}, {0, 5}}, 9: {{1, 5}}, 10: {{2, 5}}, 11: {{3, 5}}},
	}},
	5: {
		12: {
			0: {0: {{-1, 1}}, 1: {{-2, 1}}, 2: {{-3, 1}}, 3: {{-4, 1}}, 4: {{-5, 1}},
				5: {{0, 2}, {1, 2}, {2, 2}}, 6: {{3, 2}, {4, 2}}, 7: {{0, 3}, {2, 3}, {3, 4}},
				8: {{1, 3}, {3, 3}, {2, 4}}, 9: {{4, 3}, {1, 4}, {0, 5}}, 10: {{4, 4}, {1, 5}, {2, 5}},
				11: {{0, 4}, {3, 5}, {4, 5}}},
			1: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}}, 4: {{-4, 1}},
				5: {{0, 2}, {1, 2}, {2, 2}}, 6: {{3, 2}, {4, 2}}, 7: {{0, 3}, {2, 3}, {3, 4}},
				8: {{1, 3}, {3, 3}, {2, 4}}, 9: {{4, 3}, {1, 4}, {0, 5}}, 10: {{4, 4}, {1, 5}, {2, 5}},
				11: {{0, 4}, {3, 5}, {4, 5}}},
			2: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}},
				4: {{0, 2}, {1, 2}, {2, 2}}, 5: {{3, 2}, {4, 2}}, 6: {{0, 3}, {2, 3}}, 7: {{1, 3}, {3, 4}},
				8: {{3, 3}, {2, 4}}, 9: {{4, 3}, {1, 4}, {0, 5}}, 10: {{4, 4}, {1, 5}, {2, 5}},
				11: {{0, 4}, {3, 5}, {4, 5}}},
			3: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{0, 2}, {2, 2}},
				4: {{1, 2}, {2, 3}}, 5: {{3, 2}, {0, 3}}, 6: {{4, 2}, {3, 3}}, 7: {{1, 3}, {3, 4}},
				8: {{2, 4}, {1, 5}}, 9: {{4, 3}, {1, 4}, {0, 5}}, 10: {{4, 4}, {2, 5}},
				11: {{0, 4}, {3, 5}, {4, 5}}},
			4: {1: {{-1, 1}}, 2: {{0, 2}, {2, 2}}, 3: {{1, 2}, {2, 3}},
				4: {{3, 2}, {0, 3}}, 5: {{4, 2}, {3, 3}}, 6: {{1, 3}, {3, 4}}, 7: {{2, 4}, {1, 5}},
				8: {{1, 4}, {3, 5}}, 9: {{4, 3}, {0, 5}}, 10: {{4, 4}, {2, 5}}, 11: {{0, 4}, {4, 5}}},
			5: {1: {{0, 2}, {2, 3}}, 2: {{1, 2}, {3, 3}}, 3: {{2, 2}, {1, 3}},
				4: {{3, 2}, {0, 3}}, 5: {{4, 2}}, 6: {{2, 4}, {1, 5}}, 7: {{1, 4}, {3, 5}},
				8: {{3, 4}, {0, 5}}, 9: {{4, 3}}, 10: {{4, 4}, {2, 5}}, 11: {{0, 4}, {4, 5}}},
		},
		16: {
			0: {0: {{-1, 1}}, 1: {{-2, 1}}, 2: {{-3, 1}}, 3: {{-4, 1}}, 4: {{-5, 1}},
				5: {{0, 2}, {2, 2}}, 6: {{1, 2}, {3, 2}}, 7: {{4, 2}},
				8: {{0, 3}, {2, 3}}, 9: {{1, 3}, {3, 3}}, 10: {{4, 3}}, 11: {{2, 4}, {0, 5}},
				12: {{1, 4}, {3, 5}}, 13: {{3, 4}, {1, 5}}, 14: {{4, 4}, {2, 5}}, 15: {{0, 4}, {4, 5}}},
			1: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}}, 4: {{-4, 1}},
				5: {{0, 2}, {2, 2}}, 6: {{1, 2}, {3, 2}}, 7: {{4, 2}},
				8: {{0, 3}, {2, 3}}, 9: {{1, 3}, {3, 3}}, 10: {{4, 3}}, 11: {{2, 4}, {0, 5}},
				12: {{1, 4}, {3, 5}}, 13: {{3, 4}, {1, 5}}, 14: {{4, 4}, {2, 5}}, 15: {{0, 4}, {4, 5}}},
			2: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}},
				4: {{0, 2}, {2, 3}}, 5: {{2, 2}, {1, 3}}, 6: {{1, 2}, {3, 2}}, 7: {{4, 2}},
				8: {{0, 3}, {3, 4}}, 9: {{3, 3}, {1, 4}}, 10: {{4, 3}}, 11: {{2, 4}, {0, 5}},
				12: {{1, 5}}, 13: {{3, 5}}, 14: {{4, 4}, {2, 5}}, 15: {{0, 4}, {4, 5}}},
			3: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{0, 2}, {2, 3}},
				4: {{2, 2}, {1, 3}}, 5: {{1, 2}, {3, 3}}, 6: {{3, 2}, {0, 3}}, 7: {{4, 2}},
				8: {{4, 3}}, 9: {{1, 4}}, 10: {{3, 4}}, 11: {{2, 4}, {0, 5}},
				12: {{1, 5}}, 13: {{3, 5}}, 14: {{4, 4}, {2, 5}}, 15: {{0, 4}, {4, 5}}},
			4: {1: {{-1, 1}}, 2: {{0, 2}, {2, 3}}, 3: {{2, 2}, {1, 3}},
				4: {{1, 2}, {3, 3}}, 5: {{3, 2}, {0, 3}}, 6: {{4, 2}}, 7: {{4, 3}},
				8: {{1, 4}}, 9: {{2, 4}}, 10: {{3, 4}}, 11: {{0, 5}},
				12: {{1, 5}}, 13: {{3, 5}}, 14: {{4, 4}, {2, 5}}, 15: {{0, 4}, {4, 5}}},
			5: {1: {{0, 2}, {2, 3}}, 2: {{2, 2}, {1, 3}}, 3: {{1, 2}, {3, 3}},
				4: {{3, 2}, {0, 3}}, 5: {{4, 2}}, 6: {{4, 3}}, 7: {{0, 4}},
				8: {{1, 4}}, 9: {{2, 4}}, 10: {{3, 4}}, 11: {{0, 5}},
				12: {{1, 5}}, 13: {{3, 5}}, 14: {{4, 4}, {2, 5}}, 15: {{4, 5}}},
		},
	},
	6: {16: {
		0: {0: {{-1, 1}}, 1: {{-2, 1}}, 2: {{-3, 1}}, 3: {{-4, 1}}, 4: {{-5, 1}}, 5: {{-6, 1}},
			6: {{0, 2}, {2, 2}}, 7: {{1, 2}, {3, 2}}, 8: {{4, 2}, {0, 3}}, 9: {{1, 3}, {3, 3}},
			10: {{2, 4}, {1, 5}}, 11: {{4, 4}, {0, 5}}, 12: {{5, 2}, {2, 3}, {0, 4}},
			13: {{5, 3}, {1, 4}, {2, 5}}, 14: {{4, 3}, {5, 4}, {3, 5}}, 15: {{3, 4}, {4, 5}, {5, 5}}},
		1: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}}, 4: {{-4, 1}}, 5: {{-5, 1}},
			6: {{0, 2}, {2, 2}}, 7: {{1, 2}, {3, 2}}, 8: {{4, 2}, {0, 3}}, 9: {{1, 3}, {3, 3}},
			10: {{2, 4}, {1, 5}}, 11: {{4, 4}, {0, 5}}, 12: {{5, 2}, {2, 3}, {0, 4}},
			13: {{5, 3}, {1, 4}, {2, 5}}, 14: {{4, 3}, {5, 4}, {3, 5}}, 15: {{3, 4}, {4, 5}, {5, 5}}},
		2: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}}, 4: {{-4, 1}},
			5: {{0, 2}, {2, 2}}, 6: {{1, 2}, {3, 2}}, 7: {{4, 2}, {0, 3}}, 8: {{1, 3}, {3, 3}},
			9: {{2, 3}, {0, 4}}, 10: {{2, 4}, {1, 5}}, 11: {{4, 4}, {0, 5}}, 12: {{5, 2}, {1, 4}},
			13: {{5, 3}, {2, 5}}, 14: {{4, 3}, {5, 4}, {3, 5}}, 15: {{3, 4}, {4, 5}, {5, 5}}},
		3: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{-3, 1}},
			4: {{0, 2}, {2, 2}}, 5: {{1, 2}, {3, 2}}, 6: {{4, 2}, {0, 3}}, 7: {{1, 3}, {3, 3}},
			8: {{2, 3}, {0, 4}}, 9: {{4, 3}, {2, 4}}, 10: {{4, 4}, {0, 5}}, 11: {{3, 4}, {1, 5}},
			12: {{5, 2}, {1, 4}}, 13: {{5, 3}, {2, 5}}, 14: {{5, 4}, {3, 5}}, 15: {{4, 5}, {5, 5}}},
		4: {1: {{-1, 1}}, 2: {{-2, 1}}, 3: {{0, 2}, {2, 3}},
			4: {{1, 2}, {3, 3}}, 5: {{2, 2}, {1, 3}}, 6: {{3, 2}, {4, 3}}, 7: {{4, 2}, {0, 3}},
			8: {{0, 4}, {2, 4}}, 9: {{1, 4}, {2, 5}}, 10: {{4, 4}, {0, 5}}, 11: {{3, 4}, {1, 5}},
			12: {{5, 2}}, 13: {{5, 3}}, 14: {{5, 4}, {3, 5}}, 15: {{4, 5}, {5, 5}}},
		5: {1: {{-1, 1}}, 2: {{0, 2}, {2, 3}}, 3: {{1, 2}, {3, 3}},
			4: {{2, 2}, {1, 3}}, 5: {{3, 2}, {4, 3}}, 6: {{4, 2}, {0, 3}}, 7: {{0, 4}, {4, 5}},
			8: {{1, 4}, {2, 5}}, 9: {{2, 4}, {1, 5}}, 10: {{3, 4}, {0, 5}}, 11: {{4, 4}},
			12: {{5, 2}}, 13: {{5, 3}}, 14: {{5, 4}, {3, 5}}, 15: {{5, 5}}},
		6: {1: {{0, 2}, {2, 3}}, 2: {{1, 2}, {3, 3}}, 3: {{2, 2}, {1, 3}},
			4: {{3, 2}, {4, 3}}, 5: {{4, 2}, {0, 3}}, 6: {{0, 4}}, 7: {{1, 4}, {2, 5}},
			8: {{2, 4}, {1, 5}}, 9: {{3, 4}, {0, 5}}, 10: {{4, 4}}, 11: {{4, 5}},
			12: {{5, 2}}, 13: {{5, 3}}, 14: {{5, 4}, {3, 5}}, 15: {{5, 5}}},
	}},
}

// resolveModEntry expands a (possibly symbolic) mod-table entry into a
// concrete identity given the current stacks.
func resolveModEntry(variant string, stacks []int, e ModEntry) (Identity, bool) {
	if e.Suit >= 0 {
		return Identity{Suit: e.Suit, Rank: e.Rank}, true
	}
	idx := -e.Suit - 1
	suits, err := Suits(variant)
	if err != nil {
		return Identity{}, false
	}
	count := -1
	for si := range suits {
		if si < len(stacks) && stacks[si] == 0 {
			count++
			if count == idx {
				return Identity{Suit: si, Rank: 1}, true
			}
		}
	}
	return Identity{}, false
}

// residueToIdentities inverts the mod table against the current stacks,
// resolving every symbolic entry and overriding any now-trash identity to
// residue 0.
func residueToIdentities(table map[int][]ModEntry, variant string, stacks []int, discards map[Identity]int) (map[int]IdentitySet, error) {
	trash, err := Trash(variant, stacks, discards)
	if err != nil {
		return nil, err
	}
	out := make(map[int]IdentitySet, len(table)+1)
	for residue, entries := range table {
		for _, e := range entries {
			id, ok := resolveModEntry(variant, stacks, e)
			if !ok {
				continue
			}
			if trash.Has(id) {
				out[0] = out[0].Add(id)
				continue
			}
			out[residue] = out[residue].Add(id)
		}
	}
	out[0] = out[0].Union(trash)
	return out, nil
}

func identityToResidue(r2i map[int]IdentitySet, id Identity) (int, bool) {
	for residue, set := range r2i {
		if set.Has(id) {
			return residue, true
		}
	}
	return 0, false
}

// Superposition tracks the observer's own just-hat-clued card: its
// candidates narrow further each time one of the triggering orders (another
// player's revealed playable) resolves.
type Superposition struct {
	Order               int
	BaseResidue         int
	IncrementCandidates [4]IdentitySet
	TriggeringOrders    []int
	ActualNumTrash      int
}

// EncoderState is the hat-guessing Convention implementation: base
// GameState plus the hat-clued tag bookkeeping, active superpositions, and
// the called-to-play set.
type EncoderState struct {
	gs             *GameState
	superpositions map[int]*Superposition
	calledToPlay   IdentitySet
}

// NewEncoderState wraps gs with encoder-convention side state.
func NewEncoderState(gs *GameState) *EncoderState {
	return &EncoderState{gs: gs, superpositions: make(map[int]*Superposition)}
}

func (es *EncoderState) State() *GameState { return es.gs }

func leftmostNonHatClued(gs *GameState, playerIdx int) (Card, bool) {
	for _, c := range gs.Hands[playerIdx] {
		if !gs.HasTag("hat_clued", c.Order) {
			return c, true
		}
	}
	return Card{}, false
}

// num1sPlayed is the count of suits with at least one card played, read
// from the current stacks; it selects which literal row of the residue
// table applies, so the row changes as suits are started during a game.
func (es *EncoderState) num1sPlayed() int {
	n := 0
	for _, top := range es.gs.Stacks {
		if top > 0 {
			n++
		}
	}
	return n
}

func (es *EncoderState) residueTable() (map[int][]ModEntry, error) {
	return getResidueTable(residueTableKey{NumPlayers: es.gs.NumPlayers(), Variant: es.gs.Variant, Num1sPlayed: es.num1sPlayed()})
}

// rawResidueForClue implements the baseline (non-special-case) raw_residue
// clue-to-residue inversion: the same deterministic function serves both
// the giver's encoding and every observer's decoding, since both sides can
// see the target's hand and prior clue history.
func (es *EncoderState) rawResidueForClue(target int, kind ClueKind, value int) (int, error) {
	switch kind {
	case RankClue:
		brownishPinkish, err := IsBrownishPinkish(es.gs.Variant)
		if err != nil {
			return 0, err
		}
		if brownishPinkish {
			if value%2 == 1 {
				return 0, nil
			}
			return 1, nil
		}
		if card, ok := rightmostUnclued(es.gs.Hands[target], es.gs.PositiveRankClues); ok {
			if card.Rank == value {
				return 0, nil
			}
			return 1, nil
		}
		ranks, err := AvailableRankClues(es.gs.Variant)
		if err != nil || len(ranks) == 0 {
			return 1, nil
		}
		if value == minInt(ranks) {
			return 0, nil
		}
		return 1, nil
	case ColorClue:
		colors, err := AvailableColorClues(es.gs.Variant)
		if err != nil {
			return 0, err
		}
		whiteishRainbowy, err := IsWhiteishRainbowy(es.gs.Variant)
		if err != nil {
			return 0, err
		}
		n := len(colors)
		if whiteishRainbowy && (n == 2 || n == 4 || n == 5 || n == 6) {
			if value < n/2 {
				return 2, nil
			}
			return 3, nil
		}
		if card, ok := rightmostUncolored(es.gs.Hands[target], es.gs.PositiveColorClues); ok {
			if card.Suit == value {
				return 2, nil
			}
			return 3, nil
		}
		return 3, nil
	default:
		return 0, ErrProtocolViolation
	}
}

func rightmostUnclued(hand Hand, positive map[int][]int) (Card, bool) {
	for i := len(hand) - 1; i >= 0; i-- {
		if len(positive[hand[i].Order]) == 0 {
			return hand[i], true
		}
	}
	return Card{}, false
}

func rightmostUncolored(hand Hand, positive map[int][]int) (Card, bool) {
	return rightmostUnclued(hand, positive)
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// encodedResidue combines a raw residue with the (target - giver - 1) mod
// numPlayers offset.
func encodedResidue(rawResidue, numResidues, target, giver, numPlayers int) int {
	return rawResidue + numResidues*(((target-giver-1)%numPlayers+numPlayers)%numPlayers)
}

// OnEvent applies the base-state mutation for ev, then layers the
// hat-guessing decode/superposition logic on top for clue and
// play/discard events.
func (es *EncoderState) OnEvent(ev GameEvent) error {
	switch ev.Type {
	case EventDraw:
		es.gs.HandleDraw(ev.PlayerIndex, ev.Order, ev.Suit, ev.Rank)
	case EventPlay:
		es.resolveSuperpositionTrigger(ev.Order)
		es.gs.HandlePlay(ev.PlayerIndex, ev.Order, ev.Suit, ev.Rank)
		delete(es.superpositions, ev.Order)
	case EventDiscard:
		es.resolveSuperpositionTrigger(ev.Order)
		es.gs.HandleDiscard(ev.PlayerIndex, ev.Order, ev.Suit, ev.Rank, ev.Failed)
		delete(es.superpositions, ev.Order)
	case EventClue:
		es.gs.HandleClue(ev.Target, ev.ClueKind, ev.ClueValue, ev.TouchedOrders)
		return es.decodeHatClue(ev)
	case EventTurn:
		es.gs.HandleTurn(ev.TurnNum, ev.CurrentPlayer)
	case EventStatus:
		es.gs.HandleStatus(ev.Clues, ev.Strikes, ev.HasClues, ev.HasStrikes)
	case EventStrike:
		es.gs.HandleStrike(ev.StrikeNum)
	}
	return nil
}

func (es *EncoderState) decodeHatClue(ev GameEvent) error {
	numPlayers := es.gs.NumPlayers()
	M, err := computeM(numPlayers)
	if err != nil {
		return err
	}
	table, err := es.residueTable()
	if err != nil {
		return err
	}
	r2i, err := residueToIdentities(table, es.gs.Variant, es.gs.Stacks, es.gs.Discards)
	if err != nil {
		return err
	}
	numResidues := M / (numPlayers - 1)
	raw, err := es.rawResidueForClue(ev.Target, ev.ClueKind, ev.ClueValue)
	if err != nil {
		return err
	}
	hatResidue := encodedResidue(raw, numResidues, ev.Target, ev.Giver, numPlayers)

	sum := 0
	var otherOrders []int
	for p := 0; p < numPlayers; p++ {
		if p == es.gs.ObserverIdx || p == ev.Giver {
			continue
		}
		card, ok := leftmostNonHatClued(es.gs, p)
		if !ok {
			continue
		}
		id, known := card.Identity()
		if !known {
			es.gs.NoteOrder(card.Order, "bad hat clue: unknown identity")
			continue
		}
		r, ok := identityToResidue(r2i, id)
		if !ok {
			continue
		}
		sum += r
		if slot, ok := es.gs.Slots[card.Order]; ok {
			slot.Candidates = slot.Candidates.Intersect(r2i[r])
			es.gs.Slots[card.Order] = slot
		}
		es.gs.Tag("hat_clued", card.Order)
		otherOrders = append(otherOrders, card.Order)
		if r2i[r].Subset(Playables(es.gs.Stacks)) {
			es.calledToPlay = es.calledToPlay.Union(r2i[r])
		}
	}

	if es.gs.ObserverIdx == ev.Giver {
		return nil
	}
	own, ok := leftmostNonHatClued(es.gs, es.gs.ObserverIdx)
	if !ok {
		return nil
	}
	myResidue := ((hatResidue-sum)%M + M) % M
	slot, ok := es.gs.Slots[own.Order]
	if !ok {
		return nil
	}
	narrowed := slot.Candidates.Intersect(r2i[myResidue])
	if narrowed.Empty() {
		es.gs.NoteOrder(own.Order, "bad hat clue: conflict, restoring from possibilities")
		narrowed = slot.Possibilities
	}
	slot.Candidates = narrowed
	es.gs.Slots[own.Order] = slot
	es.gs.Tag("hat_clued", own.Order)

	sp := &Superposition{Order: own.Order, BaseResidue: myResidue, TriggeringOrders: otherOrders}
	for k := 0; k < 4; k++ {
		sp.IncrementCandidates[k] = r2i[(myResidue+k)%M]
	}
	es.superpositions[own.Order] = sp
	es.gs.NoteOrder(own.Order, RenderIdentitySet(es.gs.Variant, slot.Candidates, es.gs.Stacks, es.gs.Discards))
	log.Debug().Int("order", own.Order).Int("residue", myResidue).Msg("hat decode")
	return nil
}

// resolveSuperpositionTrigger advances every live superposition whose
// triggering set includes order: the triggering card either played
// successfully or failed/was discarded, either way counting as one more
// "trash" event against that superposition's base assumption.
func (es *EncoderState) resolveSuperpositionTrigger(order int) {
	for _, sp := range es.superpositions {
		hit := false
		for _, o := range sp.TriggeringOrders {
			if o == order {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		if sp.ActualNumTrash < 3 {
			sp.ActualNumTrash++
		}
		slot, ok := es.gs.Slots[sp.Order]
		if !ok {
			continue
		}
		slot.Candidates = slot.Candidates.Intersect(sp.IncrementCandidates[sp.ActualNumTrash])
		if slot.Candidates.Empty() {
			slot.Candidates = slot.Possibilities
		}
		es.gs.Slots[sp.Order] = slot
	}
}

// EvaluateClueScore implements the clue-score heuristic: the product, over
// every non-trash slot in target's hand, of the resulting candidate count.
// Lower is more informative.
func (es *EncoderState) EvaluateClueScore(kind ClueKind, value int, target int) (int, error) {
	touched, err := TouchedBy(es.gs.Variant, kind, value)
	if err != nil {
		return 0, err
	}
	trash, err := Trash(es.gs.Variant, es.gs.Stacks, es.gs.Discards)
	if err != nil {
		return 0, err
	}
	score := 1
	for _, c := range es.gs.Hands[target] {
		info, ok := es.gs.Slots[c.Order]
		if !ok || info.Candidates.Subset(trash) {
			continue
		}
		var next IdentitySet
		if id, known := c.Identity(); known && touched.Has(id) {
			next = info.Candidates.Intersect(touched)
		} else {
			next = info.Candidates.Diff(touched)
		}
		score *= next.Len()
	}
	return score, nil
}

func handTouches(hand Hand, touched IdentitySet) bool {
	for _, c := range hand {
		if id, ok := c.Identity(); ok && touched.Has(id) {
			return true
		}
	}
	return false
}

// desiredHatResidue computes the total the observer, as clue giver, must
// encode this turn: the sum, over every other player's leftmost
// non-hat-clued card, of that card's true residue in the current mod table
// — all visible to the giver, since every hand but the giver's own is fully
// known. Every other player reconstructs this same sum once the clue
// pins down the unknown term (the giver's own residue doesn't enter, since
// the giver cannot see its own hand either).
func (es *EncoderState) desiredHatResidue() (int, error) {
	numPlayers := es.gs.NumPlayers()
	M, err := computeM(numPlayers)
	if err != nil {
		return 0, err
	}
	table, err := es.residueTable()
	if err != nil {
		return 0, err
	}
	r2i, err := residueToIdentities(table, es.gs.Variant, es.gs.Stacks, es.gs.Discards)
	if err != nil {
		return 0, err
	}
	giver := es.gs.ObserverIdx
	sum := 0
	for p := 0; p < numPlayers; p++ {
		if p == giver {
			continue
		}
		card, ok := leftmostNonHatClued(es.gs, p)
		if !ok {
			continue
		}
		id, known := card.Identity()
		if !known {
			continue
		}
		r, ok := identityToResidue(r2i, id)
		if !ok {
			continue
		}
		sum += r
	}
	return ((sum % M) + M) % M, nil
}

// LegalHatClues enumerates the (kind, value) clues to the one target
// pinned down by inverting desiredHatResidue against encodedResidue: the
// quotient by numResidues selects target, the remainder is the raw residue
// the clue itself must produce. Only clues whose rawResidueForClue matches
// that remainder — and that legally touch at least one card — come back,
// so whichever one ChooseAction picks actually encodes the intended
// residue rather than an arbitrary one.
func (es *EncoderState) LegalHatClues() ([]ActionRequest, error) {
	numPlayers := es.gs.NumPlayers()
	M, err := computeM(numPlayers)
	if err != nil {
		return nil, err
	}
	if es.gs.Clues <= 0 {
		return nil, nil
	}
	numResidues := M / (numPlayers - 1)
	desired, err := es.desiredHatResidue()
	if err != nil {
		return nil, err
	}
	raw := desired % numResidues
	quotient := desired / numResidues
	giver := es.gs.ObserverIdx
	target := (giver + 1 + quotient) % numPlayers

	colors, err := AvailableColorClues(es.gs.Variant)
	if err != nil {
		return nil, err
	}
	ranks, err := AvailableRankClues(es.gs.Variant)
	if err != nil {
		return nil, err
	}

	var out []ActionRequest
	for ci := range colors {
		touched, _ := TouchedBy(es.gs.Variant, ColorClue, ci)
		if !handTouches(es.gs.Hands[target], touched) {
			continue
		}
		r, err := es.rawResidueForClue(target, ColorClue, ci)
		if err == nil && r == raw {
			out = append(out, ActionRequest{Type: ActionColorClue, Target: target, Value: ci})
		}
	}
	for _, rv := range ranks {
		touched, _ := TouchedBy(es.gs.Variant, RankClue, rv)
		if !handTouches(es.gs.Hands[target], touched) {
			continue
		}
		r, err := es.rawResidueForClue(target, RankClue, rv)
		if err == nil && r == raw {
			out = append(out, ActionRequest{Type: ActionRankClue, Target: target, Value: rv})
		}
	}
	return out, nil
}

// ChooseAction implements the encoder action policy.
func (es *EncoderState) ChooseAction() (ActionRequest, error) {
	gs := es.gs
	playable := Playables(gs.Stacks)
	trash, err := Trash(gs.Variant, gs.Stacks, gs.Discards)
	if err != nil {
		return ActionRequest{}, err
	}
	pace, err := Pace(gs.Variant, gs.NumPlayers(), gs.TotalDiscards())
	if err != nil {
		return ActionRequest{}, err
	}

	// Step 1: known-playable in own hand.
	if order, ok := es.bestKnownPlayable(playable); ok {
		return ActionRequest{Type: ActionPlay, Target: order}, nil
	}
	if pace <= gs.NumPlayers()-2 {
		if order, ok := es.anyPlayable(playable); ok {
			return ActionRequest{Type: ActionPlay, Target: order}, nil
		}
	}

	// Step 2: yolo-playable.
	if order, ok := es.yoloPlayable(playable, trash); ok && (gs.Strikes <= 1 || pace <= 1) {
		return ActionRequest{Type: ActionPlay, Target: order}, nil
	}

	// Step 3: give a legal hat clue, preferring the most informative one
	// (lowest product-of-candidate-sizes score) among those that correctly
	// encode this turn's residue.
	legal, err := es.LegalHatClues()
	if err == nil && len(legal) > 0 && gs.Clues > 0 {
		best := legal[0]
		bestScore := -1
		for _, cand := range legal {
			score, err := es.EvaluateClueScore(clueKindOf(cand.Type), cand.Value, cand.Target)
			if err != nil {
				continue
			}
			if bestScore == -1 || score < bestScore {
				bestScore, best = score, cand
			}
		}
		return best, nil
	}

	// Step 4: end-game stall.
	if gs.Clues > 0 && (pace < 3) {
		if order, ok := es.anyPlayerTarget(); ok {
			return ActionRequest{Type: ActionColorClue, Target: order, Value: 0}, nil
		}
	}

	// Step 5: discard in priority order.
	good := gs.ComputeGoodActions(gs.ObserverIdx)
	for _, bucket := range [][]int{good.Trash, good.DupeInOwnHand, good.DupeInOtherHand, good.DupeInOtherHandOrTrash} {
		if len(bucket) > 0 {
			return ActionRequest{Type: ActionDiscard, Target: bucket[0]}, nil
		}
	}
	// All slots critical: sacrifice the non-hat-clued slot, or bomb the
	// last slot as a forced stall.
	hand := gs.Hands[gs.ObserverIdx]
	for _, c := range hand {
		if !gs.HasTag("hat_clued", c.Order) {
			return ActionRequest{Type: ActionDiscard, Target: c.Order}, nil
		}
	}
	if len(hand) > 0 {
		return ActionRequest{Type: ActionPlay, Target: hand[len(hand)-1].Order}, nil
	}
	return ActionRequest{}, ErrContradiction
}

func clueKindOf(a ActionType) ClueKind {
	if a == ActionColorClue {
		return ColorClue
	}
	return RankClue
}

func (es *EncoderState) bestKnownPlayable(playable IdentitySet) (int, bool) {
	hand := es.gs.Hands[es.gs.ObserverIdx]
	bestOrder, bestRank := -1, -1
	for _, c := range hand {
		info, ok := es.gs.Slots[c.Order]
		if !ok || !info.Candidates.Subset(playable) || info.Candidates.Empty() {
			continue
		}
		id, single := info.Candidates.Single()
		if !single {
			continue
		}
		if id.Rank == MaxRank {
			return c.Order, true
		}
		if id.Rank > bestRank {
			bestOrder, bestRank = c.Order, id.Rank
		}
	}
	if bestOrder >= 0 {
		return bestOrder, true
	}
	return 0, false
}

func (es *EncoderState) anyPlayable(playable IdentitySet) (int, bool) {
	hand := es.gs.Hands[es.gs.ObserverIdx]
	for _, c := range hand {
		info, ok := es.gs.Slots[c.Order]
		if ok && info.Candidates.Subset(playable) && !info.Candidates.Empty() {
			return c.Order, true
		}
	}
	return 0, false
}

func (es *EncoderState) yoloPlayable(playable, trash IdentitySet) (int, bool) {
	hand := es.gs.Hands[es.gs.ObserverIdx]
	for _, c := range hand {
		if !es.gs.HasTag("hat_clued", c.Order) {
			continue
		}
		info, ok := es.gs.Slots[c.Order]
		if !ok {
			continue
		}
		useful := info.Candidates.Diff(trash)
		if !useful.Empty() && useful.Subset(playable) {
			return c.Order, true
		}
	}
	return 0, false
}

func (es *EncoderState) anyPlayerTarget() (int, bool) {
	for p := 0; p < es.gs.NumPlayers(); p++ {
		if p != es.gs.ObserverIdx {
			return p, true
		}
	}
	return 0, false
}

func (es *EncoderState) RenderNotes() []NoteUpdate {
	return es.gs.FlushPendingNotes()
}
