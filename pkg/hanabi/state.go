package hanabi

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// MaxClues is the clue-token cap.
const MaxClues = 8

// MaxStrikes ends the game once reached.
const MaxStrikes = 3

// SlotInfo tracks the two nested identity sets the engine maintains for one
// card order: possibilities (narrowed only by positive/negative touches and
// visible-copy elimination) and candidates (possibilities further narrowed
// by convention inference, reset to possibilities on contradiction).
type SlotInfo struct {
	Possibilities IdentitySet
	Candidates    IdentitySet
}

// GameState is per-observer state: one process's model of a single active
// table, mutated by exactly one GameEvent handler at a time in
// server-observed order. Structurally this follows pkg/diplomacy/state.go's
// GameState: a plain struct with pure/near-pure mutator methods and no hidden
// global state. It has no Clone method; the prompt/finesse simulator works
// on its own copy of the play stacks.
type GameState struct {
	Variant      string
	PlayerNames  []string
	ObserverIdx  int
	Hands        []Hand
	Stacks       []int
	Discards     map[Identity]int
	Clues        int
	Strikes      int
	Turn         int
	CurrentPlayer int

	// Slots indexes SlotInfo by card order.
	Slots map[int]SlotInfo

	// PositiveRankClues and PositiveColorClues record, per order, every
	// positive clue value ever received (used by the H-Group focus/chop
	// bookkeeping to tell newly-touched from previously-touched orders, and
	// by the encoder to find a hand's rightmost unclued card).
	PositiveRankClues  map[int][]int
	PositiveColorClues map[int][]int
	NegativeRankClues  map[int][]int
	NegativeColorClues map[int][]int

	// Tags is the convention-specific order-tagging map: "hat_clued",
	// "chop_moved", "trashy", etc.
	Tags map[string]map[int]bool

	Notes map[int]string

	pending []NoteUpdate
}

// NewGameState constructs an empty state for a table about to start.
func NewGameState(variant string, playerNames []string, observerIdx int) *GameState {
	return &GameState{
		Variant:            variant,
		PlayerNames:        playerNames,
		ObserverIdx:        observerIdx,
		Hands:              make([]Hand, len(playerNames)),
		Stacks:             make([]int, mustSuitCount(variant)),
		Discards:           make(map[Identity]int),
		Clues:              MaxClues,
		Slots:              make(map[int]SlotInfo),
		PositiveRankClues:  make(map[int][]int),
		PositiveColorClues: make(map[int][]int),
		NegativeRankClues:  make(map[int][]int),
		NegativeColorClues: make(map[int][]int),
		Tags:               make(map[string]map[int]bool),
		Notes:               make(map[int]string),
	}
}

func mustSuitCount(variant string) int {
	suits, err := Suits(variant)
	if err != nil {
		return 0
	}
	return len(suits)
}

// Tag marks order with the given convention tag.
func (g *GameState) Tag(tag string, order int) {
	set, ok := g.Tags[tag]
	if !ok {
		set = make(map[int]bool)
		g.Tags[tag] = set
	}
	set[order] = true
}

// HasTag reports whether order carries tag.
func (g *GameState) HasTag(tag string, order int) bool {
	return g.Tags[tag] != nil && g.Tags[tag][order]
}

// allIdentities returns the full identity set for the state's variant.
func (g *GameState) allIdentities() IdentitySet {
	suits, err := Suits(g.Variant)
	if err != nil {
		return EmptySet
	}
	var s IdentitySet
	for si := range suits {
		for r := 1; r <= MaxRank; r++ {
			s = s.Add(Identity{Suit: si, Rank: r})
		}
	}
	return s
}

// HandleDraw processes a draw event: appends the card to playerIdx's hand
// and seeds its slot with full possibilities/candidates (narrowed
// immediately by visible-copy elimination).
func (g *GameState) HandleDraw(playerIdx, order, suit, rank int) {
	g.Hands[playerIdx] = append(g.Hands[playerIdx], Card{Order: order, Suit: suit, Rank: rank})
	full := g.allIdentities()
	if suit != UnknownSuit {
		full = NewIdentitySet(Identity{Suit: suit, Rank: rank})
	}
	g.Slots[order] = SlotInfo{Possibilities: full, Candidates: full}
	g.runElimination()
}

// HandlePlay processes a play event: removes the card from its owner's
// hand, advances the stack if it was actually playable, else records the
// discard (a failed play goes to the discard pile and costs a strike,
// handled by the caller via HandleStrike).
func (g *GameState) HandlePlay(playerIdx, order, suit, rank int) {
	g.removeFromHand(playerIdx, order)
	delete(g.Slots, order)
	if suit >= 0 && suit < len(g.Stacks) && g.Stacks[suit] == rank-1 {
		g.Stacks[suit] = rank
	} else if suit >= 0 {
		g.Discards[Identity{Suit: suit, Rank: rank}]++
	}
	g.runElimination()
}

// HandleDiscard processes a discard event.
func (g *GameState) HandleDiscard(playerIdx, order, suit, rank int, failed bool) {
	g.removeFromHand(playerIdx, order)
	delete(g.Slots, order)
	if suit >= 0 {
		g.Discards[Identity{Suit: suit, Rank: rank}]++
	}
	if g.Clues < MaxClues && !failed {
		g.Clues++
	}
	g.runElimination()
}

// HandleStrike records a strike from a failed play.
func (g *GameState) HandleStrike(num int) {
	g.Strikes = num
}

// HandleTurn advances the turn counter and current player.
func (g *GameState) HandleTurn(num, currentPlayer int) {
	g.Turn = num
	g.CurrentPlayer = currentPlayer
}

// HandleStatus updates clue/strike counters from an authoritative status
// event (used to reconcile drift from events the driver may have missed).
func (g *GameState) HandleStatus(clues, strikes int, hasClues, hasStrikes bool) {
	if hasClues {
		g.Clues = clues
	}
	if hasStrikes {
		g.Strikes = strikes
	}
}

func (g *GameState) removeFromHand(playerIdx, order int) {
	hand := g.Hands[playerIdx]
	idx := hand.IndexOfOrder(order)
	if idx < 0 {
		return
	}
	g.Hands[playerIdx] = append(hand[:idx], hand[idx+1:]...)
}

// ApplyTouch records a positive or negative clue touch on order and narrows
// its possibilities/candidates accordingly: a positive touch intersects
// with the touched set, a negative touch subtracts it.
func (g *GameState) ApplyTouch(order int, kind ClueKind, value int, positive bool) error {
	touched, err := TouchedBy(g.Variant, kind, value)
	if err != nil {
		return err
	}
	info, ok := g.Slots[order]
	if !ok {
		return fmt.Errorf("%w: touch on unknown order %d", ErrProtocolViolation, order)
	}
	if positive {
		g.recordClue(order, kind, value, true)
		info.Possibilities = narrowOrRestore(info.Possibilities, touched, true)
		info.Candidates = narrowOrRestore(info.Candidates, touched, true)
	} else {
		g.recordClue(order, kind, value, false)
		info.Possibilities = narrowOrRestore(info.Possibilities, touched, false)
		info.Candidates = narrowOrRestore(info.Candidates, touched, false)
	}
	g.Slots[order] = info
	return nil
}

func narrowOrRestore(set, touched IdentitySet, positive bool) IdentitySet {
	var narrowed IdentitySet
	if positive {
		narrowed = set.Intersect(touched)
	} else {
		narrowed = set.Diff(touched)
	}
	if narrowed.Empty() {
		// Positive-information contradiction: possibilities are trusted
		// ground, so the touch is discarded rather than emptying the set.
		return set
	}
	return narrowed
}

func (g *GameState) recordClue(order int, kind ClueKind, value int, positive bool) {
	switch {
	case kind == RankClue && positive:
		g.PositiveRankClues[order] = append(g.PositiveRankClues[order], value)
	case kind == RankClue && !positive:
		g.NegativeRankClues[order] = append(g.NegativeRankClues[order], value)
	case kind == ColorClue && positive:
		g.PositiveColorClues[order] = append(g.PositiveColorClues[order], value)
	default:
		g.NegativeColorClues[order] = append(g.NegativeColorClues[order], value)
	}
}

// HandleClue applies the base-state effects of a clue event (giver and
// target recorded by the caller/convention layer; this just applies the
// touch/no-touch set to every card in the target's hand).
func (g *GameState) HandleClue(target int, kind ClueKind, value int, touchedOrders []int) {
	touchedSet := make(map[int]bool, len(touchedOrders))
	for _, o := range touchedOrders {
		touchedSet[o] = true
	}
	for _, c := range g.Hands[target] {
		if err := g.ApplyTouch(c.Order, kind, value, touchedSet[c.Order]); err != nil {
			log.Warn().Err(err).Int("order", c.Order).Msg("clue touch failed")
		}
	}
}

// WriteNote appends turn-tagged free text to order's note. Supplemented
// feature, ported from hanabi_client.py's write_note.
func (g *GameState) WriteNote(order int, text string) {
	if existing, ok := g.Notes[order]; ok && existing != "" {
		g.Notes[order] = fmt.Sprintf("%s | t%d: %s", existing, g.Turn, text)
		return
	}
	g.Notes[order] = fmt.Sprintf("t%d: %s", g.Turn, text)
}

// TotalDiscards returns the number of discarded cards across all identities.
func (g *GameState) TotalDiscards() int {
	n := 0
	for _, c := range g.Discards {
		n += c
	}
	return n
}

// NumPlayers returns the player count.
func (g *GameState) NumPlayers() int { return len(g.PlayerNames) }
