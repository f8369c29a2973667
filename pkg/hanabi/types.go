// Package hanabi implements the information-reasoning and action-selection
// engine for a Hanabi-playing agent: variant metadata, card classification,
// per-observer game state with candidate-set inference, and the two
// convention-specific clue interpreters (hat-guessing encoder, H-Group).
package hanabi

import "math/bits"

// MaxSuits is the largest suit count any catalog variant defines.
const MaxSuits = 6

// MaxRank is the highest playable rank.
const MaxRank = 5

// UnknownSuit marks a Card whose identity is not observed (the holder's own
// hand, from that holder's point of view).
const UnknownSuit = -1

// Identity is a card's suit/rank pair, independent of any particular copy.
type Identity struct {
	Suit int
	Rank int
}

func (id Identity) bit() uint {
	return uint(id.Suit*MaxRank + (id.Rank - 1))
}

// Card is a single physical card: its immutable server-assigned draw order,
// plus its identity as observed (UnknownSuit/rank -1 when hidden, as for a
// card in the observer's own hand).
type Card struct {
	Order int
	Suit  int
	Rank  int
}

// Identity returns the card's identity and whether it is known to the observer.
func (c Card) Identity() (Identity, bool) {
	if c.Suit == UnknownSuit {
		return Identity{}, false
	}
	return Identity{Suit: c.Suit, Rank: c.Rank}, true
}

// Equal compares two cards by identity only; Order is metadata.
func (c Card) Equal(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Hand is an ordered sequence of cards, oldest at index 0. Slot k (1-based)
// counts from the newest, i.e. slot 1 is Hand[len(Hand)-1].
type Hand []Card

// Slot returns the card at 1-based slot k counted from the newest card, and
// whether k was in range.
func (h Hand) Slot(k int) (Card, bool) {
	i := len(h) - k
	if i < 0 || i >= len(h) {
		return Card{}, false
	}
	return h[i], true
}

// IndexOfOrder returns the hand index of the card with the given order, or -1.
func (h Hand) IndexOfOrder(order int) int {
	for i, c := range h {
		if c.Order == order {
			return i
		}
	}
	return -1
}

// IdentitySet is a fixed-width bitmap over (suit, rank) identities: bit
// suit*MaxRank+(rank-1). At most MaxSuits*MaxRank == 30 bits are ever live,
// so intersection/union/difference are single machine-word operations and
// the visible-elimination fixed point never allocates.
type IdentitySet uint32

// EmptySet is the empty identity set.
const EmptySet IdentitySet = 0

// NewIdentitySet builds a set from the given identities.
func NewIdentitySet(ids ...Identity) IdentitySet {
	var s IdentitySet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// Add returns the set with id added.
func (s IdentitySet) Add(id Identity) IdentitySet {
	return s | (1 << id.bit())
}

// Remove returns the set with id removed.
func (s IdentitySet) Remove(id Identity) IdentitySet {
	return s &^ (1 << id.bit())
}

// Has reports whether id is a member of the set.
func (s IdentitySet) Has(id Identity) bool {
	return s&(1<<id.bit()) != 0
}

// Union returns s ∪ other.
func (s IdentitySet) Union(other IdentitySet) IdentitySet {
	return s | other
}

// Intersect returns s ∩ other.
func (s IdentitySet) Intersect(other IdentitySet) IdentitySet {
	return s & other
}

// Diff returns s \ other.
func (s IdentitySet) Diff(other IdentitySet) IdentitySet {
	return s &^ other
}

// Len returns the number of identities in the set.
func (s IdentitySet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Empty reports whether the set has no members.
func (s IdentitySet) Empty() bool {
	return s == 0
}

// Subset reports whether s is a subset of other.
func (s IdentitySet) Subset(other IdentitySet) bool {
	return s&other == s
}

// Items expands the set into a slice of identities, suit-major then rank.
func (s IdentitySet) Items() []Identity {
	ids := make([]Identity, 0, s.Len())
	for suit := 0; suit < MaxSuits; suit++ {
		for rank := 1; rank <= MaxRank; rank++ {
			id := Identity{Suit: suit, Rank: rank}
			if s.Has(id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Single returns the lone identity in the set and true, if the set has
// exactly one member.
func (s IdentitySet) Single() (Identity, bool) {
	if s.Len() != 1 {
		return Identity{}, false
	}
	items := s.Items()
	return items[0], true
}
