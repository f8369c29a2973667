package hanabi

import "fmt"

// GameState.pending/FlushPendingNotes let a convention accumulate NoteUpdates
// during OnEvent/ChooseAction and hand them to the driver in one batch via
// RenderNotes, without every convention needing its own queue.

// NoteOrder queues a note update for order, ported from hanabi_client.py's
// write_note/note concatenation behavior.
func (g *GameState) NoteOrder(order int, text string) {
	g.WriteNote(order, text)
	g.pending = append(g.pending, NoteUpdate{Order: order, Text: text})
}

// FlushPendingNotes returns and clears the queued note updates.
func (g *GameState) FlushPendingNotes() []NoteUpdate {
	out := g.pending
	g.pending = nil
	return out
}

// RenderIdentitySet renders a candidate set as a note-friendly string, e.g.
// "[Red1, Green1, Blue1]" (suit names, in suit-index order) or "[trash]" for
// an all-trash set.
func RenderIdentitySet(name string, set IdentitySet, stacks []int, discards map[Identity]int) string {
	if set.Empty() {
		return "[empty]"
	}
	trash, err := Trash(name, stacks, discards)
	if err == nil && set.Subset(trash) {
		return "[trash]"
	}
	suits, err := Suits(name)
	if err != nil {
		return "[?]"
	}
	s := "["
	for i, id := range set.Items() {
		if i > 0 {
			s += ", "
		}
		suitName := "?"
		if id.Suit >= 0 && id.Suit < len(suits) {
			suitName = suits[id.Suit]
		}
		s += fmt.Sprintf("%s%d", suitName, id.Rank)
	}
	return s + "]"
}

// GoodActions buckets every order in playerIdx's hand into the six-bucket
// classification used by the encoder's discard-priority step, per
// game_state.py's get_good_actions.
type GoodActions struct {
	Playable              []int
	Trash                 []int
	DupeInOwnHand         []int
	DupeInOtherHand       []int
	DupeInOtherHandOrTrash []int
	SeenInOtherHand       []int
}

// ComputeGoodActions classifies every order in playerIdx's hand.
func (g *GameState) ComputeGoodActions(playerIdx int) GoodActions {
	var out GoodActions
	playable := Playables(g.Stacks)
	trash, err := Trash(g.Variant, g.Stacks, g.Discards)
	if err != nil {
		trash = EmptySet
	}

	hand := g.Hands[playerIdx]
	seenElsewhere := make(map[Identity][]int) // identity -> orders outside this hand holding it
	for pi, h := range g.Hands {
		if pi == playerIdx {
			continue
		}
		for _, c := range h {
			if id, ok := c.Identity(); ok {
				seenElsewhere[id] = append(seenElsewhere[id], c.Order)
			}
		}
	}

	seenInThisHand := make(map[Identity][]int)
	for _, c := range hand {
		if id, ok := c.Identity(); ok {
			seenInThisHand[id] = append(seenInThisHand[id], c.Order)
		}
	}

	for _, c := range hand {
		info, ok := g.Slots[c.Order]
		if !ok {
			continue
		}
		cand := info.Candidates
		switch {
		case cand.Subset(playable):
			out.Playable = append(out.Playable, c.Order)
		case cand.Subset(trash):
			out.Trash = append(out.Trash, c.Order)
		default:
		}
		if id, ok := c.Identity(); ok {
			if dupes := seenInThisHand[id]; len(dupes) > 1 {
				out.DupeInOwnHand = append(out.DupeInOwnHand, c.Order)
			}
			if others := seenElsewhere[id]; len(others) > 0 {
				out.DupeInOtherHand = append(out.DupeInOtherHand, c.Order)
				out.SeenInOtherHand = append(out.SeenInOtherHand, c.Order)
			}
			if cand.Subset(trash) || len(seenElsewhere[id]) > 0 {
				out.DupeInOtherHandOrTrash = append(out.DupeInOtherHandOrTrash, c.Order)
			}
		}
	}
	return out
}
