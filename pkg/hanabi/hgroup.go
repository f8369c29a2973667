package hanabi

// finesseNode is the bookkeeping record tracing which prompt/finesse chain
// produced which inference, ported from h_group.py's FinesseNode/
// FinessePaths so a later contradiction can be traced back to the clue
// that created it.
type finesseNode struct {
	Order       int
	Suit        int
	Rank        int
	FromFinesse bool
	ClueTurn    int
}

// HGroupState is the H-Group Convention implementation: base GameState plus
// chop-move tags (via GameState.Tags["chop_moved"]) and a record of
// finesses currently relied upon.
type HGroupState struct {
	gs       *GameState
	finesses map[int]*finesseNode
}

// NewHGroupState wraps gs with H-Group side state.
func NewHGroupState(gs *GameState) *HGroupState {
	return &HGroupState{gs: gs, finesses: make(map[int]*finesseNode)}
}

func (h *HGroupState) State() *GameState { return h.gs }

func cluedCount(gs *GameState, order int) int {
	return len(gs.PositiveRankClues[order]) + len(gs.PositiveColorClues[order])
}

// Chop returns the player's oldest card that is neither clue-touched nor
// chop-moved.
func (h *HGroupState) Chop(playerIdx int) (int, bool) {
	for _, c := range h.gs.Hands[playerIdx] {
		if h.gs.HasTag("chop_moved", c.Order) {
			continue
		}
		if cluedCount(h.gs, c.Order) == 0 {
			return c.Order, true
		}
	}
	return 0, false
}

// FocusOfClue returns the focus of a clue that touched the given orders in
// target's hand: the chop if touched, else the newest newly-touched card,
// else the newest touched card — scanning from the newest card (highest
// hand index) toward the oldest, matching the convention's "leftmost" as
// displayed with the newest card on the left.
func (h *HGroupState) FocusOfClue(target int, touched []int) (int, bool) {
	touchedSet := make(map[int]bool, len(touched))
	for _, o := range touched {
		touchedSet[o] = true
	}
	if chopOrder, ok := h.Chop(target); ok && touchedSet[chopOrder] {
		return chopOrder, true
	}
	hand := h.gs.Hands[target]
	for i := len(hand) - 1; i >= 0; i-- {
		o := hand[i].Order
		if touchedSet[o] && cluedCount(h.gs, o) == 1 {
			return o, true
		}
	}
	for i := len(hand) - 1; i >= 0; i-- {
		o := hand[i].Order
		if touchedSet[o] {
			return o, true
		}
	}
	return 0, false
}

// NarrowFocusedCard applies the focused-card narrowing rule: a rank clue
// with value not in {2,5} narrows to playables∪criticals; any color clue
// narrows to playables∪non-5-criticals. Ranks 2 and 5 are ambiguous with
// save clues and are left unnarrowed.
func (h *HGroupState) NarrowFocusedCard(order int, kind ClueKind, value int) error {
	playable := Playables(h.gs.Stacks)
	var narrow IdentitySet
	switch {
	case kind == RankClue && value != 2 && value != 5:
		crit, err := Criticals(h.gs.Variant, h.gs.Stacks, h.gs.Discards)
		if err != nil {
			return err
		}
		narrow = playable.Union(crit)
	case kind == ColorClue:
		nfc, err := NonFiveCriticals(h.gs.Variant, h.gs.Stacks, h.gs.Discards)
		if err != nil {
			return err
		}
		narrow = playable.Union(nfc)
	default:
		return nil
	}
	slot, ok := h.gs.Slots[order]
	if !ok {
		return nil
	}
	next := slot.Candidates.Intersect(narrow)
	if next.Empty() {
		h.gs.NoteOrder(order, "bad focus narrowing: conflict, restoring from possibilities")
		next = slot.Possibilities
	}
	slot.Candidates = next
	h.gs.Slots[order] = slot
	return nil
}

// simulationState is the prompt/finesse resolver's mutable scratch space: a
// snapshot of the play stacks plus the pointer walking the connecting
// chain, the consumed orders, and which of those came from a finesse rather
// than a prompt. A transition that would place a non-playable card returns
// errBadPlay, which the resolver passes up to its caller — never a panic.
type simulationState struct {
	pointer               int
	suit                  int
	stacks                []int
	alreadyPlayedOrders   map[int]bool
	additionalCardsGotten []int
	hasBeenIncremented    bool
}

func newSimulationState(stacks []int, suit int) *simulationState {
	cp := append([]int(nil), stacks...)
	return &simulationState{
		pointer:             cp[suit] + 1,
		suit:                suit,
		stacks:              cp,
		alreadyPlayedOrders: make(map[int]bool),
	}
}

func (s *simulationState) isPlayable(rank int) bool {
	return s.stacks[s.suit]+1 == rank
}

func (s *simulationState) play(order, rank int) error {
	if !s.isPlayable(rank) {
		return errBadPlay
	}
	s.stacks[s.suit] = rank
	s.alreadyPlayedOrders[order] = true
	s.hasBeenIncremented = true
	s.pointer = rank + 1
	return nil
}

// findConnectingCard searches every player other than target for a card
// matching id, scanning each hand right-to-left (newest to oldest);
// clued selects whether to search clued (prompt) or unclued (finesse)
// cards. It returns the first slot whose candidates contain id.
func findConnectingCard(gs *GameState, target int, id Identity, clued bool) (order int, found bool) {
	for p := 0; p < gs.NumPlayers(); p++ {
		if p == target {
			continue
		}
		hand := gs.Hands[p]
		for i := len(hand) - 1; i >= 0; i-- {
			c := hand[i]
			if gs.HasTag("chop_moved", c.Order) {
				continue
			}
			isClued := cluedCount(gs, c.Order) > 0
			if isClued != clued {
				continue
			}
			info, ok := gs.Slots[c.Order]
			if !ok || !info.Candidates.Has(id) {
				continue
			}
			return c.Order, true
		}
	}
	return 0, false
}

// ResolvePromptFinesse simulates the connecting chain
// stacks[suit]+1, ..., focusRank-1 for a clue whose focused card resolves
// to (suit, focusRank). It returns the resulting simulation state, or
// errBadPlay if the chain cannot be resolved (prompt tried first, finesse
// second, per DESIGN.md's Open Question decision).
func (h *HGroupState) ResolvePromptFinesse(target, suit, focusRank int) (*simulationState, error) {
	sim := newSimulationState(h.gs.Stacks, suit)
	for sim.pointer < focusRank {
		needed := Identity{Suit: suit, Rank: sim.pointer}
		order, ok := findConnectingCard(h.gs, target, needed, true)
		fromFinesse := false
		if !ok {
			order, ok = findConnectingCard(h.gs, target, needed, false)
			fromFinesse = true
		}
		if !ok {
			return sim, errBadPlay
		}
		actual, owner := findCardByOrder(h.gs, order)
		if owner < 0 || actual.Suit != needed.Suit || actual.Rank != needed.Rank {
			return sim, errBadPlay
		}
		if err := sim.play(order, needed.Rank); err != nil {
			return sim, err
		}
		if fromFinesse {
			sim.additionalCardsGotten = append(sim.additionalCardsGotten, order)
			h.finesses[order] = &finesseNode{Order: order, Suit: suit, Rank: needed.Rank, FromFinesse: true, ClueTurn: h.gs.Turn}
		}
	}
	return sim, nil
}

func findCardByOrder(gs *GameState, order int) (Card, int) {
	for p, hand := range gs.Hands {
		if idx := hand.IndexOfOrder(order); idx >= 0 {
			return hand[idx], p
		}
	}
	return Card{}, -1
}

// OnEvent applies the base-state mutation for ev, layering chop-move
// tagging on top of discard events and focus/narrowing logic on top of
// clue events.
func (h *HGroupState) OnEvent(ev GameEvent) error {
	switch ev.Type {
	case EventDraw:
		h.gs.HandleDraw(ev.PlayerIndex, ev.Order, ev.Suit, ev.Rank)
	case EventPlay:
		h.gs.HandlePlay(ev.PlayerIndex, ev.Order, ev.Suit, ev.Rank)
		delete(h.finesses, ev.Order)
	case EventDiscard:
		if !ev.Failed {
			if chopOrder, ok := h.Chop(ev.PlayerIndex); ok && chopOrder != ev.Order {
				h.gs.Tag("chop_moved", chopOrder)
			}
		}
		h.gs.HandleDiscard(ev.PlayerIndex, ev.Order, ev.Suit, ev.Rank, ev.Failed)
		delete(h.finesses, ev.Order)
	case EventClue:
		h.gs.HandleClue(ev.Target, ev.ClueKind, ev.ClueValue, ev.TouchedOrders)
		focus, ok := h.FocusOfClue(ev.Target, ev.TouchedOrders)
		if !ok {
			return nil
		}
		if err := h.NarrowFocusedCard(focus, ev.ClueKind, ev.ClueValue); err != nil {
			return err
		}
		if id, single := h.gs.Slots[focus].Candidates.Single(); single && id.Rank > h.gs.Stacks[id.Suit]+1 {
			if _, err := h.ResolvePromptFinesse(ev.Target, id.Suit, id.Rank); err != nil {
				h.gs.NoteOrder(focus, "prompt/finesse chain invalid, excluding focused identity")
				slot := h.gs.Slots[focus]
				slot.Candidates = slot.Candidates.Remove(id)
				if slot.Candidates.Empty() {
					slot.Candidates = slot.Possibilities
				}
				h.gs.Slots[focus] = slot
			}
		}
		for _, o := range ev.TouchedOrders {
			h.gs.Tag("clued", o)
		}
	case EventTurn:
		h.gs.HandleTurn(ev.TurnNum, ev.CurrentPlayer)
	case EventStatus:
		h.gs.HandleStatus(ev.Clues, ev.Strikes, ev.HasClues, ev.HasStrikes)
	case EventStrike:
		h.gs.HandleStrike(ev.StrikeNum)
	}
	return nil
}

// ChooseAction implements the H-Group action policy: play a card whose
// candidates are a single playable identity; else, with a clue token, give
// a save clue when the next player's chop is critical or playable (whether
// the next player has some other safe action is not checked); else play
// any card whose candidates are all playable; else discard chop.
func (h *HGroupState) ChooseAction() (ActionRequest, error) {
	gs := h.gs
	playable := Playables(gs.Stacks)

	if order, ok := h.knownPlayable(playable); ok {
		return ActionRequest{Type: ActionPlay, Target: order}, nil
	}

	if gs.Clues > 0 {
		next := (gs.ObserverIdx + 1) % gs.NumPlayers()
		if chopOrder, ok := h.Chop(next); ok {
			crit, err := Criticals(gs.Variant, gs.Stacks, gs.Discards)
			if err == nil {
				card, _ := findCardByOrder(gs, chopOrder)
				id, known := card.Identity()
				if known && (crit.Has(id) || playable.Has(id)) {
					if req, ok := h.saveClueFor(next, id); ok {
						return req, nil
					}
				}
			}
		}
	}

	if order, ok := h.anyPlayable(playable); ok {
		return ActionRequest{Type: ActionPlay, Target: order}, nil
	}

	if chopOrder, ok := h.Chop(gs.ObserverIdx); ok {
		return ActionRequest{Type: ActionDiscard, Target: chopOrder}, nil
	}
	hand := gs.Hands[gs.ObserverIdx]
	if len(hand) > 0 {
		return ActionRequest{Type: ActionDiscard, Target: hand[0].Order}, nil
	}
	return ActionRequest{}, ErrContradiction
}

func (h *HGroupState) knownPlayable(playable IdentitySet) (int, bool) {
	for _, c := range h.gs.Hands[h.gs.ObserverIdx] {
		info, ok := h.gs.Slots[c.Order]
		if ok && !info.Candidates.Empty() && info.Candidates.Subset(playable) {
			if _, single := info.Candidates.Single(); single {
				return c.Order, true
			}
		}
	}
	return 0, false
}

func (h *HGroupState) anyPlayable(playable IdentitySet) (int, bool) {
	for _, c := range h.gs.Hands[h.gs.ObserverIdx] {
		info, ok := h.gs.Slots[c.Order]
		if ok && !info.Candidates.Empty() && info.Candidates.Subset(playable) {
			return c.Order, true
		}
	}
	return 0, false
}

// saveClueFor finds a rank or color clue on target that touches id's order
// and respects the 2/5 save-clue ambiguity rule.
func (h *HGroupState) saveClueFor(target int, id Identity) (ActionRequest, bool) {
	if id.Rank == 5 {
		touched, err := TouchedBy(h.gs.Variant, RankClue, 5)
		if err == nil && touched.Has(id) {
			return ActionRequest{Type: ActionRankClue, Target: target, Value: 5}, true
		}
	}
	touched, err := TouchedBy(h.gs.Variant, RankClue, id.Rank)
	if err == nil && touched.Has(id) {
		return ActionRequest{Type: ActionRankClue, Target: target, Value: id.Rank}, true
	}
	colors, err := AvailableColorClues(h.gs.Variant)
	if err == nil {
		for ci := range colors {
			t, err := TouchedBy(h.gs.Variant, ColorClue, ci)
			if err == nil && t.Has(id) {
				return ActionRequest{Type: ActionColorClue, Target: target, Value: ci}, true
			}
		}
	}
	return ActionRequest{}, false
}

func (h *HGroupState) RenderNotes() []NoteUpdate {
	return h.gs.FlushPendingNotes()
}
