package hanabi

// runElimination runs the bounded three-round fixed point of
// singleton/doubleton/tripleton elimination, first over Candidates then
// over Possibilities. It is called after every draw, play, or discard.
func (g *GameState) runElimination() {
	getC := func(s SlotInfo) IdentitySet        { return s.Candidates }
	setC := func(s *SlotInfo, v IdentitySet)    { s.Candidates = v }
	getP := func(s SlotInfo) IdentitySet        { return s.Possibilities }
	setP := func(s *SlotInfo, v IdentitySet)    { s.Possibilities = v }

	g.eliminateFixedPoint(getC, setC)
	g.eliminateFixedPoint(getP, setP)
}

type slotGetter func(SlotInfo) IdentitySet
type slotSetter func(*SlotInfo, IdentitySet)

// eliminateFixedPoint alternates the three sub-procedures for up to three
// rounds, stopping as soon as a round produces no change.
func (g *GameState) eliminateFixedPoint(get slotGetter, set slotSetter) {
	for round := 0; round < 3; round++ {
		changed := false
		if g.singletonElim(get, set) {
			changed = true
		}
		if g.pigeonholeElim(get, set, 2) {
			changed = true
		}
		if g.pigeonholeElim(get, set, 3) {
			changed = true
		}
		if !changed {
			return
		}
	}
}

// visibleKnownCopies returns, for the current field selected by get, the
// count of each identity accounted for by discards, play stacks, and any
// slot (in any hand) whose set is currently a singleton.
func (g *GameState) visibleKnownCopies(get slotGetter) map[Identity]int {
	counts := make(map[Identity]int)
	for id, n := range g.Discards {
		counts[id] += n
	}
	for suit, top := range g.Stacks {
		for r := 1; r <= top; r++ {
			counts[Identity{Suit: suit, Rank: r}]++
		}
	}
	for _, info := range g.Slots {
		if id, ok := get(info).Single(); ok {
			counts[id]++
		}
	}
	return counts
}

// singletonElim removes, from every non-singleton slot's set, any identity
// whose visible copies already equal its multiplicity.
func (g *GameState) singletonElim(get slotGetter, set slotSetter) bool {
	counts := g.visibleKnownCopies(get)
	changed := false
	for order, info := range g.Slots {
		cur := get(info)
		if cur.Len() <= 1 {
			continue
		}
		next := cur
		for _, id := range cur.Items() {
			mult, err := Multiplicity(g.Variant, id)
			if err != nil {
				continue
			}
			if counts[id] >= mult {
				next = next.Remove(id)
			}
		}
		if next != cur {
			if next.Empty() {
				// restoring handled by caller contract: an emptied set is
				// never committed here, singleton removal alone cannot
				// legitimately empty a set it didn't already rule out.
				continue
			}
			set(&info, next)
			g.Slots[order] = info
			changed = true
		}
	}
	return changed
}

// pigeonholeElim implements the doubleton (n=2) and tripleton (n=3)
// pigeonhole rules: if exactly as many slots in a hand carry the same
// n-identity set as there are unaccounted copies of those n identities
// combined, every other slot in that hand cannot be any of them.
func (g *GameState) pigeonholeElim(get slotGetter, set slotSetter, n int) bool {
	counts := g.visibleKnownCopies(get)
	changed := false
	for _, hand := range g.Hands {
		groups := make(map[IdentitySet][]int)
		for _, c := range hand {
			info, ok := g.Slots[c.Order]
			if !ok {
				continue
			}
			cur := get(info)
			if cur.Len() == n {
				groups[cur] = append(groups[cur], c.Order)
			}
		}
		for idSet, orders := range groups {
			if len(orders) < 2 {
				continue
			}
			remaining := 0
			for _, id := range idSet.Items() {
				mult, err := Multiplicity(g.Variant, id)
				if err != nil {
					continue
				}
				remaining += mult - counts[id]
			}
			if remaining != len(orders) {
				continue
			}
			inGroup := make(map[int]bool, len(orders))
			for _, o := range orders {
				inGroup[o] = true
			}
			for _, c := range hand {
				if inGroup[c.Order] {
					continue
				}
				info, ok := g.Slots[c.Order]
				if !ok {
					continue
				}
				cur := get(info)
				next := cur.Diff(idSet)
				if next == cur || next.Empty() {
					continue
				}
				set(&info, next)
				g.Slots[c.Order] = info
				changed = true
			}
		}
	}
	return changed
}
