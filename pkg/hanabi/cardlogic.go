package hanabi

// startingPaceBase is the base starting pace keyed by player count, before
// the per-suit and per-dark-suit adjustments.
var startingPaceBase = map[int]int{2: 22, 3: 18, 4: 18, 5: 15, 6: 18}

// Multiplicity returns the number of physical copies of identity id in
// variant name: 3 for rank 1, 2 for ranks 2-4, 1 for rank 5, except dark
// suits which have exactly one copy of every rank.
func Multiplicity(name string, id Identity) (int, error) {
	v, err := lookupVariant(name)
	if err != nil {
		return 0, err
	}
	if id.Suit < 0 || id.Suit >= len(v.Suits) {
		return 0, nil
	}
	if IsDarkSuit(v.Suits[id.Suit]) {
		return 1, nil
	}
	switch id.Rank {
	case 1:
		return 3, nil
	case 5:
		return 1, nil
	default:
		return 2, nil
	}
}

// Playables returns {(i, stacks[i]+1) : stacks[i] < 5} for every suit i.
func Playables(stacks []int) IdentitySet {
	var s IdentitySet
	for suit, top := range stacks {
		if top < MaxRank {
			s = s.Add(Identity{Suit: suit, Rank: top + 1})
		}
	}
	return s
}

// deadRank returns, for suit si, the lowest rank r such that some identity
// (i, r') with r' <= r has had all copies discarded (so nothing at or above
// r can ever be played) — MaxRank+1 if the suit is not dead.
func deadRank(name string, si int, stacks []int, discards map[Identity]int) (int, error) {
	for r := stacks[si] + 1; r <= MaxRank; r++ {
		id := Identity{Suit: si, Rank: r}
		mult, err := Multiplicity(name, id)
		if err != nil {
			return 0, err
		}
		if discards[id] >= mult {
			return r, nil
		}
	}
	return MaxRank + 1, nil
}

// Trash returns every identity strictly below the current stack in its
// suit, plus every identity at or above a dead suit's dead rank.
func Trash(name string, stacks []int, discards map[Identity]int) (IdentitySet, error) {
	var s IdentitySet
	for si, top := range stacks {
		for r := 1; r <= top; r++ {
			s = s.Add(Identity{Suit: si, Rank: r})
		}
		dead, err := deadRank(name, si, stacks, discards)
		if err != nil {
			return EmptySet, err
		}
		for r := dead; r <= MaxRank; r++ {
			s = s.Add(Identity{Suit: si, Rank: r})
		}
	}
	return s, nil
}

// Criticals returns every identity whose remaining-copy count is exactly 1
// and which is not in trash.
func Criticals(name string, stacks []int, discards map[Identity]int) (IdentitySet, error) {
	trash, err := Trash(name, stacks, discards)
	if err != nil {
		return EmptySet, err
	}
	suits, err := Suits(name)
	if err != nil {
		return EmptySet, err
	}
	var s IdentitySet
	for si := range suits {
		for r := 1; r <= MaxRank; r++ {
			id := Identity{Suit: si, Rank: r}
			if trash.Has(id) {
				continue
			}
			mult, err := Multiplicity(name, id)
			if err != nil {
				return EmptySet, err
			}
			if mult-discards[id] == 1 {
				s = s.Add(id)
			}
		}
	}
	return s, nil
}

// NonFiveCriticals returns Criticals excluding rank-5 identities, used by
// the H-Group focused-card narrowing rule for color clues.
func NonFiveCriticals(name string, stacks []int, discards map[Identity]int) (IdentitySet, error) {
	crit, err := Criticals(name, stacks, discards)
	if err != nil {
		return EmptySet, err
	}
	var s IdentitySet
	for _, id := range crit.Items() {
		if id.Rank != 5 {
			s = s.Add(id)
		}
	}
	return s, nil
}

// StartingPace returns the starting pace for numPlayers players of variant
// name: base[numPlayers] - 5*(6-S) - 5*numDarkSuits.
func StartingPace(name string, numPlayers int) (int, error) {
	suits, err := Suits(name)
	if err != nil {
		return 0, err
	}
	base, ok := startingPaceBase[numPlayers]
	if !ok {
		return 0, ErrUnimplementedVariant
	}
	darkCount := 0
	for _, s := range suits {
		if IsDarkSuit(s) {
			darkCount++
		}
	}
	return base - 5*(6-len(suits)) - 5*darkCount, nil
}

// Pace returns the current pace: starting pace minus total discards so far.
func Pace(name string, numPlayers int, totalDiscards int) (int, error) {
	start, err := StartingPace(name, numPlayers)
	if err != nil {
		return 0, err
	}
	return start - totalDiscards, nil
}

// DeckRemaining returns the number of cards left to draw: total deck size
// minus cards dealt, discarded, and played, clamped at zero.
func DeckRemaining(name string, dealt, discarded int, stacks []int) (int, error) {
	suits, err := Suits(name)
	if err != nil {
		return 0, err
	}
	total := 0
	for si := range suits {
		for r := 1; r <= MaxRank; r++ {
			mult, err := Multiplicity(name, Identity{Suit: si, Rank: r})
			if err != nil {
				return 0, err
			}
			total += mult
		}
	}
	played := 0
	for _, top := range stacks {
		played += top
	}
	remaining := total - dealt - discarded - played
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
