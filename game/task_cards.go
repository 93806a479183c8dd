package game

import (
	"github.com/remigerme/the-crew-solver/deck"
)

// cardCount tallies cards matching a filter by where they are.
type cardCount struct {
	mine   int // won by the assignee
	others int // won by another player
	inPlay int // in a hand or in the current trick
	open   int // inPlay, or zero once the game is over
}

func (c cardCount) total() int {
	return c.mine + c.others + c.inPlay
}

func countCards(s *State, ip int, match func(deck.Card) bool) cardCount {
	var cc cardCount
	for i := range s.players {
		for _, t := range s.players[i].tricks {
			for _, c := range t.Cards {
				if !match(c) {
					continue
				}
				if i == ip {
					cc.mine++
				} else {
					cc.others++
				}
			}
		}
	}
	for _, c := range s.CardsInPlay() {
		if match(c) {
			cc.inPlay++
		}
	}
	if !s.IsOver() {
		cc.open = cc.inPlay
	}
	return cc
}

func inPlaySet(s *State) map[deck.Card]struct{} {
	set := map[deck.Card]struct{}{}
	if s.IsOver() {
		return set
	}
	for _, c := range s.CardsInPlay() {
		set[c] = struct{}{}
	}
	return set
}

func (t Task) evalWinCards(s *State, ip int) Status {
	me := s.Player(ip)
	missing := 0
	for _, c := range t.cards {
		if !me.WonCard(c) {
			missing++
		}
	}
	if missing == 0 {
		return Done
	}
	inPlay := inPlaySet(s)
	for _, c := range t.cards {
		if me.WonCard(c) {
			continue
		}
		// won by someone else, or never dealt
		if _, ok := inPlay[c]; !ok {
			return Failed
		}
	}
	return Unknown
}

func (t Task) evalDontWinCards(s *State, ip int) Status {
	me := s.Player(ip)
	for _, c := range t.cards {
		if me.WonCard(c) {
			return Failed
		}
	}
	inPlay := inPlaySet(s)
	for _, c := range t.cards {
		if _, ok := inPlay[c]; ok {
			return Unknown
		}
	}
	return Done
}

func (t Task) forbiddenLead(c deck.Card) bool {
	for _, s := range t.suits {
		if c.Suit == s {
			return true
		}
	}
	return false
}

func (t Task) evalDontOpenTrickWith(s *State, ip int) Status {
	for i := range s.players {
		for _, tr := range s.players[i].tricks {
			if lead, ok := tr.Lead(); ok && tr.Leader == ip && t.forbiddenLead(lead) {
				return Failed
			}
		}
	}
	if lead, ok := s.current.Lead(); ok && s.current.Leader == ip && t.forbiddenLead(lead) {
		return Failed
	}
	if s.IsOver() {
		return Done
	}
	for _, c := range s.players[ip].hand.cards {
		if t.forbiddenLead(c) {
			return Unknown
		}
	}
	return Done
}

func (t Task) qualifies(c deck.Card) bool {
	return !c.IsTrump() && c.Rank == t.rank
}

func (t Task) corequisite(c deck.Card) bool {
	return !c.IsTrump() && c.Rank == t.with
}

func (t Task) evalWinTrickWith(s *State, ip int) Status {
	n := len(s.players)
	for _, tr := range s.players[ip].tricks {
		own, ok := tr.PlayedBy(ip, n)
		if !ok || !t.qualifies(own) {
			continue
		}
		if t.with == 0 {
			return Done
		}
		for i, c := range tr.Cards {
			if (i+tr.Leader)%n != ip && t.corequisite(c) {
				return Done
			}
		}
	}
	if s.IsOver() {
		return Failed
	}

	holds := false
	if own, ok := s.current.PlayedBy(ip, n); ok {
		holds = t.qualifies(own)
	}
	for _, c := range s.players[ip].hand.cards {
		holds = holds || t.qualifies(c)
	}
	if !holds {
		return Failed
	}
	if t.with == 0 {
		return Unknown
	}

	for i := range s.players {
		if i == ip {
			continue
		}
		if c, ok := s.current.PlayedBy(i, n); ok && t.corequisite(c) {
			return Unknown
		}
		for _, c := range s.players[i].hand.cards {
			if t.corequisite(c) {
				return Unknown
			}
		}
	}
	return Failed
}

func (t Task) evalAmount(s *State, ip int) Status {
	status := Done
	for _, q := range t.quotas {
		var match func(deck.Card) bool
		if t.kind == KindWinSuitAmount {
			suit := q.suit
			match = func(c deck.Card) bool { return c.Suit == suit }
		} else {
			rank := q.rank
			match = func(c deck.Card) bool { return !c.IsTrump() && c.Rank == rank }
		}
		cc := countCards(s, ip, match)
		switch {
		case t.exactly && cc.mine > q.n:
			return Failed
		case cc.mine+cc.open < q.n:
			return Failed
		case cc.mine >= q.n && (!t.exactly || cc.open == 0):
			// quota met for good
		default:
			status = Unknown
		}
	}
	return status
}

func (t Task) evalWinOnlyTrump(s *State, ip int) Status {
	target := deck.Card{Suit: deck.Trump, Rank: t.rank}
	won := false
	for _, c := range s.players[ip].WonCards() {
		if !c.IsTrump() {
			continue
		}
		if c != target {
			return Failed
		}
		won = true
	}

	inPlay := inPlaySet(s)
	if !won {
		if _, ok := inPlay[target]; !ok {
			return Failed
		}
		return Unknown
	}
	for c := range inPlay {
		if c.IsTrump() {
			return Unknown
		}
	}
	return Done
}

func (t Task) evalWinWholeSuit(s *State, ip int) Status {
	possible := false
	for _, suit := range deck.Suits {
		suit := suit
		cc := countCards(s, ip, func(c deck.Card) bool { return c.Suit == suit })
		if cc.total() == 0 {
			continue
		}
		if cc.mine == cc.total() {
			return Done
		}
		if cc.others == 0 && cc.open > 0 {
			possible = true
		}
	}
	if !possible {
		return Failed
	}
	return Unknown
}

func (t Task) evalWinMoreOfSuit(s *State, ip int) Status {
	more, fewer := t.suits[0], t.suits[1]
	m := countCards(s, ip, func(c deck.Card) bool { return c.Suit == more })
	f := countCards(s, ip, func(c deck.Card) bool { return c.Suit == fewer })

	if t.exactly {
		if m.mine > f.mine+f.open || f.mine > m.mine+m.open {
			return Failed
		}
		if m.open == 0 && f.open == 0 {
			return Done
		}
		return Unknown
	}
	if m.mine > f.mine+f.open {
		return Done
	}
	if m.mine+m.open <= f.mine {
		return Failed
	}
	return Unknown
}
