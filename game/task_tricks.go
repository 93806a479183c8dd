package game

func wonIndexes(p *Player) map[int]bool {
	won := make(map[int]bool, len(p.tricks))
	for _, t := range p.tricks {
		won[t.Index] = true
	}
	return won
}

func (t Task) evalVersusCaptain(s *State, ip int) Status {
	captain, ok := s.Captain()
	if !ok || captain == ip {
		return Failed
	}
	mine := len(s.players[ip].tricks)
	theirs := len(s.players[captain].tricks)

	if s.IsOver() {
		var ok bool
		switch t.compare {
		case More:
			ok = mine > theirs
		case Fewer:
			ok = mine < theirs
		default:
			ok = mine == theirs
		}
		if ok {
			return Done
		}
		return Failed
	}

	left := s.TricksLeft()
	switch t.compare {
	case More:
		if mine+left <= theirs {
			return Failed
		}
	case Fewer:
		if theirs+left <= mine {
			return Failed
		}
	default:
		if mine+left < theirs || theirs+left < mine {
			return Failed
		}
	}
	return Unknown
}

func (t Task) evalWinTrickMatching(s *State, ip int) Status {
	for _, tr := range s.players[ip].tricks {
		if t.pred.Matches(tr) {
			return Done
		}
	}
	if s.IsOver() {
		return Failed
	}
	if !t.pred.cardBound() {
		return Unknown
	}

	inPlay := inPlaySet(s)
	if _, ok := inPlay[t.pred.Card]; !ok {
		return Failed
	}
	switch t.pred.Kind {
	case CardInTrick:
		if s.current.Index > t.pred.Index || s.current.Index+s.TricksLeft() <= t.pred.Index {
			return Failed
		}
	case CardWithTrump:
		for c := range inPlay {
			if c.IsTrump() {
				return Unknown
			}
		}
		return Failed
	}
	return Unknown
}

func (t Task) evalDontWinTricks(s *State, ip int) Status {
	forbidden := map[int]bool{}
	for _, i := range t.indexes {
		forbidden[i] = true
	}
	for _, tr := range s.players[ip].tricks {
		if t.any || forbidden[tr.Index] {
			return Failed
		}
	}
	if s.IsOver() {
		return Done
	}
	if !t.any && s.current.Index > t.indexes[len(t.indexes)-1] {
		return Done
	}
	return Unknown
}

func (t Task) evalWinTricks(s *State, ip int) Status {
	won := wonIndexes(s.Player(ip))
	required := map[int]bool{}
	for _, i := range t.indexes {
		required[i] = true
	}

	if t.exactly {
		for i := range won {
			if !required[i] {
				return Failed
			}
		}
	}

	complete := true
	lastPlayable := s.current.Index + s.TricksLeft() - 1
	for _, i := range t.indexes {
		if won[i] {
			continue
		}
		if i < s.current.Index || i > lastPlayable {
			return Failed
		}
		complete = false
	}
	if !complete {
		return Unknown
	}
	if !t.exactly || s.IsOver() {
		return Done
	}
	return Unknown
}

func (t Task) evalWinTrickCount(s *State, ip int) Status {
	won := len(s.players[ip].tricks)
	switch {
	case won > t.n:
		return Failed
	case won+s.TricksLeft() < t.n:
		return Failed
	case s.IsOver():
		return Done
	}
	return Unknown
}

// runs scans won trick indexes in order.
// It returns the longest run, the latest run, the index ending it, and whether more than one run exists.
func runs(p *Player) (longest, latest, end int, gap bool) {
	end = -2
	for _, tr := range p.tricks {
		if latest > 0 && tr.Index == end+1 {
			latest++
		} else {
			gap = gap || latest > 0
			latest = 1
		}
		end = tr.Index
		longest = max(longest, latest)
	}
	return longest, latest, end, gap
}

func (t Task) evalConsecutive(s *State, ip int) Status {
	longest, latest, end, gap := runs(s.Player(ip))
	left := s.TricksLeft()

	// Longest run still reachable from here: extend the ongoing one or start afresh.
	reach := left
	ongoing := latest > 0 && end == s.current.Index-1
	if ongoing {
		reach = latest + left
	}

	if !t.exactly {
		if longest >= t.n {
			return Done
		}
		if reach < t.n {
			return Failed
		}
		return Unknown
	}

	if gap || longest > t.n {
		return Failed
	}
	if s.IsOver() {
		if longest == t.n {
			return Done
		}
		return Failed
	}
	if latest > 0 && !ongoing {
		// the only run is closed; any further win opens a second one
		if latest < t.n {
			return Failed
		}
		return Unknown
	}
	if reach < t.n {
		return Failed
	}
	return Unknown
}

func (t Task) evalDontWinConsecutive(s *State, ip int) Status {
	tricks := s.players[ip].tricks
	for i := 1; i < len(tricks); i++ {
		if tricks[i].Index == tricks[i-1].Index+1 {
			return Failed
		}
	}
	if s.IsOver() {
		return Done
	}
	return Unknown
}

func (t Task) evalMoreTricksThanOthers(s *State, ip int) Status {
	mine := len(s.players[ip].tricks)
	left := s.TricksLeft()

	if t.mode == MoreThanAllTogether {
		others := 0
		for i := range s.players {
			if i != ip {
				others += len(s.players[i].tricks)
			}
		}
		switch {
		case mine > others+left:
			return Done
		case mine+left <= others:
			return Failed
		}
		return Unknown
	}

	status := Done
	for i := range s.players {
		if i == ip {
			continue
		}
		high, low := mine, len(s.players[i].tricks)
		if t.mode == FewerThanEach {
			high, low = low, high
		}
		// high must end strictly above low
		switch {
		case high+left <= low:
			return Failed
		case high <= low+left:
			status = Unknown
		}
	}
	return status
}
