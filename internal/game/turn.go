package game

// nextSeat returns the index of the first player after from (wrapping) for
// which ok returns true, or -1 when none qualifies. from itself is checked last.
func (s *Session) nextSeat(from int, ok func(*Player) bool) int {
	n := len(s.players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if ok(s.players[idx]) {
			return idx
		}
	}
	return -1
}

func canAct(p *Player) bool   { return p.CanAct() }
func hasChips(p *Player) bool { return p.Stack > 0 }

// advanceTurn moves the turn to the next player who can still act, skipping
// folded, eliminated and all-in seats.
func (s *Session) advanceTurn() {
	if next := s.nextSeat(s.turn, canAct); next >= 0 {
		s.turn = next
	}
	s.updateCheckEligibility()
}

// updateCheckEligibility applies the preflop rule that a blind who has
// already matched the bet may check when nobody else has raised.
func (s *Session) updateCheckEligibility() {
	if s.street != Preflop {
		return
	}
	p := s.players[s.turn]
	blind := p.State == PostedBigBlind || p.State == PostedSmallBlind
	s.allowCheck = blind && p.Owes(s.previousBet) == 0 && !s.raisedBy(p)
}

// raisedBy reports whether any in-game player other than p has raised.
func (s *Session) raisedBy(p *Player) bool {
	for _, o := range s.players {
		if o != p && o.InGame && o.State == Raised {
			return true
		}
	}
	return false
}

func (s *Session) inGameCount() int {
	n := 0
	for _, p := range s.players {
		if p.InGame {
			n++
		}
	}
	return n
}

// roundComplete reports whether the current action round is over: every
// player who can still act has acted and matched the bet. A lone player with
// chips facing only all-in opponents has nothing left to decide unless they
// owe chips.
func (s *Session) roundComplete() bool {
	var actors []*Player
	for _, p := range s.players {
		if p.CanAct() {
			actors = append(actors, p)
		}
	}
	switch len(actors) {
	case 0:
		return true
	case 1:
		if actors[0].Owes(s.previousBet) == 0 {
			return true
		}
	}
	for _, p := range actors {
		if !p.State.acted() || p.PotCommitment != s.previousBet {
			return false
		}
	}
	return true
}
