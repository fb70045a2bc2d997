package game

// Apply validates a player action against s and returns the resulting state.
// On error s is returned unchanged and no new state is produced.
//
// Checks run in a fixed order: request validation, hand completion, player
// status, turn order, then the rules of the specific action.
func Apply(s *GameState, a Action) (*GameState, error) {
	if err := validateAction(s, a); err != nil {
		return nil, err
	}

	next := s.Clone()
	a.Street = next.Street
	p := next.Players[a.Player]

	var err error
	switch a.Kind {
	case Fold:
		p.IsActive = false
		p.Acted = true
	case Check:
		err = next.check(p)
	case Call:
		a.Amount, err = next.call(p)
	case Bet:
		err = next.bet(p, a.Amount)
	case Raise:
		err = next.raise(p, a.Amount)
	case AllIn:
		a.Amount, err = next.allIn(p)
	}
	if err != nil {
		return nil, err
	}
	if a.Kind == Fold || a.Kind == Check {
		a.Amount = 0
	}

	next.Actions = append(next.Actions, a)
	next.Version++

	if next.ActiveCount() == 1 {
		next.awardUncontested()
		return next, nil
	}
	next.settle(a.Player + 1)
	return next, nil
}

// TimeoutFold folds the player to act on their behalf. The log entry is
// marked so that the fold can be told apart from a voluntary one.
func TimeoutFold(s *GameState, player int) (*GameState, error) {
	return Apply(s, Action{Player: player, Kind: Fold, Timeout: true})
}

func validateAction(s *GameState, a Action) error {
	switch {
	case a.Player < 0 || a.Player >= len(s.Players):
		return Errorf(ErrInvalid, "player index %d out of range", a.Player)
	case a.Kind < Fold || a.Kind > AllIn:
		return Errorf(ErrInvalid, "unknown action type %d", int(a.Kind))
	case a.Amount < 0:
		return Errorf(ErrInvalid, "amount must not be negative")
	case a.Kind.needsAmount() && a.Amount == 0:
		return Errorf(ErrInvalid, "%s requires an amount", a.Kind)
	case s.Street == Complete:
		return Errorf(ErrHandAlreadyComplete, "hand %s is complete", s.HandID)
	}

	p := s.Players[a.Player]
	if !p.canAct() {
		return Errorf(ErrPlayerNotActive, "player %d cannot act", a.Player)
	}
	if s.ToAct != a.Player {
		if s.ToAct < 0 {
			return Errorf(ErrOutOfTurn, "betting on the %s is closed", s.Street)
		}
		return Errorf(ErrOutOfTurn, "player %d is to act, not %d", s.ToAct, a.Player)
	}
	return nil
}

func (s *GameState) check(p *Player) error {
	if p.CurrentBet != s.MaxBet {
		return Errorf(ErrActionNotAllowedInState, "cannot check facing %d, call %d", s.MaxBet, s.MaxBet-p.CurrentBet)
	}
	p.Acted = true
	return nil
}

func (s *GameState) call(p *Player) (int, error) {
	if p.CurrentBet >= s.MaxBet {
		return 0, Errorf(ErrActionNotAllowedInState, "nothing to call")
	}
	paid := min(s.MaxBet-p.CurrentBet, p.Stack)
	s.commit(p, paid)
	p.Acted = true
	return paid, nil
}

func (s *GameState) bet(p *Player, amount int) error {
	switch {
	case s.MaxBet != 0:
		return Errorf(ErrActionNotAllowedInState, "there is already a bet of %d, raise instead", s.MaxBet)
	case p.Acted:
		return Errorf(ErrActionNotAllowedInState, "action has not been reopened")
	case amount < s.MinBet:
		return Errorf(ErrAmountBelowMinimum, "bet %d is below the minimum %d", amount, s.MinBet)
	case amount > p.Stack:
		return Errorf(ErrAmountExceedsStack, "bet %d exceeds stack %d", amount, p.Stack)
	}
	s.commit(p, amount)
	s.MaxBet = amount
	s.LastRaise = amount
	p.Acted = true
	s.reopen(p)
	return nil
}

func (s *GameState) raise(p *Player, to int) error {
	minTo := s.MaxBet + s.raiseIncrement()
	switch {
	case s.MaxBet == 0:
		return Errorf(ErrActionNotAllowedInState, "no bet to raise, bet instead")
	case p.Acted:
		return Errorf(ErrActionNotAllowedInState, "action has not been reopened")
	case to < minTo:
		return Errorf(ErrAmountBelowMinimum, "raise to %d is below the minimum %d", to, minTo)
	case to > p.Stack+p.CurrentBet:
		return Errorf(ErrAmountExceedsStack, "raise to %d exceeds stack %d", to, p.Stack+p.CurrentBet)
	}
	s.commit(p, to-p.CurrentBet)
	s.LastRaise = to - s.MaxBet
	s.MaxBet = to
	p.Acted = true
	s.reopen(p)
	return nil
}

// allIn commits the player's whole stack. Going over the current bet by at
// least a full raise increment reopens the action; a shorter all-in only
// raises the amount others must call.
func (s *GameState) allIn(p *Player) (int, error) {
	paid := p.Stack
	to := p.CurrentBet + paid
	if to > s.MaxBet && p.Acted {
		return 0, Errorf(ErrActionNotAllowedInState, "action has not been reopened, call or fold")
	}

	s.commit(p, paid)
	p.Acted = true
	if to > s.MaxBet {
		increment := to - s.MaxBet
		if increment >= s.raiseIncrement() {
			s.LastRaise = increment
			s.reopen(p)
		}
		s.MaxBet = to
	}
	return paid, nil
}

// LegalActions lists what the player to act may do, with amount ranges for
// bet and raise. It returns nil when nobody is to act.
func LegalActions(s *GameState) []ActionOption {
	if s.Street == Complete || s.ToAct < 0 {
		return nil
	}
	p := s.Players[s.ToAct]
	toCall := s.MaxBet - p.CurrentBet

	opts := []ActionOption{{Kind: Fold}}
	if toCall == 0 {
		opts = append(opts, ActionOption{Kind: Check})
	} else {
		paid := min(toCall, p.Stack)
		opts = append(opts, ActionOption{Kind: Call, Min: paid, Max: paid})
	}

	if !p.Acted {
		if s.MaxBet == 0 && p.Stack >= s.MinBet {
			opts = append(opts, ActionOption{Kind: Bet, Min: s.MinBet, Max: p.Stack})
		}
		if minTo := s.MaxBet + s.raiseIncrement(); s.MaxBet > 0 && p.Stack+p.CurrentBet >= minTo {
			opts = append(opts, ActionOption{Kind: Raise, Min: minTo, Max: p.Stack + p.CurrentBet})
		}
	}
	if !p.Acted || p.Stack <= toCall {
		opts = append(opts, ActionOption{Kind: AllIn, Min: p.Stack, Max: p.Stack})
	}
	return opts
}
