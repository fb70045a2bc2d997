// Package game implements the rules of a single No-Limit Texas Hold'em hand.
//
// The engine is a set of pure functions over GameState. Each operation takes
// a state and returns a new one; a rejected operation returns a typed *Error
// and leaves its input untouched.
//
// # Basic Usage
//
//	s, err := game.NewHand(game.Setup{
//	    HandID: "h1",
//	    Seats:  []game.Seat{{Name: "alice", Stack: 1000}, {Name: "bob", Stack: 1000}},
//	    MinBet: 40,
//	    Seed:   42,
//	})
//	s, err = game.Apply(s, game.Action{Player: s.ToAct, Kind: game.Call})
//	s, err = game.Apply(s, game.Action{Player: s.ToAct, Kind: game.Check})
//	s, flop, err := game.Deal(s, game.Flop)
//
// Once river betting closes, Complete builds the main and side pots and
// awards them using a poker.Ranker. A hand where everyone but one player
// folds is resolved by Apply directly.
//
// # Deterministic Replay
//
// The deck is shuffled from Setup.Seed, so a Transcript (setup plus action
// log) is enough for Replay to rebuild the exact final state. Tests can
// script the cards with WithDeck and poker.NewStackedDeck.
package game
