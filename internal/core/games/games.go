// Package games holds the rules of the quick break games. Rendering lives in
// the ui packages; everything here is deterministic given the random source.
package games

import "errors"

// ErrInvalidMove is returned for moves the current game state does not allow.
var ErrInvalidMove = errors.New("invalid move")

// Intner is the random source the games draw from.
type Intner interface {
	Intn(n int) int
}

// Outcome is the result of a finished round.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomePlayer   Outcome = "player"
	OutcomeComputer Outcome = "computer"
	OutcomeDraw     Outcome = "draw"
)
