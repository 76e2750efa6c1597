package games

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	GuessMin = 1
	GuessMax = 50
)

// Hint answers a guess.
type Hint string

const (
	HintHigher  Hint = "higher"
	HintLower   Hint = "lower"
	HintCorrect Hint = "correct"
)

// NumberGuess hides a number in [GuessMin, GuessMax].
type NumberGuess struct {
	random   Intner
	target   int
	attempts int
	won      bool
}

// NewNumberGuess picks a new target.
func NewNumberGuess(random Intner) *NumberGuess {
	game := &NumberGuess{random: random}
	game.Reset()
	return game
}

// Guess parses input and compares it with the target. Unparseable or
// out-of-range input does not count as an attempt.
func (game *NumberGuess) Guess(input string) (Hint, error) {
	if game.won {
		return HintCorrect, fmt.Errorf("%w: already solved", ErrInvalidMove)
	}
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || value < GuessMin || value > GuessMax {
		return "", fmt.Errorf("%w: enter a number from %d to %d", ErrInvalidMove, GuessMin, GuessMax)
	}
	game.attempts++
	switch {
	case value < game.target:
		return HintHigher, nil
	case value > game.target:
		return HintLower, nil
	default:
		game.won = true
		return HintCorrect, nil
	}
}

// Attempts returns the number of counted guesses.
func (game *NumberGuess) Attempts() int {
	return game.attempts
}

// Won reports whether the target was found.
func (game *NumberGuess) Won() bool {
	return game.won
}

// Reset picks a new target.
func (game *NumberGuess) Reset() {
	game.target = GuessMin + game.random.Intn(GuessMax-GuessMin+1)
	game.attempts = 0
	game.won = false
}
