package games

import "fmt"

// Hand is a rock-paper-scissors choice.
type Hand string

const (
	Rock     Hand = "rock"
	Paper    Hand = "paper"
	Scissors Hand = "scissors"
)

// Hands lists the choices in display order.
var Hands = []Hand{Rock, Paper, Scissors}

func (hand Hand) beats(other Hand) bool {
	return (hand == Rock && other == Scissors) ||
		(hand == Paper && other == Rock) ||
		(hand == Scissors && other == Paper)
}

// Round is one rock-paper-scissors throw.
type Round struct {
	Player   Hand
	Computer Hand
	Outcome  Outcome
}

// RockPaperScissors keeps score against a random computer.
type RockPaperScissors struct {
	random        Intner
	playerScore   int
	computerScore int
}

// NewRockPaperScissors starts at 0-0.
func NewRockPaperScissors(random Intner) *RockPaperScissors {
	return &RockPaperScissors{random: random}
}

// Play throws hand against a random computer hand.
func (game *RockPaperScissors) Play(hand Hand) (Round, error) {
	if hand != Rock && hand != Paper && hand != Scissors {
		return Round{}, fmt.Errorf("%w: hand %q", ErrInvalidMove, hand)
	}
	round := Round{Player: hand, Computer: Hands[game.random.Intn(len(Hands))]}
	switch {
	case round.Player == round.Computer:
		round.Outcome = OutcomeDraw
	case round.Player.beats(round.Computer):
		round.Outcome = OutcomePlayer
		game.playerScore++
	default:
		round.Outcome = OutcomeComputer
		game.computerScore++
	}
	return round, nil
}

// Score returns player and computer wins.
func (game *RockPaperScissors) Score() (player, computer int) {
	return game.playerScore, game.computerScore
}

// Reset zeroes the score.
func (game *RockPaperScissors) Reset() {
	game.playerScore, game.computerScore = 0, 0
}
