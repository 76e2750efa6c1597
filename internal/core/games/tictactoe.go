package games

import "fmt"

// Mark is the content of a tic-tac-toe cell.
type Mark string

const (
	MarkEmpty    Mark = ""
	MarkPlayer   Mark = "X"
	MarkComputer Mark = "O"
)

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// TicTacToe is a 3x3 game against a computer that picks a random free cell.
type TicTacToe struct {
	random       Intner
	board        [9]Mark
	computerTurn bool
	outcome      Outcome
	winningCells []int
}

// NewTicTacToe starts a game with the player to move.
func NewTicTacToe(random Intner) *TicTacToe {
	return &TicTacToe{random: random}
}

// Board returns a copy of the cells, row by row.
func (game *TicTacToe) Board() [9]Mark {
	return game.board
}

// Outcome reports the result, or OutcomeNone while the game runs.
func (game *TicTacToe) Outcome() Outcome {
	return game.outcome
}

// WinningCells returns the completed line, if any.
func (game *TicTacToe) WinningCells() []int {
	return append([]int(nil), game.winningCells...)
}

// ComputerTurn reports whether the player is waiting on the computer.
func (game *TicTacToe) ComputerTurn() bool {
	return game.computerTurn
}

// Play marks cell for the player.
func (game *TicTacToe) Play(cell int) error {
	if game.outcome != OutcomeNone || game.computerTurn {
		return fmt.Errorf("%w: not the player's turn", ErrInvalidMove)
	}
	if cell < 0 || cell >= len(game.board) || game.board[cell] != MarkEmpty {
		return fmt.Errorf("%w: cell %d", ErrInvalidMove, cell)
	}
	game.board[cell] = MarkPlayer
	if !game.settle(MarkPlayer, OutcomePlayer) {
		game.computerTurn = true
	}
	return nil
}

// ComputerMove lets the computer answer. It returns the chosen cell, or -1
// when it is not the computer's turn.
func (game *TicTacToe) ComputerMove() int {
	if !game.computerTurn || game.outcome != OutcomeNone {
		return -1
	}
	var free []int
	for index, mark := range game.board {
		if mark == MarkEmpty {
			free = append(free, index)
		}
	}
	cell := free[game.random.Intn(len(free))]
	game.board[cell] = MarkComputer
	game.computerTurn = false
	game.settle(MarkComputer, OutcomeComputer)
	return cell
}

// Reset clears the board.
func (game *TicTacToe) Reset() {
	*game = TicTacToe{random: game.random}
}

func (game *TicTacToe) settle(mark Mark, win Outcome) bool {
	for _, line := range winningLines {
		if game.board[line[0]] == mark && game.board[line[1]] == mark && game.board[line[2]] == mark {
			game.outcome = win
			game.winningCells = line[:]
			return true
		}
	}
	for _, cell := range game.board {
		if cell == MarkEmpty {
			return false
		}
	}
	game.outcome = OutcomeDraw
	return true
}
