package games

import "fmt"

// MemorySymbols are the faces of the memory match deck; each appears twice.
var MemorySymbols = []string{"◆", "●", "▲", "★"}

// Card is one memory match card.
type Card struct {
	Symbol  string
	FaceUp  bool
	Matched bool
}

// MemoryMatch is a pairs game over a shuffled deck.
type MemoryMatch struct {
	random  Intner
	cards   []Card
	flipped []int
	pairs   int
}

// NewMemoryMatch deals a shuffled deck.
func NewMemoryMatch(random Intner) *MemoryMatch {
	game := &MemoryMatch{random: random}
	game.Reset()
	return game
}

// Cards returns a copy of the deck.
func (game *MemoryMatch) Cards() []Card {
	return append([]Card(nil), game.cards...)
}

// Pairs returns the number of matched pairs.
func (game *MemoryMatch) Pairs() int {
	return game.pairs
}

// Total returns the number of pairs in the deck.
func (game *MemoryMatch) Total() int {
	return len(MemorySymbols)
}

// Won reports whether every pair is matched.
func (game *MemoryMatch) Won() bool {
	return game.pairs == game.Total()
}

// Flip turns a card face up. It reports true when two cards are face up and
// Resolve must be called before the next flip.
func (game *MemoryMatch) Flip(index int) (bool, error) {
	if len(game.flipped) == 2 {
		return true, fmt.Errorf("%w: resolve the open pair first", ErrInvalidMove)
	}
	if index < 0 || index >= len(game.cards) {
		return false, fmt.Errorf("%w: card %d", ErrInvalidMove, index)
	}
	card := &game.cards[index]
	if card.FaceUp || card.Matched {
		return false, fmt.Errorf("%w: card %d already visible", ErrInvalidMove, index)
	}
	card.FaceUp = true
	game.flipped = append(game.flipped, index)
	return len(game.flipped) == 2, nil
}

// Resolve settles the open pair: matching cards stay, others turn back over.
// It reports whether the pair matched.
func (game *MemoryMatch) Resolve() bool {
	if len(game.flipped) != 2 {
		return false
	}
	first, second := &game.cards[game.flipped[0]], &game.cards[game.flipped[1]]
	game.flipped = game.flipped[:0]
	if first.Symbol == second.Symbol {
		first.Matched, second.Matched = true, true
		game.pairs++
		return true
	}
	first.FaceUp, second.FaceUp = false, false
	return false
}

// Reset reshuffles the deck.
func (game *MemoryMatch) Reset() {
	cards := make([]Card, 0, len(MemorySymbols)*2)
	for _, symbol := range MemorySymbols {
		cards = append(cards, Card{Symbol: symbol}, Card{Symbol: symbol})
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := game.random.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	game.cards = cards
	game.flipped = nil
	game.pairs = 0
}
