package model

import (
	"fmt"
	"strings"
)

// ContentKind is a concrete kind of break content.
type ContentKind string

const (
	KindNature   ContentKind = "nature"
	KindTechNews ContentKind = "tech_news"
	KindJoke     ContentKind = "joke"
	KindGame     ContentKind = "game"
	KindMeme     ContentKind = "meme"
)

// ConcreteKinds lists every kind SurpriseMe may resolve to.
var ConcreteKinds = []ContentKind{KindNature, KindTechNews, KindJoke, KindGame, KindMeme}

// ContentPreference is the kind of content the user asked for.
type ContentPreference string

const (
	PreferenceNature     ContentPreference = "nature"
	PreferenceTechNews   ContentPreference = "tech_news"
	PreferenceJoke       ContentPreference = "joke"
	PreferenceGame       ContentPreference = "game"
	PreferenceMeme       ContentPreference = "meme"
	PreferenceSurpriseMe ContentPreference = "surprise_me"
)

// DefaultPreference is used when nothing has been stored yet.
const DefaultPreference = PreferenceSurpriseMe

// AllPreferences lists preferences in menu order.
var AllPreferences = []ContentPreference{
	PreferenceNature,
	PreferenceTechNews,
	PreferenceJoke,
	PreferenceGame,
	PreferenceMeme,
	PreferenceSurpriseMe,
}

// Label returns the human readable menu label.
func (preference ContentPreference) Label() string {
	switch preference {
	case PreferenceNature:
		return "Nature Scene"
	case PreferenceTechNews:
		return "Tech News"
	case PreferenceJoke:
		return "Programming Jokes"
	case PreferenceGame:
		return "Quick Game"
	case PreferenceMeme:
		return "Memes"
	case PreferenceSurpriseMe:
		return "Surprise Me"
	default:
		return string(preference)
	}
}

// Kind maps a concrete preference to its content kind.
// It reports false for SurpriseMe and unknown values.
func (preference ContentPreference) Kind() (ContentKind, bool) {
	switch preference {
	case PreferenceNature:
		return KindNature, true
	case PreferenceTechNews:
		return KindTechNews, true
	case PreferenceJoke:
		return KindJoke, true
	case PreferenceGame:
		return KindGame, true
	case PreferenceMeme:
		return KindMeme, true
	default:
		return "", false
	}
}

// ParsePreference accepts stored values and menu labels.
func ParsePreference(value string) (ContentPreference, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, preference := range AllPreferences {
		label := strings.ReplaceAll(strings.ToLower(preference.Label()), " ", "_")
		if normalized == string(preference) || normalized == label {
			return preference, nil
		}
	}
	return "", fmt.Errorf("unknown content preference %q", value)
}

// GameKind identifies one of the quick break games.
type GameKind string

const (
	GameTicTacToe         GameKind = "tic_tac_toe"
	GameMemoryMatch       GameKind = "memory_match"
	GameRockPaperScissors GameKind = "rock_paper_scissors"
	GameNumberGuess       GameKind = "number_guess"
)

// AllGames lists the games a Game load picks from.
var AllGames = []GameKind{GameTicTacToe, GameMemoryMatch, GameRockPaperScissors, GameNumberGuess}

// Title returns the display name of the game.
func (game GameKind) Title() string {
	switch game {
	case GameTicTacToe:
		return "Tic-Tac-Toe"
	case GameMemoryMatch:
		return "Memory Match"
	case GameRockPaperScissors:
		return "Rock, Paper, Scissors"
	case GameNumberGuess:
		return "Number Guess"
	default:
		return string(game)
	}
}
