// Package content resolves a content preference into break content. Remote
// sources are tried once with a timeout; any failure falls back to a local
// catalog so a break always has something to show.
package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"mindfulbreak/internal/core/model"
)

var (
	// ErrEmptyCatalog means no fallback entry exists for a kind.
	ErrEmptyCatalog = errors.New("fallback catalog empty")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedPayload is returned when a response does not have the expected shape.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Result is loaded break content. The concrete types are Nature, TechNews,
// Joke, Meme and Game; no other type implements it.
type Result interface {
	Kind() model.ContentKind
	isResult()
}

// Nature is a calming landscape image.
type Nature struct {
	ImageURL string `json:"image_url"`
}

// TechNews is a headline with an optional link.
type TechNews struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Link     string `json:"link,omitempty"`
}

// Joke is a short joke; two-part jokes are joined by a blank line.
type Joke struct {
	Text string `json:"text"`
}

// Meme is an image with a caption.
type Meme struct {
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
}

// Game names the quick game to play.
type Game struct {
	Game model.GameKind `json:"game"`
}

func (Nature) Kind() model.ContentKind   { return model.KindNature }
func (TechNews) Kind() model.ContentKind { return model.KindTechNews }
func (Joke) Kind() model.ContentKind     { return model.KindJoke }
func (Meme) Kind() model.ContentKind     { return model.KindMeme }
func (Game) Kind() model.ContentKind     { return model.KindGame }

func (Nature) isResult()   {}
func (TechNews) isResult() {}
func (Joke) isResult()     {}
func (Meme) isResult()     {}
func (Game) isResult()     {}

// Phase is the ContentState variant.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

// Source records where a loaded result came from.
type Source string

const (
	SourceNetwork  Source = "network"
	SourceFallback Source = "fallback"
	SourceLocal    Source = "local"
)

// State is the observable provider state. Result is set only when Phase is
// PhaseLoaded.
type State struct {
	Phase      Phase             `json:"phase"`
	Kind       model.ContentKind `json:"kind,omitempty"`
	Result     Result            `json:"result,omitempty"`
	Source     Source            `json:"source,omitempty"`
	Generation uint64            `json:"generation"`
	Message    string            `json:"message,omitempty"`
}

// UnmarshalJSON restores the concrete Result type from Kind.
func (state *State) UnmarshalJSON(data []byte) error {
	var wire struct {
		Phase      Phase             `json:"phase"`
		Kind       model.ContentKind `json:"kind"`
		Result     json.RawMessage   `json:"result"`
		Source     Source            `json:"source"`
		Generation uint64            `json:"generation"`
		Message    string            `json:"message"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	result, err := decodeResult(wire.Kind, wire.Result)
	if err != nil {
		return err
	}
	*state = State{
		Phase:      wire.Phase,
		Kind:       wire.Kind,
		Result:     result,
		Source:     wire.Source,
		Generation: wire.Generation,
		Message:    wire.Message,
	}
	return nil
}

func decodeResult(kind model.ContentKind, raw json.RawMessage) (Result, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var err error
	switch kind {
	case model.KindNature:
		var result Nature
		err = json.Unmarshal(raw, &result)
		return result, err
	case model.KindTechNews:
		var result TechNews
		err = json.Unmarshal(raw, &result)
		return result, err
	case model.KindJoke:
		var result Joke
		err = json.Unmarshal(raw, &result)
		return result, err
	case model.KindMeme:
		var result Meme
		err = json.Unmarshal(raw, &result)
		return result, err
	case model.KindGame:
		var result Game
		err = json.Unmarshal(raw, &result)
		return result, err
	default:
		return nil, fmt.Errorf("%w: result for unknown kind %q", ErrMalformedPayload, kind)
	}
}
