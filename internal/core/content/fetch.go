package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mindfulbreak/internal/core/model"
)

const (
	newsCandidateLimit = 30
	newsSourceName     = "Hacker News"
	maxPayloadBytes    = 1 << 20
	userAgent          = "mindfulbreak/1.0"
)

// Fetcher performs a single remote attempt for one content kind.
type Fetcher interface {
	Fetch(ctx context.Context) (Result, error)
}

// Endpoints are the remote service URLs. NewsItem is a format string taking
// the story id.
type Endpoints struct {
	NewsTopStories string
	NewsItem       string
	Joke           string
	Meme           string
	Nature         string
}

// DefaultEndpoints returns the public services used in production.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		NewsTopStories: "https://hacker-news.firebaseio.com/v0/topstories.json",
		NewsItem:       "https://hacker-news.firebaseio.com/v0/item/%d.json",
		Joke:           "https://v2.jokeapi.dev/joke/Programming?safe-mode",
		Meme:           "https://meme-api.com/gimme/ProgrammerHumor",
		Nature:         "https://picsum.photos/1200/800",
	}
}

// DefaultTimeouts returns the hard upper bound per kind.
func DefaultTimeouts() map[model.ContentKind]time.Duration {
	return map[model.ContentKind]time.Duration{
		model.KindTechNews: 10 * time.Second,
		model.KindJoke:     5 * time.Second,
		model.KindMeme:     5 * time.Second,
		model.KindNature:   10 * time.Second,
	}
}

// NewFetchers builds the HTTP fetchers for every network kind.
func NewFetchers(client *http.Client, endpoints Endpoints, random *Random) map[model.ContentKind]Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if random == nil {
		random = NewRandom(0)
	}
	return map[model.ContentKind]Fetcher{
		model.KindTechNews: &NewsFetcher{client: client, listURL: endpoints.NewsTopStories, itemURL: endpoints.NewsItem, random: random, stepTimeout: 5 * time.Second},
		model.KindJoke:     &JokeFetcher{client: client, url: endpoints.Joke},
		model.KindMeme:     &MemeFetcher{client: client, url: endpoints.Meme},
		model.KindNature:   &NatureFetcher{client: client, url: endpoints.Nature},
	}
}

// NewsFetcher picks a random top story and returns its title.
type NewsFetcher struct {
	client      *http.Client
	listURL     string
	itemURL     string
	random      *Random
	stepTimeout time.Duration
}

type newsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Fetch lists story ids, picks one from the first 30 and loads it.
func (fetcher *NewsFetcher) Fetch(ctx context.Context) (Result, error) {
	var ids []int64
	if err := getJSON(ctx, fetcher.client, fetcher.listURL, fetcher.stepTimeout, &ids); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("list stories: %w: no ids", ErrMalformedPayload)
	}
	if len(ids) > newsCandidateLimit {
		ids = ids[:newsCandidateLimit]
	}
	id := ids[fetcher.random.Intn(len(ids))]

	var item newsItem
	if err := getJSON(ctx, fetcher.client, fmt.Sprintf(fetcher.itemURL, id), fetcher.stepTimeout, &item); err != nil {
		return nil, fmt.Errorf("load story %d: %w", id, err)
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, fmt.Errorf("load story %d: %w: missing title", id, ErrMalformedPayload)
	}
	return TechNews{Headline: title, Source: newsSourceName, Link: item.URL}, nil
}

// JokeFetcher loads a programming joke.
type JokeFetcher struct {
	client *http.Client
	url    string
}

type jokePayload struct {
	Error    bool   `json:"error"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
	Joke     string `json:"joke"`
}

// Fetch accepts two-part and single jokes.
func (fetcher *JokeFetcher) Fetch(ctx context.Context) (Result, error) {
	var payload jokePayload
	if err := getJSON(ctx, fetcher.client, fetcher.url, 0, &payload); err != nil {
		return nil, fmt.Errorf("load joke: %w", err)
	}
	if payload.Error {
		return nil, fmt.Errorf("load joke: %w: service reported error", ErrMalformedPayload)
	}
	setup := strings.TrimSpace(payload.Setup)
	delivery := strings.TrimSpace(payload.Delivery)
	if setup != "" && delivery != "" {
		return Joke{Text: setup + "\n\n" + delivery}, nil
	}
	if joke := strings.TrimSpace(payload.Joke); joke != "" {
		return Joke{Text: joke}, nil
	}
	return nil, fmt.Errorf("load joke: %w: no joke text", ErrMalformedPayload)
}

// MemeFetcher loads a captioned meme image.
type MemeFetcher struct {
	client *http.Client
	url    string
}

type memePayload struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	NSFW  bool   `json:"nsfw"`
}

// Fetch requires a title and an absolute http(s) image URL.
func (fetcher *MemeFetcher) Fetch(ctx context.Context) (Result, error) {
	var payload memePayload
	if err := getJSON(ctx, fetcher.client, fetcher.url, 0, &payload); err != nil {
		return nil, fmt.Errorf("load meme: %w", err)
	}
	if payload.NSFW {
		return nil, fmt.Errorf("load meme: %w: nsfw", ErrMalformedPayload)
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" || !isHTTPURL(payload.URL) {
		return nil, fmt.Errorf("load meme: %w: missing title or url", ErrMalformedPayload)
	}
	return Meme{ImageURL: payload.URL, Title: title}, nil
}

// NatureFetcher resolves a random landscape image URL.
type NatureFetcher struct {
	client *http.Client
	url    string
}

// Fetch follows redirects and returns the final image URL.
func (fetcher *NatureFetcher) Fetch(ctx context.Context) (Result, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, fetcher.url, nil)
	if err != nil {
		return nil, fmt.Errorf("load nature image: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)

	response, err := fetcher.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("load nature image: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("load nature image: %w: %d", ErrUnexpectedStatus, response.StatusCode)
	}
	if !strings.HasPrefix(response.Header.Get("Content-Type"), "image/") {
		return nil, fmt.Errorf("load nature image: %w: content type %q", ErrMalformedPayload, response.Header.Get("Content-Type"))
	}
	return Nature{ImageURL: response.Request.URL.String()}, nil
}

func getJSON(ctx context.Context, client *http.Client, target string, timeout time.Duration, into any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent)

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("get %s: %w", target, err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxPayloadBytes))
		return fmt.Errorf("get %s: %w: %d", target, ErrUnexpectedStatus, response.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, maxPayloadBytes)).Decode(into); err != nil {
		return fmt.Errorf("decode %s: %w: %v", target, ErrMalformedPayload, err)
	}
	return nil
}

func isHTTPURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
