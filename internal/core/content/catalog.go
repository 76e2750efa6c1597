package content

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"mindfulbreak/internal/core/model"
)

// Catalog holds the local fallback entries per kind.
type Catalog map[model.ContentKind][]Result

// Pick returns a uniformly random entry for kind.
func (catalog Catalog) Pick(kind model.ContentKind, random *Random) (Result, error) {
	entries := catalog[kind]
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, kind)
	}
	return entries[random.Intn(len(entries))], nil
}

// Validate checks that every concrete kind has at least one entry.
func (catalog Catalog) Validate() error {
	for _, kind := range model.ConcreteKinds {
		if len(catalog[kind]) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyCatalog, kind)
		}
	}
	return nil
}

// Random is a goroutine-safe wrapper around math/rand.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeded with seed, or with the current time when
// seed is zero.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n).
func (random *Random) Intn(n int) int {
	random.mu.Lock()
	defer random.mu.Unlock()
	return random.rng.Intn(n)
}

// DefaultCatalog returns the built-in fallback content.
func DefaultCatalog() Catalog {
	catalog := Catalog{}
	for _, url := range natureImages {
		catalog[model.KindNature] = append(catalog[model.KindNature], Nature{ImageURL: url})
	}
	for _, news := range fallbackNews {
		catalog[model.KindTechNews] = append(catalog[model.KindTechNews], news)
	}
	for _, text := range fallbackJokes {
		catalog[model.KindJoke] = append(catalog[model.KindJoke], Joke{Text: text})
	}
	for _, meme := range fallbackMemes {
		catalog[model.KindMeme] = append(catalog[model.KindMeme], meme)
	}
	for _, game := range model.AllGames {
		catalog[model.KindGame] = append(catalog[model.KindGame], Game{Game: game})
	}
	return catalog
}

var natureImages = []string{
	"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=1200",
	"https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=1200",
	"https://images.unsplash.com/photo-1426604966848-d7adac402bff?w=1200",
	"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?w=1200",
	"https://images.unsplash.com/photo-1447752875215-b2761acb3c5d?w=1200",
	"https://images.unsplash.com/photo-1433086966358-54859d0ed716?w=1200",
	"https://images.unsplash.com/photo-1501854140801-50d01698950b?w=1200",
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=1200",
	"https://images.unsplash.com/photo-1518173946687-a4c036bc6c9f?w=1200",
	"https://images.unsplash.com/photo-1439066615861-d1af74d74000?w=1200",
	"https://images.unsplash.com/photo-1470252649378-9c29740c9fa8?w=1200",
	"https://images.unsplash.com/photo-1472214103451-9374bd1c798e?w=1200",
	"https://images.unsplash.com/photo-1464822759023-fed622ff2c3b?w=1200",
	"https://images.unsplash.com/photo-1500534314209-a25ddb2bd429?w=1200",
	"https://images.unsplash.com/photo-1518495973542-4542c06a5843?w=1200",
}

var fallbackNews = []TechNews{
	{Headline: "Scientists develop new quantum computing breakthrough", Source: "Tech Daily"},
	{Headline: "AI assists in discovering high-potential compounds in medicine", Source: "Science Today"},
	{Headline: "New renewable energy system achieves significant efficiency", Source: "Green Tech"},
	{Headline: "Researchers create biodegradable electronics from natural materials", Source: "Innovation Weekly"},
	{Headline: "Space telescope captures detailed images of distant galaxies", Source: "Cosmos News"},
	{Headline: "Breakthrough in battery technology extends device life", Source: "Energy Review"},
	{Headline: "New programming language focuses on developer safety", Source: "Dev Journal"},
}

var fallbackJokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"A SQL query walks into a bar, walks up to two tables and asks... 'Can I join you?'",
	"Why do Java developers wear glasses? Because they can't C#.",
	"There are only 10 types of people in the world: those who understand binary and those who don't.",
	"Why was the JavaScript developer sad? Because they didn't Node how to Express themselves.",
	"Why do programmers always mix up Halloween and Christmas? Because Oct 31 = Dec 25.",
	"A programmer is told to buy a loaf of bread and, if there are eggs, a dozen. They come home with 12 loaves.",
}

var fallbackMemes = []Meme{
	{ImageURL: "https://i.imgflip.com/30b1gx.jpg", Title: "Writing tests vs. writing more features"},
	{ImageURL: "https://i.imgflip.com/1ur9b0.jpg", Title: "Me looking at a new framework while the old one still works"},
	{ImageURL: "https://i.imgflip.com/1g8my4.jpg", Title: "Two buttons: fix the bug or add a TODO"},
	{ImageURL: "https://i.imgflip.com/26am.jpg", Title: "It works on my machine"},
	{ImageURL: "https://i.imgflip.com/1bij.jpg", Title: "One does not simply deploy on a Friday"},
}
