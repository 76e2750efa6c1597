package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/logger"
)

const defaultFetchTimeout = 10 * time.Second

// Options configures a Provider.
type Options struct {
	Fetchers map[model.ContentKind]Fetcher
	Catalog  Catalog
	Timeouts map[model.ContentKind]time.Duration
	Random   *Random
	Logger   logrus.FieldLogger
}

// Provider turns a preference into displayable content. Each Load supersedes
// the previous one: results of older loads are discarded when they arrive.
type Provider struct {
	mu         sync.Mutex
	fetchers   map[model.ContentKind]Fetcher
	catalog    Catalog
	timeouts   map[model.ContentKind]time.Duration
	random     *Random
	logger     logrus.FieldLogger
	state      State
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	inflight   sync.WaitGroup

	subsMu     sync.Mutex
	subs       []chan State
	subsClosed bool
}

// NewProvider creates a provider in the Loading state.
func NewProvider(options Options) *Provider {
	if options.Catalog == nil {
		options.Catalog = DefaultCatalog()
	}
	if options.Timeouts == nil {
		options.Timeouts = DefaultTimeouts()
	}
	if options.Random == nil {
		options.Random = NewRandom(0)
	}
	if options.Logger == nil {
		options.Logger = logger.Discard()
	}
	provider := &Provider{
		fetchers: options.Fetchers,
		catalog:  options.Catalog,
		timeouts: options.Timeouts,
		random:   options.Random,
		logger:   options.Logger.WithField("component", "content"),
		state:    State{Phase: PhaseLoading},
	}
	if err := options.Catalog.Validate(); err != nil {
		provider.logger.WithError(err).Error("fallback catalog is incomplete")
	}
	return provider
}

// Load starts loading content for preference and returns the generation
// tagging this request.
func (provider *Provider) Load(preference model.ContentPreference) uint64 {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	if provider.closed {
		return provider.generation
	}

	provider.generation++
	generation := provider.generation
	if provider.cancel != nil {
		provider.cancel()
		provider.cancel = nil
	}

	kind := provider.resolveLocked(preference)
	logger := provider.logger.WithFields(logrus.Fields{
		"request":    uuid.NewString(),
		"generation": generation,
		"preference": preference,
		"kind":       kind,
	})

	if kind == model.KindGame {
		provider.fallbackLocked(generation, kind, SourceLocal, logger)
		return generation
	}
	fetcher, remote := provider.fetchers[kind]
	if !remote {
		logger.Warn("no fetcher configured, using fallback")
		provider.fallbackLocked(generation, kind, SourceFallback, logger)
		return generation
	}

	provider.setStateLocked(State{Phase: PhaseLoading, Kind: kind, Generation: generation})

	timeout := provider.timeouts[kind]
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	provider.cancel = cancel
	provider.inflight.Add(1)
	go provider.fetch(ctx, cancel, generation, kind, fetcher, logger)

	logger.Debug("content load started")
	return generation
}

// State returns the latest content state.
func (provider *Provider) State() State {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	return provider.state
}

// Subscribe registers a new observer channel. A slow observer loses its
// oldest queued state, never the latest one.
func (provider *Provider) Subscribe(buffer int) <-chan State {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan State, buffer)
	provider.subsMu.Lock()
	defer provider.subsMu.Unlock()
	if provider.subsClosed {
		close(ch)
		return ch
	}
	provider.subs = append(provider.subs, ch)
	return ch
}

// Unsubscribe removes and closes an observer channel.
func (provider *Provider) Unsubscribe(states <-chan State) {
	provider.subsMu.Lock()
	defer provider.subsMu.Unlock()
	for index, ch := range provider.subs {
		if ch == states {
			provider.subs = append(provider.subs[:index], provider.subs[index+1:]...)
			close(ch)
			return
		}
	}
}

// Close cancels the in-flight fetch, waits for it and closes observers.
func (provider *Provider) Close() {
	provider.mu.Lock()
	if provider.closed {
		provider.mu.Unlock()
		return
	}
	provider.closed = true
	if provider.cancel != nil {
		provider.cancel()
		provider.cancel = nil
	}
	provider.mu.Unlock()

	provider.inflight.Wait()

	provider.subsMu.Lock()
	subs := provider.subs
	provider.subs = nil
	provider.subsClosed = true
	provider.subsMu.Unlock()
	for _, ch := range subs {
		close(ch)
	}
}

func (provider *Provider) fetch(ctx context.Context, cancel context.CancelFunc, generation uint64, kind model.ContentKind, fetcher Fetcher, logger logrus.FieldLogger) {
	defer provider.inflight.Done()
	defer cancel()

	result, err := fetcher.Fetch(ctx)
	if err == nil && (result == nil || result.Kind() != kind) {
		err = fmt.Errorf("%w: fetcher for %s returned %T", ErrMalformedPayload, kind, result)
	}

	provider.mu.Lock()
	defer provider.mu.Unlock()
	if provider.closed || generation != provider.generation {
		logger.Debug("discarding superseded content result")
		return
	}
	provider.cancel = nil
	provider.settleLocked(generation, kind, result, err, logger)
}

// settleLocked publishes the outcome of a network load. Errors fall back to
// the catalog; PhaseError is only reached when the catalog has nothing.
func (provider *Provider) settleLocked(generation uint64, kind model.ContentKind, result Result, err error, logger logrus.FieldLogger) {
	if err == nil {
		provider.setStateLocked(State{Phase: PhaseLoaded, Kind: kind, Result: result, Source: SourceNetwork, Generation: generation})
		logger.Info("content loaded")
		return
	}

	logger.WithError(err).Warn("content fetch failed, using fallback")
	provider.fallbackLocked(generation, kind, SourceFallback, logger)
}

func (provider *Provider) fallbackLocked(generation uint64, kind model.ContentKind, source Source, logger logrus.FieldLogger) {
	fallback, pickErr := provider.catalog.Pick(kind, provider.random)
	if pickErr != nil {
		logger.WithError(pickErr).Error("no fallback content available")
		provider.setStateLocked(State{Phase: PhaseError, Kind: kind, Generation: generation, Message: pickErr.Error()})
		return
	}
	provider.setStateLocked(State{Phase: PhaseLoaded, Kind: kind, Result: fallback, Source: source, Generation: generation})
}

func (provider *Provider) resolveLocked(preference model.ContentPreference) model.ContentKind {
	if kind, ok := preference.Kind(); ok {
		return kind
	}
	if preference != model.PreferenceSurpriseMe {
		provider.logger.WithField("preference", preference).Warn("unknown preference, surprising instead")
	}
	return model.ConcreteKinds[provider.random.Intn(len(model.ConcreteKinds))]
}

func (provider *Provider) setStateLocked(state State) {
	provider.state = state
	provider.subsMu.Lock()
	defer provider.subsMu.Unlock()
	for _, ch := range provider.subs {
		select {
		case ch <- state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
