// Package ranking fetches ranked lists with caching, retry and stale-response
// protection.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/toplist/internal/clock"
	"github.com/mmcdole/toplist/internal/domain"
)

// Options configures an Orchestrator
type Options struct {
	Name     string // Identifies the orchestrator in logs and observer calls
	Loader   Loader
	Policy   RetryPolicy
	Cache    domain.RankingStore // nil disables caching
	Clock    clock.Clock
	Logger   *slog.Logger
	Observer domain.StateObserver
}

// Orchestrator owns the fetch lifecycle of one ranked list
type Orchestrator struct {
	name     string
	loader   Loader
	policy   RetryPolicy
	cache    domain.RankingStore
	clock    clock.Clock
	logger   *slog.Logger
	observer domain.StateObserver

	mu      sync.Mutex
	state   domain.FetchState
	hasData bool
	gen     uint64 // Bumped whenever in-flight work is superseded
	parent  context.Context
	cancel  context.CancelFunc
	retry   clock.Timer
	stopped bool
}

// New creates an idle orchestrator
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Policy == nil {
		opts.Policy = NoRetry{}
	}
	if opts.Observer == nil {
		opts.Observer = domain.NoOpObserver{}
	}

	return &Orchestrator{
		name:     opts.Name,
		loader:   opts.Loader,
		policy:   opts.Policy,
		cache:    opts.Cache,
		clock:    opts.Clock,
		logger:   opts.Logger.With("ranking", opts.Name),
		observer: opts.Observer,
	}
}

// Name returns the ranking's identifier
func (o *Orchestrator) Name() string {
	return o.name
}

// State returns a snapshot of the current fetch state
func (o *Orchestrator) State() domain.FetchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Start serves the cached list if one exists, otherwise begins fetching.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.parent = ctx
	o.stopped = false

	if o.cache != nil {
		key := o.loader.Key(o.clock.Now())
		if items, ok := o.cache.Read(key); ok && len(items) > 0 {
			o.logger.Debug("serving cached ranking", "key", key, "count", len(items))
			o.hasData = true
			o.state = domain.FetchState{
				Status:    domain.StatusSuccess,
				Items:     items,
				FromCache: true,
			}
			o.notifyLocked()
			return
		}
	}

	o.launchLocked()
}

// Refresh reloads from the network, bypassing the cache. Any pending retry
// or in-flight attempt is superseded.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ctx != nil {
		o.parent = ctx
	}
	o.stopped = false
	o.state.Attempts = 0
	o.launchLocked()
}

// Stop cancels the pending retry and in-flight work. Responses that arrive
// afterwards are dropped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopped = true
	o.supersedeLocked()
	o.state.RetryIn = 0
}

// supersedeLocked invalidates every outstanding attempt and timer
func (o *Orchestrator) supersedeLocked() uint64 {
	o.gen++
	if o.retry != nil {
		o.retry.Stop()
		o.retry = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	return o.gen
}

func (o *Orchestrator) launchLocked() {
	gen := o.supersedeLocked()

	parent := o.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	o.cancel = cancel

	now := o.clock.Now()
	key := o.loader.Key(now)

	o.state.Status = domain.StatusLoading
	o.state.Err = nil
	o.state.RetryIn = 0
	o.state.FromCache = false
	o.notifyLocked()

	o.logger.Debug("fetch attempt", "key", key, "attempt", o.state.Attempts+1)

	go func() {
		items, err := o.loader.Load(ctx, now)
		o.complete(ctx, gen, key, items, err)
	}()
}

// complete applies a finished attempt. Results of a superseded or
// cancelled attempt are dropped without touching state or cache.
func (o *Orchestrator) complete(ctx context.Context, gen uint64, key string, items []domain.RankedItem, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen || o.stopped {
		o.logger.Debug("dropping stale response", "key", key)
		return
	}
	if cerr := ctx.Err(); cerr != nil {
		o.logger.Debug("dropping cancelled response", "key", key, "error", cerr)
		return
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}

	if err == nil && len(items) == 0 {
		err = domain.ErrEmptyResult
	}
	if err != nil {
		o.failLocked(gen, err)
		return
	}

	if o.cache != nil {
		if werr := o.cache.Write(key, items); werr != nil {
			o.logger.Warn("failed to cache ranking", "key", key, "error", werr)
		}
	}

	o.hasData = true
	o.state = domain.FetchState{
		Status: domain.StatusSuccess,
		Items:  items,
	}
	o.logger.Info("ranking loaded", "key", key, "count", len(items))
	o.notifyLocked()
}

func (o *Orchestrator) failLocked(gen uint64, err error) {
	o.state.Status = domain.StatusFailed
	o.state.Err = err
	o.state.Attempts++
	o.state.RetryIn = 0

	delay, ok := o.policy.Next(o.state.Attempts, o.hasData)
	if ok {
		o.state.RetryIn = delay
		o.retry = o.clock.AfterFunc(delay, func() { o.fireRetry(gen) })
	}

	if errors.Is(err, context.Canceled) {
		o.logger.Debug("fetch canceled", "error", err)
	} else {
		o.logger.Warn("fetch failed", "error", err, "attempts", o.state.Attempts, "retryIn", o.state.RetryIn)
	}
	o.notifyLocked()
}

func (o *Orchestrator) fireRetry(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen || o.stopped {
		return
	}
	o.retry = nil
	o.launchLocked()
}

func (o *Orchestrator) snapshotLocked() domain.FetchState {
	s := o.state
	if s.Items != nil {
		s.Items = append([]domain.RankedItem(nil), s.Items...)
	}
	return s
}

func (o *Orchestrator) notifyLocked() {
	o.observer.OnState(o.name, o.snapshotLocked())
}

// Settings tunes the preset orchestrators
type Settings struct {
	TopN              int
	AnimeRetryDelay   time.Duration
	MangaBackoffBase  time.Duration
	MangaBackoffMax   time.Duration
	EnrichConcurrency int
}

// DefaultSettings returns the stock fetch behaviour
func DefaultSettings() Settings {
	return Settings{
		TopN:              DefaultTopN,
		AnimeRetryDelay:   time.Second,
		MangaBackoffBase:  time.Second,
		MangaBackoffMax:   30 * time.Second,
		EnrichConcurrency: defaultEnrichConcurrency,
	}
}

const (
	NameSeasonalAnime = "anime"
	NameTopManga      = "manga"
)

// Deps bundles the collaborators shared by both presets
type Deps struct {
	Client   domain.RankingClient
	Cache    domain.RankingStore
	Clock    clock.Clock
	Logger   *slog.Logger
	Observer domain.StateObserver
}

// NewSeasonalAnime returns the orchestrator for the current season's anime.
// It retries every AnimeRetryDelay until it succeeds.
func NewSeasonalAnime(deps Deps, s Settings) *Orchestrator {
	return New(Options{
		Name:     NameSeasonalAnime,
		Loader:   SeasonLoader{Client: deps.Client, TopN: s.TopN},
		Policy:   FixedDelay{Delay: s.AnimeRetryDelay},
		Cache:    deps.Cache,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
		Observer: deps.Observer,
	})
}

// NewTopManga returns the orchestrator for the reading-ordered top manga.
// It backs off exponentially and stops retrying once a list was shown.
func NewTopManga(deps Deps, s Settings) *Orchestrator {
	return New(Options{
		Name: NameTopManga,
		Loader: EnrichedLoader{
			Client:      deps.Client,
			TopN:        s.TopN,
			Concurrency: s.EnrichConcurrency,
			Logger:      deps.Logger,
		},
		Policy:   CappedBackoff{Base: s.MangaBackoffBase, Max: s.MangaBackoffMax},
		Cache:    deps.Cache,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
		Observer: deps.Observer,
	})
}

// String implements fmt.Stringer for log output
func (o *Orchestrator) String() string {
	s := o.State()
	return fmt.Sprintf("%s(%s, %d items)", o.name, s.Status, len(s.Items))
}
