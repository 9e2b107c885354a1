package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/toplist/internal/clock"
	"github.com/mmcdole/toplist/internal/config"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/jikan"
	"github.com/mmcdole/toplist/internal/logging"
	"github.com/mmcdole/toplist/internal/overlay"
	"github.com/mmcdole/toplist/internal/ranking"
	"github.com/mmcdole/toplist/internal/store"
	"github.com/mmcdole/toplist/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Buffered so orchestrator callbacks never wait on the UI
const notifyBuffer = 64

func main() {
	var (
		showVersion bool
		plain       bool
		clearCache  bool
		wait        time.Duration
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&plain, "plain", false, "print both rankings as text and exit")
	flag.BoolVar(&clearCache, "clear-cache", false, "delete cached rankings before starting")
	flag.DurationVar(&wait, "wait", 60*time.Second, "how long -plain waits for the rankings")
	flag.Parse()

	if showVersion {
		fmt.Printf("toplist %s\n", Version)
		return
	}

	// No terminal to draw on
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		plain = true
	}

	if err := run(plain, clearCache, wait); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(plain, clearCache bool, wait time.Duration) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logFile, err := logging.Setup(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting toplist", "version", Version, "plain", plain)

	cacheDir, err := config.ExpandHome(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	if clearCache {
		if err := config.ClearCache(cacheDir); err != nil {
			return err
		}
		logger.Info("cache cleared", "dir", cacheDir)
	}

	cache, err := store.NewRankingStore(cacheDir, logger)
	if err != nil {
		// Run without persistence rather than not at all
		logger.Warn("failed to open cache, using memory", "dir", cacheDir, "error", err)
		cache = store.NewMemoryStore(logger)
	}
	defer cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := jikan.NewClient(cfg.ClientOptions(), logger)

	if plain {
		return runPlain(ctx, cfg, client, cache, logger, wait)
	}
	return runTUI(ctx, cfg, client, cache, logger)
}

func runTUI(ctx context.Context, cfg *config.Config, client *jikan.Client, cache *store.RankingStore, logger *slog.Logger) error {
	notify := make(chan tea.Msg, notifyBuffer)
	observer := tui.NewChannelObserver(notify)

	deps := ranking.Deps{
		Client:   client,
		Cache:    cache,
		Clock:    clock.Real{},
		Logger:   logger,
		Observer: observer,
	}
	anime := ranking.NewSeasonalAnime(deps, cfg.FetchSettings())
	manga := ranking.NewTopManga(deps, cfg.FetchSettings())
	details := overlay.NewController(cfg.OverlayLayout(), clock.Real{}, observer.OnOverlay)
	defer func() {
		anime.Stop()
		manga.Stop()
		details.Close()
	}()

	model := tui.NewModel(tui.Options{
		Context: ctx,
		Anime:   anime,
		Manga:   manga,
		Overlay: details,
		Notify:  notify,
		UI:      cfg.UI,
		Logger:  logger,
	})

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down", "anime", anime.String(), "manga", manga.String())
	return nil
}

// runPlain waits for both rankings (or the deadline) and prints them
func runPlain(ctx context.Context, cfg *config.Config, client *jikan.Client, cache *store.RankingStore, logger *slog.Logger, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	changed := make(chan struct{}, 1)
	deps := ranking.Deps{
		Client: client,
		Cache:  cache,
		Clock:  clock.Real{},
		Logger: logger,
		Observer: domain.ObserverFunc(func(string, domain.FetchState) {
			select {
			case changed <- struct{}{}:
			default:
			}
		}),
	}
	anime := ranking.NewSeasonalAnime(deps, cfg.FetchSettings())
	manga := ranking.NewTopManga(deps, cfg.FetchSettings())
	defer anime.Stop()
	defer manga.Stop()

	anime.Start(ctx)
	manga.Start(ctx)

	for !done(anime.State()) || !done(manga.State()) {
		select {
		case <-changed:
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "timed out waiting for rankings")
			printRanking(os.Stdout, "Seasonal Anime", domain.KindAnime, anime.State())
			printRanking(os.Stdout, "Top Manga", domain.KindManga, manga.State())
			return ctx.Err()
		}
	}

	printRanking(os.Stdout, "Seasonal Anime", domain.KindAnime, anime.State())
	printRanking(os.Stdout, "Top Manga", domain.KindManga, manga.State())
	return nil
}

// done reports whether a ranking has settled with something to print
func done(s domain.FetchState) bool {
	return s.Status == domain.StatusSuccess ||
		(s.Status == domain.StatusFailed && s.RetryIn == 0)
}

func printRanking(w io.Writer, title string, kind domain.ContentKind, s domain.FetchState) {
	fmt.Fprintf(w, "%s\n", title)
	if !s.HasItems() {
		if s.Err != nil {
			fmt.Fprintf(w, "  unavailable: %v\n\n", s.Err)
		} else {
			fmt.Fprintf(w, "  unavailable\n\n")
		}
		return
	}

	for i, item := range s.Items {
		metric := item.ScoreSummary()
		if kind == domain.KindManga {
			metric = item.ReadingSummary()
		}
		fmt.Fprintf(w, "%3d. %s", i+1, item.DisplayTitle())
		if metric != "" {
			fmt.Fprintf(w, "  (%s)", metric)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}
