package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mmcdole/encore/internal/adapter"
	"github.com/mmcdole/encore/internal/adapter/source"
	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/library"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/playlist"
	"github.com/mmcdole/encore/internal/search"
	"github.com/mmcdole/encore/internal/service"
	"github.com/mmcdole/encore/internal/store"
	"github.com/mmcdole/encore/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// observerBuffer bounds how many engine snapshots wait for the UI
const observerBuffer = 64

func main() {
	var showVersion, showCharts, logout bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showCharts, "charts", false, "print the current charts and exit")
	flag.BoolVar(&logout, "logout", false, "clear credentials and cached data")
	flag.Parse()

	if showVersion {
		fmt.Printf("encore %s\n", Version)
		return
	}

	if err := run(showCharts, logout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(showCharts, logout bool) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Fall back to a null logger if the log file cannot be opened
	var logger *slog.Logger
	if l, err := adapter.SetupLogger(&cfg.Logging); err != nil {
		logger = adapter.NullLogger()
	} else {
		defer l.Close()
		logger = l.Logger
	}
	slog.SetDefault(logger)

	logger.Info("starting encore", "version", Version)

	if logout {
		if err := service.NewSessionService(cfg.Cache.Dir).Logout(); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	}

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, logger); err != nil {
			return err
		}
	}

	libStore, err := store.NewLibraryStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer libStore.Close()

	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	libraryCmds := library.NewCommands(client, libStore, logger)
	libraryQueries := library.NewQueries(libStore)

	if showCharts {
		return printCharts(os.Stdout, libraryCmds)
	}

	playlistCmds := playlist.NewCommands(client, libStore, cfg.Cache.PlaylistTTL, logger)
	playlistQueries := playlist.NewQueries(libStore)
	searchSvc := search.NewService(libraryQueries, playlistQueries, logger)

	// Playback engine observes the store the services write to
	playerStore := player.NewStore()
	fetcher := player.NewBeepFetcher(player.BeepConfig{
		SampleRate:   cfg.Player.SampleRate,
		TickInterval: cfg.Player.TickInterval,
	}, logger)
	engine := player.NewEngine(playerStore, fetcher, player.EngineConfig{
		LoadTimeout: cfg.Player.LoadTimeout,
	}, logger)
	defer engine.Close()

	observer := tui.NewChannelObserver(observerBuffer)
	unsubscribe := engine.OnChange(observer.OnStatus)
	defer unsubscribe()

	model := tui.NewModel(tui.Services{
		Library:      libraryQueries,
		LibraryCmds:  libraryCmds,
		Playlists:    playlistQueries,
		PlaylistCmds: playlistCmds,
		Search:       searchSvc,
		Playback:     service.NewPlaybackService(playerStore, client, libraryQueries, logger),
		Likes:        service.NewLikeService(client, libStore, logger),
		Session:      service.NewSessionService(cfg.Cache.Dir),
		Player:       engine,
		Observer:     observer,
		Email:        cfg.Server.Email,
		Logger:       logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	final, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.LoggedOut {
		fmt.Println("Logged out.")
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow signs in and saves the issued credentials
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Encore!")

	if cfg.Server.URL == "" {
		cfg.Server.URL = adapter.DefaultServerURL
	}

	flow := source.NewAuthFlow(logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := flow.Run(ctx, cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	cfg.Server.Token = result.Token
	cfg.Server.UserID = result.User.ID
	cfg.Server.Username = result.User.Name
	cfg.Server.Email = result.User.Email

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// printCharts renders the chart listing as a table
func printCharts(w io.Writer, lib domain.LibraryCommands) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracks, err := lib.FetchCharts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch charts: %w", err)
	}

	renderChartsTable(w, tracks)
	return nil
}

func renderChartsTable(w io.Writer, tracks []*domain.Track) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Length", ""})

	for i, track := range tracks {
		kind := text.FgHiBlack.Sprint("full")
		if !track.IsFull() {
			kind = text.FgYellow.Sprint("preview")
		}
		liked := ""
		if track.Liked {
			liked = " ♥"
		}
		t.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			track.Title + liked,
			track.Artist.Name,
			track.FormattedDuration(),
			kind,
		})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(tracks))})
	t.Render()
}
