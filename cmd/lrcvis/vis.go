package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/lrcvis/internal/artwork"
	"karolbroda.com/lrcvis/internal/config"
	"karolbroda.com/lrcvis/internal/engine"
	"karolbroda.com/lrcvis/internal/lrc"
	"karolbroda.com/lrcvis/internal/player"
	"karolbroda.com/lrcvis/internal/render"
	"karolbroda.com/lrcvis/internal/resolve"
	"karolbroda.com/lrcvis/internal/terminal"
	"karolbroda.com/lrcvis/internal/track"
	"karolbroda.com/lrcvis/internal/ui"
)

var visCmd = &cobra.Command{
	Use:   "vis",
	Short: "start the synchronized lyrics viewer",
	Long:  `follows the configured mpris player and displays local .lrc lyrics in sync with playback.`,
	RunE:  runViewer,
}

func init() {
	rootCmd.AddCommand(visCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if mprisService != "" {
		cfg.Player.Service = mprisService
	}
	if lyricsDir != "" {
		cfg.Visualizer.LyricsDir = lyricsDir
	}
	if cmd.Flags().Changed("sync-offset") {
		cfg.Visualizer.SyncOffset = syncOffset
	}
	if refreshRate > 0 {
		cfg.Visualizer.RefreshRate = refreshRate
	}
	if font != "" {
		cfg.Visualizer.Font = font
	}
	if cmd.Flags().Changed("simple") {
		cfg.Visualizer.Simple = simpleMode
	}
	if cmd.Flags().Changed("word-level") {
		cfg.Visualizer.WordLevel = wordLevel
	}

	return cfg, nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	client, err := player.NewClient(bus, cfg.Player.Service)
	if err != nil {
		return fmt.Errorf("failed to connect to player: %w", err)
	}

	dir := cfg.Visualizer.LyricsDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, "Music")
		}
	}

	var resolver engine.Resolver = resolve.NewLibrary(dir, cfg.Visualizer.WordLevel)
	if cfg.Visualizer.SyncOffset != 0 {
		resolver = &offsetResolver{inner: resolver, offset: cfg.Visualizer.SyncOffset}
	}

	if cfg.Visualizer.Simple {
		return runSimple(ctx, client, resolver, cfg)
	}
	return runTUI(ctx, cancel, client, resolver, cfg)
}

func runSimple(ctx context.Context, client *player.Client, resolver engine.Resolver, cfg *config.Config) error {
	terminal.HideCursor()
	terminal.ClearScreen()
	defer terminal.Reset()

	renderer := render.NewDirect(os.Stdout, cfg.Visualizer.Font)
	eng := engine.New(client, resolver, renderer, engineOptions(cfg))

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runTUI(ctx context.Context, cancel context.CancelFunc, client *player.Client, resolver engine.Resolver, cfg *config.Config) error {
	model := ui.NewModel(cancel, cfg.Visualizer.Font, hideHeader)
	p := tea.NewProgram(model, tea.WithAltScreen())

	renderer := ui.NewRenderer(p, artworkFetcher(client))
	eng := engine.New(client, resolver, renderer, engineOptions(cfg))

	errCh := make(chan error, 1)
	go func() {
		errCh <- eng.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, runErr := p.Run()
	cancel()

	engErr := <-errCh
	if runErr != nil {
		return fmt.Errorf("error running bubble tea: %w", runErr)
	}
	if engErr != nil && !errors.Is(engErr, context.Canceled) {
		return engErr
	}
	return nil
}

func engineOptions(cfg *config.Config) engine.Options {
	return engine.Options{
		Refresh: time.Duration(cfg.Visualizer.RefreshRate * float64(time.Second)),
	}
}

// artworkFetcher pulls cover art for the current track and derives the
// display palette from it.
func artworkFetcher(client *player.Client) ui.ArtworkFunc {
	return func(ctx context.Context, id track.Identity) (*artwork.Palette, []string) {
		meta, err := client.Metadata(ctx)
		if err != nil || !meta.Identity.Same(id) || meta.ArtworkURL == "" {
			return nil, nil
		}

		img, err := artwork.Fetch(ctx, meta.ArtworkURL)
		if err != nil {
			return nil, nil
		}

		return artwork.ExtractPalette(img), artwork.HalfBlockArt(img, 8, 4)
	}
}

// offsetResolver shifts lyric timestamps so a positive offset shows
// each line earlier.
type offsetResolver struct {
	inner  engine.Resolver
	offset float64
}

func (r *offsetResolver) Resolve(ctx context.Context, id track.Identity, pathHint string) ([]lrc.Line, error) {
	lines, err := r.inner.Resolve(ctx, id, pathHint)
	if err != nil {
		return nil, err
	}

	shifted := make([]lrc.Line, len(lines))
	for i, line := range lines {
		shifted[i] = lrc.Line{Time: line.Time - r.offset, Text: line.Text}
		if shifted[i].Time < 0 {
			shifted[i].Time = 0
		}
	}
	return shifted, nil
}
