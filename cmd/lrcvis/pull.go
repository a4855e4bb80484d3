package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"karolbroda.com/lrcvis/internal/cache"
	"karolbroda.com/lrcvis/internal/lrclib"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".wma":  true,
	".aac":  true,
}

var (
	pullOutputDir  string
	pullOverwrite  bool
	pullAllowPlain bool
	pullNoCache    bool
)

var pullCmd = &cobra.Command{
	Use:   "pull [path...]",
	Short: "download synced lyrics for audio files",
	Long: `scans the given files or directories for audio files, derives artist and
title from each filename, and downloads matching synced lyrics from
lrclib into .lrc files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVarP(&pullOutputDir, "output-dir", "o", "", "write .lrc files here instead of next to the audio")
	pullCmd.Flags().BoolVar(&pullOverwrite, "overwrite", false, "replace existing .lrc files")
	pullCmd.Flags().BoolVar(&pullAllowPlain, "allow-plain", false, "accept plain lyrics when no synced ones exist")
	pullCmd.Flags().BoolVar(&pullNoCache, "no-cache", false, "skip cache reads, always fetch fresh")
	rootCmd.AddCommand(pullCmd)
}

type puller struct {
	client *lrclib.Client
	store  *cache.Cache
	logger *log.Logger

	outputDir  string
	overwrite  bool
	allowPlain bool
	noCache    bool
}

func runPull(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outputDir := cfg.Puller.OutputDir
	if pullOutputDir != "" {
		outputDir = pullOutputDir
	}

	store, err := cache.New()
	if err != nil {
		return fmt.Errorf("failed to open lyrics cache: %w", err)
	}

	retries := cfg.Puller.Retries
	if retries <= 0 {
		retries = 3
	}
	backoff := time.Duration(cfg.Puller.Backoff * float64(time.Second))
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	p := &puller{
		client:     lrclib.NewClient(lrclib.DefaultBaseURL, retries, backoff),
		store:      store,
		logger:     log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false}),
		outputDir:  outputDir,
		overwrite:  pullOverwrite || cfg.Puller.Overwrite,
		allowPlain: pullAllowPlain || cfg.Puller.AllowPlain,
		noCache:    pullNoCache,
	}

	files, err := collectAudioFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.logger.Warn("no audio files found")
		return nil
	}

	pulled, skipped, missed := 0, 0, 0
	for _, path := range files {
		switch err := p.pullOne(cmd.Context(), path); {
		case err == nil:
			pulled++
		case errors.Is(err, errAlreadyExists):
			skipped++
		case errors.Is(err, errNoLyrics):
			missed++
			p.logger.Warn("no lyrics found", "file", filepath.Base(path))
		default:
			missed++
			p.logger.Error("pull failed", "file", filepath.Base(path), "err", err)
		}
	}

	p.logger.Info("done", "pulled", pulled, "skipped", skipped, "missed", missed)
	return nil
}

var (
	errAlreadyExists = errors.New("lyrics file already exists")
	errNoLyrics      = errors.New("no lyrics available")
)

func (p *puller) pullOne(ctx context.Context, path string) error {
	md := lrclib.ExtractFileMetadata(path)
	if md.Title == "" {
		return errNoLyrics
	}

	target := p.targetPath(path)
	if !p.overwrite {
		if _, err := os.Stat(target); err == nil {
			return errAlreadyExists
		}
	}

	lyrics, err := p.fetch(ctx, md)
	if err != nil {
		return err
	}

	body := lyrics.Body(true)
	if body == "" || (!p.allowPlain && lyrics.SyncedLyrics == "") {
		return errNoLyrics
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		return err
	}

	p.logger.Info("pulled", "artist", md.Artist, "title", md.Title)
	return nil
}

// fetch tries the cleaned metadata first, then falls back to the raw
// filename variants that sometimes match better.
func (p *puller) fetch(ctx context.Context, md lrclib.FileMetadata) (*lrclib.Lyrics, error) {
	if !p.noCache {
		if cached, err := p.store.Get(md.Artist, md.Title); err == nil {
			return cached, nil
		}
	}

	attempts := []struct{ artist, title string }{
		{md.Artist, md.Title},
		{md.Artist, md.OriginalTitle},
		{md.FullArtist, md.Title},
	}

	for _, attempt := range attempts {
		if attempt.title == "" || attempt.artist == "" {
			continue
		}

		results, err := p.client.Search(ctx, attempt.artist, attempt.title, 0)
		if err != nil {
			return nil, err
		}

		if best := pickResult(results, p.allowPlain); best != nil {
			_ = p.store.Set(md.Artist, md.Title, best)
			return best, nil
		}
	}

	return nil, errNoLyrics
}

func pickResult(results []lrclib.Lyrics, allowPlain bool) *lrclib.Lyrics {
	for i := range results {
		if results[i].SyncedLyrics != "" {
			return &results[i]
		}
	}
	if allowPlain {
		for i := range results {
			if results[i].PlainLyrics != "" {
				return &results[i]
			}
		}
	}
	return nil
}

func (p *puller) targetPath(audioPath string) string {
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if p.outputDir != "" {
		return filepath.Join(p.outputDir, stem+".lrc")
	}
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".lrc"
}

func collectAudioFiles(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if audioExtensions[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(sub string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(sub))] {
				files = append(files, sub)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
