package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"karolbroda.com/lrcvis/internal/lrc"
	"karolbroda.com/lrcvis/internal/splitter"
)

var (
	processMaxDuration float64
	processMaxWords    int
	processNoCommas    bool
)

var processCmd = &cobra.Command{
	Use:   "process [path...]",
	Short: "split long lyric phrases into word-level files",
	Long: `reads .lrc files and splits phrases that run too long or carry commas
into shorter timed chunks, writing the result as a .wlrc file next to
the input. the viewer picks these up with --word-level.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Float64Var(&processMaxDuration, "max-duration", 0, "longest phrase duration in seconds before splitting")
	processCmd.Flags().IntVar(&processMaxWords, "max-words", 0, "most words per phrase before splitting")
	processCmd.Flags().BoolVar(&processNoCommas, "no-comma-split", false, "do not split at commas")
	rootCmd.AddCommand(processCmd)
}

// tail room assumed after the final timestamp when the real track
// duration is unknown
const lastLineSlack = 5.0

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	splitCfg := splitter.Config{
		MaxPhraseDuration: cfg.Processor.MaxPhraseDuration,
		MinPhraseDuration: cfg.Processor.MinPhraseDuration,
		MaxWordsPerPhrase: cfg.Processor.MaxWordsPerPhrase,
		SplitOnCommas:     cfg.Processor.SplitOnCommas,
	}
	if processMaxDuration > 0 {
		splitCfg.MaxPhraseDuration = processMaxDuration
	}
	if processMaxWords > 0 {
		splitCfg.MaxWordsPerPhrase = processMaxWords
	}
	if processNoCommas {
		splitCfg.SplitOnCommas = false
	}

	files, err := collectLrcFiles(args)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	processed := 0

	for _, path := range files {
		out, err := processFile(path, splitCfg)
		if err != nil {
			logger.Error("process failed", "file", filepath.Base(path), "err", err)
			continue
		}
		logger.Info("processed", "in", filepath.Base(path), "out", filepath.Base(out))
		processed++
	}

	logger.Info("done", "processed", processed, "total", len(files))
	return nil
}

func processFile(path string, cfg splitter.Config) (string, error) {
	lines, err := lrc.ParseFile(path)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("no timestamped lines in %s", path)
	}

	total := lines[len(lines)-1].Time + lastLineSlack
	split := splitter.Process(lines, total, cfg)

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".wlrc"
	if err := lrc.WriteFile(out, split, nil); err != nil {
		return "", err
	}
	return out, nil
}

func collectLrcFiles(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.EqualFold(filepath.Ext(path), ".lrc") {
				files = append(files, path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(sub string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(sub), ".lrc") {
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
