package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// global flags
	configPath   string
	mprisService string
	lyricsDir    string
	syncOffset   float64
	refreshRate  float64
	font         string
	simpleMode   bool
	wordLevel    bool
	hideHeader   bool
)

var rootCmd = &cobra.Command{
	Use:   "lrcvis",
	Short: "terminal synchronized lyrics visualizer",
	Long: `lrcvis follows an mpris music player and displays timestamped lyrics
from local .lrc files in the terminal, line by line and in sync with
playback.

when run without a subcommand, it starts the viewer.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.spotify)")
	rootCmd.PersistentFlags().StringVarP(&lyricsDir, "lyrics-dir", "d", "", "directory searched for .lrc files")
	rootCmd.PersistentFlags().Float64VarP(&syncOffset, "sync-offset", "s", 0, "sync offset in seconds, positive shows lines earlier")
	rootCmd.PersistentFlags().Float64Var(&refreshRate, "refresh-rate", 0, "redraw cadence in seconds while synced")
	rootCmd.PersistentFlags().StringVar(&font, "font", "", "figlet font for the big line display")
	rootCmd.PersistentFlags().BoolVar(&simpleMode, "simple", false, "print lines directly instead of the full-screen interface")
	rootCmd.PersistentFlags().BoolVarP(&wordLevel, "word-level", "w", false, "prefer split word-level lyrics (.wlrc)")
	rootCmd.PersistentFlags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide the track header")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
