package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karolbroda.com/lrcvis/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage the lyrics cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache entry count and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.New()
		if err != nil {
			return err
		}

		count, size, err := store.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("entries: %d\n", count)
		fmt.Printf("size:    %.1f KiB\n", float64(size)/1024)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "delete all cached lyrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.New()
		if err != nil {
			return err
		}

		removed, err := store.Clear()
		if err != nil {
			return err
		}

		fmt.Printf("removed %d cached entr", removed)
		if removed == 1 {
			fmt.Println("y")
		} else {
			fmt.Println("ies")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
