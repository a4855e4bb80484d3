package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karolbroda.com/lrcvis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if path == "" {
			return fmt.Errorf("could not determine config path")
		}

		if err := config.WriteExample(path); err != nil {
			return err
		}

		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.DefaultPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
