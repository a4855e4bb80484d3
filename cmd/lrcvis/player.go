package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/lrcvis/internal/player"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "mpris player utilities",
	Long:  `discover mpris-compatible music players and inspect what they are playing.`,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list available mpris players",
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		services, err := player.ListServices(bus)
		if err != nil {
			return err
		}

		if len(services) == 0 {
			fmt.Println("no mpris players found")
			fmt.Println("\ncheck if your music player is running and supports mpris")
			return nil
		}

		fmt.Printf("found %d mpris player(s):\n\n", len(services))
		for _, service := range services {
			if identity := player.Identity(bus, service); identity != "" {
				fmt.Printf("  %s (%s)\n", service, identity)
			} else {
				fmt.Printf("  %s\n", service)
			}
		}

		fmt.Println("\nuse --mpris-service to pick one")
		return nil
	},
}

var playerCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "show the currently playing track",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		client, err := player.NewClient(bus, cfg.Player.Service)
		if err != nil {
			return fmt.Errorf("failed to connect to player: %w", err)
		}

		ctx := cmd.Context()

		meta, err := client.Metadata(ctx)
		if err != nil {
			return fmt.Errorf("failed to read track metadata: %w", err)
		}
		if !meta.Identity.Valid() {
			fmt.Println("no track currently playing")
			return nil
		}

		fmt.Println("current track:")
		fmt.Printf("  title:  %s\n", meta.Identity.Title)
		fmt.Printf("  artist: %s\n", meta.Identity.Artist)
		if meta.Album != "" {
			fmt.Printf("  album:  %s\n", meta.Album)
		}
		fmt.Printf("  state:  %s\n", client.Status(ctx))

		if pos, err := client.Position(ctx); err == nil {
			fmt.Printf("  position: %.1fs\n", pos)
		}
		return nil
	},
}

func init() {
	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerCurrentCmd)
	rootCmd.AddCommand(playerCmd)
}
