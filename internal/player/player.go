// Package player reads playback state from an MPRIS media player over
// the session bus. It only observes; it never commands the player.
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/lrcvis/internal/engine"
	"karolbroda.com/lrcvis/internal/track"
)

const (
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisIface       = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"

	propertiesGet = "org.freedesktop.DBus.Properties.Get"

	// every query completes or gives up within this bound, so a stuck
	// player can never stall the sync engine
	queryTimeout = 500 * time.Millisecond
)

// Metadata is the track information one MPRIS metadata read yields.
type Metadata struct {
	Identity     track.Identity
	Album        string
	DurationSecs int64
	ArtworkURL   string
	URL          string
}

type Client struct {
	bus     *dbus.Conn
	service string
}

func NewClient(bus *dbus.Conn, service string) (*Client, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if service == "" {
		return nil, errors.New("empty mpris service name")
	}

	return &Client{bus: bus, service: service}, nil
}

func (c *Client) Service() string {
	return c.service
}

// Position reports the current playback position in seconds.
func (c *Client) Position(ctx context.Context) (float64, error) {
	value, err := c.getProperty(ctx, mprisPlayerIface, "Position")
	if err != nil {
		return 0, err
	}

	micros, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected position type %T", value)
	}
	if micros < 0 {
		return 0, nil
	}

	return float64(micros) / 1e6, nil
}

// Status maps the player's PlaybackStatus string onto the engine's
// status enum. Any failure reads as unknown.
func (c *Client) Status(ctx context.Context) engine.Status {
	value, err := c.getProperty(ctx, mprisPlayerIface, "PlaybackStatus")
	if err != nil {
		return engine.StatusUnknown
	}

	status, ok := value.(string)
	if !ok {
		return engine.StatusUnknown
	}

	switch status {
	case "Playing":
		return engine.StatusPlaying
	case "Paused":
		return engine.StatusPaused
	case "Stopped":
		return engine.StatusStopped
	default:
		return engine.StatusUnknown
	}
}

func (c *Client) Track(ctx context.Context) (track.Identity, error) {
	md, err := c.Metadata(ctx)
	if err != nil {
		return track.Identity{}, err
	}

	if !md.Identity.Valid() {
		return track.Identity{}, fmt.Errorf("missing title or artist in metadata (title=%q, artist=%q)",
			md.Identity.Title, md.Identity.Artist)
	}

	return md.Identity, nil
}

// TrackPath returns the local file path of the playing media, or empty
// when the source is not a local file.
func (c *Client) TrackPath(ctx context.Context) (string, error) {
	md, err := c.Metadata(ctx)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(md.URL, "file://") {
		return strings.TrimPrefix(md.URL, "file://"), nil
	}
	return "", nil
}

func (c *Client) Metadata(ctx context.Context) (*Metadata, error) {
	value, err := c.getProperty(ctx, mprisPlayerIface, "Metadata")
	if err != nil {
		return nil, err
	}

	metadata, ok := value.(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", value)
	}

	return &Metadata{
		Identity: track.Identity{
			Artist: extractArtist(metadata, "xesam:artist"),
			Title:  extractString(metadata, "xesam:title"),
		},
		Album:        extractString(metadata, "xesam:album"),
		DurationSecs: extractDurationSeconds(metadata, "mpris:length"),
		ArtworkURL:   extractString(metadata, "mpris:artUrl"),
		URL:          extractString(metadata, "xesam:url"),
	}, nil
}

func (c *Client) getProperty(ctx context.Context, iface, name string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	obj := c.bus.Object(c.service, mprisPath)

	var variant dbus.Variant
	err := obj.CallWithContext(ctx, propertiesGet, 0, iface, name).Store(&variant)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s property: %w", name, err)
	}

	value := variant.Value()
	if value == nil {
		return nil, fmt.Errorf("%s value is nil", name)
	}

	return value, nil
}

// ListServices returns the MPRIS service names currently on the bus.
func ListServices(bus *dbus.Conn) ([]string, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}

	var names []string
	err := bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list dbus names: %w", err)
	}

	var services []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			services = append(services, name)
		}
	}

	return services, nil
}

// Identity returns the player's self-reported name, or empty when it
// does not expose one.
func Identity(bus *dbus.Conn, service string) string {
	obj := bus.Object(service, mprisPath)

	variant, err := obj.GetProperty(mprisIface + ".Identity")
	if err != nil {
		return ""
	}

	identity, ok := variant.Value().(string)
	if !ok {
		return ""
	}
	return identity
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	text, ok := variant.Value().(string)
	if !ok {
		return ""
	}
	return text
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

func extractDurationSeconds(metadata map[string]dbus.Variant, key string) int64 {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		if typed <= 0 {
			return 0
		}
		return typed / 1_000_000
	case uint64:
		if typed == 0 {
			return 0
		}
		return int64(typed / 1_000_000)
	default:
		return 0
	}
}
