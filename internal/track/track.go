package track

import "fmt"

// Identity names the piece a media player reports as currently active.
// Two identities describe the same track when both fields are equal.
type Identity struct {
	Artist string
	Title  string
}

func (id Identity) Valid() bool {
	return id.Artist != "" && id.Title != ""
}

func (id Identity) Same(other Identity) bool {
	return id.Artist == other.Artist && id.Title == other.Title
}

func (id Identity) String() string {
	if id.Artist == "" {
		return id.Title
	}
	return fmt.Sprintf("%s - %s", id.Artist, id.Title)
}
