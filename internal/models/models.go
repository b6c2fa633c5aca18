// package models defines the album/song/stage data model
package models

import (
	"fmt"
	"time"
)

const (
	MinStageValue = 0
	MaxStageValue = 100
	// DefaultSongCount is the number of songs in the built-in catalog.
	DefaultSongCount = 20
)

// DefaultStageNames are the stages every new song starts with.
var DefaultStageNames = []string{
	"Demo",
	"Basic Track",
	"Instruments",
	"Lyrics",
	"Vocals",
	"Mix",
}

// Stage is a named sub-task of a song.
//
// A stage has no identity beyond its position in the owning song's stage list.
type Stage struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Song is a titled unit containing an ordered list of stages.
type Song struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Stages []Stage `json:"stages"`
}

// Album is the root aggregate: one per running session, persisted as a whole.
type Album struct {
	Title    string
	Deadline time.Time
	Songs    []Song
}

// ClampValue bounds v to [MinStageValue, MaxStageValue].
func ClampValue(v int) int {
	return min(MaxStageValue, max(MinStageValue, v))
}

// StageLabel returns the positional label for the n-th stage (1-based), e.g. "Stage 7".
func StageLabel(n int) string {
	return fmt.Sprintf("Stage %d", n)
}

// SongLabel returns the default title for a song id.
func SongLabel(id int) string {
	return fmt.Sprintf("Song %d", id)
}

// DefaultStages returns a fresh copy of the default stage list, all at 0%.
func DefaultStages() []Stage {
	stages := make([]Stage, len(DefaultStageNames))
	for i, name := range DefaultStageNames {
		stages[i] = Stage{Name: name, Value: 0}
	}
	return stages
}

// NewSong creates a song with the default stages.
func NewSong(id int, title string) Song {
	if title == "" {
		title = SongLabel(id)
	}
	return Song{ID: id, Title: title, Stages: DefaultStages()}
}

// DefaultSongs returns the built-in catalog of [DefaultSongCount] untitled songs.
func DefaultSongs() []Song {
	songs := make([]Song, DefaultSongCount)
	for i := range songs {
		songs[i] = NewSong(i+1, "")
	}
	return songs
}

// Clone returns a deep copy of the song.
func (s Song) Clone() Song {
	c := s
	if s.Stages != nil {
		c.Stages = append([]Stage(nil), s.Stages...)
	}
	return c
}

// CloneSongs deep-copies a song list.
func CloneSongs(songs []Song) []Song {
	if songs == nil {
		return nil
	}
	out := make([]Song, len(songs))
	for i, s := range songs {
		out[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the album.
func (a Album) Clone() Album {
	c := a
	c.Songs = CloneSongs(a.Songs)
	return c
}

// SongIDs lists song ids in display order.
func (a Album) SongIDs() []int {
	ids := make([]int, len(a.Songs))
	for i, s := range a.Songs {
		ids[i] = s.ID
	}
	return ids
}

// NextSongID returns one more than the highest id in songs, or 1 for an empty list.
func NextSongID(songs []Song) int {
	next := 1
	for _, s := range songs {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}
