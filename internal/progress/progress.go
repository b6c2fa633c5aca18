// Package progress derives completion percentages from stage values.
//
// Nothing here is cached: stage edits are frequent and the computation is
// cheap, so every caller recomputes on read.
package progress

import "github.com/desertthunder/albumdash/internal/models"

// DefaultThreshold is the completion a song needs to count as eligible.
const DefaultThreshold = 75

// SongCompletion returns the rounded mean of the song's clamped stage values.
//
// A song without stages is 0% complete.
func SongCompletion(song models.Song) int {
	if len(song.Stages) == 0 {
		return 0
	}

	sum := 0
	for _, st := range song.Stages {
		sum += models.ClampValue(st.Value)
	}
	return roundDiv(sum, len(song.Stages))
}

// AlbumCompletion returns the rounded mean of each song's [SongCompletion].
//
// This is a mean of means: every song weighs the same regardless of how many stages it has.
func AlbumCompletion(songs []models.Song) int {
	if len(songs) == 0 {
		return 0
	}

	sum := 0
	for _, s := range songs {
		sum += SongCompletion(s)
	}
	return roundDiv(sum, len(songs))
}

// EligibleCount counts songs whose completion is at least threshold.
func EligibleCount(songs []models.Song, threshold int) int {
	n := 0
	for _, s := range songs {
		if SongCompletion(s) >= threshold {
			n++
		}
	}
	return n
}

// EligibleCountDefault is [EligibleCount] with [DefaultThreshold].
func EligibleCountDefault(songs []models.Song) int {
	return EligibleCount(songs, DefaultThreshold)
}

// Summary bundles the derived numbers shown in the album header.
type Summary struct {
	Completion int `json:"completion"`
	Eligible   int `json:"eligible"`
	Total      int `json:"total"`
	Threshold  int `json:"threshold"`
}

// Summarize computes a [Summary] for the given songs.
func Summarize(songs []models.Song, threshold int) Summary {
	return Summary{
		Completion: AlbumCompletion(songs),
		Eligible:   EligibleCount(songs, threshold),
		Total:      len(songs),
		Threshold:  threshold,
	}
}

// roundDiv divides non-negative sum by n, rounding halves up.
func roundDiv(sum, n int) int {
	return (2*sum + n) / (2 * n)
}
