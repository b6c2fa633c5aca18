package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/albumdash/internal/models"
)

// isoLayout matches the millisecond UTC timestamps written by earlier versions, e.g. 2026-08-01T00:00:00.000Z
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is the canonical persisted document.
//
// Exported snapshots use the same shape without TargetISO.
type Record struct {
	Songs      []models.Song `json:"songs"`
	AlbumTitle string        `json:"albumTitle"`
	TargetISO  string        `json:"targetISO,omitempty"`
}

// Defaults supplies the values used when a record lacks a title or deadline.
type Defaults struct {
	Title    string
	Deadline time.Time
}

// NewRecord builds the canonical record for an album.
//
// Nil song or stage lists are written as empty arrays so they do not read back as "absent".
func NewRecord(album models.Album) Record {
	songs := make([]models.Song, len(album.Songs))
	for i, s := range album.Songs {
		songs[i] = s
		if s.Stages == nil {
			songs[i].Stages = []models.Stage{}
		}
	}

	return Record{
		Songs:      songs,
		AlbumTitle: album.Title,
		TargetISO:  FormatISO(album.Deadline),
	}
}

// FormatISO renders t as an absolute UTC timestamp.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseISO parses an RFC 3339 timestamp (fractional seconds optional) and normalizes it to UTC.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// MigrateRecord decodes a persisted record of any known shape into a canonical [Record].
//
// Unparseable input is treated as an empty object: songs fall back to the default catalog
// and the title and deadline are left empty.
func MigrateRecord(raw []byte) Record {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		fields = map[string]json.RawMessage{}
	}

	rec := Record{Songs: MigrateSongs(fields["songs"])}
	if title, ok := decodeString(fields["albumTitle"]); ok {
		rec.AlbumTitle = title
	}
	if iso, ok := decodeString(fields["targetISO"]); ok {
		rec.TargetISO = iso
	}
	return rec
}

// MigrateAlbum decodes a persisted record into an [models.Album], filling a missing title or
// unparseable deadline from d.
func MigrateAlbum(raw []byte, d Defaults) models.Album {
	rec := MigrateRecord(raw)
	album := models.Album{
		Title:    d.Title,
		Deadline: d.Deadline.UTC(),
		Songs:    rec.Songs,
	}

	if rec.AlbumTitle != "" {
		album.Title = rec.AlbumTitle
	}
	if t, err := ParseISO(rec.TargetISO); err == nil {
		album.Deadline = t
	}
	return album
}

// MigrateSongs converts a raw song list into canonical songs.
//
// Absent input or anything that is not a JSON array yields [models.DefaultSongs].
// An empty array stays empty.
func MigrateSongs(raw json.RawMessage) []models.Song {
	var items []json.RawMessage
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.DefaultSongs()
	}
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return models.DefaultSongs()
	}

	songs := make([]models.Song, len(items))
	ids := make([]int, len(items))
	titled := make([]bool, len(items))
	seen := make(map[int]bool, len(items))
	next := 1
	for i, item := range items {
		songs[i], ids[i], titled[i] = migrateSong(item)
		if ids[i] == 0 || seen[ids[i]] {
			ids[i] = 0
			continue
		}
		seen[ids[i]] = true
		next = max(next, ids[i]+1)
	}

	for i := range songs {
		if ids[i] == 0 {
			ids[i] = next
			next++
		}
		songs[i].ID = ids[i]
		if !titled[i] {
			songs[i].Title = models.SongLabel(ids[i])
		}
	}

	return songs
}

type rawSong struct {
	ID     json.RawMessage `json:"id"`
	Title  json.RawMessage `json:"title"`
	Stages json.RawMessage `json:"stages"`
}

// migrateSong decodes one song. It reports the id the song carried (0 when absent or unusable)
// and whether the song had a title of its own.
func migrateSong(item json.RawMessage) (models.Song, int, bool) {
	var rs rawSong
	if err := json.Unmarshal(item, &rs); err != nil {
		return models.Song{Stages: models.DefaultStages()}, 0, false
	}

	id := 0
	if n, ok := number(rs.ID); ok && n == math.Trunc(n) && n > 0 && n <= math.MaxInt32 {
		id = int(n)
	}

	title, ok := decodeString(rs.Title)
	return models.Song{Title: title, Stages: MigrateStages(rs.Stages)}, id, ok
}

// MigrateStages converts any known stage shape into an ordered stage list.
func MigrateStages(raw json.RawMessage) []models.Stage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return models.DefaultStages()
	}

	switch trimmed[0] {
	case '[':
		if stages, ok := canonicalStages(trimmed); ok {
			return stages
		}
	case '{':
		if stages, ok := legacyStages(trimmed); ok {
			return stages
		}
	}
	return models.DefaultStages()
}

// canonicalStages decodes the array shape, leaving well-formed entries untouched.
func canonicalStages(raw []byte) ([]models.Stage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	stages := make([]models.Stage, len(items))
	for i, item := range items {
		var fields struct {
			Name  json.RawMessage `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(item, &fields); err != nil {
			stages[i] = models.Stage{Name: models.StageLabel(i + 1)}
			continue
		}

		name, _ := decodeString(fields.Name)
		if strings.TrimSpace(name) == "" {
			name = models.StageLabel(i + 1)
		}

		value, _ := number(fields.Value)
		stages[i] = models.Stage{Name: name, Value: roundHalfUp(value)}
	}
	return stages, true
}

// legacyStages converts the {"Demo": 40, "Mix": 10} shape, keeping the document's key order.
// A repeated key keeps its first position and takes the last value.
func legacyStages(raw []byte) ([]models.Stage, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}

	stages := []models.Stage{}
	positions := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		name, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}

		n, _ := number(value)
		v := models.ClampValue(roundHalfUp(n))
		if i, ok := positions[name]; ok {
			stages[i].Value = v
			continue
		}
		positions[name] = len(stages)

		label := name
		if strings.TrimSpace(label) == "" {
			label = models.StageLabel(len(stages) + 1)
		}
		stages = append(stages, models.Stage{Name: label, Value: v})
	}

	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return stages, true
}

// decodeString reports false for absent values, JSON null and non-strings.
func decodeString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// number coerces a JSON value to a float the way loosely typed stored data expects:
// numbers pass through, numeric strings are parsed, booleans become 1 or 0, everything else is 0.
func number(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case bool:
		if x {
			f = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func roundHalfUp(f float64) int {
	r := math.Floor(f + 0.5)
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	if r < math.MinInt32 {
		return math.MinInt32
	}
	return int(r)
}
