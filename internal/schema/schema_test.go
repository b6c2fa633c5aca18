package schema

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/progress"
)

var testDefaults = Defaults{
	Title:    "Album Dashboard",
	Deadline: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
}

func TestMigrateSongs(t *testing.T) {
	t.Run("canonical songs pass through", func(t *testing.T) {
		songs := []models.Song{
			{ID: 1, Title: "Intro", Stages: []models.Stage{{Name: "Demo", Value: 40}, {Name: "Mix", Value: 100}}},
			{ID: 7, Title: "Outro", Stages: []models.Stage{}},
		}
		raw, err := json.Marshal(songs)
		if err != nil {
			t.Fatalf("failed to marshal songs: %v", err)
		}

		got := MigrateSongs(raw)
		if !reflect.DeepEqual(got, songs) {
			t.Errorf("MigrateSongs() = %+v, want %+v", got, songs)
		}

		for i := range songs {
			if progress.SongCompletion(got[i]) != progress.SongCompletion(songs[i]) {
				t.Errorf("song %d completion drifted after migration", songs[i].ID)
			}
		}
	})

	t.Run("migrating twice is stable", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A","stages":{"Demo":40,"Mix":"10"}}]`)
		once := MigrateSongs(raw)
		again, _ := json.Marshal(once)
		twice := MigrateSongs(again)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("second migration changed data: %+v vs %+v", once, twice)
		}
	})

	t.Run("legacy mapping keeps insertion order", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A","stages":{"Demo":40,"Mix":10}}]`)
		got := MigrateSongs(raw)
		want := []models.Stage{{Name: "Demo", Value: 40}, {Name: "Mix", Value: 10}}
		if !reflect.DeepEqual(got[0].Stages, want) {
			t.Errorf("stages = %+v, want %+v", got[0].Stages, want)
		}
	})

	t.Run("legacy mapping order is not alphabetical", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A","stages":{"Vocals":5,"Basic Track":6,"Arrangement":7}}]`)
		got := MigrateSongs(raw)
		names := []string{got[0].Stages[0].Name, got[0].Stages[1].Name, got[0].Stages[2].Name}
		want := []string{"Vocals", "Basic Track", "Arrangement"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("stage names = %v, want %v", names, want)
		}
	})

	t.Run("legacy mapping with a repeated key keeps one stage", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A","stages":{"Demo":40,"Mix":5,"Demo":10}}]`)
		got := MigrateSongs(raw)[0].Stages
		want := []models.Stage{{Name: "Demo", Value: 10}, {Name: "Mix", Value: 5}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("stages = %+v, want %+v", got, want)
		}
	})

	t.Run("null title is treated as missing", func(t *testing.T) {
		raw := []byte(`[{"id":3,"title":null,"stages":[]}]`)
		got := MigrateSongs(raw)[0]
		if got.Title != models.SongLabel(3) {
			t.Errorf("title = %q, want %q", got.Title, models.SongLabel(3))
		}
	})

	t.Run("legacy values are coerced", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A","stages":{"a":"55","b":"nope","c":null,"d":true,"e":250,"f":12.5}}]`)
		got := MigrateSongs(raw)[0].Stages
		want := []int{55, 0, 0, 1, 100, 13}
		for i, w := range want {
			if got[i].Value != w {
				t.Errorf("stage %s = %d, want %d", got[i].Name, got[i].Value, w)
			}
		}
	})

	t.Run("missing or malformed stages become defaults", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A"},{"id":2,"title":"B","stages":"oops"},{"id":3,"title":"C","stages":42}]`)
		for _, s := range MigrateSongs(raw) {
			if !reflect.DeepEqual(s.Stages, models.DefaultStages()) {
				t.Errorf("song %d stages = %+v, want defaults", s.ID, s.Stages)
			}
		}
	})

	t.Run("malformed top level yields the default catalog", func(t *testing.T) {
		for _, raw := range []string{``, `null`, `{}`, `"songs"`, `12`, `{"songs":[]}`} {
			got := MigrateSongs(json.RawMessage(raw))
			if len(got) != models.DefaultSongCount {
				t.Errorf("MigrateSongs(%q) returned %d songs, want %d", raw, len(got), models.DefaultSongCount)
				continue
			}
			for _, s := range got {
				if c := progress.SongCompletion(s); c != 0 {
					t.Errorf("MigrateSongs(%q) song %d completion = %d, want 0", raw, s.ID, c)
				}
			}
		}
	})

	t.Run("empty list stays empty", func(t *testing.T) {
		got := MigrateSongs(json.RawMessage(`[]`))
		if got == nil || len(got) != 0 {
			t.Errorf("MigrateSongs([]) = %+v, want empty list", got)
		}
	})

	t.Run("missing and duplicate ids are reassigned", func(t *testing.T) {
		raw := []byte(`[{"id":4,"title":"A","stages":[]},{"id":4,"title":"B","stages":[]},{"title":"C","stages":[]},{"id":"x","stages":[]}]`)
		got := MigrateSongs(raw)
		ids := []int{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
		want := []int{4, 5, 6, 7}
		if !reflect.DeepEqual(ids, want) {
			t.Errorf("ids = %v, want %v", ids, want)
		}
		if got[3].Title != models.SongLabel(7) {
			t.Errorf("untitled song title = %q, want %q", got[3].Title, models.SongLabel(7))
		}
	})

	t.Run("canonical stages with blank names get positional labels", func(t *testing.T) {
		raw := []byte(`[{"id":1,"title":"A","stages":[{"name":"  ","value":10},{"value":20},7]}]`)
		got := MigrateSongs(raw)[0].Stages
		want := []models.Stage{
			{Name: "Stage 1", Value: 10},
			{Name: "Stage 2", Value: 20},
			{Name: "Stage 3", Value: 0},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("stages = %+v, want %+v", got, want)
		}
	})
}

func TestMigrateAlbum(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		raw := []byte(`{"songs":[{"id":1,"title":"A","stages":[{"name":"Demo","value":50}]}],"albumTitle":"Night Drive","targetISO":"2027-01-02T03:04:05.000+02:00"}`)
		album := MigrateAlbum(raw, testDefaults)

		if album.Title != "Night Drive" {
			t.Errorf("title = %q, want Night Drive", album.Title)
		}
		want := time.Date(2027, 1, 2, 1, 4, 5, 0, time.UTC)
		if !album.Deadline.Equal(want) || album.Deadline.Location() != time.UTC {
			t.Errorf("deadline = %v, want %v in UTC", album.Deadline, want)
		}
		if len(album.Songs) != 1 || album.Songs[0].Stages[0].Value != 50 {
			t.Errorf("songs = %+v", album.Songs)
		}
	})

	t.Run("unparseable record uses defaults", func(t *testing.T) {
		for _, raw := range []string{``, `{`, `[]`, `null`, `{"albumTitle":7,"targetISO":"tomorrow"}`} {
			album := MigrateAlbum([]byte(raw), testDefaults)
			if album.Title != testDefaults.Title {
				t.Errorf("MigrateAlbum(%q) title = %q", raw, album.Title)
			}
			if !album.Deadline.Equal(testDefaults.Deadline) {
				t.Errorf("MigrateAlbum(%q) deadline = %v", raw, album.Deadline)
			}
			if len(album.Songs) != models.DefaultSongCount {
				t.Errorf("MigrateAlbum(%q) songs = %d", raw, len(album.Songs))
			}
		}
	})

	t.Run("empty title falls back", func(t *testing.T) {
		album := MigrateAlbum([]byte(`{"albumTitle":""}`), testDefaults)
		if album.Title != testDefaults.Title {
			t.Errorf("title = %q, want %q", album.Title, testDefaults.Title)
		}
	})
}

func TestMigrateRecord(t *testing.T) {
	t.Run("keeps title and deadline text", func(t *testing.T) {
		rec := MigrateRecord([]byte(`{"songs":[],"albumTitle":"B-Sides","targetISO":"2026-08-01T00:00:00.000Z"}`))
		want := Record{Songs: []models.Song{}, AlbumTitle: "B-Sides", TargetISO: "2026-08-01T00:00:00.000Z"}
		if !reflect.DeepEqual(rec, want) {
			t.Errorf("MigrateRecord() = %+v, want %+v", rec, want)
		}
	})

	t.Run("non-string fields are dropped", func(t *testing.T) {
		rec := MigrateRecord([]byte(`{"albumTitle":7,"targetISO":false}`))
		if rec.AlbumTitle != "" || rec.TargetISO != "" {
			t.Errorf("MigrateRecord() = %+v", rec)
		}
		if len(rec.Songs) != models.DefaultSongCount {
			t.Errorf("songs = %d, want default catalog", len(rec.Songs))
		}
	})
}

func TestISO(t *testing.T) {
	ts := time.Date(2026, 8, 1, 2, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	if got := FormatISO(ts); got != "2026-08-01T00:00:00.000Z" {
		t.Errorf("FormatISO() = %q", got)
	}

	parsed, err := ParseISO("2026-08-01T00:00:00Z")
	if err != nil {
		t.Fatalf("ParseISO() error = %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("ParseISO() = %v, want %v", parsed, ts)
	}

	if _, err := ParseISO("2026-08-01 00:00"); err == nil {
		t.Error("ParseISO() should reject timestamps without an offset")
	}
}

func TestNewRecord(t *testing.T) {
	album := models.Album{Title: "T", Deadline: testDefaults.Deadline, Songs: models.DefaultSongs()[:1]}
	data, err := json.Marshal(NewRecord(album))
	if err != nil {
		t.Fatalf("failed to marshal record: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal record: %v", err)
	}
	for _, key := range []string{"songs", "albumTitle", "targetISO"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("record missing %q field", key)
		}
	}

	round := MigrateAlbum(data, Defaults{})
	if !reflect.DeepEqual(round.Songs, album.Songs) || round.Title != album.Title || !round.Deadline.Equal(album.Deadline) {
		t.Errorf("round trip mismatch: %+v", round)
	}
}
