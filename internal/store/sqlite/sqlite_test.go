package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wolfleithold/guitar-harmony/internal/models"
	"github.com/wolfleithold/guitar-harmony/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createSong(t *testing.T, songs *Songs, newSong store.NewSong) int {
	t.Helper()
	if newSong.Title == "" {
		newSong.Title = "Untitled"
	}
	if newSong.Readiness == "" {
		newSong.Readiness = models.ReadinessWriting
	}
	id, err := songs.Create(newSong)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return id
}

func TestCreateAndGetDefaults(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	id := createSong(t, songs, store.NewSong{Title: "First Song"})

	song, err := songs.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if song.Title != "First Song" {
		t.Fatalf("expected title %q, got %q", "First Song", song.Title)
	}
	if !models.ValidReadiness(string(song.Readiness)) {
		t.Fatalf("unexpected readiness %q", song.Readiness)
	}
	if song.PlayCount != 0 {
		t.Fatalf("expected play_count 0, got %d", song.PlayCount)
	}
	if song.LastPlayedAt != nil {
		t.Fatal("expected last_played_at to be unset")
	}
	if song.UpdatedAt.Before(song.CreatedAt) {
		t.Fatalf("updated_at %v precedes created_at %v", song.UpdatedAt, song.CreatedAt)
	}
}

func TestGetMissingSongReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	if _, err := songs.Get(9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkPlayedTwiceIncrementsByTwo(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	id := createSong(t, songs, store.NewSong{Title: "Play Me"})

	first, err := songs.MarkPlayed(id)
	if err != nil {
		t.Fatalf("first MarkPlayed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := songs.MarkPlayed(id)
	if err != nil {
		t.Fatalf("second MarkPlayed: %v", err)
	}

	if second.PlayCount != 2 {
		t.Fatalf("expected play_count 2, got %d", second.PlayCount)
	}
	if first.LastPlayedAt == nil || second.LastPlayedAt == nil {
		t.Fatal("expected last_played_at to be set")
	}
	if second.LastPlayedAt.Before(*first.LastPlayedAt) {
		t.Fatalf("second play %v precedes first %v", second.LastPlayedAt, first.LastPlayedAt)
	}
}

func TestMarkPlayedMissingSongReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	if _, err := songs.MarkPlayed(9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyUpdateLeavesUpdatedAtUntouched(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	id := createSong(t, songs, store.NewSong{Title: "Stable"})

	before, err := songs.Get(id)
	if err != nil {
		t.Fatalf("Get before: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := songs.Update(id, store.SongUpdate{}); err != nil {
		t.Fatalf("empty Update: %v", err)
	}

	after, err := songs.Get(id)
	if err != nil {
		t.Fatalf("Get after: %v", err)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updated_at changed by empty update: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestPartialUpdateTouchesOnlySuppliedFields(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	id := createSong(t, songs, store.NewSong{
		Title:  "Original",
		Lyrics: "la la la",
		Key:    "Em",
	})

	before, err := songs.Get(id)
	if err != nil {
		t.Fatalf("Get before: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	title := "Renamed"
	if err := songs.Update(id, store.SongUpdate{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after, err := songs.Get(id)
	if err != nil {
		t.Fatalf("Get after: %v", err)
	}
	if after.Title != "Renamed" {
		t.Fatalf("expected title %q, got %q", "Renamed", after.Title)
	}
	if after.Lyrics != before.Lyrics || after.Key != before.Key || after.Readiness != before.Readiness {
		t.Fatal("fields other than title changed")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updated_at not refreshed: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpdateMissingSongIsNoop(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	title := "Ghost"
	if err := songs.Update(9999, store.SongUpdate{Title: &title}); err != nil {
		t.Fatalf("Update on missing id: %v", err)
	}
}

func TestUpdateSetsAndClearsGuitarReference(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	guitars := NewGuitars(db)

	guitarID, err := guitars.Create(store.NewGuitar{Name: "Test Tele", Type: models.GuitarElectric})
	if err != nil {
		t.Fatalf("create guitar: %v", err)
	}
	songID := createSong(t, songs, store.NewSong{Title: "Wired"})

	set := sql.NullInt64{Int64: int64(guitarID), Valid: true}
	if err := songs.Update(songID, store.SongUpdate{GuitarID: &set}); err != nil {
		t.Fatalf("set guitar_id: %v", err)
	}

	song, err := songs.Get(songID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if song.GuitarID == nil || *song.GuitarID != guitarID {
		t.Fatalf("expected guitar_id %d, got %v", guitarID, song.GuitarID)
	}
	if song.GuitarInfo == nil || song.GuitarInfo.Name != "Test Tele" {
		t.Fatalf("expected joined guitar info, got %+v", song.GuitarInfo)
	}

	cleared := sql.NullInt64{}
	if err := songs.Update(songID, store.SongUpdate{GuitarID: &cleared}); err != nil {
		t.Fatalf("clear guitar_id: %v", err)
	}

	song, err = songs.Get(songID)
	if err != nil {
		t.Fatalf("Get after clear: %v", err)
	}
	if song.GuitarID != nil {
		t.Fatalf("expected guitar_id cleared, got %v", *song.GuitarID)
	}
	if song.GuitarInfo != nil {
		t.Fatal("expected no joined guitar info after clear")
	}
}

func TestDeleteCascadesFileRows(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	files := NewFiles(db)

	songID := createSong(t, songs, store.NewSong{Title: "Doomed"})
	for _, name := range []string{"a.mp3", "b.zip"} {
		if _, err := files.Create(store.NewFile{
			SongID:       songID,
			Filename:     "stored-" + name,
			OriginalName: name,
			FileType:     models.FileTypeAudio,
			FilePath:     "/tmp/" + name,
			FileSize:     10,
		}); err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
	}

	removed, err := songs.Delete(songID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed file records, got %d", len(removed))
	}

	if _, err := songs.Get(songID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected deleted song to be gone, got %v", err)
	}

	remaining, err := files.ListBySong(songID)
	if err != nil {
		t.Fatalf("ListBySong: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no file rows after cascade, got %d", len(remaining))
	}
}

func TestDeleteMissingSongIsNoop(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	removed, err := songs.Delete(9999)
	if err != nil {
		t.Fatalf("Delete on missing id: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected no removed files, got %d", len(removed))
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	createSong(t, songs, store.NewSong{Title: "Logic Jam", Lyrics: "practice logic"})
	createSong(t, songs, store.NewSong{Title: "Unrelated"})

	for _, query := range []string{"logic", "LOGIC", "Logic"} {
		results, err := songs.Search(query, nil)
		if err != nil {
			t.Fatalf("Search(%q): %v", query, err)
		}
		if len(results) != 1 || results[0].Title != "Logic Jam" {
			t.Fatalf("Search(%q): expected only Logic Jam, got %d results", query, len(results))
		}
	}
}

func TestSearchMatchesJoinedGuitarName(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	guitars := NewGuitars(db)

	guitarID, err := guitars.Create(store.NewGuitar{Name: "Dreadnought Special", Type: models.GuitarAcoustic})
	if err != nil {
		t.Fatalf("create guitar: %v", err)
	}
	createSong(t, songs, store.NewSong{Title: "Campfire", GuitarID: &guitarID})
	createSong(t, songs, store.NewSong{Title: "Other"})

	results, err := songs.Search("dreadnought", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Campfire" {
		t.Fatalf("expected Campfire via guitar name, got %d results", len(results))
	}
}

func TestSearchReadinessFilterNarrows(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	createSong(t, songs, store.NewSong{Title: "riff one", Readiness: models.ReadinessIdea})
	createSong(t, songs, store.NewSong{Title: "riff two", Readiness: models.ReadinessGigReady})

	readiness := models.ReadinessGigReady
	results, err := songs.Search("riff", &readiness)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "riff two" {
		t.Fatalf("expected only the GigReady song, got %d results", len(results))
	}
}

func TestListExcludeArchived(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	createSong(t, songs, store.NewSong{Title: "Live", Readiness: models.ReadinessPractice})
	createSong(t, songs, store.NewSong{Title: "Shelved", Readiness: models.ReadinessArchived})

	results, err := songs.List(store.ListOptions{ExcludeArchived: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, song := range results {
		if song.Readiness == models.ReadinessArchived {
			t.Fatalf("archived song %q leaked into results", song.Title)
		}
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 song, got %d", len(results))
	}
}

func TestListReadinessFilter(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	createSong(t, songs, store.NewSong{Title: "One", Readiness: models.ReadinessIdea})
	createSong(t, songs, store.NewSong{Title: "Two", Readiness: models.ReadinessWriting})

	readiness := models.ReadinessIdea
	results, err := songs.List(store.ListOptions{Readiness: &readiness})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(results) != 1 || results[0].Title != "One" {
		t.Fatalf("expected only the Idea song, got %d results", len(results))
	}
}

func TestPlayedOldestSortsNeverPlayedLast(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	ancientID := createSong(t, songs, store.NewSong{Title: "Ancient"})
	createSong(t, songs, store.NewSong{Title: "Never Played"})

	tenYearsAgo := time.Now().UTC().AddDate(-10, 0, 0)
	if _, err := db.Exec(`UPDATE songs SET last_played_at = ? WHERE id = ?`, tenYearsAgo, ancientID); err != nil {
		t.Fatalf("backdating last_played_at: %v", err)
	}

	results, err := songs.List(store.ListOptions{Sort: store.SortPlayedOldest})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(results))
	}
	if results[0].Title != "Ancient" || results[1].Title != "Never Played" {
		t.Fatalf("wrong order: %q then %q", results[0].Title, results[1].Title)
	}
}

func TestPlayedRecentSortsNeverPlayedLast(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)

	playedID := createSong(t, songs, store.NewSong{Title: "Fresh"})
	createSong(t, songs, store.NewSong{Title: "Silent"})

	if _, err := songs.MarkPlayed(playedID); err != nil {
		t.Fatalf("MarkPlayed: %v", err)
	}

	results, err := songs.List(store.ListOptions{Sort: store.SortPlayedRecent})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if results[0].Title != "Fresh" {
		t.Fatalf("expected the played song first, got %q", results[0].Title)
	}
	if results[len(results)-1].Title != "Silent" {
		t.Fatalf("expected the never-played song last, got %q", results[len(results)-1].Title)
	}
}

func TestSeedGuitarsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	guitars := NewGuitars(db)

	first, err := guitars.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != len(store.SeedGuitars) {
		t.Fatalf("expected %d seeded guitars, got %d", len(store.SeedGuitars), len(first))
	}

	// Re-running schema setup must not duplicate the catalog.
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	second, err := guitars.List()
	if err != nil {
		t.Fatalf("List after reseed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("seed re-ran: %d -> %d guitars", len(first), len(second))
	}
}

func TestGuitarCRUDAndSearch(t *testing.T) {
	db := openTestDB(t)
	guitars := NewGuitars(db)

	notes := "maple neck"
	id, err := guitars.Create(store.NewGuitar{Name: "Custom Shop", Type: models.GuitarElectric, Notes: &notes})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	guitar, err := guitars.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if guitar.Name != "Custom Shop" || guitar.Type != models.GuitarElectric {
		t.Fatalf("unexpected guitar: %+v", guitar)
	}
	if guitar.Notes == nil || *guitar.Notes != notes {
		t.Fatalf("expected notes %q, got %v", notes, guitar.Notes)
	}

	results, err := guitars.Search("MAPLE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != id {
		t.Fatalf("expected the custom guitar via notes search, got %d results", len(results))
	}

	newName := "Custom Shop 2"
	if err := guitars.Update(id, store.GuitarUpdate{Name: &newName}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	guitar, err = guitars.Get(id)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if guitar.Name != newName {
		t.Fatalf("expected renamed guitar, got %q", guitar.Name)
	}

	if err := guitars.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := guitars.Get(id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeletingGuitarLeavesSoftReference(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	guitars := NewGuitars(db)

	guitarID, err := guitars.Create(store.NewGuitar{Name: "Short Lived", Type: models.GuitarBass})
	if err != nil {
		t.Fatalf("create guitar: %v", err)
	}
	songID := createSong(t, songs, store.NewSong{Title: "Bass Line", GuitarID: &guitarID})

	if err := guitars.Delete(guitarID); err != nil {
		t.Fatalf("delete guitar: %v", err)
	}

	song, err := songs.Get(songID)
	if err != nil {
		t.Fatalf("Get song: %v", err)
	}
	if song.GuitarID == nil || *song.GuitarID != guitarID {
		t.Fatal("expected dangling guitar_id to survive guitar deletion")
	}
	if song.GuitarInfo != nil {
		t.Fatal("expected no joined guitar info for a deleted guitar")
	}
}

func TestFilesListBySongNewestFirst(t *testing.T) {
	db := openTestDB(t)
	songs := NewSongs(db)
	files := NewFiles(db)

	songID := createSong(t, songs, store.NewSong{Title: "With Files"})

	firstID, err := files.Create(store.NewFile{
		SongID: songID, Filename: "one.mp3", OriginalName: "one.mp3",
		FileType: models.FileTypeAudio, FilePath: "/tmp/one.mp3", FileSize: 1,
	})
	if err != nil {
		t.Fatalf("create first file: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	secondID, err := files.Create(store.NewFile{
		SongID: songID, Filename: "two.zip", OriginalName: "two.zip",
		FileType: models.FileTypeLogic, FilePath: "/tmp/two.zip", FileSize: 2,
	})
	if err != nil {
		t.Fatalf("create second file: %v", err)
	}

	listed, err := files.ListBySong(songID)
	if err != nil {
		t.Fatalf("ListBySong: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 files, got %d", len(listed))
	}
	if listed[0].ID != secondID || listed[1].ID != firstID {
		t.Fatalf("expected newest first, got ids %d, %d", listed[0].ID, listed[1].ID)
	}
}
