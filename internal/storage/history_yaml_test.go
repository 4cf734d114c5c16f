package storage_test

import (
	"testing"
	"time"

	"lapclock/internal/core/model"
	"lapclock/internal/storage"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := storage.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.AutoRestart {
		t.Error("AutoRestart = true, want false")
	}
	if len(settings.Recipes) != 0 {
		t.Errorf("Recipes = %d entries, want 0", len(settings.Recipes))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	older := time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC)

	saved := storage.Settings{
		AutoRestart: true,
		Recipes: []model.TimerConfiguration{
			{ID: "tabata", Laps: 8, WorkDuration: 20 * time.Second, RestDuration: 10 * time.Second, LastUsed: older},
			{ID: "emom", Laps: 10, WorkDuration: time.Minute, LastUsed: newer},
		},
	}
	if err := storage.Save(dir, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := storage.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.AutoRestart {
		t.Error("AutoRestart = false, want true")
	}
	if len(loaded.Recipes) != 2 {
		t.Fatalf("Recipes = %d entries, want 2", len(loaded.Recipes))
	}
	// Most recently used first.
	if loaded.Recipes[0].ID != "emom" || loaded.Recipes[1].ID != "tabata" {
		t.Errorf("recency order = [%s %s], want [emom tabata]", loaded.Recipes[0].ID, loaded.Recipes[1].ID)
	}
	if loaded.Recipes[1].WorkDuration != 20*time.Second {
		t.Errorf("work duration = %v, want 20s", loaded.Recipes[1].WorkDuration)
	}
	if !loaded.Recipes[0].LastUsed.Equal(newer) {
		t.Errorf("lastUsed = %v, want %v", loaded.Recipes[0].LastUsed, newer)
	}
}

func TestLoadClampsOutOfRangeRecipes(t *testing.T) {
	dir := t.TempDir()
	saved := storage.Settings{
		Recipes: []model.TimerConfiguration{
			{ID: "bogus", Laps: 5000, WorkDuration: 2 * time.Hour, RestDuration: time.Hour},
		},
	}
	if err := storage.Save(dir, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := storage.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	recipe := loaded.Recipes[0]
	if recipe.Laps != model.MaxLaps {
		t.Errorf("laps = %d, want %d", recipe.Laps, model.MaxLaps)
	}
	if recipe.WorkDuration != model.MaxWorkDuration {
		t.Errorf("work = %v, want %v", recipe.WorkDuration, model.MaxWorkDuration)
	}
	if recipe.RestDuration != model.MaxRestDuration {
		t.Errorf("rest = %v, want %v", recipe.RestDuration, model.MaxRestDuration)
	}
}

func TestStoreCurrentFallsBackToDefault(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, want := store.Current(), model.DefaultConfiguration(); got != want {
		t.Errorf("Current() = %+v, want default %+v", got, want)
	}
}

func TestStoreSaveRecipeUpsertsAndReorders(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	base := time.Date(2026, 8, 25, 7, 0, 0, 0, time.UTC)
	first := model.TimerConfiguration{ID: "hiit", Laps: 12, WorkDuration: 40 * time.Second, RestDuration: 20 * time.Second}
	second := model.TimerConfiguration{ID: "emom", Laps: 10, WorkDuration: time.Minute}

	if err := store.SaveRecipe(first, base); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if err := store.SaveRecipe(second, base.Add(time.Hour)); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if got := store.Current().ID; got != "emom" {
		t.Errorf("Current().ID = %q, want emom", got)
	}

	// Re-saving an existing ID updates in place and bumps recency.
	first.Laps = 15
	if err := store.SaveRecipe(first, base.Add(2*time.Hour)); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if got := store.Current(); got.ID != "hiit" || got.Laps != 15 {
		t.Errorf("Current() = %+v, want updated hiit with 15 laps", got)
	}
	if len(store.Recipes()) != 2 {
		t.Errorf("Recipes = %d entries, want 2", len(store.Recipes()))
	}

	// Changes survive a reopen.
	reopened, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Current(); got.ID != "hiit" || got.Laps != 15 {
		t.Errorf("reopened Current() = %+v, want updated hiit", got)
	}
}

func TestStoreTouchBumpsRecency(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	base := time.Date(2026, 8, 25, 7, 0, 0, 0, time.UTC)
	if err := store.SaveRecipe(model.TimerConfiguration{ID: "a", Laps: 1, WorkDuration: time.Minute}, base); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if err := store.SaveRecipe(model.TimerConfiguration{ID: "b", Laps: 1, WorkDuration: time.Minute}, base.Add(time.Minute)); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}

	if err := store.Touch("a", base.Add(time.Hour)); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if got := store.Current().ID; got != "a" {
		t.Errorf("Current().ID after Touch = %q, want a", got)
	}

	// Unknown IDs are ignored.
	if err := store.Touch("missing", base.Add(2*time.Hour)); err != nil {
		t.Fatalf("Touch unknown: %v", err)
	}
	if got := store.Current().ID; got != "a" {
		t.Errorf("Current().ID after unknown Touch = %q, want a", got)
	}
}

func TestStoreSetAutoRestartPersists(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.SetAutoRestart(true); err != nil {
		t.Fatalf("SetAutoRestart: %v", err)
	}
	reopened, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.AutoRestart() {
		t.Error("AutoRestart not persisted")
	}
}
