package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// In-memory databases are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestCreateAndFindUser(t *testing.T) {
	store := setupTestStore(t)

	created, err := store.CreateUser(12345, "hash-a")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateUser returned zero ID")
	}
	if !created.IsActive {
		t.Error("new user should be active")
	}

	found, err := store.UserByTelegramID(12345)
	if err != nil {
		t.Fatalf("UserByTelegramID: %v", err)
	}
	if found == nil {
		t.Fatal("UserByTelegramID returned nil for existing user")
	}
	if found.TokenHash != "hash-a" {
		t.Errorf("TokenHash = %q, want hash-a", found.TokenHash)
	}

	absent, err := store.UserByTelegramID(99999)
	if err != nil {
		t.Fatalf("UserByTelegramID absent: %v", err)
	}
	if absent != nil {
		t.Errorf("UserByTelegramID for unknown user = %+v, want nil", absent)
	}
}

func TestCreateAndFindCity(t *testing.T) {
	store := setupTestStore(t)
	user, err := store.CreateUser(1, "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	city, err := store.CreateCity(user.ID, "Paris", 48.85, 2.35)
	if err != nil {
		t.Fatalf("CreateCity: %v", err)
	}
	if city.ID == 0 {
		t.Error("CreateCity returned zero ID")
	}

	found, err := store.FindCityByName("Paris")
	if err != nil {
		t.Fatalf("FindCityByName: %v", err)
	}
	if found == nil {
		t.Fatal("FindCityByName returned nil for existing city")
	}
	if found.Latitude != 48.85 || found.Longitude != 2.35 {
		t.Errorf("coordinates = (%v, %v), want (48.85, 2.35)", found.Latitude, found.Longitude)
	}

	absent, err := store.FindCityByName("Nowhere")
	if err != nil {
		t.Fatalf("FindCityByName absent: %v", err)
	}
	if absent != nil {
		t.Errorf("FindCityByName for unknown city = %+v, want nil", absent)
	}

	cities, err := store.ListCities()
	if err != nil {
		t.Fatalf("ListCities: %v", err)
	}
	if len(cities) != 1 {
		t.Errorf("len(cities) = %d, want 1", len(cities))
	}
}

func TestUpsertForecastOverwritesInPlace(t *testing.T) {
	store := setupTestStore(t)
	user, _ := store.CreateUser(1, "hash")
	city, _ := store.CreateCity(user.ID, "Paris", 48.85, 2.35)

	first := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	if err := store.UpsertForecast(city.ID, `{"old":true}`, first); err != nil {
		t.Fatalf("first UpsertForecast: %v", err)
	}

	second := first.Add(13 * time.Hour)
	if err := store.UpsertForecast(city.ID, `{"new":true}`, second); err != nil {
		t.Fatalf("second UpsertForecast: %v", err)
	}

	fc, err := store.FindForecastByCityID(city.ID)
	if err != nil {
		t.Fatalf("FindForecastByCityID: %v", err)
	}
	if fc == nil {
		t.Fatal("FindForecastByCityID returned nil")
	}
	if fc.Data != `{"new":true}` {
		t.Errorf("Data = %q, want overwritten payload", fc.Data)
	}
	if !fc.CapturedAt.Equal(second) {
		t.Errorf("CapturedAt = %v, want %v", fc.CapturedAt, second)
	}

	var count int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM forecasts WHERE city_id = ?", city.ID).Scan(&count); err != nil {
		t.Fatalf("count forecasts: %v", err)
	}
	if count != 1 {
		t.Errorf("forecast rows = %d, want 1 (upsert must not append)", count)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	store := setupTestStore(t)
	user, _ := store.CreateUser(777, "hash")
	city, _ := store.CreateCity(user.ID, "Lyon", 45.76, 4.84)
	if err := store.UpsertForecast(city.ID, `{}`, time.Now().UTC()); err != nil {
		t.Fatalf("UpsertForecast: %v", err)
	}

	if err := store.DeleteUser(777); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if c, _ := store.FindCityByName("Lyon"); c != nil {
		t.Error("city survived user deletion")
	}
	if f, _ := store.FindForecastByCityID(city.ID); f != nil {
		t.Error("forecast survived user deletion")
	}
}
