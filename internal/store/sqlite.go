package store

import (
	"database/sql"
	"time"

	"meteobot/internal/models"
)

// Store wraps the SQLite database. Every method is a single statement, so
// each call is atomic on its own; no cross-row transactions are needed.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

// CreateUser inserts a new registered user keyed by their chat identity.
func (s *Store) CreateUser(telegramID int64, tokenHash string) (models.User, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO users (telegram_id, token_hash, created_at, is_active)
		VALUES (?, ?, ?, TRUE)
	`, telegramID, tokenHash, now)
	if err != nil {
		return models.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, TelegramID: telegramID, TokenHash: tokenHash, CreatedAt: now, IsActive: true}, nil
}

// UserByTelegramID returns the user for a chat identity, or nil when absent.
func (s *Store) UserByTelegramID(telegramID int64) (*models.User, error) {
	var u models.User
	var updatedAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, telegram_id, token_hash, created_at, updated_at, is_active
		FROM users WHERE telegram_id = ?
	`, telegramID).Scan(&u.ID, &u.TelegramID, &u.TokenHash, &u.CreatedAt, &updatedAt, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return &u, nil
}

// DeleteUser removes a user by chat identity. Cities and forecasts cascade.
func (s *Store) DeleteUser(telegramID int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE telegram_id = ?`, telegramID)
	return err
}

// FindCityByName looks up a city by its resolved name. The match is by name
// alone, not per user: the coordinate cache is shared at city granularity.
// Returns nil when absent.
func (s *Store) FindCityByName(name string) (*models.City, error) {
	var c models.City
	err := s.db.QueryRow(`
		SELECT id, user_id, name, latitude, longitude
		FROM cities WHERE name = ? LIMIT 1
	`, name).Scan(&c.ID, &c.UserID, &c.Name, &c.Latitude, &c.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCity records a freshly geocoded place. The coordinate cache is
// write-once: rows are never updated afterwards.
func (s *Store) CreateCity(userID int64, name string, lat, lon float64) (models.City, error) {
	result, err := s.db.Exec(`
		INSERT INTO cities (user_id, name, latitude, longitude)
		VALUES (?, ?, ?, ?)
	`, userID, name, lat, lon)
	if err != nil {
		return models.City{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.City{}, err
	}
	return models.City{ID: id, UserID: userID, Name: name, Latitude: lat, Longitude: lon}, nil
}

func (s *Store) ListCities() ([]models.City, error) {
	rows, err := s.db.Query(`SELECT id, user_id, name, latitude, longitude FROM cities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Latitude, &c.Longitude); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// FindForecastByCityID returns the cached forecast for a city, or nil when
// none has been captured yet.
func (s *Store) FindForecastByCityID(cityID int64) (*models.Forecast, error) {
	var f models.Forecast
	err := s.db.QueryRow(`
		SELECT id, city_id, forecast_data, captured_at
		FROM forecasts WHERE city_id = ?
	`, cityID).Scan(&f.ID, &f.CityID, &f.Data, &f.CapturedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.CapturedAt = f.CapturedAt.UTC()
	return &f, nil
}

// UpsertForecast overwrites the single forecast row for a city with a new
// payload and its capture time.
func (s *Store) UpsertForecast(cityID int64, payload string, capturedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO forecasts (city_id, forecast_data, captured_at)
		VALUES (?, ?, ?)
		ON CONFLICT(city_id) DO UPDATE SET
			forecast_data = excluded.forecast_data,
			captured_at = excluded.captured_at
	`, cityID, payload, capturedAt.UTC())
	return err
}
