package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/vidlib/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the videos table.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS videos (
			category TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			length TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
			featured INTEGER NOT NULL DEFAULT 0,
			visible INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (category, id)
		);

		CREATE INDEX IF NOT EXISTS idx_videos_category_position ON videos(category, position);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds the events table.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		);
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

const videoColumns = `id, category, title, thumbnail_url, length, price, featured, visible, created_at`

// scanVideos reads video rows in videoColumns order.
func scanVideos(rows *sql.Rows) ([]model.Video, error) {
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		var v model.Video
		var featured, visible int
		var createdAtStr string

		if err := rows.Scan(
			&v.ID, &v.Category, &v.Title, &v.ThumbnailURL, &v.Length,
			&v.Price, &featured, &visible, &createdAtStr,
		); err != nil {
			return nil, err
		}

		v.Featured = featured == 1
		v.Visible = visible == 1
		v.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)

		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Load reads the whole library from the SQLite database.
func (s *SQLiteStorage) Load() (*model.Library, error) {
	ctx := context.Background()
	lib := model.NewLibrary()

	rows, err := s.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY category, position`)
	if err != nil {
		return nil, err
	}
	videos, err := scanVideos(rows)
	if err != nil {
		return nil, err
	}
	lib.Videos = videos

	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	lib.Events = events

	return lib, nil
}

// Save writes the library to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(lib *model.Library) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec("DELETE FROM videos"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}

	videoStmt, err := tx.Prepare(`
		INSERT INTO videos (` + videoColumns + `, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer videoStmt.Close()

	for i, v := range lib.Videos {
		if _, err := videoStmt.Exec(
			v.ID, v.Category, v.Title, v.ThumbnailURL, v.Length, v.Price,
			boolInt(v.Featured), boolInt(v.Visible), v.CreatedAt.Format(time.RFC3339), i,
		); err != nil {
			return err
		}
	}

	eventStmt, err := tx.Prepare(`
		INSERT INTO events (id, title, date, time, location, description, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer eventStmt.Close()

	for i, e := range lib.Events {
		if _, err := eventStmt.Exec(e.ID, e.Title, e.Date, e.Time, e.Location, e.Description, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListVideos returns the videos of category in insertion order.
func (s *SQLiteStorage) ListVideos(ctx context.Context, category string) ([]model.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE category = ? ORDER BY position`, category)
	if err != nil {
		return nil, err
	}
	return scanVideos(rows)
}

// CreateVideo inserts video at the end of its category with a fresh UUID.
func (s *SQLiteStorage) CreateVideo(ctx context.Context, video model.Video) (string, error) {
	video.ID = model.GenerateUUID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (`+videoColumns+`, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM videos WHERE category = ?))
	`,
		video.ID, video.Category, video.Title, video.ThumbnailURL, video.Length, video.Price,
		boolInt(video.Featured), boolInt(video.Visible), video.CreatedAt.Format(time.RFC3339),
		video.Category,
	)
	if err != nil {
		return "", err
	}
	return video.ID, nil
}

// UpdateVideo rewrites the mutable fields of an existing video.
func (s *SQLiteStorage) UpdateVideo(ctx context.Context, video model.Video) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE videos
		SET title = ?, thumbnail_url = ?, length = ?, price = ?, featured = ?, visible = ?
		WHERE category = ? AND id = ?
	`,
		video.Title, video.ThumbnailURL, video.Length, video.Price,
		boolInt(video.Featured), boolInt(video.Visible),
		video.Category, video.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "video", video.ID)
}

// DeleteVideo removes the video with id from category.
func (s *SQLiteStorage) DeleteVideo(ctx context.Context, category, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE category = ? AND id = ?`, category, id)
	if err != nil {
		return err
	}
	return requireRow(res, "video", id)
}

// ListEvents returns events in insertion order.
func (s *SQLiteStorage) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, date, time, location, description
		FROM events
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Description); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent inserts event, assigning a UUID when it has no id.
func (s *SQLiteStorage) CreateEvent(ctx context.Context, event model.Event) (string, error) {
	if event.ID == "" {
		event.ID = model.GenerateUUID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, date, time, location, description, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM events))
	`, event.ID, event.Title, event.Date, event.Time, event.Location, event.Description)
	if err != nil {
		return "", err
	}
	return event.ID, nil
}

// DeleteEvent removes the event with id.
func (s *SQLiteStorage) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "event", id)
}

// requireRow turns a zero-row result into a not-found error.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFoundError(kind, id)
	}
	return nil
}
