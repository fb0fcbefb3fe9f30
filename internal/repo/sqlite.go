package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// SQLiteRepo keeps the task collection in an embedded SQLite database.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	if err := migrate(db, "sqlite3", "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, completed)
		VALUES (?, ?)
		RETURNING id, title, completed
	`, t.Title, t.Completed).Scan(&t.ID, &t.Title, &t.Completed)
	return t, err
}

func (r *SQLiteRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, completed FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Completed)

	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *SQLiteRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, completed FROM tasks ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = ?, completed = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING id, title, completed
	`, t.Title, t.Completed, t.ID).Scan(&t.ID, &t.Title, &t.Completed)

	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM tasks")
	return err
}

func (r *SQLiteRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET resource_id = excluded.resource_id
	`, key, resourceID)
	return err
}

func (r *SQLiteRepo) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT resource_id FROM idempotency_keys WHERE key = ?
	`, key).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrorNotFound
	}
	return id, err
}
