// Package sqlite provides a SQLite-backed task store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/clinova/taskcal/model"
	"github.com/clinova/taskcal/taskstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	clinic_id        TEXT NOT NULL,
	id               TEXT NOT NULL,
	title            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	recurrence       TEXT NOT NULL,
	due_type         TEXT NOT NULL,
	custom_due_date  TEXT,
	due_date         TEXT,
	generated_date   TEXT,
	created_at       TEXT NOT NULL,
	completed_at     TEXT,
	assigned_to      TEXT NOT NULL DEFAULT '',
	claimed_by       TEXT NOT NULL DEFAULT '',
	completed_by     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (clinic_id, id)
);
CREATE INDEX IF NOT EXISTS idx_tasks_clinic ON tasks(clinic_id);
`

// Store implements taskstore.Store over a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the task database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutTask inserts or replaces a task after validating its enum fields.
func (s *Store) PutTask(ctx context.Context, clinicID string, task model.Task) (model.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task rejected", Err: err}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tasks
		 (clinic_id, id, title, status, recurrence, due_type,
		  custom_due_date, due_date, generated_date, created_at, completed_at,
		  assigned_to, claimed_by, completed_by)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		clinicID, task.ID, task.Title, string(task.Status), string(task.Recurrence), string(task.DueType),
		nullTime(task.CustomDueDate), nullTime(task.DueDate), nullTime(task.GeneratedDate),
		task.CreatedAt.Format(time.RFC3339Nano), nullTime(task.CompletedAt),
		task.AssignedTo, task.ClaimedBy, task.CompletedBy,
	)
	if err != nil {
		return model.Task{}, &taskstore.Error{Type: taskstore.ErrUnavailable, Message: "put task", Err: err}
	}
	return task, nil
}

// ListTasks implements taskstore.Source.
func (s *Store) ListTasks(ctx context.Context, clinicID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, status, recurrence, due_type,
		        custom_due_date, due_date, generated_date, created_at, completed_at,
		        assigned_to, claimed_by, completed_by
		   FROM tasks WHERE clinic_id = ? ORDER BY id`, clinicID)
	if err != nil {
		return nil, &taskstore.Error{Type: taskstore.ErrUnavailable, Message: "list tasks", Err: err}
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			task                              model.Task
			status, recurrence, dueType       string
			customDue, due, generated         sql.NullString
			createdAt                         string
			completedAt                       sql.NullString
		)
		if err := rows.Scan(&task.ID, &task.Title, &status, &recurrence, &dueType,
			&customDue, &due, &generated, &createdAt, &completedAt,
			&task.AssignedTo, &task.ClaimedBy, &task.CompletedBy); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrUnavailable, Message: "scan task", Err: err}
		}

		// Rows re-cross the model boundary here; a row that fails enum
		// validation is a store integrity error, not a task to process.
		if task.Status, err = model.ParseStatus(status); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID, Err: err}
		}
		if task.Recurrence, err = model.ParseRecurrence(recurrence); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID, Err: err}
		}
		if task.DueType, err = model.ParseDueType(dueType); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID, Err: err}
		}

		if task.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID + ": bad created_at", Err: err}
		}
		if task.CustomDueDate, err = parseNullTime(customDue); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID + ": bad custom_due_date", Err: err}
		}
		if task.DueDate, err = parseNullTime(due); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID + ": bad due_date", Err: err}
		}
		if task.GeneratedDate, err = parseNullTime(generated); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID + ": bad generated_date", Err: err}
		}
		if task.CompletedAt, err = parseNullTime(completedAt); err != nil {
			return nil, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task " + task.ID + ": bad completed_at", Err: err}
		}

		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, &taskstore.Error{Type: taskstore.ErrUnavailable, Message: "list tasks", Err: err}
	}
	return tasks, nil
}

// DeleteTask implements taskstore.Store.
func (s *Store) DeleteTask(ctx context.Context, clinicID, taskID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE clinic_id = ? AND id = ?`, clinicID, taskID)
	if err != nil {
		return &taskstore.Error{Type: taskstore.ErrUnavailable, Message: "delete task", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &taskstore.Error{Type: taskstore.ErrNotFound, Message: "no task " + taskID}
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
