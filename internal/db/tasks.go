package db

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/tgienger/taskui/internal/models"
)

const taskColumns = `id, title, description, due_date, is_completed`

// nullable stores empty optional text as NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var (
		t  models.Task
		id int64
	)
	if err := row.Scan(&id, &t.Title, &t.Description, &t.DueDate, &t.IsCompleted); err != nil {
		return models.Task{}, err
	}
	t.ID = models.TaskID(strconv.FormatInt(id, 10))
	return t, nil
}

func parseID(id models.TaskID) (int64, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return n, nil
}

// CreateTask creates a new task
func (db *DB) CreateTask(f models.FormState) (*models.Task, error) {
	result, err := db.Exec(`
		INSERT INTO tasks (title, description, due_date, is_completed) VALUES (?, ?, ?, ?)
	`, f.Title, nullable(f.Description), nullable(f.DueDate), f.IsCompleted)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(models.TaskID(strconv.FormatInt(id, 10)))
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id models.TaskID) (*models.Task, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	t, err := scanTask(db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, n))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns all tasks in creation order
func (db *DB) ListTasks() ([]models.Task, error) {
	rows, err := db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask replaces a task's editable fields
func (db *DB) UpdateTask(id models.TaskID, f models.FormState) (*models.Task, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	result, err := db.Exec(`
		UPDATE tasks SET title = ?, description = ?, due_date = ?, is_completed = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, f.Title, nullable(f.Description), nullable(f.DueDate), f.IsCompleted, n)
	if err != nil {
		return nil, err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}
	return db.GetTask(id)
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(id models.TaskID) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := db.Exec("DELETE FROM tasks WHERE id = ?", n)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
