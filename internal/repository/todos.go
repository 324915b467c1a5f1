package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avelis/habitdo/internal/models"
	"github.com/google/uuid"
)

var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository is the persistence boundary for todo aggregates. Reads
// return fully-populated aggregates: categories, tags and actions are always
// loaded.
type TodoRepository interface {
	FindByID(ctx context.Context, id string) (models.Todo, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]models.Todo, error)
	Create(ctx context.Context, todo models.Todo) (models.Todo, error)
	Update(ctx context.Context, todo models.Todo) (models.Todo, error)
	AddAction(ctx context.Context, todoID string, action models.Action) (models.Todo, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteTodoRepository struct {
	database *sql.DB
}

func NewTodoRepository(database *sql.DB) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{database: database}
}

const todoColumns = `id, owner_id, name, description, todo_type, completion_points,
	points_per, frequency, period_type, period_amount, period_start, buffer_type, buffer_amount,
	repeat_type, repeat_when, required,
	created_at, updated_at`

func (repository *SQLiteTodoRepository) FindByID(ctx context.Context, id string) (models.Todo, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id,
	)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, fmt.Errorf("finding todo %s: %w", id, ErrTodoNotFound)
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("finding todo by id: %w", err)
	}

	if err := repository.loadChildren(ctx, &todo); err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (repository *SQLiteTodoRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE owner_id = ? ORDER BY created_at, name", ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding todos by owner: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range todos {
		if err := repository.loadChildren(ctx, &todos[i]); err != nil {
			return nil, err
		}
	}
	return todos, nil
}

func (repository *SQLiteTodoRepository) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt.IsZero() {
		now := time.Now()
		todo.CreatedAt = now
		todo.UpdatedAt = now
	}

	subtype, err := subtypeColumns(todo)
	if err != nil {
		return models.Todo{}, err
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Todo{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	_, err = transaction.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.OwnerID, todo.Name, todo.Description, todo.Type, todo.CompletionPoints,
		subtype.pointsPer, subtype.frequency, subtype.periodType, subtype.periodAmount,
		subtype.periodStart, subtype.bufferType, subtype.bufferAmount,
		subtype.repeatType, subtype.repeatWhen, subtype.required,
		todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return models.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	if err := insertChildren(ctx, transaction, &todo); err != nil {
		return models.Todo{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Todo{}, fmt.Errorf("committing todo: %w", err)
	}
	return todo, nil
}

func (repository *SQLiteTodoRepository) Update(ctx context.Context, todo models.Todo) (models.Todo, error) {
	subtype, err := subtypeColumns(todo)
	if err != nil {
		return models.Todo{}, err
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Todo{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		`UPDATE todos SET name = ?, description = ?, completion_points = ?,
			points_per = ?, frequency = ?, period_type = ?, period_amount = ?, period_start = ?,
			buffer_type = ?, buffer_amount = ?,
			repeat_type = ?, repeat_when = ?, required = ?,
			updated_at = ?
		WHERE id = ?`,
		todo.Name, todo.Description, todo.CompletionPoints,
		subtype.pointsPer, subtype.frequency, subtype.periodType, subtype.periodAmount,
		subtype.periodStart, subtype.bufferType, subtype.bufferAmount,
		subtype.repeatType, subtype.repeatWhen, subtype.required,
		todo.UpdatedAt, todo.ID,
	)
	if err != nil {
		return models.Todo{}, fmt.Errorf("updating todo: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.Todo{}, fmt.Errorf("updating todo %s: %w", todo.ID, ErrTodoNotFound)
	}

	// Categories and tags are rewritten wholesale; actions only ever grow
	// through AddAction.
	for _, table := range []string{"todo_categories", "todo_tags"} {
		if _, err := transaction.ExecContext(ctx, "DELETE FROM "+table+" WHERE todo_id = ?", todo.ID); err != nil {
			return models.Todo{}, fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	for i := range todo.Categories {
		if todo.Categories[i].ID == "" {
			todo.Categories[i].ID = uuid.New().String()
		}
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO todo_categories (id, todo_id, name) VALUES (?, ?, ?)",
			todo.Categories[i].ID, todo.ID, todo.Categories[i].Name,
		); err != nil {
			return models.Todo{}, fmt.Errorf("inserting category: %w", err)
		}
	}
	for i := range todo.Tags {
		if todo.Tags[i].ID == "" {
			todo.Tags[i].ID = uuid.New().String()
		}
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO todo_tags (id, todo_id, name) VALUES (?, ?, ?)",
			todo.Tags[i].ID, todo.ID, todo.Tags[i].Name,
		); err != nil {
			return models.Todo{}, fmt.Errorf("inserting tag: %w", err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return models.Todo{}, fmt.Errorf("committing todo update: %w", err)
	}

	return repository.FindByID(ctx, todo.ID)
}

func (repository *SQLiteTodoRepository) AddAction(ctx context.Context, todoID string, action models.Action) (models.Todo, error) {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Todo{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		"UPDATE todos SET updated_at = ? WHERE id = ?", action.Date, todoID,
	)
	if err != nil {
		return models.Todo{}, fmt.Errorf("touching todo: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.Todo{}, fmt.Errorf("adding action to todo %s: %w", todoID, ErrTodoNotFound)
	}

	if _, err := transaction.ExecContext(ctx,
		"INSERT INTO todo_actions (id, todo_id, action_date, points, created_at) VALUES (?, ?, ?, ?, ?)",
		action.ID, todoID, action.Date, action.Points, time.Now(),
	); err != nil {
		return models.Todo{}, fmt.Errorf("inserting action: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return models.Todo{}, fmt.Errorf("committing action: %w", err)
	}

	return repository.FindByID(ctx, todoID)
}

func (repository *SQLiteTodoRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("deleting todo %s: %w", id, ErrTodoNotFound)
	}
	return nil
}

type subtypeValues struct {
	pointsPer    *int
	frequency    *int
	periodType   *string
	periodAmount *int
	periodStart  *time.Time
	bufferType   *string
	bufferAmount *int
	repeatType   *string
	repeatWhen   *string
	required     *bool
}

func subtypeColumns(todo models.Todo) (subtypeValues, error) {
	var values subtypeValues
	switch todo.Type {
	case models.TodoTypeHabit:
		if todo.Habit == nil {
			return values, fmt.Errorf("habit todo %s has no habit payload", todo.ID)
		}
		habit := todo.Habit
		periodType := string(habit.Period.Type)
		bufferType := string(habit.Buffer.Type)
		values.pointsPer = &habit.PointsPer
		values.frequency = &habit.Frequency
		values.periodType = &periodType
		values.periodAmount = &habit.Period.Amount
		values.periodStart = habit.Period.Start
		values.bufferType = &bufferType
		values.bufferAmount = &habit.Buffer.Amount
	case models.TodoTypeReoccur:
		if todo.Reoccur == nil {
			return values, fmt.Errorf("reoccur todo %s has no reoccur payload", todo.ID)
		}
		reoccur := todo.Reoccur
		repeatType := string(reoccur.Repeat.Type)
		encoded, err := json.Marshal(reoccur.Repeat.When)
		if err != nil {
			return values, fmt.Errorf("encoding repeat days: %w", err)
		}
		when := string(encoded)
		values.repeatType = &repeatType
		values.repeatWhen = &when
		values.required = &reoccur.Required
	}
	return values, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (models.Todo, error) {
	var todo models.Todo
	var values subtypeValues

	err := row.Scan(
		&todo.ID, &todo.OwnerID, &todo.Name, &todo.Description, &todo.Type, &todo.CompletionPoints,
		&values.pointsPer, &values.frequency, &values.periodType, &values.periodAmount,
		&values.periodStart, &values.bufferType, &values.bufferAmount,
		&values.repeatType, &values.repeatWhen, &values.required,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		return models.Todo{}, err
	}

	switch todo.Type {
	case models.TodoTypeHabit:
		habit := &models.Habit{}
		if values.pointsPer != nil {
			habit.PointsPer = *values.pointsPer
		}
		if values.frequency != nil {
			habit.Frequency = *values.frequency
		}
		if values.periodType != nil {
			habit.Period.Type = models.PeriodType(*values.periodType)
		}
		if values.periodAmount != nil {
			habit.Period.Amount = *values.periodAmount
		}
		habit.Period.Start = values.periodStart
		if values.bufferType != nil {
			habit.Buffer.Type = models.BufferType(*values.bufferType)
		}
		if values.bufferAmount != nil {
			habit.Buffer.Amount = *values.bufferAmount
		}
		todo.Habit = habit
	case models.TodoTypeReoccur:
		reoccur := &models.Reoccur{}
		if values.repeatType != nil {
			reoccur.Repeat.Type = models.RepeatType(*values.repeatType)
		}
		if values.repeatWhen != nil {
			if err := json.Unmarshal([]byte(*values.repeatWhen), &reoccur.Repeat.When); err != nil {
				return models.Todo{}, fmt.Errorf("decoding repeat days: %w", err)
			}
		}
		if values.required != nil {
			reoccur.Required = *values.required
		}
		todo.Reoccur = reoccur
	}

	return todo, nil
}

func insertChildren(ctx context.Context, transaction *sql.Tx, todo *models.Todo) error {
	for i := range todo.Categories {
		if todo.Categories[i].ID == "" {
			todo.Categories[i].ID = uuid.New().String()
		}
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO todo_categories (id, todo_id, name) VALUES (?, ?, ?)",
			todo.Categories[i].ID, todo.ID, todo.Categories[i].Name,
		); err != nil {
			return fmt.Errorf("inserting category: %w", err)
		}
	}
	for i := range todo.Tags {
		if todo.Tags[i].ID == "" {
			todo.Tags[i].ID = uuid.New().String()
		}
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO todo_tags (id, todo_id, name) VALUES (?, ?, ?)",
			todo.Tags[i].ID, todo.ID, todo.Tags[i].Name,
		); err != nil {
			return fmt.Errorf("inserting tag: %w", err)
		}
	}
	for i := range todo.Actions {
		if todo.Actions[i].ID == "" {
			todo.Actions[i].ID = uuid.New().String()
		}
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO todo_actions (id, todo_id, action_date, points, created_at) VALUES (?, ?, ?, ?, ?)",
			todo.Actions[i].ID, todo.ID, todo.Actions[i].Date, todo.Actions[i].Points, time.Now(),
		); err != nil {
			return fmt.Errorf("inserting action: %w", err)
		}
	}
	return nil
}

func (repository *SQLiteTodoRepository) loadChildren(ctx context.Context, todo *models.Todo) error {
	categoryRows, err := repository.database.QueryContext(ctx,
		"SELECT id, name FROM todo_categories WHERE todo_id = ? ORDER BY name", todo.ID,
	)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	defer categoryRows.Close()
	for categoryRows.Next() {
		var category models.Category
		if err := categoryRows.Scan(&category.ID, &category.Name); err != nil {
			return fmt.Errorf("scanning category: %w", err)
		}
		todo.Categories = append(todo.Categories, category)
	}
	if err := categoryRows.Err(); err != nil {
		return err
	}

	tagRows, err := repository.database.QueryContext(ctx,
		"SELECT id, name FROM todo_tags WHERE todo_id = ? ORDER BY name", todo.ID,
	)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag models.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Name); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		todo.Tags = append(todo.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	actionRows, err := repository.database.QueryContext(ctx,
		"SELECT id, action_date, points FROM todo_actions WHERE todo_id = ? ORDER BY action_date, created_at", todo.ID,
	)
	if err != nil {
		return fmt.Errorf("loading actions: %w", err)
	}
	defer actionRows.Close()
	for actionRows.Next() {
		var action models.Action
		if err := actionRows.Scan(&action.ID, &action.Date, &action.Points); err != nil {
			return fmt.Errorf("scanning action: %w", err)
		}
		todo.Actions = append(todo.Actions, action)
	}
	return actionRows.Err()
}
