package commands

import (
	"context"
	"time"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// UpdateTodo replaces a todo's mutable fields from a payload. The type and
// owner are immutable and the payload's variant must match the stored type;
// actions are untouched and only grow through CompleteTodo.
type UpdateTodo struct {
	todos repository.TodoRepository

	// Now is the clock; override in tests.
	Now func() time.Time
}

func NewUpdateTodo(todos repository.TodoRepository) *UpdateTodo {
	return &UpdateTodo{todos: todos, Now: time.Now}
}

func (command *UpdateTodo) Execute(ctx context.Context, actor models.User, todoID string, input TodoInput) (models.Todo, error) {
	existing, err := command.todos.FindByID(ctx, todoID)
	if err != nil {
		return models.Todo{}, err
	}
	if err := Authorize(actor, existing.OwnerID); err != nil {
		return models.Todo{}, err
	}

	updated, err := buildTodo(input, existing.Type, existing.OwnerID)
	if err != nil {
		return models.Todo{}, err
	}
	updated.ID = existing.ID
	updated.Actions = existing.Actions
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = command.Now()

	return command.todos.Update(ctx, updated)
}
