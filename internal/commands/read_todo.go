package commands

import (
	"context"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// ReadTodo fetches a todo by id for the acting user. A missing id is
// reported as not found for every actor; an existing todo owned by someone
// else fails the authorization check before any data is returned.
type ReadTodo struct {
	todos repository.TodoRepository
}

func NewReadTodo(todos repository.TodoRepository) *ReadTodo {
	return &ReadTodo{todos: todos}
}

func (command *ReadTodo) Execute(ctx context.Context, actor models.User, todoID string) (models.Todo, error) {
	todo, err := command.todos.FindByID(ctx, todoID)
	if err != nil {
		return models.Todo{}, err
	}
	if err := Authorize(actor, todo.OwnerID); err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}
