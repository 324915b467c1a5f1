package commands

import (
	"context"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// DeleteTodo removes a todo and its categories, tags and actions.
type DeleteTodo struct {
	todos repository.TodoRepository
}

func NewDeleteTodo(todos repository.TodoRepository) *DeleteTodo {
	return &DeleteTodo{todos: todos}
}

func (command *DeleteTodo) Execute(ctx context.Context, actor models.User, todoID string) error {
	todo, err := command.todos.FindByID(ctx, todoID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, todo.OwnerID); err != nil {
		return err
	}
	return command.todos.Delete(ctx, todo.ID)
}
