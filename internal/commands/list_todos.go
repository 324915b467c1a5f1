package commands

import (
	"context"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// ListTodos returns every todo belonging to an owner. Listing someone
// else's todos requires admin rights.
type ListTodos struct {
	todos repository.TodoRepository
}

func NewListTodos(todos repository.TodoRepository) *ListTodos {
	return &ListTodos{todos: todos}
}

func (command *ListTodos) Execute(ctx context.Context, actor models.User, ownerID string) ([]models.Todo, error) {
	if ownerID == "" {
		ownerID = actor.ID
	}
	if err := Authorize(actor, ownerID); err != nil {
		return nil, err
	}
	return command.todos.FindAllByOwner(ctx, ownerID)
}
