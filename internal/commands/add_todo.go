package commands

import (
	"context"
	"time"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// AddTodo creates a todo of a given type on behalf of the acting user, or of
// another owner when the actor is an admin.
type AddTodo struct {
	todos repository.TodoRepository

	// Now is the clock; override in tests.
	Now func() time.Time
}

func NewAddTodo(todos repository.TodoRepository) *AddTodo {
	return &AddTodo{todos: todos, Now: time.Now}
}

func (command *AddTodo) Execute(ctx context.Context, actor models.User, input TodoInput, todoType models.TodoType) (models.Todo, error) {
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = actor.ID
	}
	if err := Authorize(actor, ownerID); err != nil {
		return models.Todo{}, err
	}

	todo, err := buildTodo(input, todoType, ownerID)
	if err != nil {
		return models.Todo{}, err
	}

	// One sampled timestamp for both dates; they compare equal at creation.
	now := command.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	return command.todos.Create(ctx, todo)
}
