package commands

import (
	"context"
	"time"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// CompleteTodo logs a completion action against a todo. Habits earn their
// points-per-completion; tasks and reoccurs earn the todo's completion
// points.
type CompleteTodo struct {
	todos repository.TodoRepository

	// Now is the clock; override in tests.
	Now func() time.Time
}

func NewCompleteTodo(todos repository.TodoRepository) *CompleteTodo {
	return &CompleteTodo{todos: todos, Now: time.Now}
}

func (command *CompleteTodo) Execute(ctx context.Context, actor models.User, todoID string) (models.Todo, error) {
	todo, err := command.todos.FindByID(ctx, todoID)
	if err != nil {
		return models.Todo{}, err
	}
	if err := Authorize(actor, todo.OwnerID); err != nil {
		return models.Todo{}, err
	}

	points := todo.CompletionPoints
	if todo.Type == models.TodoTypeHabit && todo.Habit != nil {
		points = todo.Habit.PointsPer
	}

	action := models.Action{
		Date:   command.Now(),
		Points: points,
	}
	return command.todos.AddAction(ctx, todo.ID, action)
}
