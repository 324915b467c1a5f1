package commands_test

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

// fakeTodoRepository is an in-memory TodoRepository for command tests.
type fakeTodoRepository struct {
	todos  []models.Todo
	nextID int
}

func (fake *fakeTodoRepository) FindByID(ctx context.Context, id string) (models.Todo, error) {
	for _, todo := range fake.todos {
		if todo.ID == id {
			return todo, nil
		}
	}
	return models.Todo{}, fmt.Errorf("finding todo %s: %w", id, repository.ErrTodoNotFound)
}

func (fake *fakeTodoRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	var owned []models.Todo
	for _, todo := range fake.todos {
		if todo.OwnerID == ownerID {
			owned = append(owned, todo)
		}
	}
	return owned, nil
}

func (fake *fakeTodoRepository) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	if todo.ID == "" {
		fake.nextID++
		todo.ID = "todo-" + strconv.Itoa(fake.nextID)
	}
	fake.todos = append(fake.todos, todo)
	return todo, nil
}

func (fake *fakeTodoRepository) Update(ctx context.Context, todo models.Todo) (models.Todo, error) {
	for i := range fake.todos {
		if fake.todos[i].ID == todo.ID {
			fake.todos[i] = todo
			return todo, nil
		}
	}
	return models.Todo{}, fmt.Errorf("updating todo %s: %w", todo.ID, repository.ErrTodoNotFound)
}

func (fake *fakeTodoRepository) AddAction(ctx context.Context, todoID string, action models.Action) (models.Todo, error) {
	for i := range fake.todos {
		if fake.todos[i].ID == todoID {
			fake.todos[i].Actions = append(fake.todos[i].Actions, action)
			fake.todos[i].UpdatedAt = action.Date
			return fake.todos[i], nil
		}
	}
	return models.Todo{}, fmt.Errorf("adding action to todo %s: %w", todoID, repository.ErrTodoNotFound)
}

func (fake *fakeTodoRepository) Delete(ctx context.Context, id string) error {
	for i := range fake.todos {
		if fake.todos[i].ID == id {
			fake.todos = append(fake.todos[:i], fake.todos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("deleting todo %s: %w", id, repository.ErrTodoNotFound)
}

func frozenClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
