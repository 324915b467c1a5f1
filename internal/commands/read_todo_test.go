package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/avelis/habitdo/internal/commands"
	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
)

func seededRepo(ownerID string) *fakeTodoRepository {
	return &fakeTodoRepository{
		todos: []models.Todo{
			{
				ID:      "abc",
				OwnerID: ownerID,
				Name:    "reoccur",
				Type:    models.TodoTypeReoccur,
				Reoccur: &models.Reoccur{
					Repeat: models.Repeat{Type: models.RepeatDayOfWeek, When: []string{"Sunday"}},
				},
			},
		},
	}
}

func TestReadTodo_AsOwner(t *testing.T) {
	repo := seededRepo("user-1")
	command := commands.NewReadTodo(repo)

	actor := models.User{ID: "user-1", Role: models.RoleMember}

	todo, err := command.Execute(context.Background(), actor, "abc")
	if err != nil {
		t.Fatalf("reading todo: %v", err)
	}
	if todo.ID != "abc" {
		t.Errorf("expected todo 'abc', got '%s'", todo.ID)
	}
}

func TestReadTodo_ForeignOwnerUnauthorized(t *testing.T) {
	repo := seededRepo("user-2")
	command := commands.NewReadTodo(repo)

	actor := models.User{ID: "user-1", Role: models.RoleMember}

	_, err := command.Execute(context.Background(), actor, "abc")
	if !errors.Is(err, commands.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReadTodo_AdminMayReadAnyOwner(t *testing.T) {
	repo := seededRepo("user-2")
	command := commands.NewReadTodo(repo)

	admin := models.User{ID: "admin-1", Role: models.RoleAdmin}

	todo, err := command.Execute(context.Background(), admin, "abc")
	if err != nil {
		t.Fatalf("reading todo as admin: %v", err)
	}
	if todo.OwnerID != "user-2" {
		t.Errorf("expected owner 'user-2', got '%s'", todo.OwnerID)
	}
}

func TestReadTodo_NotFound(t *testing.T) {
	command := commands.NewReadTodo(&fakeTodoRepository{})

	actor := models.User{ID: "user-1", Role: models.RoleMember}

	_, err := command.Execute(context.Background(), actor, "missing")
	if !errors.Is(err, repository.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}
