package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/avelis/habitdo/internal/testutil"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	users := repository.NewUserRepository(db)

	created, err := users.Create(context.Background(), models.User{
		Subject: "auth0|abc",
		Email:   "alice@example.com",
		Name:    "Alice",
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Role != models.RoleMember {
		t.Errorf("expected default member role, got %v", created.Role)
	}

	byID, err := users.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("finding by id: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", byID)
	}

	bySubject, err := users.FindBySubject(context.Background(), "auth0|abc")
	if err != nil {
		t.Fatalf("finding by subject: %v", err)
	}
	if bySubject.ID != created.ID {
		t.Errorf("expected same user, got %+v", bySubject)
	}
}

func TestUserRepository_FindBySubject_Missing(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	users := repository.NewUserRepository(db)

	_, err := users.FindBySubject(context.Background(), "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserRepository_UpdateRoleAndCount(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	users := repository.NewUserRepository(db)

	count, err := users.Count(context.Background())
	if err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d", count)
	}

	created, err := users.Create(context.Background(), models.User{Subject: "s", Name: "Bob"})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}

	if err := users.UpdateRole(context.Background(), created.ID, models.RoleAdmin); err != nil {
		t.Fatalf("updating role: %v", err)
	}
	updated, err := users.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("finding user: %v", err)
	}
	if !updated.IsAdmin() {
		t.Errorf("expected admin role, got %v", updated.Role)
	}

	count, err = users.Count(context.Background())
	if err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}
