package auth

import (
	"context"
	"errors"
	"testing"
)

func TestUserRepository_CreateAndGetByID(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
	}
	if err := user.SetPassword("pw123"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Fatal("Create() should generate an ID")
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Username != "alice" {
		t.Errorf("Username = %q, want alice", got.Username)
	}
	if got.FirstName != "Alice" || got.LastName != "Smith" {
		t.Errorf("name = %q %q, want Alice Smith", got.FirstName, got.LastName)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", got.Email)
	}
	if got.IsAdmin {
		t.Error("IsAdmin should default to false")
	}
	if !got.Check("pw123") {
		t.Error("stored hash should verify the original password")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	user := seedTestUser(t, db, "bob")

	got, err := repo.GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByUsername(ctx, "nonexistent"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByUsername error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByID(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedTestUser(t, db, "duplicate")

	user := &User{
		Username:  "duplicate",
		FirstName: "Other",
		LastName:  "Person",
		Email:     "other@example.com",
	}
	if err := user.SetPassword("pw"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	if err := repo.Create(ctx, user); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("error = %v, want ErrDuplicateIdentity", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedTestUser(t, db, "first") // email first@example.com

	user := &User{
		Username:  "second",
		FirstName: "Second",
		LastName:  "Person",
		Email:     "first@example.com",
	}
	if err := user.SetPassword("pw"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	if err := repo.Create(ctx, user); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("error = %v, want ErrDuplicateIdentity", err)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, db, "carol")

	hash, err := HashPassword("new-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.Check("new-password") {
		t.Error("new password should verify")
	}
	if got.Check("test-password") {
		t.Error("old password should no longer verify")
	}
}

func TestUserRepository_UpdatePassword_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	err := repo.UpdatePassword(context.Background(), "usr-missing", "hash")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DeleteAndCount(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, db, "dave")

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error after delete = %v, want ErrUserNotFound", err)
	}

	if err := repo.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete error = %v, want ErrUserNotFound", err)
	}
}
