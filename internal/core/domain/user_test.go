package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("Should create user with normalized email", func(t *testing.T) {
		t.Parallel()

		dirtyEmail := "  Movie.Buff@Gmail.COM  "
		id := "123"

		user, err := NewUser(id, dirtyEmail)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		expectedEmail := "movie.buff@gmail.com"
		if user.Email != expectedEmail {
			t.Errorf("Expected email %s, got %s", expectedEmail, user.Email)
		}

		if user.ID != id {
			t.Errorf("Expected id %s, got %s", id, user.ID)
		}

		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("Should default display name to local part of email", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("123", "Movie.Buff@quizreel.app")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.DisplayName != "movie.buff" {
			t.Errorf("Expected display name movie.buff, got %s", user.DisplayName)
		}
	})

	t.Run("Should fail with invalid email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("123", "invalid-email-format")

		if err != ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	t.Run("Should override default and update timestamp", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		oldUpdatedAt := user.UpdatedAt
		time.Sleep(1 * time.Millisecond)

		if err := user.SetDisplayName("  Cinephile42  "); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.DisplayName != "Cinephile42" {
			t.Errorf("Expected trimmed display name, got %q", user.DisplayName)
		}

		if !user.UpdatedAt.After(oldUpdatedAt) {
			t.Error("UpdatedAt should be updated after setting display name")
		}
	})

	t.Run("Empty name keeps the current one", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		if err := user.SetDisplayName("   "); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.DisplayName != "test" {
			t.Errorf("Expected display name to stay test, got %q", user.DisplayName)
		}
	})

	t.Run("Should reject names over the limit", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		err := user.SetDisplayName(strings.Repeat("x", maxDisplayNameLength+1))
		if err != ErrDisplayNameTooLong {
			t.Errorf("Expected ErrDisplayNameTooLong, got %v", err)
		}

		if user.DisplayName != "test" {
			t.Errorf("Rejected name should not be stored, got %q", user.DisplayName)
		}
	})
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Should hash password correctly and update timestamp", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")
		plainPass := "superSecret123"

		oldUpdatedAt := user.UpdatedAt

		time.Sleep(1 * time.Millisecond)

		err := user.SetPassword(plainPass)
		if err != nil {
			t.Fatalf("Expected no error setting password, got %v", err)
		}

		if user.PasswordHash == plainPass {
			t.Error("Password should be hashed, not plain text")
		}

		if len(user.PasswordHash) == 0 {
			t.Error("Password hash should not be empty")
		}

		if !user.UpdatedAt.After(oldUpdatedAt) {
			t.Error("UpdatedAt should be updated after setting password")
		}
	})

	t.Run("Should validate password length", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		err := user.SetPassword("short")
		if err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("CheckPassword should work", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")
		pass := "correctPassword"
		_ = user.SetPassword(pass)

		if err := user.CheckPassword(pass); err != nil {
			t.Errorf("Expected password to match, got error: %v", err)
		}

		if err := user.CheckPassword("wrongPassword"); err == nil {
			t.Error("Expected error for wrong password, got nil")
		}
	})
}
