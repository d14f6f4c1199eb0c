package repository

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrUserNotFound.Error() != "user not found" {
		t.Fatalf("unexpected error message: %s", ErrUserNotFound.Error())
	}
	if ErrDuplicateUser.Error() != "user already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateUser.Error())
	}
	if ErrEntryNotFound.Error() != "movie entry not found" {
		t.Fatalf("unexpected error message: %s", ErrEntryNotFound.Error())
	}
	if ErrShareNotFound.Error() != "shared list not found" {
		t.Fatalf("unexpected error message: %s", ErrShareNotFound.Error())
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	if isDuplicateEntryError(nil) {
		t.Fatal("nil error should not be a duplicate entry error")
	}
	if isDuplicateEntryError(ErrUserNotFound) {
		t.Fatal("ErrUserNotFound should not be a duplicate entry error")
	}

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'PRIMARY'"}
	if !isDuplicateEntryError(dup) {
		t.Fatal("1062 should be a duplicate entry error")
	}
	if !isDuplicateEntryError(fmt.Errorf("insert: %w", dup)) {
		t.Fatal("wrapped 1062 should be a duplicate entry error")
	}
}

func TestIsRetryableTxError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock", &mysql.MySQLError{Number: 1213}, true},
		{"lock wait timeout", &mysql.MySQLError{Number: 1205}, true},
		{"wrapped deadlock", fmt.Errorf("tx: %w", &mysql.MySQLError{Number: 1213}), true},
		{"duplicate", &mysql.MySQLError{Number: 1062}, false},
		{"plain", ErrEntryNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableTxError(tt.err); got != tt.want {
				t.Errorf("isRetryableTxError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Error("empty string should be NULL")
	}
	if ns := nullString("Ana"); !ns.Valid || ns.String != "Ana" {
		t.Errorf("nullString(Ana) = %+v", ns)
	}
}
