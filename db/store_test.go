package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"notes-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock setup failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewSQLStore(conn), mock
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "password_hash", "created_at"}).
		AddRow(1, "a@b.com", "A", "B", "$2a$10$hash", time.Now())
}

func noteRow(id int, title string, noteType string, owner int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "type", "owner_id", "created_at"}).
		AddRow(id, title, "C", noteType, owner, time.Now())
}

func TestCreateUser(t *testing.T) {
	t.Run("Duplicate email maps to ErrDuplicateEmail", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, first_name, last_name, password_hash) VALUES (?, ?, ?, ?)")).
			WithArgs("a@b.com", "A", "B", "$2a$10$hash").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		_, err := store.CreateUser(context.Background(), CreateUserParams{
			Email: "a@b.com", FirstName: "A", LastName: "B", PasswordHash: "$2a$10$hash",
		})
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail, got %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})

	t.Run("Successful insert reads the row back", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, first_name, last_name, password_hash) VALUES (?, ?, ?, ?)")).
			WithArgs("a@b.com", "A", "B", "$2a$10$hash").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, first_name, last_name, password_hash, created_at FROM users WHERE id = ?")).
			WithArgs(int64(1)).
			WillReturnRows(userRow())

		user, err := store.CreateUser(context.Background(), CreateUserParams{
			Email: "a@b.com", FirstName: "A", LastName: "B", PasswordHash: "$2a$10$hash",
		})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if user.ID != 1 || user.Email != "a@b.com" {
			t.Errorf("Unexpected user: %+v", user)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}

func TestFindUserByEmail(t *testing.T) {
	t.Run("Missing user maps to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, first_name, last_name, password_hash, created_at FROM users WHERE email = ?")).
			WithArgs("nobody@b.com").
			WillReturnError(sql.ErrNoRows)

		_, err := store.FindUserByEmail(context.Background(), "nobody@b.com")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteNoteStore(t *testing.T) {
	t.Run("Owned note is deleted and returned", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ? AND owner_id = ?")).
			WithArgs(1, 1).
			WillReturnRows(noteRow(1, "T", "TEXT", 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = ? AND owner_id = ?")).
			WithArgs(1, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		note, err := store.DeleteNote(context.Background(), 1, 1)
		if err != nil {
			t.Fatalf("DeleteNote returned error: %v", err)
		}
		if note.ID != 1 {
			t.Errorf("Expected deleted note 1, got %+v", note)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})

	t.Run("Wrong owner maps to ErrUnauthorized", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ? AND owner_id = ?")).
			WithArgs(1, 2).
			WillReturnError(sql.ErrNoRows)

		_, err := store.DeleteNote(context.Background(), 1, 2)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("Row vanishing between read and delete maps to ErrUnauthorized", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ? AND owner_id = ?")).
			WithArgs(1, 1).
			WillReturnRows(noteRow(1, "T", "TEXT", 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = ? AND owner_id = ?")).
			WithArgs(1, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := store.DeleteNote(context.Background(), 1, 1)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUpdateNoteStore(t *testing.T) {
	t.Run("Checklist replacement runs inside one transaction", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM notes WHERE id = ?")).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checklist_items WHERE note_id = ?")).
			WithArgs(2).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checklist_items (text, item_order, is_done, note_id) VALUES (?, ?, ?, ?)")).
			WithArgs("butter", 0, false, 2).
			WillReturnResult(sqlmock.NewResult(10, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checklist_items (text, item_order, is_done, note_id) VALUES (?, ?, ?, ?)")).
			WithArgs("jam", 1, true, 2).
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE notes SET title = ?, content = ? WHERE id = ?")).
			WithArgs("Groceries v2", "", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ?")).
			WithArgs(2).
			WillReturnRows(noteRow(2, "Groceries v2", "CHECKLIST", 1))
		mock.ExpectCommit()

		note, err := store.UpdateNote(context.Background(), 2, UpdateNoteParams{
			Title: "Groceries v2",
			Type:  models.NoteTypeChecklist,
			Items: []ChecklistItemParams{
				{Text: "butter", Order: 0, IsDone: false},
				{Text: "jam", Order: 1, IsDone: true},
			},
		})
		if err != nil {
			t.Fatalf("UpdateNote returned error: %v", err)
		}
		if len(note.ListItems) != 2 {
			t.Errorf("Expected 2 replaced items, got %d", len(note.ListItems))
		}
		if note.ListItems[0].OwnerID != 2 {
			t.Errorf("Expected item ownerId 2, got %d", note.ListItems[0].OwnerID)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})

	t.Run("Missing note maps to ErrNotFound and rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM notes WHERE id = ?")).
			WithArgs(999).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := store.UpdateNote(context.Background(), 999, UpdateNoteParams{
			Title: "T", Type: models.NoteTypeText,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}
