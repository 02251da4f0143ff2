package db

import (
	"context"
	"database/sql"
	"errors"

	"notes-api/models"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user insert hits the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnauthorized covers both a missing note and a note owned by
	// someone else, so callers cannot tell the two apart.
	ErrUnauthorized = errors.New("note missing or not owned by caller")
)

const mysqlDupEntry = 1062

type CreateUserParams struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

type ChecklistItemParams struct {
	Text   string
	Order  int
	IsDone bool
}

type CreateNoteParams struct {
	Title   string
	Content string
	Type    models.NoteType
	OwnerID int
	Items   []ChecklistItemParams
}

type UpdateNoteParams struct {
	Title   string
	Content string
	Type    models.NoteType
	Items   []ChecklistItemParams
}

// Store is the persistence gateway for users, notes and checklist items.
type Store interface {
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateNote(ctx context.Context, params CreateNoteParams) (models.Note, error)
	FindNoteByID(ctx context.Context, id int) (models.Note, error)
	FindNoteByIDAndOwner(ctx context.Context, id, ownerID int) (models.Note, error)
	FindNotesByOwner(ctx context.Context, ownerID int) ([]models.Note, error)
	UpdateNote(ctx context.Context, id int, params UpdateNoteParams) (models.Note, error)
	DeleteNote(ctx context.Context, id, ownerID int) (models.Note, error)
}

// SQLStore implements Store on top of a *sql.DB connection pool.
type SQLStore struct {
	conn *sql.DB
}

func NewSQLStore(conn *sql.DB) *SQLStore {
	return &SQLStore{conn: conn}
}

func (s *SQLStore) CreateUser(ctx context.Context, params CreateUserParams) (models.User, error) {
	res, err := s.conn.ExecContext(ctx,
		"INSERT INTO users (email, first_name, last_name, password_hash) VALUES (?, ?, ?, ?)",
		params.Email, params.FirstName, params.LastName, params.PasswordHash)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntry {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.conn.QueryRowContext(ctx,
		"SELECT id, email, first_name, last_name, password_hash, created_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.conn.QueryRowContext(ctx,
		"SELECT id, email, first_name, last_name, password_hash, created_at FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *SQLStore) CreateNote(ctx context.Context, params CreateNoteParams) (models.Note, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO notes (title, content, type, owner_id) VALUES (?, ?, ?, ?)",
		params.Title, params.Content, params.Type, params.OwnerID)
	if err != nil {
		return models.Note{}, err
	}

	noteID, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, err
	}

	items, err := insertChecklistItems(ctx, tx, int(noteID), params.Items)
	if err != nil {
		return models.Note{}, err
	}

	var note models.Note
	err = tx.QueryRowContext(ctx,
		"SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ?", noteID).
		Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.OwnerID, &note.CreatedAt)
	if err != nil {
		return models.Note{}, err
	}
	note.ListItems = items

	if err := tx.Commit(); err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (s *SQLStore) FindNoteByID(ctx context.Context, id int) (models.Note, error) {
	var note models.Note
	err := s.conn.QueryRowContext(ctx,
		"SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ?", id).
		Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.OwnerID, &note.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}

	note.ListItems, err = s.loadChecklistItems(ctx, note.ID)
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (s *SQLStore) FindNoteByIDAndOwner(ctx context.Context, id, ownerID int) (models.Note, error) {
	var note models.Note
	err := s.conn.QueryRowContext(ctx,
		"SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ? AND owner_id = ?", id, ownerID).
		Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.OwnerID, &note.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (s *SQLStore) FindNotesByOwner(ctx context.Context, ownerID int) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, title, content, type, owner_id, created_at FROM notes WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.OwnerID, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range notes {
		notes[i].ListItems, err = s.loadChecklistItems(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return notes, nil
}

// UpdateNote updates title/content and, for CHECKLIST notes, replaces the
// whole checklist inside the same transaction so a failure cannot leave the
// note with zero items.
func (s *SQLStore) UpdateNote(ctx context.Context, id int, params UpdateNoteParams) (models.Note, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, err
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx, "SELECT id FROM notes WHERE id = ?", id).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}

	var items []models.ChecklistItem
	if params.Type == models.NoteTypeChecklist {
		if _, err := tx.ExecContext(ctx, "DELETE FROM checklist_items WHERE note_id = ?", id); err != nil {
			return models.Note{}, err
		}
		items, err = insertChecklistItems(ctx, tx, id, params.Items)
		if err != nil {
			return models.Note{}, err
		}
	}

	// type is fixed at creation; edits only touch title/content and,
	// for checklists, the items.
	if _, err := tx.ExecContext(ctx,
		"UPDATE notes SET title = ?, content = ? WHERE id = ?",
		params.Title, params.Content, id); err != nil {
		return models.Note{}, err
	}

	var note models.Note
	err = tx.QueryRowContext(ctx,
		"SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ?", id).
		Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.OwnerID, &note.CreatedAt)
	if err != nil {
		return models.Note{}, err
	}
	note.ListItems = items

	if err := tx.Commit(); err != nil {
		return models.Note{}, err
	}

	return note, nil
}

// DeleteNote removes the note filtered by id AND owner in one conditional
// statement. A zero row count means "missing or not yours" and both map to
// ErrUnauthorized, so existence is never leaked.
func (s *SQLStore) DeleteNote(ctx context.Context, id, ownerID int) (models.Note, error) {
	var note models.Note
	err := s.conn.QueryRowContext(ctx,
		"SELECT id, title, content, type, owner_id, created_at FROM notes WHERE id = ? AND owner_id = ?", id, ownerID).
		Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.OwnerID, &note.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrUnauthorized
	}
	if err != nil {
		return models.Note{}, err
	}

	res, err := s.conn.ExecContext(ctx, "DELETE FROM notes WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return models.Note{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Note{}, err
	}
	if affected == 0 {
		return models.Note{}, ErrUnauthorized
	}

	return note, nil
}

func (s *SQLStore) loadChecklistItems(ctx context.Context, noteID int) ([]models.ChecklistItem, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, text, item_order, is_done, note_id FROM checklist_items WHERE note_id = ? ORDER BY item_order ASC", noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ChecklistItem
	for rows.Next() {
		var item models.ChecklistItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Order, &item.IsDone, &item.OwnerID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func insertChecklistItems(ctx context.Context, tx *sql.Tx, noteID int, params []ChecklistItemParams) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	for _, p := range params {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO checklist_items (text, item_order, is_done, note_id) VALUES (?, ?, ?, ?)",
			p.Text, p.Order, p.IsDone, noteID)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		items = append(items, models.ChecklistItem{
			ID:      int(id),
			Text:    p.Text,
			Order:   p.Order,
			IsDone:  p.IsDone,
			OwnerID: noteID,
		})
	}

	return items, nil
}
