// Package dbtest provides an in-memory Store for handler and router tests.
package dbtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"notes-api/db"
	"notes-api/models"
)

type Store struct {
	mu         sync.Mutex
	users      map[int]models.User
	notes      map[int]models.Note
	nextUserID int
	nextNoteID int
	nextItemID int
}

var _ db.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:      make(map[int]models.User),
		notes:      make(map[int]models.Note),
		nextUserID: 1,
		nextNoteID: 1,
		nextItemID: 1,
	}
}

func (s *Store) CreateUser(_ context.Context, params db.CreateUserParams) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == params.Email {
			return models.User{}, db.ErrDuplicateEmail
		}
	}

	user := models.User{
		ID:           s.nextUserID,
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	s.nextUserID++

	return user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}

	return models.User{}, db.ErrNotFound
}

func (s *Store) CreateNote(_ context.Context, params db.CreateNoteParams) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := models.Note{
		ID:        s.nextNoteID,
		Title:     params.Title,
		Content:   params.Content,
		Type:      params.Type,
		OwnerID:   params.OwnerID,
		CreatedAt: time.Now(),
	}
	s.nextNoteID++
	note.ListItems = s.buildItems(note.ID, params.Items)
	s.notes[note.ID] = note

	return note, nil
}

func (s *Store) FindNoteByID(_ context.Context, id int) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return models.Note{}, db.ErrNotFound
	}

	return note, nil
}

func (s *Store) FindNoteByIDAndOwner(_ context.Context, id, ownerID int) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok || note.OwnerID != ownerID {
		return models.Note{}, db.ErrNotFound
	}

	return note, nil
}

func (s *Store) FindNotesByOwner(_ context.Context, ownerID int) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notes []models.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })

	return notes, nil
}

func (s *Store) UpdateNote(_ context.Context, id int, params db.UpdateNoteParams) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return models.Note{}, db.ErrNotFound
	}

	note.Title = params.Title
	note.Content = params.Content
	if params.Type == models.NoteTypeChecklist {
		note.ListItems = s.buildItems(id, params.Items)
	}
	s.notes[id] = note

	return note, nil
}

func (s *Store) DeleteNote(_ context.Context, id, ownerID int) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok || note.OwnerID != ownerID {
		return models.Note{}, db.ErrUnauthorized
	}
	delete(s.notes, id)

	return note, nil
}

func (s *Store) buildItems(noteID int, params []db.ChecklistItemParams) []models.ChecklistItem {
	var items []models.ChecklistItem
	for _, p := range params {
		items = append(items, models.ChecklistItem{
			ID:      s.nextItemID,
			Text:    p.Text,
			Order:   p.Order,
			IsDone:  p.IsDone,
			OwnerID: noteID,
		})
		s.nextItemID++
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	return items
}
