package models

import "time"

type NoteType string

const (
	NoteTypeText      NoteType = "TEXT"
	NoteTypeChecklist NoteType = "CHECKLIST"
)

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Note struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Type      NoteType        `json:"type"`
	OwnerID   int             `json:"ownerId"`
	ListItems []ChecklistItem `json:"listItems,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ChecklistItem belongs to exactly one note; OwnerID is the note id.
type ChecklistItem struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Order   int    `json:"order"`
	IsDone  bool   `json:"isDone"`
	OwnerID int    `json:"ownerId"`
}
