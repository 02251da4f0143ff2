package validators

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// NoteListItem uses pointer fields so that order 0 and isDone false still
// count as present.
type NoteListItem struct {
	Text   string `json:"text" validate:"required"`
	Order  *int   `json:"order" validate:"required"`
	IsDone *bool  `json:"isDone" validate:"required"`
}

type NoteRequest struct {
	Title     string         `json:"title" validate:"required"`
	Content   string         `json:"content"`
	Type      string         `json:"type" validate:"required,oneof=TEXT CHECKLIST"`
	UserID    int            `json:"userId"`
	CheckList []NoteListItem `json:"checkList" validate:"required_if=Type CHECKLIST,dive"`
}

// CheckRegisterUser validates a registration payload and returns a map of
// field name to human-readable message, or nil if the payload is valid.
func CheckRegisterUser(req RegisterUserRequest) map[string]string {
	return fieldErrors(validate.Struct(req))
}

// CheckNote validates a note create/edit payload.
func CheckNote(req NoteRequest) map[string]string {
	return fieldErrors(validate.Struct(req))
}

func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldName(fe)] = message(fe)
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "email"
	case "FirstName":
		return "firstName"
	case "LastName":
		return "lastName"
	case "Password":
		return "password"
	case "Title":
		return "title"
	case "Content":
		return "content"
	case "Type":
		return "type"
	case "CheckList":
		return "checkList"
	case "Text":
		return "text"
	case "Order":
		return "order"
	case "IsDone":
		return "isDone"
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", fieldName(fe))
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed validation on %s", fe.Tag())
}
