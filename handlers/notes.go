package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"notes-api/db"
	"notes-api/middleware"
	"notes-api/models"
	"notes-api/responses"
	"notes-api/validators"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type NoteHandler struct {
	store        db.Store
	log          zerolog.Logger
	exposeErrors bool
}

func NewNoteHandler(store db.Store, log zerolog.Logger, exposeErrors bool) *NoteHandler {
	return &NoteHandler{store: store, log: log, exposeErrors: exposeErrors}
}

// List returns all notes, with checklist items, owned by the path user id.
// The path user id is deliberately not cross-checked against the requester.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil {
		h.storeError(w, responses.StatusFind, "notes could not be found", err)
		return
	}

	notes, err := h.store.FindNotesByOwner(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int("owner_id", userID).Msg("note listing failed")
		h.storeError(w, responses.StatusFind, "notes could not be found", err)
		return
	}

	responses.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	noteID, err := strconv.Atoi(chi.URLParam(r, "noteId"))
	if err != nil {
		h.storeError(w, responses.StatusFind, "note could not be found", err)
		return
	}

	if _, err := h.store.FindNoteByIDAndOwner(r.Context(), noteID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.notOwner(w)
			return
		}
		h.log.Error().Err(err).Int("note_id", noteID).Msg("ownership check failed")
		h.storeError(w, responses.StatusFind, "note could not be found", err)
		return
	}

	note, err := h.store.FindNoteByID(r.Context(), noteID)
	if err != nil {
		h.log.Error().Err(err).Int("note_id", noteID).Msg("note fetch failed")
		h.storeError(w, responses.StatusFind, "note could not be found", err)
		return
	}

	responses.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}

	var req validators.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:  responses.StatusCreate,
			Message: "note validation failed",
		})
		return
	}

	if errs := validators.CheckNote(req); errs != nil {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:      responses.StatusCreate,
			Message:     "note validation failed",
			ErrorObject: errs,
		})
		return
	}

	params := db.CreateNoteParams{
		Title:   req.Title,
		Content: req.Content,
		Type:    models.NoteType(req.Type),
		OwnerID: req.UserID,
	}
	if params.Type == models.NoteTypeChecklist {
		params.Items = checklistParams(req.CheckList)
	}

	note, err := h.store.CreateNote(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Int("owner_id", req.UserID).Msg("note creation failed")
		h.storeError(w, responses.StatusCreate, "note could not be created", err)
		return
	}

	responses.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	noteID, err := strconv.Atoi(chi.URLParam(r, "noteId"))
	if err != nil {
		h.storeError(w, responses.StatusUpdate, "note could not be updated", err)
		return
	}

	var req validators.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:  responses.StatusUpdate,
			Message: "note validation failed",
		})
		return
	}

	if errs := validators.CheckNote(req); errs != nil {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:      responses.StatusUpdate,
			Message:     "note validation failed",
			ErrorObject: errs,
		})
		return
	}

	if _, err := h.store.FindNoteByIDAndOwner(r.Context(), noteID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.notOwner(w)
			return
		}
		h.log.Error().Err(err).Int("note_id", noteID).Msg("ownership check failed")
		h.storeError(w, responses.StatusUpdate, "note could not be updated", err)
		return
	}

	params := db.UpdateNoteParams{
		Title:   req.Title,
		Content: req.Content,
		Type:    models.NoteType(req.Type),
	}
	if params.Type == models.NoteTypeChecklist {
		params.Items = checklistParams(req.CheckList)
	}

	note, err := h.store.UpdateNote(r.Context(), noteID, params)
	if err != nil {
		h.log.Error().Err(err).Int("note_id", noteID).Msg("note update failed")
		h.storeError(w, responses.StatusUpdate, "note could not be updated", err)
		return
	}

	responses.JSON(w, http.StatusOK, note)
}

// Delete removes the note only when the caller owns it. Missing and
// non-owned both surface the same generic failure so existence is not
// leaked for a destructive operation.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	noteID, err := strconv.Atoi(chi.URLParam(r, "noteId"))
	if err != nil {
		h.storeError(w, responses.StatusDelete, "note could not be deleted", err)
		return
	}

	note, err := h.store.DeleteNote(r.Context(), noteID, userID)
	if err != nil {
		if !errors.Is(err, db.ErrUnauthorized) {
			h.log.Error().Err(err).Int("note_id", noteID).Msg("note deletion failed")
		}
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:  responses.StatusDelete,
			Message: "note could not be deleted",
		})
		return
	}

	responses.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) requireUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.UserID(r)
	if !ok {
		responses.Error(w, http.StatusUnauthorized, responses.ErrorBody{
			Status:  responses.StatusAuthError,
			Message: "Unauthorized",
		})
		return 0, false
	}
	return userID, true
}

func (h *NoteHandler) notOwner(w http.ResponseWriter) {
	responses.Error(w, http.StatusForbidden, responses.ErrorBody{
		Status:  responses.StatusAuthError,
		Message: "you are not the owner of this note",
	})
}

func (h *NoteHandler) storeError(w http.ResponseWriter, status, message string, err error) {
	body := responses.ErrorBody{Status: status, Message: message}
	if h.exposeErrors && err != nil {
		body.MessageOrig = err.Error()
	}
	responses.Error(w, http.StatusInternalServerError, body)
}

func checklistParams(items []validators.NoteListItem) []db.ChecklistItemParams {
	params := make([]db.ChecklistItemParams, 0, len(items))
	for _, item := range items {
		params = append(params, db.ChecklistItemParams{
			Text:   item.Text,
			Order:  *item.Order,
			IsDone: *item.IsDone,
		})
	}
	return params
}
