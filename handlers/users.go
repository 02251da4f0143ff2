package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"notes-api/auth"
	"notes-api/db"
	"notes-api/responses"
	"notes-api/validators"

	"github.com/rs/zerolog"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	JWT       string `json:"jwt"`
	UserID    int    `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type UserHandler struct {
	store        db.Store
	auth         *auth.Service
	log          zerolog.Logger
	exposeErrors bool
}

func NewUserHandler(store db.Store, authSvc *auth.Service, log zerolog.Logger, exposeErrors bool) *UserHandler {
	return &UserHandler{store: store, auth: authSvc, log: log, exposeErrors: exposeErrors}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validators.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:  responses.StatusCreate,
			Message: "could not create user",
		})
		return
	}

	if errs := validators.CheckRegisterUser(req); errs != nil {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:      responses.StatusCreate,
			Message:     "could not create user",
			ErrorObject: errs,
		})
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("password hashing failed")
		h.storeError(w, responses.StatusCreate, "could not create user", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), db.CreateUserParams{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	})
	if errors.Is(err, db.ErrDuplicateEmail) {
		responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Status:  responses.StatusCreate,
			Message: fmt.Sprintf("user with email %s already exists", req.Email),
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("user creation failed")
		h.storeError(w, responses.StatusCreate, "could not create user", err)
		return
	}

	responses.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.Error(w, http.StatusUnauthorized, responses.ErrorBody{
			Status:  responses.StatusAuthError,
			Message: "invalid login request",
		})
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) {
		responses.Error(w, http.StatusUnauthorized, responses.ErrorBody{
			Status:  responses.StatusAuthError,
			Message: fmt.Sprintf("no user found with email %s", req.Email),
			Name:    "email",
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("user lookup failed")
		h.storeError(w, responses.StatusFind, "could not log in", err)
		return
	}

	if !h.auth.ComparePasswordHash(req.Password, user.PasswordHash) {
		responses.Error(w, http.StatusUnauthorized, responses.ErrorBody{
			Status:  responses.StatusAuthError,
			Message: "incorrect password",
			Name:    "password",
		})
		return
	}

	token, err := h.auth.GenerateLoginToken(user)
	if err != nil {
		h.log.Error().Err(err).Int("user_id", user.ID).Msg("token generation failed")
		h.storeError(w, responses.StatusAuthError, "could not log in", err)
		return
	}

	responses.JSON(w, http.StatusOK, loginResponse{
		JWT:       token,
		UserID:    user.ID,
		UserName:  user.FirstName + " " + user.LastName,
		UserEmail: user.Email,
	})
}

func (h *UserHandler) storeError(w http.ResponseWriter, status, message string, err error) {
	body := responses.ErrorBody{Status: status, Message: message}
	if h.exposeErrors && err != nil {
		body.MessageOrig = err.Error()
	}
	responses.Error(w, http.StatusInternalServerError, body)
}
