package main

import (
	"net/http"
	"os"

	"notes-api/auth"
	"notes-api/config"
	"notes-api/db"
	"notes-api/handlers"
	appmw "notes-api/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func newRouter(store db.Store, authSvc *auth.Service, log zerolog.Logger, exposeErrors bool) *chi.Mux {
	userHandler := handlers.NewUserHandler(store, authSvc, log, exposeErrors)
	noteHandler := handlers.NewNoteHandler(store, log, exposeErrors)

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(appmw.RequestLogger(log))

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth(authSvc))
		r.Get("/api/note/list/{userId}", noteHandler.List)
		r.Post("/api/note/get/{noteId}", noteHandler.Get)
		r.Post("/api/note/create", noteHandler.Create)
		r.Post("/api/note/edit/{noteId}", noteHandler.Update)
		r.Post("/api/note/delete/{noteId}", noteHandler.Delete)
	})

	return r
}

func main() {
	godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.DSN == "" {
		log.Fatal().Msg("DSN is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	conn, err := db.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection error")
	}
	defer conn.Close()

	store := db.NewSQLStore(conn)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)

	r := newRouter(store, authSvc, log, cfg.ExposeErrors)

	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
