package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/avelis/habitdo/internal/config"
	"github.com/avelis/habitdo/internal/handlers"
	"github.com/avelis/habitdo/internal/middleware"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/avelis/habitdo/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService) *Server {
	todoRepo := repository.NewTodoRepository(database)
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)

	todoHandler := handlers.NewTodoHandler(todoRepo)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, tokenRepo)
	calendarHandler := handlers.NewCalendarHandler(todoRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(authService))

		r.Post("/task", todoHandler.CreateTask)
		r.Get("/task/{id}", todoHandler.GetTask)
		r.Put("/task/{id}", todoHandler.UpdateTask)

		r.Post("/habit", todoHandler.CreateHabit)
		r.Get("/habit/{id}", todoHandler.GetHabit)
		r.Put("/habit/{id}", todoHandler.UpdateHabit)

		r.Post("/reoccur", todoHandler.CreateReoccur)
		r.Get("/reoccur/{id}", todoHandler.GetReoccur)
		r.Put("/reoccur/{id}", todoHandler.UpdateReoccur)

		r.Get("/todos", todoHandler.List)
		r.Post("/todo/{id}/complete", todoHandler.Complete)
		r.Delete("/todo/{id}", todoHandler.Delete)

		r.Get("/calendar.ics", calendarHandler.Feed)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/api/tokens", tokenHandler.Create)
			r.Get("/api/tokens", adminHandler.Tokens)
			r.Delete("/api/tokens/{id}", tokenHandler.Delete)

			r.Get("/api/users", adminHandler.Users)
			r.Put("/api/users/{id}/role", adminHandler.UpdateUserRole)
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

// Handler exposes the routing tree, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
