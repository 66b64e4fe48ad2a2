// Package server собирает HTTP-сервер: роутер, middleware и маршруты API.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/qna-backend/internal/config"
	"serotonyl.ru/qna-backend/internal/features/admin"
	"serotonyl.ru/qna-backend/internal/features/answers"
	"serotonyl.ru/qna-backend/internal/features/likes"
	"serotonyl.ru/qna-backend/internal/features/points"
	"serotonyl.ru/qna-backend/internal/features/profiles"
	"serotonyl.ru/qna-backend/internal/features/questions"
	"serotonyl.ru/qna-backend/internal/server/middleware"
)

// Handlers — набор обработчиков всех фич для сборки роутера.
type Handlers struct {
	Profiles  *profiles.Handler
	Questions *questions.Handler
	Answers   *answers.Handler
	Likes     *likes.Handler
	Points    *points.Handler
	Admin     *admin.Handler
}

// Server оборачивает http.Server и ограничитель запросов.
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
}

// New собирает сервер с роутером и middleware.
func New(cfg *config.Config, h *Handlers) *Server {
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(limiter.Middleware)

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", h.Profiles.HandleRegister)
			r.Get("/{id}", h.Profiles.HandleGet)
			r.Get("/{id}/stats", h.Profiles.HandleStats)
			r.Get("/{id}/history", h.Points.HandleHistory)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Post("/", h.Questions.HandleCreate)
			r.Get("/", h.Questions.HandleList)
			r.Get("/{id}", h.Questions.HandleGet)
			r.Post("/{id}/answers", h.Answers.HandleCreate)
			r.Post("/{id}/like", h.Likes.HandleToggle)
			r.Get("/{id}/like", h.Likes.HandleState)
		})

		r.Post("/answers/{id}/best", h.Answers.HandleMarkBest)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reconcile", h.Admin.HandleReconcileAll)
			r.Post("/reconcile/{id}", h.Admin.HandleReconcile)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr(),
			Handler:      r,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
		},
		limiter: limiter,
	}
}

// ListenAndServe запускает сервер. Блокирует до ошибки или Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown останавливает сервер, давая активным запросам завершиться.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Close()
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
