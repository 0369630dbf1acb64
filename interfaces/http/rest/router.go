package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"vitae-backend/infrastructure/di"
	"vitae-backend/interfaces/http/rest/handlers"
	"vitae-backend/interfaces/http/rest/middleware"
	pkgerrors "vitae-backend/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(c.Logger))

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.vitae.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	errorHandler := pkgerrors.NewErrorHandler(c.Logger, c.Config.IsDevelopment())

	searchHandler := handlers.NewSearchHandler(c.SearchHandler, c.CourseHandler, errorHandler, c.Logger)
	noteHandler := handlers.NewNoteHandler(c.NoteHandler, errorHandler, c.Logger)
	learningHandler := handlers.NewLearningHandler(c.ProgressHandler, c.GetProgress, c.QuizService, errorHandler, c.Logger)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(c.JWTValidator, c.Config.IsLambda, c.Logger))

		// Course search and persistence
		r.Get("/search", searchHandler.Search)
		r.Post("/courses", searchHandler.CreateCourse)

		// Notes under their owning record
		r.Route("/records/{recordID}/notes", func(r chi.Router) {
			r.Post("/", noteHandler.CreateNote)
			r.Put("/{noteID}", noteHandler.UpdateNote)
			r.Delete("/{noteID}", noteHandler.DeleteNote)
		})

		// Durable progress
		r.Get("/progress", learningHandler.ListProgress)
		r.Route("/courses/{courseID}", func(r chi.Router) {
			r.Get("/progress", learningHandler.GetProgress)
			r.Delete("/progress", learningHandler.ResetProgress)

			r.Route("/chapters/{chapterIndex}", func(r chi.Router) {
				r.Post("/complete", learningHandler.MarkChapterComplete)

				// Transient quiz sessions
				r.Post("/quiz", learningHandler.OpenQuiz)
				r.Get("/quiz", learningHandler.QuizAttempts)
				r.Post("/quiz/select", learningHandler.SelectAnswer)
				r.Post("/quiz/reveal", learningHandler.RevealAnswer)
				r.Post("/quiz/reset", learningHandler.ResetQuiz)
				r.Get("/quiz/score", learningHandler.QuizScore)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
