package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jmcardoso/payplan/internal/http/allocation"
	"github.com/jmcardoso/payplan/internal/http/invoice"
	authmw "github.com/jmcardoso/payplan/internal/http/middleware"
	"github.com/jmcardoso/payplan/internal/http/roster"
)

func New(
	invoicesV1 *invoice.Handler,
	allocationV1 *allocation.Handler,
	participantsV1 *roster.Handler,
	jwtSecret string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)

			r.Route("/{id}/allocation", func(r chi.Router) {
				allocationV1.Routes(r)

				// Submission forwards money to the processor; it is the one
				// route behind the token check.
				r.Group(func(r chi.Router) {
					r.Use(authmw.RequireToken(jwtSecret))
					allocationV1.SubmitRoute(r)
				})
			})
		})

		r.Route("/participants", participantsV1.Routes)
	})

	return router
}
