/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging through the handler's logrus logger
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontends

ROUTE GROUPS:
  /api/health                          Liveness
  /api/persons/*                       Persons and everything booked per person
  /api/working-times/{id}              Single contract get/update/delete
  /api/absences/{id}                   Absence delete
  /api/time-entries/{id}               Time entry delete
  /api/holidays/*                      Public holidays and import
  /api/settings                        Tenant federal state defaults
  /api/reports/week/{year}/{week}      ISO week report
  /api/reports/month/{year}/{month}    Month report

  Reports accept ?person=<id>, ?persons=<id>,<id> or nothing (everyone).

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. Without
// origins, cross-origin requests are refused.
func NewRouter(h *Handler, allowedOrigins ...string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Person routes
		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Post("/", h.CreatePerson)
			r.Route("/{personID}", func(r chi.Router) {
				r.Get("/", h.GetPerson)
				r.Delete("/", h.DeletePerson)
				r.Get("/working-times", h.ListWorkingTimes)
				r.Post("/working-times", h.CreateWorkingTime)
				r.Get("/working-times/current", h.GetCurrentWorkingTime)
				r.Get("/absences", h.ListAbsences)
				r.Post("/absences", h.CreateAbsence)
				r.Get("/time-entries", h.ListTimeEntries)
				r.Post("/time-entries", h.CreateTimeEntry)
				r.Get("/calendar", h.GetCalendar)
			})
		})

		// Working time routes
		r.Route("/working-times", func(r chi.Router) {
			r.Get("/{id}", h.GetWorkingTime)
			r.Put("/{id}", h.UpdateWorkingTime)
			r.Delete("/{id}", h.DeleteWorkingTime)
		})

		r.Delete("/absences/{id}", h.DeleteAbsence)
		r.Delete("/time-entries/{id}", h.DeleteTimeEntry)

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/import", h.ImportHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/week/{year}/{week}", h.GetWeekReport)
			r.Get("/month/{year}/{month}", h.GetMonthReport)
		})
	})

	return r
}
