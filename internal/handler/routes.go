package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes builds the API route tree. Cross-cutting middleware (request IDs,
// logging, CORS, panic recovery) is applied by the caller in cmd/api so
// tests can exercise the bare routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/convert", s.getConvert)
	r.Get("/admin/stats", s.getAdminStats)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.createTrip)
		r.Get("/", s.listTrips)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.getTrip)
			r.Put("/", s.updateTrip)
			r.Delete("/", s.deleteTrip)
			r.Post("/close", s.closeTrip)
			r.Post("/reopen", s.reopenTrip)
			r.Get("/report", s.getReport)

			r.Route("/members", func(r chi.Router) {
				r.Get("/", s.listMembers)
				r.Post("/", s.addMember)
				r.Delete("/{userID}", s.removeMember)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.createExpense)
				r.Get("/", s.listExpenses)
				r.Post("/scan", s.scanReceipt)

				r.Route("/{expenseID}", func(r chi.Router) {
					r.Get("/", s.getExpense)
					r.Put("/", s.updateExpense)
					r.Delete("/", s.deleteExpense)
				})
			})
		})
	})

	return r
}
