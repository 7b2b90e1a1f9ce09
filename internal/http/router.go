package apihttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/walletchat/internal/auth"
	"github.com/example/walletchat/internal/handlers"
	"github.com/example/walletchat/internal/rate"
)

// NewRouter wires routes and middlewares.
func NewRouter(ch *handlers.ChatHandler, wh *handlers.WalletHandler, hh *handlers.HistoryHandler, lm *rate.IPLimiter, sessions auth.SessionStore) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger)
	r.Use(CORS)
	r.Use(RateLimit(lm))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if sessions != nil {
			if err := sessions.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"status":"unhealthy"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(Session(sessions))
		api.Post("/chat", ch.ServeHTTP)
		api.Post("/wallet/balance", wh.Balance)
		api.Post("/wallet/transactions", wh.Transactions)
		if hh != nil {
			api.Get("/history", hh.List)
			api.Delete("/history/{id}", hh.Delete)
		}
	})

	return r
}
