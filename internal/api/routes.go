package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(handler.withSession)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth routes
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/sign-up", handler.SignUp).Methods("POST")
	authRoutes.HandleFunc("/sign-in", handler.SignIn).Methods("POST")
	authRoutes.HandleFunc("/sign-out", handler.SignOut).Methods("POST")
	authRoutes.HandleFunc("/guest", handler.GuestMode).Methods("POST")

	// Watchlist routes (signed-in users only)
	api.HandleFunc("/watchlist", handler.requireAuth(handler.GetWatchlist)).Methods("GET")
	api.HandleFunc("/watchlist", handler.requireAuth(handler.AddToWatchlist)).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", handler.requireAuth(handler.RemoveFromWatchlist)).Methods("DELETE")

	// Market data routes (signed-in users and guests)
	api.HandleFunc("/search", handler.requireBrowse(handler.SearchStocks)).Methods("GET")
	api.HandleFunc("/stocks/{symbol}/quote", handler.requireBrowse(handler.GetQuote)).Methods("GET")
	api.HandleFunc("/stocks/{symbol}/profile", handler.requireBrowse(handler.GetProfile)).Methods("GET")

	return r
}
