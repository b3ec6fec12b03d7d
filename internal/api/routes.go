package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	// sessions
	router.HandleFunc("/sessions", s.openSession).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{token}/login", s.login).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{token}", s.logout).Methods(http.MethodDelete)

	// operations on the logged-in account
	account := router.PathPrefix("/account").Subrouter()
	account.HandleFunc("/balance", s.withSession(s.balance)).Methods(http.MethodGet)
	account.HandleFunc("/deposit", s.withSession(s.deposit)).Methods(http.MethodPost)
	account.HandleFunc("/withdraw", s.withSession(s.withdraw)).Methods(http.MethodPost)
	account.HandleFunc("/transfer", s.withSession(s.transfer)).Methods(http.MethodPost)
	account.HandleFunc("/transactions", s.withSession(s.transactions)).Methods(http.MethodGet)
	account.HandleFunc("/summary", s.withSession(s.summary)).Methods(http.MethodGet)
	account.HandleFunc("/loan", s.withSession(s.loan)).Methods(http.MethodPost)
	account.HandleFunc("/pin", s.withSession(s.changePin)).Methods(http.MethodPut)
	account.HandleFunc("/name", s.withSession(s.rename)).Methods(http.MethodPut)

	return router
}
