// Package api is the HTTP front-end of the ATM ledger. It owns the live
// sessions and turns requests into Teller calls; all account rules live
// below it.
package api

import (
	"net/http"
	"time"

	"github.com/sheikh-saqib/atm-ledger-system/internal/session"
	"github.com/sheikh-saqib/atm-ledger-system/internal/teller"
)

// SessionHeader carries the token returned when a session is opened.
const SessionHeader = "X-Session-Token"

type Server struct {
	teller   *teller.Teller
	sessions *session.Registry
}

func NewServer(t *teller.Teller, sessions *session.Registry) *Server {
	return &Server{teller: t, sessions: sessions}
}

// HTTPServer wraps the router in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Handler:      s.Router(),
		Addr:         addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
