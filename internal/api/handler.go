package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

var (
	errBadRequest     = errors.New("invalid request body")
	errUnknownSession = errors.New("session not found")
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *models.Session)

// withSession resolves the session token and serializes requests made on
// the same session. Unknown tokens are treated as logged out.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := s.sessions.Get(r.Header.Get(SessionHeader))
		if !ok {
			writeErr(w, models.ErrNotAuthenticated)
			return
		}
		unlock := entry.Lock()
		defer unlock()
		next(w, r, entry.Session)
	}
}

// maxBodyBytes bounds every request body; the largest valid one is a
// short JSON object.
const maxBodyBytes = 4 << 10

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type loginRequest struct {
	Code  string `json:"code"`
	Retry bool   `json:"retry"` // keep the session after a wrong pin
}

type loginResponse struct {
	Token        string `json:"token,omitempty"`
	Outcome      string `json:"outcome"`
	Name         string `json:"name,omitempty"`
	AttemptsLeft int    `json:"attempts_left"`
	Locked       bool   `json:"locked"`
	Message      string `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// openSession creates a session and tries to log it in. A session whose
// pin was wrong is kept, and its token returned, only when the client asks
// to retry on it; those wait in the registry's bounded pending set.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}

	entry := s.sessions.New()
	res := s.teller.Authenticate(entry.Session, req.Code)
	if res.Outcome != models.AuthInvalidPin {
		s.sessions.Add(entry)
		writeJSON(w, http.StatusCreated, toLoginResponse(entry.Session.Token, res))
		return
	}

	token := ""
	if req.Retry {
		s.sessions.AddPending(entry)
		token = entry.Session.Token
	}
	writeJSON(w, http.StatusUnauthorized, toLoginResponse(token, res))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	entry, ok := s.sessions.Get(token)
	if !ok {
		writeErr(w, errUnknownSession)
		return
	}

	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}

	unlock := entry.Lock()
	defer unlock()

	res := s.teller.Authenticate(entry.Session, req.Code)
	code := http.StatusOK
	switch res.Outcome {
	case models.AuthSuccess:
		s.sessions.Promote(token)
	case models.AuthInvalidPin:
		code = http.StatusUnauthorized
	case models.AuthAlreadyLoggedIn:
		code = http.StatusConflict
	}
	writeJSON(w, code, toLoginResponse(token, res))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	entry, ok := s.sessions.Get(token)
	if !ok {
		writeErr(w, errUnknownSession)
		return
	}

	unlock := entry.Lock()
	s.teller.Logout(entry.Session)
	unlock()

	s.sessions.Close(token)
	w.WriteHeader(http.StatusNoContent)
}

func toLoginResponse(token string, res models.AuthResult) loginResponse {
	out := loginResponse{
		Token:        token,
		Outcome:      string(res.Outcome),
		Name:         res.Name,
		AttemptsLeft: res.AttemptsLeft,
		Locked:       res.Locked,
	}
	switch {
	case res.Outcome == models.AuthSuccess:
		out.Message = fmt.Sprintf("Welcome, %s!", res.Name)
	case res.Outcome == models.AuthAlreadyLoggedIn:
		out.Message = "Already logged in."
	case res.Locked:
		out.Message = "Too many failed attempts! Account locked."
	default:
		out.Message = fmt.Sprintf("Invalid PIN. Attempts left: %d", res.AttemptsLeft)
	}
	return out
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	bal, err := s.teller.CheckBalance(sess)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: bal.StringFixed(2)})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	var req amountRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	acct, err := s.teller.Deposit(r.Context(), sess, req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: acct.Balance.StringFixed(2)})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	var req amountRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	acct, err := s.teller.Withdraw(r.Context(), sess, req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: acct.Balance.StringFixed(2)})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	var req struct {
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	acct, err := s.teller.Transfer(r.Context(), sess, req.To, req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: acct.Balance.StringFixed(2)})
}

// transactions lists the retained history. ?format=text renders the
// numbered listing shown at the ATM.
func (s *Server) transactions(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	history, err := s.teller.ViewTransactions(sess)
	if err != nil {
		writeErr(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, renderHistory(history))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"transactions": history})
}

func renderHistory(history []string) string {
	if len(history) == 0 {
		return "No transactions yet.\n"
	}
	var b strings.Builder
	for i, tx := range history {
		fmt.Fprintf(&b, "%d. %s\n", i+1, tx)
	}
	return b.String()
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	sum, err := s.teller.Summary(sess)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":            sum.Name,
		"total_deposited": sum.TotalDeposited.StringFixed(2),
		"total_withdrawn": sum.TotalWithdrawn.StringFixed(2),
	})
}

func (s *Server) loan(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	var req amountRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	acct, err := s.teller.ApplyLoan(r.Context(), sess, req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: acct.Balance.StringFixed(2)})
}

func (s *Server) changePin(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	var req struct {
		NewCode string `json:"new_code"`
	}
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.teller.ChangeCode(r.Context(), sess, req.NewCode); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) rename(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.teller.Rename(r.Context(), sess, req.Name); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
