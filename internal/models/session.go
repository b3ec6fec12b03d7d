package models

// Session is the caller-owned authentication state. CurrentCode is a
// lookup key into the account store, not a copy of the account. AccountID
// pins the session to the account it logged in to, so a code that moved
// away or now belongs to someone else is detected.
type Session struct {
	Token          string
	Authenticated  bool
	CurrentCode    string
	AccountID      string
	FailedAttempts int
}
