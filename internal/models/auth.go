package models

// AuthOutcome tells the caller how an authentication attempt ended.
type AuthOutcome string

const (
	AuthSuccess         AuthOutcome = "success"
	AuthInvalidPin      AuthOutcome = "invalid_pin"
	AuthAlreadyLoggedIn AuthOutcome = "already_logged_in"
)

// AuthResult is returned by every authentication attempt.
// Locked is a warning only: a later valid code still logs in.
type AuthResult struct {
	Outcome      AuthOutcome
	Name         string
	AttemptsLeft int
	Locked       bool
}
