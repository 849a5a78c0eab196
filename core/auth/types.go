package auth

import "time"

type contextKey string

// SessionContextKey carries the *store.SessionRecord through request
// contexts.
const SessionContextKey contextKey = "session"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OTPSubmission struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Session is the authenticated console session handed back to the
// presentation layer. The bearer token never leaves the core.
type Session struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Roles      []string  `json:"roles"`
	BankID     *int64    `json:"bank_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
