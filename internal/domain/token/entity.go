package token

import "time"

const (
	// SecretLength is the exact length of a session secret.
	SecretLength = 16

	// Life is how long a fresh or extended token lives.
	Life = 24 * time.Hour

	// MaxSessions caps unexpired tokens per user; new logins beyond the
	// cap are rejected rather than evicting old sessions.
	MaxSessions = 5

	// ExtendMinimumLife: extension is only allowed once the remaining
	// life drops below this.
	ExtendMinimumLife = 6 * time.Hour
)

type Token struct {
	ID        int64
	UserID    int16
	Secret    string
	CreatedAt time.Time
	ExpireAt  time.Time
}

const (
	OperationAdd    = "add"
	OperationRemove = "remove"
	OperationExtend = "extend"
)

func ValidateSecret(v string) bool {
	return len(v) == SecretLength
}

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return t.ExpireAt.Before(now)
}

// Extendable reports whether the token may be extended at now.
func (t Token) Extendable(now time.Time) bool {
	return t.ExpireAt.Sub(now) < ExtendMinimumLife
}
