package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose tags what a signed token is allowed to be used for. One envelope
// serves session auth, email confirmation and password reset; consumers must
// parse with the purpose they expect.
type Purpose string

const (
	PurposeSession       Purpose = "session"
	PurposeEmailConfirm  Purpose = "email_confirm"
	PurposePasswordReset Purpose = "password_reset"
)

// ErrInvalidOrExpired is returned for any token that fails verification:
// bad signature, wrong structure, wrong purpose, or elapsed expiry.
var ErrInvalidOrExpired = errors.New("invalid or expired token")

// Claims is the signed payload. Subject carries the username for session
// tokens and the email for action tokens. PendingPassword is only set on
// password-reset tokens and holds the already-hashed candidate password.
type Claims struct {
	Purpose         Purpose `json:"purpose"`
	PendingPassword string  `json:"pwd,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed tokens. Verification is stateless:
// tokens are never stored or consumed server-side, so parsing the same
// token repeatedly is safe and side-effect free.
type Manager struct {
	secret     []byte
	SessionTTL time.Duration
	ActionTTL  time.Duration
}

func NewManager(secret string, sessionTTL, actionTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), SessionTTL: sessionTTL, ActionTTL: actionTTL}
}

func (m *Manager) issue(purpose Purpose, subject, pendingPassword string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Purpose:         purpose,
		PendingPassword: pendingPassword,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// IssueSession creates a short-lived bearer token keyed on the username.
func (m *Manager) IssueSession(username string) (string, error) {
	return m.issue(PurposeSession, username, "", m.SessionTTL)
}

// IssueEmailConfirmation creates an action token keyed on the email address.
func (m *Manager) IssueEmailConfirmation(email string) (string, error) {
	return m.issue(PurposeEmailConfirm, email, "", m.ActionTTL)
}

// IssuePasswordReset creates an action token that carries the hashed
// candidate password. The password is not applied until the token comes back.
func (m *Manager) IssuePasswordReset(email, passwordHash string) (string, error) {
	return m.issue(PurposePasswordReset, email, passwordHash, m.ActionTTL)
}

// Parse verifies signature and expiry and checks the token was issued for
// the expected purpose. All failures collapse into ErrInvalidOrExpired so
// callers cannot leak why a token was rejected.
func (m *Manager) Parse(tokenStr string, want Purpose) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidOrExpired
	}
	if claims.Purpose != want {
		return nil, ErrInvalidOrExpired
	}
	if claims.Subject == "" {
		return nil, ErrInvalidOrExpired
	}
	if want == PurposePasswordReset && claims.PendingPassword == "" {
		return nil, ErrInvalidOrExpired
	}
	return claims, nil
}
