package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	repo "github.com/andrsolo/contactbook/internal/domain/repository"
	"github.com/andrsolo/contactbook/pkg/helpers"
	"github.com/andrsolo/contactbook/pkg/mailer"
	tpl "github.com/andrsolo/contactbook/pkg/mailer/templates"
	"github.com/andrsolo/contactbook/pkg/tokens"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

// EmailPublisher is the outbound-email capability: jobs are queued, rendered
// and delivered elsewhere. Satisfied by helpers.RabbitPublisher.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates registration, login, email confirmation and the
// password-reset flow. Email dispatch is fire and forget: publish failures
// are logged and never surfaced to the caller.
type AuthService struct {
	Users  repo.UserRepository
	Tokens *tokens.Manager
	Pub    EmailPublisher
	Logger *logrus.Logger

	AppName          string
	ConfirmEmailURL  string
	ResetPasswordURL string
	MailEnabled      bool
}

func NewAuthService(users repo.UserRepository, tm *tokens.Manager, pub EmailPublisher, logger *logrus.Logger, appName, confirmURL, resetURL string, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:            users,
		Tokens:           tm,
		Pub:              pub,
		Logger:           logger,
		AppName:          appName,
		ConfirmEmailURL:  confirmURL,
		ResetPasswordURL: resetURL,
		MailEnabled:      mailEnabled,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     entity.Role
}

// Register creates a new unconfirmed user and schedules a confirmation email.
// Email uniqueness is checked before username uniqueness.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if u, err := s.Users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrEmailTaken
	}
	if u, err := s.Users.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		Avatar:    helpers.GravatarURL(in.Email, 250),
		Confirmed: false,
		Role:      in.Role,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendConfirmationEmail(ctx, user)
	return user, nil
}

// Login verifies credentials and issues a session token. Credential validity
// is checked before the confirmation flag, so an unconfirmed account with a
// wrong password still reports invalid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		return "", ErrInvalidCredentials
	}
	if !u.Confirmed {
		return "", ErrEmailNotConfirmed
	}
	return s.Tokens.IssueSession(u.Username)
}

// ConfirmEmail flips the confirmed flag for the user named by the token.
// Confirming an already confirmed account is a no-op; the returned bool
// reports that case.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	claims, err := s.Tokens.Parse(token, tokens.PurposeEmailConfirm)
	if err != nil {
		return false, ErrInvalidToken
	}
	u, err := s.Users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, ErrInvalidToken
	}
	if u.Confirmed {
		return true, nil
	}
	return false, s.Users.ConfirmEmail(ctx, u.Email)
}

// RequestEmailConfirmation re-sends the confirmation email. An unknown email
// is not an error: the caller gets the same generic answer either way, so the
// endpoint cannot be used to probe which addresses have accounts.
func (s *AuthService) RequestEmailConfirmation(ctx context.Context, email string) (alreadyConfirmed bool, err error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	if u.Confirmed {
		return true, nil
	}
	s.sendConfirmationEmail(ctx, u)
	return false, nil
}

// RequestPasswordReset hashes the candidate password immediately and embeds
// the digest in a signed action token mailed to the user. Nothing is
// persisted server-side; the token itself is the pending half of the reset.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		// Same generic answer as the success path.
		return nil
	}
	if !u.Confirmed {
		return ErrEmailNotConfirmed
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	token, err := s.Tokens.IssuePasswordReset(u.Email, hash)
	if err != nil {
		return err
	}
	s.sendEmail(ctx, u, tpl.ResetPassword, s.ResetPasswordURL+"/"+token)
	return nil
}

// ConfirmPasswordReset applies the digest embedded in the reset token as the
// user's new credential. Both claims come from the same stateless parse, so
// the token remains valid until its expiry elapses.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token string) error {
	claims, err := s.Tokens.Parse(token, tokens.PurposePasswordReset)
	if err != nil {
		return ErrInvalidToken
	}
	u, err := s.Users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.Users.UpdatePassword(ctx, u.ID, claims.PendingPassword)
}

func (s *AuthService) sendConfirmationEmail(ctx context.Context, u *entity.User) {
	token, err := s.Tokens.IssueEmailConfirmation(u.Email)
	if err != nil {
		s.logWarn(err, u.Email, "issue confirmation token failed")
		return
	}
	s.sendEmail(ctx, u, tpl.ConfirmEmail, s.ConfirmEmailURL+"/"+token)
}

func (s *AuthService) sendEmail(ctx context.Context, u *entity.User, template, link string) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	data := tpl.EmailData{
		Username:  u.Username,
		Email:     u.Email,
		AppName:   s.AppName,
		ActionURL: link,
		ExpiresIn: fmt.Sprintf("%v", s.Tokens.ActionTTL),
	}
	job := mailer.EmailJob{To: u.Email, Template: template, Data: tpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.logWarn(err, u.Email, "publish email job failed")
	}
}

func (s *AuthService) logWarn(err error, email, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Warn(msg)
	}
}
