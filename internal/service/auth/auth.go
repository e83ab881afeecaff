// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"time"

	"campus-gateway/internal/domain/directory"
	xerrors "campus-gateway/internal/pkg/errors"
	"campus-gateway/internal/pkg/session"
	"campus-gateway/internal/pkg/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Kicker pushes a revocation notice to a subject's connected clients.
// Optional; a nil Kicker is a no-op.
type Kicker interface {
	KickSubject(subject string)
}

type AuthService struct {
	creds      directory.CredentialStore
	tokens     *token.Manager
	sessions   session.Store
	sessionTTL time.Duration
	kicker     Kicker
	logger     *zap.Logger
}

func NewAuthService(
	creds directory.CredentialStore,
	tokens *token.Manager,
	sessions session.Store,
	sessionTTL time.Duration,
	kicker Kicker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		creds:      creds,
		tokens:     tokens,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		kicker:     kicker,
		logger:     logger,
	}
}

// UserInfo is the principal summary returned to clients.
type UserInfo struct {
	Subject  string   `json:"subject"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

// LoginResult carries the signed token handed to the client. It implements
// dispatch.SessionIssuer so the pipeline sets the session cookie for it.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

func (r *LoginResult) SessionCookie() (string, time.Time) {
	return r.Token, r.ExpiresAt
}

// Login verifies credentials, creates a server-side session and signs a
// token whose jti references that session, so the token stays revocable.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	account, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected",
			zap.String("username", username),
			zap.String("ip", ip),
		)
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid credentials")
	}

	sess, err := s.sessions.Create(ctx, account.Subject, account.Roles, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	signed, _, err := s.tokens.Issuer.Sign(account.Subject, account.Roles, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("subject", account.Subject),
		zap.String("ip", ip),
	)

	return &LoginResult{
		Token:     signed,
		ExpiresAt: sess.ExpiresAt,
		User: UserInfo{
			Subject:  account.Subject,
			Username: account.Username,
			FullName: account.FullName,
			Roles:    account.Roles,
		},
	}, nil
}

// ValidateToken verifies a signed token and confirms its backing session is
// still live. The liveness check is synchronous: a revoked session rejects
// the request even though the token signature is still valid.
func (s *AuthService) ValidateToken(ctx context.Context, signed string) (*session.Session, error) {
	claims, err := s.tokens.Verifier.Verify(signed)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if sess == nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "session revoked or expired")
	}
	if sess.Subject != claims.Subject {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "session subject mismatch")
	}

	return sess, nil
}

// Logout destroys a single session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if err := s.sessions.Delete(ctx, sessionToken); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// LogoutAll destroys every session for a subject and kicks its connected
// sockets.
func (s *AuthService) LogoutAll(ctx context.Context, subject string) error {
	if err := s.sessions.DeleteAll(ctx, subject); err != nil {
		return fmt.Errorf("failed to destroy sessions: %w", err)
	}
	if s.kicker != nil {
		s.kicker.KickSubject(subject)
	}

	s.logger.Info("all sessions revoked", zap.String("subject", subject))
	return nil
}

// Refresh re-issues a signed token against a live session without minting a
// new session.
func (s *AuthService) Refresh(ctx context.Context, sess *session.Session) (*LoginResult, error) {
	account, err := s.creds.FindBySubject(ctx, sess.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "account no longer active")
	}

	signed, _, err := s.tokens.Issuer.Sign(sess.Subject, sess.Roles, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: sess.ExpiresAt,
		User: UserInfo{
			Subject:  account.Subject,
			Username: account.Username,
			FullName: account.FullName,
			Roles:    account.Roles,
		},
	}, nil
}
