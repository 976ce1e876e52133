package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/auth"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/clock"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/metrics"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/ratelimit"
	"go.uber.org/zap"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, token string) (domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) error
}

type AuthService struct {
	users      UserRepository
	sessions   SessionRepository
	hasher     PasswordHasher
	clock      clock.Clock
	sessionTTL time.Duration
	limiter    *ratelimit.Keyed
	metrics    *metrics.Metrics
	log        *zap.SugaredLogger

	placeholderOnce sync.Once
	placeholder     string
}

const defaultSessionTTL = 24 * time.Hour

type AuthServiceOption func(*AuthService)

// WithSessionTTL overrides how long new sessions live.
func WithSessionTTL(d time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithLoginLimiter throttles login attempts per email and remote address.
func WithLoginLimiter(l *ratelimit.Keyed) AuthServiceOption {
	return func(s *AuthService) {
		s.limiter = l
	}
}

func WithAuthMetrics(m *metrics.Metrics) AuthServiceOption {
	return func(s *AuthService) {
		s.metrics = m
	}
}

func WithAuthLogger(log *zap.SugaredLogger) AuthServiceOption {
	return func(s *AuthService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewAuthService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, clk clock.Clock, opts ...AuthServiceOption) *AuthService {
	svc := &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		clock:      clk,
		sessionTTL: defaultSessionTTL,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type RegisterInput struct {
	Email       string `validate:"required,max=254,email"`
	Password    string
	DisplayName string `validate:"required,max=64"`
}

var registerRules = fieldRules{
	"Email.required":       domain.ErrInvalidEmail,
	"Email.max":            domain.ErrInvalidEmail,
	"Email.email":          domain.ErrInvalidEmail,
	"DisplayName.required": domain.ErrDisplayNameRequired,
	"DisplayName.max":      domain.ErrDisplayNameTooLong,
}

// Register creates a member account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := check(in, registerRules); err != nil {
		return domain.User{}, err
	}
	switch {
	case len(in.Password) < auth.MinPasswordBytes:
		return domain.User{}, domain.ErrPasswordTooShort
	case len(in.Password) > auth.MaxPasswordBytes:
		return domain.User{}, domain.ErrPasswordTooLong
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	now := s.clock.Now()
	user := domain.User{
		ID:           newID(),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		Role:         domain.RoleMember,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The unique index still catches a concurrent registration of the same email.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// placeholderHash is a hash at the service's cost, checked when the email is
// unknown. Its result is discarded.
func (s *AuthService) placeholderHash() string {
	s.placeholderOnce.Do(func() {
		s.placeholder, _ = s.hasher.Hash("nnpl-placeholder-password")
	})
	return s.placeholder
}

type LoginInput struct {
	Email      string
	Password   string
	RemoteAddr string
}

type LoginResult struct {
	Session domain.Session
	User    domain.User
}

// Login checks credentials and opens a session. Unknown emails and wrong
// passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := normalizeEmail(in.Email)
	now := s.clock.Now()
	key := email + "|" + in.RemoteAddr

	if !s.limiter.Allow(key, now) {
		s.metrics.ObserveLogin(metrics.LoginThrottled)
		return LoginResult{}, domain.ErrTooManyAttempts
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same bcrypt work as a wrong password.
			_ = s.hasher.Check(s.placeholderHash(), in.Password)
			s.metrics.ObserveLogin(metrics.LoginFailed)
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := s.hasher.Check(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.metrics.ObserveLogin(metrics.LoginFailed)
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	token, err := auth.NewToken()
	if err != nil {
		return LoginResult{}, err
	}
	session := domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return LoginResult{}, err
	}
	s.limiter.Reset(key)
	s.metrics.ObserveLogin(metrics.LoginOK)
	return LoginResult{Session: session, User: user}, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthenticated
	}
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if session.Expired(s.clock.Now()) {
		if err := s.sessions.DeleteSession(ctx, token); err != nil {
			s.log.Warnw("delete expired session", "error", err)
		}
		return domain.User{}, domain.ErrSessionExpired
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrUnauthenticated
		}
		return domain.User{}, err
	}
	return user, nil
}

// PurgeExpiredSessions deletes every session past its expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpiredSessions(ctx, s.clock.Now())
}

// RunSessionJanitor purges expired sessions every interval until ctx is done.
func (s *AuthService) RunSessionJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredSessions(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Errorw("purge expired sessions", "error", err)
				}
				continue
			}
			if n > 0 {
				s.log.Debugw("purged expired sessions", "count", n)
			}
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
