package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// TokenTypeBearer is the token type reported in login results
const TokenTypeBearer = "bearer"

// LoginResult is returned on a successful login
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	ExpiresAt   time.Time
	User        *User
}

// Auther verifies credentials and mints tokens
type Auther struct {
	users        CredentialStore
	hasher       PasswordAuthenticator
	tokenService TokenCodec
	decoyHash    string
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users CredentialStore, opts Config) (*Auther, error) {
	if users == nil {
		return nil, errors.New("credential store is required", errors.CategoryBadInput)
	}

	tokenService, err := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenTTL(),
		opts.GetIssuer(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	hasher := NewBcryptHasher(opts.GetPasswordCost())

	return &Auther{
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
		decoyHash:    RandomPasswordHash(hasher),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}, nil
}

// WithLogger sets the logger for the authenticator and its token service.
func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = normalizeLogger(logger)
	if ts, ok := s.tokenService.(*TokenService); ok {
		ts.logger = s.logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the codec used to mint tokens. Gates decode with
// the same instance.
func (s *Auther) TokenService() TokenCodec {
	return s.tokenService
}

// Hasher returns the password hasher
func (s *Auther) Hasher() PasswordAuthenticator {
	return s.hasher
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and mints a token on success. Unknown
// accounts, inactive accounts and wrong passwords all fail with
// ErrInvalidCredentials; storage failures are reported as such.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.decoyVerify(password)
			s.loginFailed(ctx, 0, email, "unknown_account")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login credential lookup failed", "email", email, "error", err)
		s.loginFailed(ctx, 0, email, "storage_failure")
		return nil, storageFailure(err, "failed to look up credentials")
	}

	if !user.IsActive {
		s.decoyVerify(password)
		s.loginFailed(ctx, user.ID, email, "inactive_account")
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("login stored password hash is unusable", "user_id", user.ID, "error", err)
		s.loginFailed(ctx, user.ID, email, "invalid_hash")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.loginFailed(ctx, user.ID, email, "password_mismatch")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.Mint(user.Identity())
	if err != nil {
		s.logger.Error("login failed to mint token", "user_id", user.ID, "error", err)
		s.loginFailed(ctx, user.ID, email, "mint_failure")
		return nil, err
	}

	recordActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		ActorID:   user.ID,
		UserID:    user.ID,
		Email:     email,
	})

	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   s.tokenService.TTL(),
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Register creates an account for the message. The email must be unused.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	email := NormalizeEmail(msg.Email)
	if email == "" {
		return nil, errors.New("email is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	role, err := ParseRole(msg.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("register email lookup failed", "email", email, "error", err)
		return nil, storageFailure(err, "failed to check email availability")
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(msg.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if msg.IsActive != nil {
		active = *msg.IsActive
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(msg.Name),
		Role:         role,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("register create user failed", "email", email, "error", err)
		return nil, storageFailure(err, "failed to create user")
	}

	recordActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: ActivityEventUserRegistered,
		UserID:    created.ID,
		Email:     email,
		Metadata:  map[string]any{"role": string(created.Role)},
	})

	return created, nil
}

func (s *Auther) decoyVerify(password string) {
	_, _ = s.hasher.Verify(password, s.decoyHash)
}

func (s *Auther) loginFailed(ctx context.Context, userID int64, email, reason string) {
	s.logger.Warn("login rejected", "email", email, "reason", reason)
	recordActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: ActivityEventLoginFailure,
		UserID:    userID,
		Email:     email,
		Metadata:  map[string]any{"reason": reason},
	})
}

// storageFailure keeps already classified errors and wraps anything else
func storageFailure(err error, message string) error {
	if IsStorageError(err) {
		return err
	}
	return StorageError(err, message)
}
