package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

// UserService implements the user management operations behind the
// authenticated routes.
type UserService struct {
	repo         RepositoryManager
	hasher       PasswordAuthenticator
	logger       Logger
	activitySink ActivitySink
}

// NewUserService wires the service to storage and the password hasher
func NewUserService(repo RepositoryManager, hasher PasswordAuthenticator) *UserService {
	return &UserService{
		repo:         repo,
		hasher:       hasher,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

// WithLogger sets the logger used for activity sink failures.
func (s *UserService) WithLogger(logger Logger) *UserService {
	s.logger = normalizeLogger(logger)
	return s
}

// WithActivitySink configures an ActivitySink for user change events.
func (s *UserService) WithActivitySink(sink ActivitySink) *UserService {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// List returns a page of active users, newest first
func (s *UserService) List(ctx context.Context, opts ListOptions) ([]*User, error) {
	return s.repo.Users().List(ctx, opts.Normalize())
}

// Search returns active users whose name contains name, ignoring case
func (s *UserService) Search(ctx context.Context, name string, opts ListOptions) ([]*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name query parameter is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithTextCode("NAME_REQUIRED")
	}
	return s.repo.Users().SearchByName(ctx, name, opts.Normalize())
}

// Get returns the active user with id
func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Users().FindActiveByID(ctx, id)
}

// Update applies msg to user id on behalf of actor. Only ADMIN actors may
// change role or active state.
func (s *UserService) Update(ctx context.Context, actor *Claims, id int64, msg UpdateUserMessage) (*User, error) {
	actor, err := Authorize(actor)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if actor.UserID() != id {
			return nil, ErrForbidden
		}
		if msg.Role != nil || msg.IsActive != nil {
			return nil, ErrForbidden
		}
	}

	var updated *User
	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, repos RepositoryManager) error {
		record, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.apply(ctx, repos, record, msg); err != nil {
			return err
		}

		updated, err = repos.Users().Update(ctx, record)
		return err
	})
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: ActivityEventUserUpdated,
		ActorID:   actor.UserID(),
		UserID:    updated.ID,
		Email:     updated.Email,
		Metadata:  map[string]any{"fields": changedFields(msg)},
	})

	return updated, nil
}

// Delete removes user id. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor *Claims, id int64) error {
	if err := AuthorizeAdmin(actor); err != nil {
		return err
	}
	if actor.UserID() == id {
		return ErrCannotDeleteSelf
	}

	if err := s.repo.Users().Delete(ctx, id); err != nil {
		return err
	}

	recordActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: ActivityEventUserDeleted,
		ActorID:   actor.UserID(),
		UserID:    id,
	})
	return nil
}

func (s *UserService) apply(ctx context.Context, repos RepositoryManager, record *User, msg UpdateUserMessage) error {
	if msg.Email != nil {
		email := NormalizeEmail(*msg.Email)
		if email == "" {
			return errors.New("email must not be empty", errors.CategoryValidation).
				WithCode(errors.CodeBadRequest)
		}
		if email != record.Email {
			exists, err := repos.Users().ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if exists {
				return ErrEmailTaken
			}
			record.Email = email
		}
	}

	if msg.Password != nil {
		hash, err := s.hasher.HashPassword(*msg.Password)
		if err != nil {
			return err
		}
		record.PasswordHash = hash
	}

	if msg.Name != nil {
		record.Name = strings.TrimSpace(*msg.Name)
	}

	if msg.Role != nil {
		role := UserRole(*msg.Role)
		if !role.IsValid() {
			return ErrInvalidRole
		}
		record.Role = role
	}

	if msg.IsActive != nil {
		record.IsActive = *msg.IsActive
	}

	return nil
}

func changedFields(msg UpdateUserMessage) []string {
	fields := make([]string, 0, 5)
	if msg.Email != nil {
		fields = append(fields, "email")
	}
	if msg.Password != nil {
		fields = append(fields, "password")
	}
	if msg.Name != nil {
		fields = append(fields, "name")
	}
	if msg.Role != nil {
		fields = append(fields, "role")
	}
	if msg.IsActive != nil {
		fields = append(fields, "isActive")
	}
	return fields
}
