package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyswaps/learning-service/internal/auth"
	"github.com/studyswaps/learning-service/internal/email"
	"github.com/studyswaps/learning-service/internal/events"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"github.com/studyswaps/learning-service/internal/validator"
	"gorm.io/gorm"
)

// MaxUsernameAttempts bounds how many random suffixes are tried per child
const MaxUsernameAttempts = 5

// UsernameSource proposes a child username; auth.ChildUsername unless replaced
type UsernameSource func(firstName, lastName string) (string, error)

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	mailer    email.Sender
	publisher events.EventPublisher
	validator *validator.Validator
	siteURL   string
	usernames UsernameSource
	logger    *slog.Logger
	ops       *ServiceLogger
}

func NewAuthService(
	repo repositories.Repository,
	tokens *auth.TokenManager,
	mailer email.Sender,
	publisher events.EventPublisher,
	validator *validator.Validator,
	siteURL string,
	usernames UsernameSource,
	logger *slog.Logger,
) AuthService {
	if usernames == nil {
		usernames = auth.ChildUsername
	}
	return &authService{
		repo:      repo,
		tokens:    tokens,
		mailer:    mailer,
		publisher: publisher,
		validator: validator,
		siteURL:   strings.TrimSuffix(siteURL, "/"),
		usernames: usernames,
		logger:    logger,
		ops:       NewServiceLogger(logger, "auth"),
	}
}

// ===== REGISTRATION =====

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (resp *RegisterResponse, err error) {
	op := s.ops.WithOperation(ctx, "register", "")
	defer func() {
		id := ""
		if resp != nil {
			id = resp.User.ID
		}
		op.LogResult(id, err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	parent := &models.User{
		Email:     &emailAddr,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      models.RoleParent,
		IsActive:  true,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		parent.PasswordHash = hash
	}

	var children []ChildCredentialResponse
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		exists, err := s.repo.User().ExistsByEmail(ctx, tx, emailAddr)
		if err != nil {
			return storeError("check email", err)
		}
		if exists {
			return ErrEmailTaken
		}

		if err := s.repo.User().Create(ctx, tx, parent); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrEmailTaken
			}
			return storeError("create parent", err)
		}

		children = make([]ChildCredentialResponse, 0, len(req.Children))
		for _, in := range req.Children {
			cred, err := s.createChild(ctx, tx, parent.ID, in)
			if err != nil {
				return err
			}
			children = append(children, *cred)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Registered parent account",
		"user_id", parent.ID,
		"children_count", len(children))

	token, err := s.tokens.Issue(parent.ID, string(parent.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	emailSent := s.sendChildCredentials(ctx, parent, children)

	if len(children) > 0 {
		ids := make([]string, len(children))
		for i, c := range children {
			ids[i] = c.ID
		}
		s.publish(ctx, events.NewEvent(events.EventChildAccountsCreated, events.ChildAccountsCreatedEvent{
			ParentID:  parent.ID,
			ChildIDs:  ids,
			EmailSent: emailSent,
		}))
	}

	return &RegisterResponse{
		User:      parent,
		Children:  children,
		Token:     token,
		EmailSent: emailSent,
	}, nil
}

// createChild inserts one child, retrying the random username suffix on collision
func (s *authService) createChild(ctx context.Context, tx *gorm.DB, parentID string, in ChildInput) (*ChildCredentialResponse, error) {
	password := auth.ChildPassword(in.FirstName)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash child password: %w", err)
	}

	age := in.Age
	keyStage := in.KeyStage

	for attempt := 1; attempt <= MaxUsernameAttempts; attempt++ {
		username, err := s.usernames(in.FirstName, in.LastName)
		if err != nil {
			return nil, fmt.Errorf("failed to generate username: %w", err)
		}

		taken, err := s.repo.User().UsernameExists(ctx, tx, username)
		if err != nil {
			return nil, storeError("check username", err)
		}
		if taken {
			continue
		}

		pid := parentID
		child := &models.User{
			FirstName:           strings.TrimSpace(in.FirstName),
			LastName:            strings.TrimSpace(in.LastName),
			Role:                models.RoleStudent,
			ParentID:            &pid,
			Age:                 &age,
			KeyStage:            &keyStage,
			StudentUsername:     &username,
			StudentPasswordHash: hash,
			IsActive:            true,
		}
		// Savepoint so a unique violation does not abort the surrounding transaction
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.repo.User().Create(ctx, sp, child)
		})
		if err != nil {
			if repositories.IsDuplicateKeyError(err) {
				continue
			}
			return nil, storeError("create child", err)
		}

		return &ChildCredentialResponse{
			ID:        child.ID,
			FirstName: child.FirstName,
			LastName:  child.LastName,
			Username:  username,
			Password:  password,
			Age:       age,
			KeyStage:  keyStage,
		}, nil
	}

	s.logger.ErrorContext(ctx, "Exhausted username attempts",
		"parent_id", parentID,
		"first_name", in.FirstName,
		"attempts", MaxUsernameAttempts)
	return nil, ErrUsernameExhausted
}

// sendChildCredentials never fails registration; the outcome is reported to the caller
func (s *authService) sendChildCredentials(ctx context.Context, parent *models.User, children []ChildCredentialResponse) bool {
	if len(children) == 0 || parent.Email == nil {
		return false
	}

	msg := email.ChildCredentialsMessage{
		ParentEmail: *parent.Email,
		ParentName:  parent.FirstName,
		LoginURL:    s.siteURL + "/child-login",
	}
	for _, c := range children {
		msg.Children = append(msg.Children, email.ChildCredentials{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Username:  c.Username,
			Password:  c.Password,
			Age:       c.Age,
			KeyStage:  string(c.KeyStage),
		})
	}

	if err := s.mailer.SendChildCredentials(ctx, msg); err != nil {
		if errors.Is(err, email.ErrDisabled) {
			s.logger.InfoContext(ctx, "Email disabled, child credentials not sent", "user_id", parent.ID)
		} else {
			s.logger.ErrorContext(ctx, "Failed to send child credentials email",
				"user_id", parent.ID,
				"error", err)
		}
		return false
	}
	return true
}

// ===== LOGIN =====

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.User().GetByEmail(ctx, nil, emailAddr)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.ops.LogSecurityEvent(ctx, SecurityEventFailedLogin, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("load user", err)
	}
	if user.IsChild() || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.ops.LogSecurityEvent(ctx, SecurityEventFailedLogin, "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *authService) ChildLogin(ctx context.Context, req *ChildLoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.ops.LogSecurityEvent(ctx, SecurityEventFailedLogin, "unknown child username")
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("load user", err)
	}
	if user.Role != models.RoleStudent || !auth.CheckPassword(user.StudentPasswordHash, req.Password) {
		s.ops.LogSecurityEvent(ctx, SecurityEventFailedLogin, "child password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *authService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	if !user.IsActive {
		s.ops.LogSecurityEvent(ctx, SecurityEventInactiveLogin, "login to inactive account", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID, "role", user.Role)
	return &AuthResponse{User: user, Token: token}, nil
}

// ===== SESSION =====

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("load user", err)
	}
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.repo.User().GetByID(ctx, nil, claims.Subject)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		return nil, storeError("load user", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// ===== EVENTS =====

func (s *authService) publish(ctx context.Context, event *events.Event) {
	publishEvent(ctx, s.publisher, s.logger, event)
}
