package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
	"timeboss-backend/notifier"
	"timeboss-backend/repository"
	"timeboss-backend/utils"
	"timeboss-backend/utils/logger"
)

// ResetTokenTTL is how long a password reset token stays valid
const ResetTokenTTL = time.Hour

type UserService struct {
	users  repository.UserStore
	crews  repository.RosterStore
	queue  Enqueuer
	mu     sync.Mutex
	logger logger.Logger
	now    func() time.Time
}

// NewUserService creates a new user service. queue delivers reset tokens and may be nil.
func NewUserService(users repository.UserStore, crews repository.RosterStore, queue Enqueuer, logger logger.Logger) *UserService {
	return &UserService{
		users:  users,
		crews:  crews,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// Signup registers an account. The first account becomes admin, later ones crew.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	role := models.UserRoleCrew
	if len(users) == 0 {
		role = models.UserRoleAdmin
	}
	return s.create(ctx, users, req.Username, req.Password, role, nil)
}

// Login checks credentials and stamps the login time. Unknown users and wrong passwords
// fail the same way.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	user := findUserByName(users, req.Username)
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warnf("Failed login for %s", req.Username)
		return nil, apperrors.ErrUnauthorized
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, apperrors.Wrap("save user", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.loadUsers(ctx)
}

// CreateUser adds an account with an explicit role. Crew accounts need an existing crew.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	crewID, err := s.crewBinding(ctx, req.Role, req.CrewID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, users, req.Username, req.Password, req.Role, crewID)
}

// UpdateUser changes the role and crew binding of an account
func (s *UserService) UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	var user *models.User
	for _, u := range users {
		if u.ID == userID {
			user = u
		}
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user", userID)
	}

	role := user.Role
	if req.Role != "" {
		role = req.Role
	}
	requested := req.CrewID
	if requested == nil && role == models.UserRoleCrew {
		requested = user.CrewID
	}
	crewID, err := s.crewBinding(ctx, role, requested)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.CrewID = crewID
	user.UpdatedAt = s.now()
	if err := s.users.SaveUser(ctx, user); err != nil {
		s.logger.Errorf("Failed to update user %d: %v", userID, err)
		return nil, apperrors.Wrap("save user", err)
	}
	s.logger.Infof("User %d updated: role=%s", userID, role)
	return user, nil
}

// RequestPasswordReset issues a one hour reset token for username. An unknown username
// returns an empty token and no error, so the response does not reveal which accounts exist.
func (s *UserService) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return "", err
	}
	user := findUserByName(users, username)
	if user == nil {
		s.logger.Infof("Password reset requested for unknown user %s", username)
		return "", nil
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.Wrap("generate reset token", err)
	}
	token := hex.EncodeToString(raw)
	now := s.now()
	user.Reset = &models.PasswordReset{TokenHash: hashResetToken(token), ExpiresAt: now.Add(ResetTokenTTL)}
	user.UpdatedAt = now
	if err := s.users.SaveUser(ctx, user); err != nil {
		return "", apperrors.Wrap("save user", err)
	}

	s.logger.Infof("Password reset token issued for user %d", user.ID)
	s.deliverResetToken(user, token, now)
	return token, nil
}

// deliverResetToken mails the token when the username is an e-mail address
func (s *UserService) deliverResetToken(user *models.User, token string, now time.Time) {
	if s.queue == nil || !strings.Contains(user.Username, "@") {
		return
	}
	body := fmt.Sprintf("Use this token to reset your password within the next hour:\n\n%s", token)
	msg := notifier.EmailMessage(models.NotificationPasswordReset, user.Username, "Password reset", body, now)
	if !s.queue.Enqueue(msg) {
		s.logger.Warnf("Password reset e-mail for user %d not queued", user.ID)
	}
}

// ResetPassword sets a new password when token matches the pending reset. The reset is
// single use and tokens issued before the change stop working.
func (s *UserService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	user := findUserByName(users, req.Username)
	if user == nil || user.Reset == nil {
		return apperrors.NewValidation("token", "Invalid token")
	}
	now := s.now()
	if now.After(user.Reset.ExpiresAt) {
		return apperrors.NewValidation("token", "Token expired")
	}
	if subtle.ConstantTimeCompare([]byte(hashResetToken(req.Token)), []byte(user.Reset.TokenHash)) != 1 {
		s.logger.Warnf("Invalid reset token for user %d", user.ID)
		return apperrors.NewValidation("token", "Invalid token")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Wrap("hash password", err)
	}
	user.PasswordHash = hash
	user.Reset = nil
	user.PasswordChangedAt = &now
	user.UpdatedAt = now
	if err := s.users.SaveUser(ctx, user); err != nil {
		s.logger.Errorf("Failed to reset password for user %d: %v", user.ID, err)
		return apperrors.Wrap("save user", err)
	}
	s.logger.Infof("Password updated for user %d", user.ID)
	return nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(token)))
	return hex.EncodeToString(sum[:])
}

func (s *UserService) create(ctx context.Context, users []*models.User, username, password string, role models.UserRole, crewID *int) (*models.User, error) {
	username = strings.TrimSpace(username)
	if findUserByName(users, username) != nil {
		return nil, apperrors.ErrUserExists
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap("hash password", err)
	}

	next := 1
	for _, u := range users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	now := s.now()
	user := &models.User{
		ID:           next,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CrewID:       crewID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		s.logger.Errorf("Failed to create user: %v", err)
		return nil, apperrors.Wrap("save user", err)
	}

	s.logger.Infof("User created successfully: %d (%s)", user.ID, user.Role)
	return user, nil
}

// crewBinding validates the crew of a crew account; other roles carry no crew
func (s *UserService) crewBinding(ctx context.Context, role models.UserRole, crewID *int) (*int, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidation("role", "unknown role "+string(role))
	}
	if role != models.UserRoleCrew {
		return nil, nil
	}
	if crewID == nil {
		return nil, apperrors.NewValidation("crewId", "crewId is required for crew users")
	}
	crews, err := s.crews.LoadCrews(ctx)
	if err != nil {
		return nil, apperrors.Wrap("load crews", err)
	}
	if findCrew(crews, *crewID) == nil {
		return nil, apperrors.NewNotFound("crew", *crewID)
	}
	id := *crewID
	return &id, nil
}

func (s *UserService) loadUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, apperrors.Wrap("load users", err)
	}
	return users, nil
}

func findUserByName(users []*models.User, username string) *models.User {
	username = strings.TrimSpace(username)
	for _, u := range users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
