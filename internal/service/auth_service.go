package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/ws"
	"gesso-pos/pkg/jwt"
	"gesso-pos/pkg/logger"
)

// DefaultSessionTimeout ends sessions that stop sending heartbeats.
const DefaultSessionTimeout = 5 * time.Minute

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresIn  int64              `json:"expires_in"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	users   repository.UserRepository
	issuer  *jwt.Issuer
	events  EventPublisher
	timeout time.Duration
	now     func() time.Time
}

func NewAuthService(users repository.UserRepository, issuer *jwt.Issuer, events EventPublisher) AuthService {
	return &authService{
		users:   users,
		issuer:  issuer,
		events:  publisherOrNop(events),
		timeout: DefaultSessionTimeout,
		now:     time.Now,
	}
}

var errInvalidCredentials = apperror.NewUnauthorized("invalid email or password")

// Login starts a single session: a new token version invalidates tokens issued before.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.NewForbidden("user account is inactive")
	}
	if !user.CheckPassword(password) {
		return nil, errInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	now := s.now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issuer.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.PrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "role", roleCode)
	return &LoginResponse{
		Token:      token,
		ExpiresIn:  int64(s.issuer.TTL().Seconds()),
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperror.NewValidation("new password must have at least 6 characters").WithDetail("field", "NewPassword")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return apperror.NewUnauthorized("current password is incorrect")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return apperror.NewInternal(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	// other sessions end with the old password
	return s.users.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.issuer.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.NewUnauthorized(err.Error())
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.NewForbidden("user account is inactive")
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, apperror.NewUnauthorized("session expired (logged in on another device)")
	}
	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > s.timeout {
		return nil, apperror.NewUnauthorized("session expired due to inactivity")
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.UpdateLastSeen(ctx, userID); err != nil {
		return err
	}
	s.events.Publish(ws.Event{
		Type: ws.EventUserStatus,
		Data: map[string]interface{}{
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": s.now(),
		},
	})
	return nil
}
