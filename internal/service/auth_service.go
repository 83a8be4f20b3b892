package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/guard"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
	"ai-gateway-be/pkg/events"
	pktNats "ai-gateway-be/pkg/nats"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	Logout(ctx context.Context) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	issuer         *guard.TokenIssuer
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	issuer *guard.TokenIssuer,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		issuer:         issuer,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmailOrUsername{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(apperror.CodeUserExists, "Username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashStr,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeUserRegistered, map[string]interface{}{
		"userId":   user.Id.String(),
		"username": user.Username,
		"email":    user.Email,
	})

	s.log.Info("auth", "User registered", map[string]interface{}{
		"userId": user.Id.String(),
		"email":  user.Email,
	})

	return &dto.AuthResponse{User: toAuthUser(user), Tokens: *tokens}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Unauthenticated(apperror.CodeInvalidCredentials, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthenticated(apperror.CodeInvalidCredentials, "Invalid email or password")
	}

	if !user.IsActive() {
		return nil, apperror.Unauthenticated(apperror.CodeAccountDisabled, "Account is disabled")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.log.Warn("auth", "Failed to record last login", map[string]interface{}{
			"userId": user.Id.String(),
			"error":  err.Error(),
		})
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeUserLogin, map[string]interface{}{
		"userId": user.Id.String(),
		"email":  user.Email,
	})

	return &dto.AuthResponse{User: toAuthUser(user), Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. Both
// tokens rotate; the old refresh token simply ages out since tokens are
// stateless.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	userID, _, err := s.issuer.ParseSubject(refreshToken)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || !user.IsActive() {
		return nil, apperror.Unauthenticated(apperror.CodeInvalidUser, "User not found or inactive")
	}

	return s.issueTokens(user)
}

// Logout is a no-op server side: tokens are stateless and expire on
// their own. The endpoint exists so clients have a uniform flow.
func (s *authService) Logout(ctx context.Context) error {
	return nil
}

func (s *authService) issueTokens(user *entity.User) (*dto.TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	refresh, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{Type: eventType, Data: payload, OccurredAt: time.Now()}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("auth", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toAuthUser(user *entity.User) *dto.AuthUserResponse {
	res := &dto.AuthUserResponse{
		Id:          user.Id,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
	if user.AvatarURL != nil {
		res.Avatar = *user.AvatarURL
	}
	return res
}
