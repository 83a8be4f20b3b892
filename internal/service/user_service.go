package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
)

type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.AuthUserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.AuthUserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error
	ListUsers(ctx context.Context, query *dto.ListUsersQuery) (*dto.UserListResponse, error)
	UpdateUserStatus(ctx context.Context, targetID uuid.UUID, status string) (*dto.AuthUserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IUserService {
	return &userService{uowFactory: uowFactory, log: log}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.AuthUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}
	return toAuthUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.AuthUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Avatar != nil {
		user.AvatarURL = req.Avatar
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return toAuthUser(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return apperror.Internal(err)
	}
	if user == nil {
		return apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}
	if user.PasswordHash == nil {
		return apperror.BadRequest(apperror.CodeInvalidCurrentPassword, "Current password is incorrect")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.BadRequest(apperror.CodeInvalidCurrentPassword, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(err)
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return apperror.Internal(err)
	}

	s.log.Info("user", "Password changed", map[string]interface{}{
		"userId": user.Id.String(),
	})
	return nil
}

func (s *userService) ListUsers(ctx context.Context, query *dto.ListUsersQuery) (*dto.UserListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := make([]specification.Specification, 0, 3)
	if query.Search != "" {
		filters = append(filters, specification.SearchUsers{Term: query.Search})
	}
	if query.Role != "" {
		filters = append(filters, specification.Filter("role", query.Role))
	}
	if query.Status != "" {
		filters = append(filters, specification.Filter("status", query.Status))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.UserRepository().Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	listSpecs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	users, err := uow.UserRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := make([]*dto.AuthUserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, toAuthUser(user))
	}

	return &dto.UserListResponse{
		Users: result,
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *userService) UpdateUserStatus(ctx context.Context, targetID uuid.UUID, status string) (*dto.AuthUserResponse, error) {
	switch entity.UserStatus(status) {
	case entity.UserStatusActive, entity.UserStatusInactive, entity.UserStatusBanned:
	default:
		return nil, apperror.BadRequest(apperror.CodeInvalidStatus, "Invalid user status")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: targetID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}

	user.Status = entity.UserStatus(status)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	s.log.Info("user", "User status updated", map[string]interface{}{
		"userId": user.Id.String(),
		"status": status,
	})
	return toAuthUser(user), nil
}
