package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/guard"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/service"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	guard   *guard.Guard
}

func NewUserController(service service.IUserService, g *guard.Guard) IUserController {
	return &userController{service: service, guard: g}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Use(c.guard.Authenticate)
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Put("/password", c.ChangePassword)

	admin := h.Group("", c.guard.RequireRole(entity.UserRoleAdmin))
	admin.Get("/", c.ListUsers)
	admin.Put("/:id/status", c.UpdateUserStatus)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	profile, err := c.service.GetProfile(ctx.UserContext(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", fiber.Map{"user": profile}))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	profile, err := c.service.UpdateProfile(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated successfully", fiber.Map{"user": profile}))
}

func (c *userController) ChangePassword(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.service.ChangePassword(ctx.UserContext(), userID, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Password changed successfully", nil))
}

func (c *userController) ListUsers(ctx *fiber.Ctx) error {
	var query dto.ListUsersQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Validation("Invalid query parameters")
	}
	if err := serverutils.ValidateStruct(&query); err != nil {
		return err
	}

	res, err := c.service.ListUsers(ctx.UserContext(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User list", res))
}

func (c *userController) UpdateUserStatus(ctx *fiber.Ctx) error {
	targetID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("Invalid user id")
	}

	var req dto.UpdateUserStatusRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	user, err := c.service.UpdateUserStatus(ctx.UserContext(), targetID, req.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User status updated", fiber.Map{"user": user}))
}
