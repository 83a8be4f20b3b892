package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/guard"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Dashboard(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	Settings(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	users   service.IUserService
	guard   *guard.Guard
}

func NewAdminController(service service.IAdminService, users service.IUserService, g *guard.Guard) IAdminController {
	return &adminController{service: service, users: users, guard: g}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(c.guard.Authenticate)
	h.Use(c.guard.RequireRole(entity.UserRoleAdmin))

	h.Get("/dashboard", c.Dashboard)
	h.Get("/users", c.ListUsers)
	h.Get("/settings", c.Settings)
	h.Get("/logs", c.Logs)
}

func (c *adminController) Dashboard(ctx *fiber.Ctx) error {
	res, err := c.service.Dashboard(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	var query dto.ListUsersQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Validation("Invalid query parameters")
	}
	if err := serverutils.ValidateStruct(&query); err != nil {
		return err
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	res, err := c.users.ListUsers(ctx.UserContext(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User list", res))
}

func (c *adminController) Settings(ctx *fiber.Ctx) error {
	res, err := c.service.Settings(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System settings", res))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	var query dto.LogsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Validation("Invalid query parameters")
	}
	if err := serverutils.ValidateStruct(&query); err != nil {
		return err
	}

	entries, err := c.service.Logs(ctx.UserContext(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Application logs", fiber.Map{"logs": entries}))
}
