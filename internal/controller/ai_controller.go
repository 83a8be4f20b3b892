package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/guard"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/service"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	ListConversations(ctx *fiber.Ctx) error
	CreateConversation(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	UpdateConversation(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	GenerateImages(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	GetUsage(ctx *fiber.Ctx) error
}

type aiController struct {
	conversations service.IConversationService
	chat          service.IChatService
	usage         service.IUsageService
	guard         *guard.Guard
}

func NewAiController(
	conversations service.IConversationService,
	chat service.IChatService,
	usage service.IUsageService,
	g *guard.Guard,
) IAiController {
	return &aiController{
		conversations: conversations,
		chat:          chat,
		usage:         usage,
		guard:         g,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Use(c.guard.Authenticate)

	h.Get("/conversations", c.ListConversations)
	h.Post("/conversations", c.CreateConversation)
	h.Get("/conversations/:id", c.GetConversation)
	h.Put("/conversations/:id", c.UpdateConversation)
	h.Delete("/conversations/:id", c.DeleteConversation)

	h.Post("/chat", c.Chat)
	h.Post("/images", c.GenerateImages)
	h.Post("/analyze", c.Analyze)
	h.Get("/usage", c.GetUsage)
}

func (c *aiController) ListConversations(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var query dto.ListConversationsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Validation("Invalid query parameters")
	}
	if err := serverutils.ValidateStruct(&query); err != nil {
		return err
	}

	res, err := c.conversations.List(ctx.UserContext(), userID, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation list", res))
}

func (c *aiController) CreateConversation(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateConversationRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	conversation, err := c.conversations.Create(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("Conversation created successfully", fiber.Map{"conversation": conversation}))
}

func (c *aiController) GetConversation(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	conversationID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound(apperror.CodeConversationNotFound, "Conversation not found")
	}

	conversation, err := c.conversations.Get(ctx.UserContext(), userID, conversationID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation detail", fiber.Map{"conversation": conversation}))
}

func (c *aiController) UpdateConversation(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	conversationID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound(apperror.CodeConversationNotFound, "Conversation not found")
	}

	var req dto.UpdateConversationRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	conversation, err := c.conversations.Update(ctx.UserContext(), userID, conversationID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation updated successfully", fiber.Map{"conversation": conversation}))
}

func (c *aiController) DeleteConversation(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	conversationID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound(apperror.CodeConversationNotFound, "Conversation not found")
	}

	if err := c.conversations.Delete(ctx.UserContext(), userID, conversationID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation deleted successfully", nil))
}

func (c *aiController) Chat(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.chat.Chat(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("AI reply generated", res))
}

func (c *aiController) GenerateImages(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateImagesRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.chat.GenerateImages(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Images generated successfully", res))
}

func (c *aiController) Analyze(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.chat.Analyze(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Text analysis completed", res))
}

func (c *aiController) GetUsage(ctx *fiber.Ctx) error {
	userID, err := guard.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var query dto.UsageQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Validation("Invalid query parameters")
	}
	if err := serverutils.ValidateStruct(&query); err != nil {
		return err
	}

	res, err := c.usage.Query(ctx.UserContext(), userID, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage statistics", res))
}
