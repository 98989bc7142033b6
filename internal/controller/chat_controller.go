package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Palpatine0/TalkThrough/internal/dto"
	"github.com/Palpatine0/TalkThrough/internal/pkg/serverutils"
	"github.com/Palpatine0/TalkThrough/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StartConversation(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	EndConversation(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("/new", c.StartConversation)
	h.Get("/stats", c.Stats)
	h.Post("/:sessionId/message", c.SendMessage)
	h.Get("/:sessionId/messages", c.GetMessages)
	h.Get("/:sessionId", c.GetSession)
	h.Delete("/:sessionId", c.EndConversation)
}

func (c *chatController) StartConversation(ctx *fiber.Ctx) error {
	var req dto.StartConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartConversation(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start conversation", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("sessionId")

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("sessionId")

	res, err := c.service.GetMessages(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("sessionId")

	res, err := c.service.GetSession(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) EndConversation(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("sessionId")

	if err := c.service.EndConversation(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *chatController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}
