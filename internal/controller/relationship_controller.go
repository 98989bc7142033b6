package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Palpatine0/TalkThrough/internal/dto"
	"github.com/Palpatine0/TalkThrough/internal/pkg/serverutils"
	"github.com/Palpatine0/TalkThrough/internal/service"
)

type IRelationshipController interface {
	RegisterRoutes(r fiber.Router)
	GetTypes(ctx *fiber.Ctx) error
	GetSurvey(ctx *fiber.Ctx) error
	ValidateAnswers(ctx *fiber.Ctx) error
}

type relationshipController struct {
	service service.IRelationshipService
}

func NewRelationshipController(service service.IRelationshipService) IRelationshipController {
	return &relationshipController{service: service}
}

func (c *relationshipController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/relationships/v1")
	h.Get("/types", c.GetTypes)
	h.Get("/survey/:type", c.GetSurvey)
	h.Post("/validate", c.ValidateAnswers)
}

func (c *relationshipController) GetTypes(ctx *fiber.Ctx) error {
	res := c.service.GetCategories(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get relationship types", res))
}

func (c *relationshipController) GetSurvey(ctx *fiber.Ctx) error {
	relationshipType := ctx.Params("type")

	res, err := c.service.GetSurveyQuestions(ctx.Context(), relationshipType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get survey questions", res))
}

func (c *relationshipController) ValidateAnswers(ctx *fiber.Ctx) error {
	var req dto.ValidateAnswersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ValidateAnswers(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success validate answers", res))
}
